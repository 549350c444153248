// Package r5 provides the FHIR R5 structures used to report document validation results.
package r5

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
)

// Meta contains metadata about a resource.
type Meta struct {
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
	Source      string    `json:"source,omitempty"`
	Profile     []string  `json:"profile,omitempty"`
	Tag         []Coding  `json:"tag,omitempty"`
}

// CodeableConcept represents a concept with text and codings.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Coding represents a code from a terminology system.
type Coding struct {
	System  string `json:"system,omitempty"`
	Version string `json:"version,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Code systems referenced from outcomes
const (
	SystemIssueType = "http://hl7.org/fhir/issue-type"
	SystemSNOMED    = "http://snomed.info/sct"
	SystemLOINC     = "http://loinc.org"
	SystemOIDPrefix = "urn:oid:"
)

// NewCodeableConcept renders a document coded term. Known terminologies use
// their canonical URL, others their OID as a URN.
func NewCodeableConcept(t *common.CodedTerm) *CodeableConcept {
	if t == nil {
		return nil
	}
	cc := &CodeableConcept{Text: t.Narrative()}
	if t.HasCodeSystem() {
		cc.Coding = append(cc.Coding, Coding{
			System:  systemURL(t.CodeSystemCode),
			Version: t.CodeSystemVersion,
			Code:    t.Code,
			Display: t.DisplayName,
		})
	}
	for _, tr := range t.Translations {
		if tr.HasCodeSystem() {
			cc.Coding = append(cc.Coding, Coding{System: systemURL(tr.CodeSystemCode), Code: tr.Code, Display: tr.DisplayName})
		}
	}
	return cc
}

var knownSystems = map[string]string{
	codes.SNOMEDCTAU.OID: SystemSNOMED,
	codes.LOINC.OID:      SystemLOINC,
}

func systemURL(oid string) string {
	if url, ok := knownSystems[oid]; ok {
		return url
	}
	return SystemOIDPrefix + oid
}

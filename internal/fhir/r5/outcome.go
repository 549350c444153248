package r5

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// ContentType is the media type of FHIR JSON resources
const ContentType = "application/fhir+json"

// Issue severities
const (
	SeverityFatal       = "fatal"
	SeverityError       = "error"
	SeverityWarning     = "warning"
	SeverityInformation = "information"
)

// Issue types
const (
	IssueInvalid       = "invalid"
	IssueStructure     = "structure"
	IssueRequired      = "required"
	IssueValue         = "value"
	IssueBusinessRule  = "business-rule"
	IssueCodeInvalid   = "code-invalid"
	IssueNotSupported  = "not-supported"
	IssueException     = "exception"
	IssueSecurity      = "security"
	IssueNotFound      = "not-found"
	IssueInformational = "informational"
)

// OperationOutcome represents errors and warnings from FHIR operations.
type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Meta         *Meta                   `json:"meta,omitempty"`
	Issue        []OperationOutcomeIssue `json:"issue"`
}

// OperationOutcomeIssue represents a single issue in an OperationOutcome.
type OperationOutcomeIssue struct {
	Severity    string           `json:"severity"`
	Code        string           `json:"code"`
	Details     *CodeableConcept `json:"details,omitempty"`
	Diagnostics string           `json:"diagnostics,omitempty"`
	Expression  []string         `json:"expression,omitempty"`
}

// NewOperationOutcome creates a new OperationOutcome with the given issues.
func NewOperationOutcome(issues ...OperationOutcomeIssue) *OperationOutcome {
	return &OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue:        issues,
	}
}

// NewErrorOutcome creates an OperationOutcome with a single error issue.
func NewErrorOutcome(code, diagnostics string) *OperationOutcome {
	return NewOperationOutcome(OperationOutcomeIssue{
		Severity:    SeverityError,
		Code:        code,
		Diagnostics: diagnostics,
	})
}

// IssueType maps a violation kind onto the FHIR issue type
func IssueType(k validation.Kind) string {
	switch k {
	case validation.KindRequired:
		return IssueRequired
	case validation.KindRange, validation.KindFormat:
		return IssueValue
	case validation.KindChoice, validation.KindBusinessRule:
		return IssueBusinessRule
	case validation.KindCodeSystem:
		return IssueCodeInvalid
	}
	return IssueInvalid
}

// NewValidationOutcome renders the violations of one document. A document
// without violations gets a single informational issue, since an outcome
// must carry at least one.
func NewValidationOutcome(documentType *common.CodedTerm, msgs []validation.Message, at time.Time) *OperationOutcome {
	out := NewOperationOutcome()
	out.Meta = &Meta{LastUpdated: at.UTC()}
	if cc := NewCodeableConcept(documentType); cc != nil {
		out.Meta.Tag = cc.Coding
	}

	if len(msgs) == 0 {
		out.Issue = []OperationOutcomeIssue{{
			Severity:    SeverityInformation,
			Code:        IssueInformational,
			Diagnostics: "Document is valid",
		}}
		return out
	}

	out.Issue = make([]OperationOutcomeIssue, 0, len(msgs))
	for _, m := range msgs {
		code := IssueType(m.Kind)
		issue := OperationOutcomeIssue{
			Severity: SeverityError,
			Code:     code,
			Details: &CodeableConcept{
				Coding: []Coding{{System: SystemIssueType, Code: code}},
				Text:   m.Text,
			},
			Diagnostics: m.Value,
		}
		if m.Path != "" {
			issue.Expression = []string{m.Path}
		}
		out.Issue = append(out.Issue, issue)
	}
	return out
}

// HasErrors reports whether any issue is an error or fatal
func (o *OperationOutcome) HasErrors() bool {
	for _, i := range o.Issue {
		if i.Severity == SeverityError || i.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

package common

import (
	"fmt"

	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// CodedTerm is a concept drawn from a code system, or free text, or a null flavor
type CodedTerm struct {
	Code              string           `json:"code,omitempty"`
	CodeSystemCode    string           `json:"codeSystem,omitempty"`
	CodeSystemName    string           `json:"codeSystemName,omitempty"`
	CodeSystemVersion string           `json:"codeSystemVersion,omitempty"`
	DisplayName       string           `json:"displayName,omitempty"`
	OriginalText      string           `json:"originalText,omitempty"`
	NullFlavor        codes.NullFlavor `json:"nullFlavor,omitempty"`
	Translations      []*CodedTerm     `json:"translations,omitempty"`
	Qualifiers        []*Qualifier     `json:"qualifiers,omitempty"`
}

// Qualifier refines a coded term, e.g. laterality
type Qualifier struct {
	Name  *CodedTerm `json:"name,omitempty"`
	Value *CodedTerm `json:"value,omitempty"`
}

// NewCodedTerm creates a term coded in the given system
func NewCodedTerm(code, displayName string, system codes.CodingSystem) *CodedTerm {
	return &CodedTerm{
		Code:           code,
		CodeSystemCode: system.OID,
		CodeSystemName: system.Name,
		DisplayName:    displayName,
	}
}

// NewOriginalText creates an uncoded free text term
func NewOriginalText(text string) *CodedTerm {
	return &CodedTerm{OriginalText: text}
}

// NewNullFlavorTerm creates a term that only states why the value is absent
func NewNullFlavorTerm(nf codes.NullFlavor) *CodedTerm {
	return &CodedTerm{NullFlavor: nf}
}

// HasCodeSystem reports whether a code system is specified
func (c *CodedTerm) HasCodeSystem() bool {
	return c != nil && c.CodeSystemCode != ""
}

// Narrative returns the human readable form: original text, else display
// name, else the null flavor label.
func (c *CodedTerm) Narrative() string {
	switch {
	case c == nil:
		return ""
	case c.OriginalText != "":
		return c.OriginalText
	case c.DisplayName != "":
		return c.DisplayName
	case c.NullFlavor != "":
		return c.NullFlavor.Label()
	}
	return ""
}

// Validate checks the term and, recursively, its translations and qualifiers
func (c *CodedTerm) Validate(path string, v *validation.Validator) {
	if c == nil {
		return
	}
	if c.Code != "" && !c.HasCodeSystem() {
		v.AddMessage(validation.Field(path, "Code"), c.Code,
			"Code can only be provided if a CodeSystem is specified")
	}
	if c.DisplayName != "" && !c.HasCodeSystem() {
		v.AddMessage(validation.Field(path, "DisplayName"), c.DisplayName,
			"DisplayName can only be provided if a CodeSystem is specified")
	}
	if validation.IsEmpty(c.DisplayName) && validation.IsEmpty(c.OriginalText) && c.NullFlavor == "" {
		v.Add(validation.KindRequired, path, "",
			"One of DisplayName, OriginalText or NullFlavor must be provided")
	}
	if c.NullFlavor != "" && !c.NullFlavor.Valid() {
		v.Add(validation.KindInvalid, validation.Field(path, "NullFlavor"), string(c.NullFlavor),
			"NullFlavor is not a recognised value")
	}
	if len(c.Qualifiers) > 0 {
		v.RequireNonEmpty(validation.Field(path, "OriginalText"), c.OriginalText)
	}

	for i, t := range c.Translations {
		t.Validate(validation.Index(path, "Translations", i), v)
	}
	for i, q := range c.Qualifiers {
		qPath := validation.Index(path, "Qualifiers", i)
		if !v.RequireNonEmpty(qPath, q) {
			continue
		}
		if v.RequireNonEmpty(validation.Field(qPath, "Name"), q.Name) {
			q.Name.Validate(validation.Field(qPath, "Name"), v)
		}
		if v.RequireNonEmpty(validation.Field(qPath, "Value"), q.Value) {
			q.Value.Validate(validation.Field(qPath, "Value"), v)
		}
	}
}

// CheckCodeSystem records a violation when a coded term uses a system other
// than want. Uncoded terms pass: they are covered by CodedTerm.Validate.
func CheckCodeSystem(path string, term *CodedTerm, want codes.CodingSystem, v *validation.Validator) bool {
	if !term.HasCodeSystem() || term.CodeSystemCode == want.OID {
		return true
	}
	v.Add(validation.KindCodeSystem, validation.Field(path, "CodeSystemCode"), term.CodeSystemCode,
		fmt.Sprintf("Code must be drawn from %s (%s)", want.Name, want.OID))
	return false
}

// RequireCoded validates a mandatory coded term that must come from want
func RequireCoded(path string, term *CodedTerm, want codes.CodingSystem, v *validation.Validator) {
	if !v.RequireNonEmpty(path, term) {
		return
	}
	term.Validate(path, v)
	CheckCodeSystem(path, term, want, v)
}

// Package common provides the building blocks shared by every clinical document
// variant: identifiers, coded terms, parties, participations and lineage.
package common

import (
	"regexp"
	"strings"

	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
	"github.com/google/uuid"
)

const uuidURNPrefix = "urn:uuid:"

var (
	oidPattern       = regexp.MustCompile(`^[0-2](\.(0|[1-9][0-9]*))*$`)
	healthcareDigits = regexp.MustCompile(`^\d{16}$`)
)

// Identifier is an instance identifier (II). Root is an OID or a UUID; the
// optional extension is unique within the root.
type Identifier struct {
	Root                    string           `json:"root,omitempty"`
	Extension               string           `json:"extension,omitempty"`
	AssigningAuthorityName  string           `json:"assigningAuthorityName,omitempty"`
	AssigningGeographicArea string           `json:"assigningGeographicArea,omitempty"`
	Code                    *CodedTerm       `json:"code,omitempty"`
	NullFlavor              codes.NullFlavor `json:"nullFlavor,omitempty"`
}

// NewIdentifier creates an identifier from a root and an optional extension
func NewIdentifier(root, extension string) *Identifier {
	return &Identifier{Root: root, Extension: extension}
}

// NewUUIDIdentifier creates an identifier with a random UUID root
func NewUUIDIdentifier() *Identifier {
	return &Identifier{Root: uuid.NewString()}
}

// NewIHI creates an Individual Healthcare Identifier for a 16 digit number
func NewIHI(number string) *Identifier {
	return healthcareIdentifier(number, "IHI")
}

// NewHPII creates a Healthcare Provider Identifier (individual)
func NewHPII(number string) *Identifier {
	return healthcareIdentifier(number, "HPI-I")
}

// NewHPIO creates a Healthcare Provider Identifier (organisation)
func NewHPIO(number string) *Identifier {
	return healthcareIdentifier(number, "HPI-O")
}

func healthcareIdentifier(number, authority string) *Identifier {
	return &Identifier{
		Root:                    codes.HealthcareIdentifierRoot + "." + number,
		AssigningAuthorityName:  authority,
		AssigningGeographicArea: "National Identifier",
	}
}

// NewUnknownIdentifier creates an identifier whose value is unknown
func NewUnknownIdentifier() *Identifier {
	return &Identifier{NullFlavor: codes.NullFlavorUnknown}
}

// HealthcareNumber returns the 16 digit number of an IHI, HPI-I or HPI-O
// identifier, or "" when the root is not under the healthcare identifier arc.
func (id *Identifier) HealthcareNumber() string {
	if id == nil {
		return ""
	}
	number, ok := strings.CutPrefix(id.Root, codes.HealthcareIdentifierRoot+".")
	if !ok || !healthcareDigits.MatchString(number) {
		return ""
	}
	return number
}

// IsIHI reports whether the identifier holds an IHI number
func (id *Identifier) IsIHI() bool {
	return strings.HasPrefix(id.HealthcareNumber(), codes.IHIPrefix)
}

// IsHPII reports whether the identifier holds an HPI-I number
func (id *Identifier) IsHPII() bool {
	return strings.HasPrefix(id.HealthcareNumber(), codes.HPIIPrefix)
}

// Equal compares root and extension. UUID roots compare case-insensitively.
func (id *Identifier) Equal(other *Identifier) bool {
	if id == nil || other == nil {
		return id == other
	}
	return strings.EqualFold(id.Root, other.Root) && id.Extension == other.Extension
}

func (id *Identifier) String() string {
	if id == nil {
		return ""
	}
	if id.NullFlavor != "" {
		return "nullFlavor=" + string(id.NullFlavor)
	}
	if id.Extension == "" {
		return id.Root
	}
	return id.Root + "^" + id.Extension
}

// Validate checks the identifier. An Unknown NullFlavor excludes every other
// field; otherwise Root must be an OID or a UUID and never a urn:uuid URI.
func (id *Identifier) Validate(path string, v *validation.Validator) {
	if id == nil {
		return
	}
	if id.NullFlavor != "" {
		if id.NullFlavor != codes.NullFlavorUnknown {
			v.Add(validation.KindInvalid, validation.Field(path, "NullFlavor"), string(id.NullFlavor),
				"Only the Unknown NullFlavor may be used on an identifier")
		}
		if id.Root != "" || id.Extension != "" || id.AssigningAuthorityName != "" ||
			id.AssigningGeographicArea != "" || id.Code != nil {
			v.AddMessage(path, "", "An identifier with a NullFlavor must not carry any other value")
		}
		return
	}

	rootPath := validation.Field(path, "Root")
	if !v.RequireNonEmpty(rootPath, id.Root) {
		return
	}
	if !v.CheckForbiddenSubstring(rootPath, id.Root, uuidURNPrefix) {
		return
	}
	if !IsOID(id.Root) && !IsUUID(id.Root) {
		v.Add(validation.KindFormat, rootPath, id.Root, "Root must be an OID or a UUID")
	}
	if id.Code != nil {
		id.Code.Validate(validation.Field(path, "Code"), v)
	}
}

// IsOID reports whether s is a dotted-decimal object identifier
func IsOID(s string) bool {
	return oidPattern.MatchString(s)
}

// IsUUID reports whether s is a bare UUID in 8-4-4-4-12 form
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return uuid.Validate(s) == nil
}

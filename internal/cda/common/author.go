package common

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Author is the document author. Exactly one shape is populated.
type Author struct {
	Time                  time.Time
	HealthcareProvider    *PartyRole
	NonHealthcareProvider *PartyRole
	Device                *AuthoringDevice
}

// AuthoringDevice is a system that generated the document without a human author
type AuthoringDevice struct {
	SoftwareName string
	Manufacturer string
	Version      string
	Identifiers  []*Identifier
}

// AuthorRules selects the author shapes a variant accepts
type AuthorRules struct {
	HealthcareProvider    bool
	NonHealthcareProvider bool
	Device                bool
	RequireTime           bool
	// RequireProviderID demands an HPI-I on healthcare provider authors
	RequireProviderID bool
}

// NewProviderAuthor creates an author that is a healthcare provider
func NewProviderAuthor(role *PartyRole) *Author {
	return &Author{HealthcareProvider: role}
}

// NewConsumerAuthor creates an author that is not a healthcare provider
func NewConsumerAuthor(role *PartyRole) *Author {
	return &Author{NonHealthcareProvider: role}
}

// NewDeviceAuthor creates an author that is a device
func NewDeviceAuthor(d *AuthoringDevice) *Author {
	return &Author{Device: d}
}

// Validate discriminates the populated shape and applies that shape's
// required fields. A shape the variant does not accept is a violation.
func (a *Author) Validate(path string, v *validation.Validator, rules AuthorRules) {
	if a == nil {
		return
	}
	if rules.RequireTime {
		v.RequireNonEmpty(validation.Field(path, "Time"), a.Time)
	}
	if !v.CheckChoice(path,
		validation.Choice{Name: "HealthcareProvider", Value: a.HealthcareProvider},
		validation.Choice{Name: "NonHealthcareProvider", Value: a.NonHealthcareProvider},
		validation.Choice{Name: "Device", Value: a.Device},
	) {
		return
	}

	switch {
	case a.HealthcareProvider != nil:
		p := validation.Field(path, "HealthcareProvider")
		if !rules.HealthcareProvider {
			v.AddMessage(p, "", "A healthcare provider author is not permitted for this document type")
			return
		}
		a.HealthcareProvider.Validate(p, v, RoleRequirements{Shape: ShapePerson, Name: true, Role: true})
		if rules.RequireProviderID && a.HealthcareProvider.Party != nil && !hasHPII(a.HealthcareProvider.Party) {
			v.AddMessage(validation.Field(p, "Party.Identifiers"), "", "An HPI-I must be provided for the author")
		}
	case a.NonHealthcareProvider != nil:
		p := validation.Field(path, "NonHealthcareProvider")
		if !rules.NonHealthcareProvider {
			v.AddMessage(p, "", "A non healthcare provider author is not permitted for this document type")
			return
		}
		a.NonHealthcareProvider.Validate(p, v, RoleRequirements{Shape: ShapePerson, Name: true, Role: true})
	case a.Device != nil:
		p := validation.Field(path, "Device")
		if !rules.Device {
			v.AddMessage(p, "", "An authoring device is not permitted for this document type")
			return
		}
		a.Device.Validate(p, v)
	}
}

// Validate requires the software name and at least one identifier
func (d *AuthoringDevice) Validate(path string, v *validation.Validator) {
	v.RequireNonEmpty(validation.Field(path, "SoftwareName"), d.SoftwareName)
	if !v.CheckRange(validation.Field(path, "Identifiers"), len(d.Identifiers), 1, validation.Unbounded) {
		return
	}
	for i, id := range d.Identifiers {
		idPath := validation.Index(path, "Identifiers", i)
		if v.RequireNonEmpty(idPath, id) {
			id.Validate(idPath, v)
		}
	}
}

func hasHPII(p *Party) bool {
	for _, id := range p.Identifiers {
		if id.IsHPII() {
			return true
		}
	}
	return false
}

package common

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// PartyShape restricts a participant to a person or an organisation
type PartyShape int

const (
	ShapeAny PartyShape = iota
	ShapePerson
	ShapeOrganisation
)

// RoleRequirements lists the sub-fields a participation must carry. Each
// document variant supplies its own requirements per participation.
type RoleRequirements struct {
	Shape        PartyShape
	Name         bool
	Identifier   bool
	Role         bool
	Time         bool
	MinAddresses int
	Contact      bool
}

// Common requirement sets
var (
	CustodianRequirements          = RoleRequirements{Shape: ShapeOrganisation, Name: true, Identifier: true}
	OrganisationRequirements       = RoleRequirements{Shape: ShapeOrganisation, Name: true}
	LegalAuthenticatorRequirements = RoleRequirements{Shape: ShapePerson, Name: true, Time: true}
	RecipientRequirements          = RoleRequirements{Shape: ShapeAny, Name: true}
	InformantRequirements          = RoleRequirements{Shape: ShapePerson, Name: true, Role: true}
)

// PartyRole binds a party to the role it plays in a document
type PartyRole struct {
	Role   *CodedTerm
	Party  *Party
	Time   time.Time
	Period *Interval
}

// NewPartyRole creates a participation for party in role
func NewPartyRole(role *CodedTerm, party *Party) *PartyRole {
	return &PartyRole{Role: role, Party: party}
}

// Validate checks the participation against the requirements of its slot
func (r *PartyRole) Validate(path string, v *validation.Validator, req RoleRequirements) {
	if r == nil {
		return
	}
	partyPath := validation.Field(path, "Party")
	if v.RequireNonEmpty(partyPath, r.Party) {
		r.validateParty(partyPath, v, req)
	}

	rolePath := validation.Field(path, "Role")
	if req.Role {
		v.RequireNonEmpty(rolePath, r.Role)
	}
	if r.Role != nil {
		r.Role.Validate(rolePath, v)
	}
	if req.Time {
		v.RequireNonEmpty(validation.Field(path, "Time"), r.Time)
	}
	if r.Period != nil {
		r.Period.Validate(validation.Field(path, "Period"), v)
	}
}

func (r *PartyRole) validateParty(path string, v *validation.Validator, req RoleRequirements) {
	p := r.Party
	switch req.Shape {
	case ShapePerson:
		if !v.RequireNonEmpty(validation.Field(path, "Person"), p.Person) {
			return
		}
	case ShapeOrganisation:
		if !v.RequireNonEmpty(validation.Field(path, "Organisation"), p.Organisation) {
			return
		}
	}
	p.Validate(path, v)

	if req.Name {
		switch {
		case p.Person != nil:
			v.CheckRange(validation.Field(path, "Person.Names"), len(p.Person.Names), 1, validation.Unbounded)
		case p.Organisation != nil:
			v.RequireNonEmpty(validation.Field(path, "Organisation.Name"), p.Organisation.Name)
		}
	}
	if req.Identifier {
		v.CheckRange(validation.Field(path, "Identifiers"), len(p.Identifiers), 1, validation.Unbounded)
	}
	if req.MinAddresses > 0 {
		v.CheckRange(validation.Field(path, "Addresses"), len(p.Addresses), req.MinAddresses, validation.Unbounded)
	}
	if req.Contact {
		v.CheckRange(validation.Field(path, "ElectronicCommunicationDetails"),
			len(p.ElectronicCommunicationDetails), 1, validation.Unbounded)
	}
}

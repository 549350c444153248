package common

import (
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// SubjectOfCare is the person the document is about
type SubjectOfCare struct {
	Party *Party
}

// SubjectRules toggles the demographic requirements that differ between variants
type SubjectRules struct {
	IndigenousStatus bool
	DateOfBirth      bool
	Sex              bool
	IHI              bool
	MinAddresses     int
	MaxAddresses     int
}

// StrictSubjectRules demands every demographic detail and at least one address
var StrictSubjectRules = SubjectRules{
	IndigenousStatus: true,
	DateOfBirth:      true,
	Sex:              true,
	IHI:              true,
	MinAddresses:     1,
	MaxAddresses:     validation.Unbounded,
}

// NewSubjectOfCare creates a subject for person
func NewSubjectOfCare(person *Person) *SubjectOfCare {
	return &SubjectOfCare{Party: NewPersonParty(person)}
}

// Validate applies StrictSubjectRules
func (s *SubjectOfCare) Validate(path string, v *validation.Validator) {
	s.ValidateOptional(path, v, StrictSubjectRules)
}

// ValidateOptional checks the subject with the demographic requirements of
// the calling variant. A zero MaxAddresses means no addresses are allowed.
func (s *SubjectOfCare) ValidateOptional(path string, v *validation.Validator, rules SubjectRules) {
	if s == nil {
		return
	}
	partyPath := validation.Field(path, "Party")
	if !v.RequireNonEmpty(partyPath, s.Party) {
		return
	}
	personPath := validation.Field(partyPath, "Person")
	if !v.RequireNonEmpty(personPath, s.Party.Person) {
		return
	}
	s.Party.Validate(partyPath, v)

	person := s.Party.Person
	v.CheckRange(validation.Field(personPath, "Names"), len(person.Names), 1, validation.Unbounded)
	if rules.IndigenousStatus {
		v.RequireNonEmpty(validation.Field(personPath, "IndigenousStatus"), string(person.IndigenousStatus))
	}
	if rules.DateOfBirth {
		v.RequireNonEmpty(validation.Field(personPath, "DateOfBirth"), person.DateOfBirth)
	}
	if rules.Sex {
		v.RequireNonEmpty(validation.Field(personPath, "Sex"), string(person.Sex))
	}
	if rules.IHI && !hasIHI(s.Party) {
		v.AddMessage(validation.Field(partyPath, "Identifiers"), "", "An IHI must be provided for the subject of care")
	}
	v.CheckRange(validation.Field(partyPath, "Addresses"), len(s.Party.Addresses), rules.MinAddresses, rules.MaxAddresses)
}

func hasIHI(p *Party) bool {
	for _, id := range p.Identifiers {
		if id.IsIHI() {
			return true
		}
	}
	return false
}

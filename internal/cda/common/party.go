package common

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
	"github.com/google/uuid"
)

var postcodePattern = regexp.MustCompile(`^\d{4}$`)

// Party is a person or an organisation taking part in a document.
// Create parties with NewPersonParty or NewOrganisationParty so that the
// UID is assigned once, at construction.
type Party struct {
	uid string

	Person                         *Person
	Organisation                   *Organisation
	Identifiers                    []*Identifier
	Addresses                      []*Address
	ElectronicCommunicationDetails []*ElectronicCommunicationDetail
	Entitlements                   []*Entitlement
}

// NewPersonParty creates a party for a person
func NewPersonParty(p *Person) *Party {
	return &Party{uid: uuid.NewString(), Person: p}
}

// NewOrganisationParty creates a party for an organisation
func NewOrganisationParty(o *Organisation) *Party {
	return &Party{uid: uuid.NewString(), Organisation: o}
}

// UID returns the stable identity used to cross-reference the party within a document
func (p *Party) UID() string {
	return p.uid
}

// Validate checks the person/organisation choice and every attached detail
func (p *Party) Validate(path string, v *validation.Validator) {
	if p == nil {
		return
	}
	v.CheckChoice(path,
		validation.Choice{Name: "Person", Value: p.Person},
		validation.Choice{Name: "Organisation", Value: p.Organisation},
	)
	if p.Person != nil {
		p.Person.Validate(validation.Field(path, "Person"), v)
	}
	if p.Organisation != nil {
		p.Organisation.Validate(validation.Field(path, "Organisation"), v)
	}
	for i, id := range p.Identifiers {
		idPath := validation.Index(path, "Identifiers", i)
		if v.RequireNonEmpty(idPath, id) {
			id.Validate(idPath, v)
		}
	}
	for i, a := range p.Addresses {
		aPath := validation.Index(path, "Addresses", i)
		if v.RequireNonEmpty(aPath, a) {
			a.Validate(aPath, v)
		}
	}
	for i, ecd := range p.ElectronicCommunicationDetails {
		ePath := validation.Index(path, "ElectronicCommunicationDetails", i)
		if v.RequireNonEmpty(ePath, ecd) {
			ecd.Validate(ePath, v)
		}
	}
	for i, e := range p.Entitlements {
		ePath := validation.Index(path, "Entitlements", i)
		if v.RequireNonEmpty(ePath, e) {
			e.Validate(ePath, v)
		}
	}
}

// Person holds the demographic details of an individual
type Person struct {
	Names            []*PersonName
	DateOfBirth      time.Time
	DateOfDeath      time.Time
	Sex              codes.Sex
	IndigenousStatus codes.IndigenousStatus
}

// Validate checks coded demographics and name details
func (p *Person) Validate(path string, v *validation.Validator) {
	for i, n := range p.Names {
		nPath := validation.Index(path, "Names", i)
		if v.RequireNonEmpty(nPath, n) {
			n.Validate(nPath, v)
		}
	}
	if p.Sex != "" && !p.Sex.Valid() {
		v.Add(validation.KindInvalid, validation.Field(path, "Sex"), string(p.Sex), "Sex is not a recognised value")
	}
	if p.IndigenousStatus != "" && !p.IndigenousStatus.Valid() {
		v.Add(validation.KindInvalid, validation.Field(path, "IndigenousStatus"), string(p.IndigenousStatus),
			"IndigenousStatus is not a recognised value")
	}
	if !p.DateOfBirth.IsZero() && !p.DateOfDeath.IsZero() && p.DateOfBirth.After(p.DateOfDeath) {
		v.AddMessage(validation.Field(path, "DateOfDeath"), p.DateOfDeath.Format(time.DateOnly),
			"DateOfDeath must not be before DateOfBirth")
	}
}

// PersonName is one name of a person
type PersonName struct {
	Titles     []string
	GivenNames []string
	FamilyName string
	Suffixes   []string
	Usage      string
}

// Validate requires a family name
func (n *PersonName) Validate(path string, v *validation.Validator) {
	v.RequireNonEmpty(validation.Field(path, "FamilyName"), n.FamilyName)
}

func (n *PersonName) String() string {
	parts := make([]string, 0, len(n.Titles)+len(n.GivenNames)+1+len(n.Suffixes))
	parts = append(parts, n.Titles...)
	parts = append(parts, n.GivenNames...)
	if n.FamilyName != "" {
		parts = append(parts, n.FamilyName)
	}
	parts = append(parts, n.Suffixes...)
	return strings.Join(parts, " ")
}

// Organisation is a healthcare or other organisation
type Organisation struct {
	Name       string
	Department string
	Type       *CodedTerm
}

// Validate checks the organisation type when present
func (o *Organisation) Validate(path string, v *validation.Validator) {
	if o.Type != nil {
		o.Type.Validate(validation.Field(path, "Type"), v)
	}
}

// Address is an Australian or international postal address
type Address struct {
	Purpose       codes.AddressPurpose
	Australian    *AustralianAddress
	International *InternationalAddress
}

// AustralianAddress is a structured or unstructured Australian address
type AustralianAddress struct {
	Lines        []string
	StreetNumber string
	StreetName   string
	Suburb       string
	State        codes.AustralianState
	Postcode     string
}

// InternationalAddress is an address outside Australia
type InternationalAddress struct {
	Lines         []string
	StateProvince string
	PostCode      string
	Country       string
}

// Validate checks purpose and the Australian/international choice
func (a *Address) Validate(path string, v *validation.Validator) {
	purposePath := validation.Field(path, "Purpose")
	if v.RequireNonEmpty(purposePath, string(a.Purpose)) && !a.Purpose.Valid() {
		v.Add(validation.KindInvalid, purposePath, string(a.Purpose), "Purpose is not a recognised value")
	}
	v.CheckChoice(path,
		validation.Choice{Name: "Australian", Value: a.Australian},
		validation.Choice{Name: "International", Value: a.International},
	)

	if au := a.Australian; au != nil {
		auPath := validation.Field(path, "Australian")
		if len(au.Lines) == 0 {
			v.RequireNonEmpty(validation.Field(auPath, "Suburb"), au.Suburb)
			v.RequireNonEmpty(validation.Field(auPath, "State"), string(au.State))
			v.RequireNonEmpty(validation.Field(auPath, "Postcode"), au.Postcode)
		}
		if au.State != "" && !au.State.Valid() {
			v.Add(validation.KindInvalid, validation.Field(auPath, "State"), string(au.State),
				"State is not a recognised Australian state or territory")
		}
		v.CheckPattern(validation.Field(auPath, "Postcode"), au.Postcode, postcodePattern,
			"Postcode must be four digits")
	}
	if in := a.International; in != nil {
		inPath := validation.Field(path, "International")
		v.CheckRange(validation.Field(inPath, "Lines"), len(in.Lines), 1, validation.Unbounded)
		v.RequireNonEmpty(validation.Field(inPath, "Country"), in.Country)
	}
}

// ElectronicCommunicationDetail is a phone number, email address or similar
type ElectronicCommunicationDetail struct {
	Address string
	Medium  codes.Medium
	Usages  []codes.Usage
}

// Validate checks the medium and, for email, the address syntax
func (e *ElectronicCommunicationDetail) Validate(path string, v *validation.Validator) {
	v.RequireNonEmpty(validation.Field(path, "Address"), e.Address)
	mediumPath := validation.Field(path, "Medium")
	if v.RequireNonEmpty(mediumPath, string(e.Medium)) && !e.Medium.Valid() {
		v.Add(validation.KindInvalid, mediumPath, string(e.Medium), "Medium is not a recognised value")
	}
	if e.Medium == codes.MediumEmail && e.Address != "" {
		if _, err := mail.ParseAddress(e.Address); err != nil {
			v.Add(validation.KindFormat, validation.Field(path, "Address"), e.Address, "Address is not a valid email address")
		}
	}
	for i, u := range e.Usages {
		if !u.Valid() {
			v.Add(validation.KindInvalid, validation.Index(path, "Usages", i), string(u), "Usage is not a recognised value")
		}
	}
}

// Entitlement is a healthcare entitlement such as a Medicare card
type Entitlement struct {
	ID       *Identifier
	Type     codes.EntitlementType
	Validity *Interval
}

// Validate requires the identifier and type
func (e *Entitlement) Validate(path string, v *validation.Validator) {
	idPath := validation.Field(path, "ID")
	if v.RequireNonEmpty(idPath, e.ID) {
		e.ID.Validate(idPath, v)
	}
	typePath := validation.Field(path, "Type")
	if v.RequireNonEmpty(typePath, string(e.Type)) && !e.Type.Valid() {
		v.Add(validation.KindInvalid, typePath, string(e.Type), "Type is not a recognised entitlement type")
	}
	if e.Validity != nil {
		e.Validity.Validate(validation.Field(path, "Validity"), v)
	}
}

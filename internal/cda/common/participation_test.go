package common

import (
	"testing"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

func testPerson(family string) *Person {
	return &Person{
		Names:            []*PersonName{{GivenNames: []string{"Sam"}, FamilyName: family}},
		DateOfBirth:      time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC),
		Sex:              codes.SexFemale,
		IndigenousStatus: codes.IndigenousNeither,
	}
}

func testAddress() *Address {
	return &Address{
		Purpose: codes.AddressPurposeResidential,
		Australian: &AustralianAddress{
			StreetNumber: "1", StreetName: "Main St", Suburb: "Sydney", State: "NSW", Postcode: "2000",
		},
	}
}

func testProvider() *PartyRole {
	party := NewPersonParty(testPerson("Nguyen"))
	party.Identifiers = []*Identifier{NewHPII("8003610000021101")}
	return NewPartyRole(NewCodedTerm("253111", "General Practitioner", codes.ANZSCO), party)
}

func TestPartyUIDIsAssignedAtConstruction(t *testing.T) {
	a := NewPersonParty(testPerson("A"))
	b := NewOrganisationParty(&Organisation{Name: "Clinic"})
	if a.UID() == "" || b.UID() == "" {
		t.Fatal("UID should be assigned at construction")
	}
	if a.UID() == b.UID() {
		t.Error("UIDs should be unique")
	}
	if first := a.UID(); a.UID() != first {
		t.Error("UID should be stable")
	}
}

func TestPartyChoice(t *testing.T) {
	v := validation.New()
	p := NewPersonParty(testPerson("A"))
	p.Organisation = &Organisation{Name: "Clinic"}
	p.Validate("Party", v)
	if !v.HasPath("Party") {
		t.Errorf("both person and organisation should violate the choice: %v", v.Messages())
	}
}

func TestAddressValidation(t *testing.T) {
	v := validation.New()
	testAddress().Validate("Address", v)
	if !v.Valid() {
		t.Fatalf("unexpected messages: %v", v.Messages())
	}

	bad := testAddress()
	bad.Australian.Postcode = "20000"
	bad.Australian.State = "XX"
	bad.Purpose = ""
	v = validation.New()
	bad.Validate("Address", v)
	for _, p := range []string{"Address.Purpose", "Address.Australian.Postcode", "Address.Australian.State"} {
		if !v.HasPath(p) {
			t.Errorf("missing violation at %q: %v", p, v.Messages())
		}
	}
}

func TestElectronicCommunicationDetail(t *testing.T) {
	v := validation.New()
	(&ElectronicCommunicationDetail{Address: "not an email", Medium: codes.MediumEmail}).Validate("ECD", v)
	if !v.HasPath("ECD.Address") {
		t.Errorf("invalid email should be reported: %v", v.Messages())
	}
}

func TestPartyRoleRequirements(t *testing.T) {
	custodian := NewPartyRole(nil, NewOrganisationParty(&Organisation{Name: "Clinic"}))

	v := validation.New()
	custodian.Validate("Custodian", v, CustodianRequirements)
	if !v.HasPath("Custodian.Party.Identifiers") {
		t.Errorf("custodian without identifier should be reported: %v", v.Messages())
	}

	custodian.Party.Identifiers = []*Identifier{NewHPIO("8003621566684455")}
	v = validation.New()
	custodian.Validate("Custodian", v, CustodianRequirements)
	if !v.Valid() {
		t.Errorf("unexpected messages: %v", v.Messages())
	}

	v = validation.New()
	NewPartyRole(nil, NewPersonParty(testPerson("A"))).Validate("Custodian", v, CustodianRequirements)
	if !v.HasPath("Custodian.Party.Organisation") {
		t.Errorf("person custodian should be reported: %v", v.Messages())
	}
}

func TestAuthorShapes(t *testing.T) {
	device := &AuthoringDevice{SoftwareName: "My Health Record", Identifiers: []*Identifier{NewIdentifier("1.2.36.1.2001.1007.10.8003640002000050", "")}}
	consumer := NewPartyRole(NewCodedTerm("MTH", "mother", codes.HL7RoleCode), NewPersonParty(testPerson("Smith")))

	providerOnly := AuthorRules{HealthcareProvider: true, RequireProviderID: true}
	anyPerson := AuthorRules{HealthcareProvider: true, NonHealthcareProvider: true}
	deviceOnly := AuthorRules{Device: true}

	tests := []struct {
		name   string
		author *Author
		rules  AuthorRules
		path   string
	}{
		{"provider", NewProviderAuthor(testProvider()), providerOnly, ""},
		{"consumer accepted", NewConsumerAuthor(consumer), anyPerson, ""},
		{"consumer rejected", NewConsumerAuthor(consumer), providerOnly, "Author.NonHealthcareProvider"},
		{"device accepted", NewDeviceAuthor(device), deviceOnly, ""},
		{"device rejected", NewDeviceAuthor(device), anyPerson, "Author.Device"},
		{"no shape", &Author{}, anyPerson, "Author"},
		{"two shapes", &Author{HealthcareProvider: testProvider(), Device: device}, anyPerson, "Author"},
		{"device without identifiers", NewDeviceAuthor(&AuthoringDevice{SoftwareName: "x"}), deviceOnly, "Author.Device.Identifiers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.New()
			tt.author.Validate("Author", v, tt.rules)
			if tt.path == "" {
				if !v.Valid() {
					t.Errorf("unexpected messages: %v", v.Messages())
				}
				return
			}
			if !v.HasPath(tt.path) {
				t.Errorf("expected violation at %q, got %v", tt.path, v.Messages())
			}
		})
	}
}

func TestAuthorProviderRequiresHPII(t *testing.T) {
	role := testProvider()
	role.Party.Identifiers = nil
	v := validation.New()
	NewProviderAuthor(role).Validate("Author", v, AuthorRules{HealthcareProvider: true, RequireProviderID: true})
	if !v.HasPath("Author.HealthcareProvider.Party.Identifiers") {
		t.Errorf("missing HPI-I not reported: %v", v.Messages())
	}
}

func TestSubjectOfCareOptionalRules(t *testing.T) {
	person := testPerson("Jones")
	person.IndigenousStatus = ""
	person.DateOfBirth = time.Time{}
	subject := NewSubjectOfCare(person)
	subject.Party.Identifiers = []*Identifier{NewIHI("8003608166690503")}

	relaxed := SubjectRules{Sex: true, IHI: true, MinAddresses: 0, MaxAddresses: validation.Unbounded}
	v := validation.New()
	subject.ValidateOptional("Subject", v, relaxed)
	if !v.Valid() {
		t.Fatalf("relaxed rules should accept the subject: %v", v.Messages())
	}

	v = validation.New()
	subject.Validate("Subject", v)
	for _, p := range []string{
		"Subject.Party.Person.IndigenousStatus",
		"Subject.Party.Person.DateOfBirth",
		"Subject.Party.Addresses",
	} {
		if !v.HasPath(p) {
			t.Errorf("strict rules should report %q: %v", p, v.Messages())
		}
	}

	subject.Party.Addresses = []*Address{testAddress(), testAddress()}
	v = validation.New()
	subject.ValidateOptional("Subject", v, SubjectRules{MinAddresses: 0, MaxAddresses: 1})
	if !v.HasPath("Subject.Party.Addresses") {
		t.Errorf("address upper bound not enforced: %v", v.Messages())
	}
}

func TestSubjectOfCareRequiresIHI(t *testing.T) {
	subject := NewSubjectOfCare(testPerson("Jones"))
	v := validation.New()
	subject.ValidateOptional("Subject", v, SubjectRules{IHI: true, MaxAddresses: validation.Unbounded})
	if !v.HasPath("Subject.Party.Identifiers") {
		t.Errorf("missing IHI not reported: %v", v.Messages())
	}
}

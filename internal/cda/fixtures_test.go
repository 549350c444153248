package cda

import (
	"testing"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testPerson(family string) *common.Person {
	return &common.Person{
		Names:            []*common.PersonName{{GivenNames: []string{"Alex"}, FamilyName: family}},
		DateOfBirth:      time.Date(1975, 8, 2, 0, 0, 0, 0, time.UTC),
		Sex:              codes.SexNotStated,
		IndigenousStatus: codes.IndigenousNotStated,
	}
}

func testAddress() *common.Address {
	return &common.Address{
		Purpose: codes.AddressPurposeResidential,
		Australian: &common.AustralianAddress{
			StreetNumber: "12", StreetName: "Harbour Rd", Suburb: "Hobart", State: "TAS", Postcode: "7000",
		},
	}
}

func testProvider() *common.PartyRole {
	party := common.NewPersonParty(testPerson("Okafor"))
	party.Identifiers = []*common.Identifier{common.NewHPII("8003619900015717")}
	return common.NewPartyRole(common.NewCodedTerm("253111", "General Practitioner", codes.ANZSCO), party)
}

func testOrganisation(name string) *common.PartyRole {
	party := common.NewOrganisationParty(&common.Organisation{Name: name})
	party.Identifiers = []*common.Identifier{common.NewHPIO("8003621566684455")}
	return common.NewPartyRole(nil, party)
}

func testLegalAuthenticator() *common.PartyRole {
	r := common.NewPartyRole(nil, common.NewPersonParty(testPerson("Lindqvist")))
	r.Time = testTime
	return r
}

func testSubject(rules common.SubjectRules) *common.SubjectOfCare {
	s := common.NewSubjectOfCare(testPerson("Citizen"))
	s.Party.Identifiers = []*common.Identifier{common.NewIHI("8003608166690503")}
	if rules.MinAddresses > 0 {
		s.Party.Addresses = []*common.Address{testAddress()}
	}
	return s
}

func testDevice() *common.AuthoringDevice {
	return &common.AuthoringDevice{
		SoftwareName: "National Record System",
		Identifiers:  []*common.Identifier{common.NewIdentifier("1.2.36.1.2001.1007.10.8003640002000050", "")},
	}
}

func testAttachment() *common.ExternalData {
	return &common.ExternalData{MediaType: "application/pdf", Data: []byte("%PDF-1.4 test")}
}

func testMedication() *Medication {
	return &Medication{
		Medicine:     common.NewCodedTerm("21212011000036104", "paracetamol 500 mg tablet", codes.AMT),
		Directions:   "Two tablets every six hours when required",
		ChangeType:   common.NewCodedTerm("01", "Changed", codes.NCTIS),
		ChangeStatus: common.NewCodedTerm("01", "Change made", codes.NCTIS),
	}
}

func testPrescriptionItem() *PrescriptionItem {
	return &PrescriptionItem{
		ID:              common.NewUUIDIdentifier(),
		TherapeuticGood: common.NewCodedTerm("21212011000036104", "paracetamol 500 mg tablet", codes.AMT),
		Directions:      "Two tablets every six hours when required",
		DateTimeWritten: testTime,
		Quantity:        "20 tablets",
		MaximumRepeats:  2,
	}
}

func testDispenseItem() *DispenseItem {
	return &DispenseItem{
		ID:                common.NewUUIDIdentifier(),
		TherapeuticGood:   common.NewCodedTerm("21212011000036104", "paracetamol 500 mg tablet", codes.AMT),
		DateTimeDispensed: testTime,
		Quantity:          "20 tablets",
		RepeatsRemaining:  1,
	}
}

// populateContext fills every field the variant requires, reaching the
// entity only through the capabilities its contract exposes.
func populateContext(t *testing.T, ctx ContextView) {
	t.Helper()
	r := mustRules(ctx.DocumentType())
	ctx.SetDateTimeAuthored(testTime)

	if c, ok := ctx.(AuthorCapability); ok {
		a := common.NewProviderAuthor(testProvider())
		a.Time = testTime
		c.SetAuthor(a)
	}
	if c, ok := ctx.(PrescriberCapability); ok {
		c.SetPrescriber(testProvider())
	}
	if c, ok := ctx.(DispenserCapability); ok {
		c.SetDispenser(testProvider())
	}
	if c, ok := ctx.(DeviceAuthorCapability); ok {
		c.SetAuthoringDevice(testDevice())
	}
	if c, ok := ctx.(SubjectCapability); ok {
		c.SetSubjectOfCare(testSubject(r.Subject))
	}
	if c, ok := ctx.(CustodianCapability); ok {
		c.SetCustodian(testOrganisation("Hobart Medical Records"))
	}
	if c, ok := ctx.(LegalAuthenticatorCapability); ok && r.LegalAuthenticator == Required {
		c.SetLegalAuthenticator(testLegalAuthenticator())
	}
	if c, ok := ctx.(RecipientsCapability); ok && r.Recipients == Required {
		c.AddRecipient(testOrganisation("Royal Hobart Hospital"))
	}
	if c, ok := ctx.(EncounterCapability); ok && r.EncounterPeriod == Required {
		c.SetEncounterPeriod(common.NewInterval(testTime.Add(-72*time.Hour), testTime))
	}
	if c, ok := ctx.(PrescriberOrganisationCapability); ok && r.PrescriberOrganisation == Required {
		c.SetPrescriberOrganisation(testOrganisation("Sandy Bay Clinic"))
	}
	if c, ok := ctx.(DispenserOrganisationCapability); ok && r.DispenserOrganisation == Required {
		c.SetDispenserOrganisation(testOrganisation("Sandy Bay Pharmacy"))
	}
	if c, ok := ctx.(FilteringCapability); ok {
		c.SetEarliestDateForFiltering(testTime.AddDate(-1, 0, 0))
		c.SetLatestDateForFiltering(testTime)
	}
}

// populateContent uses the structured sections when the variant has any and
// falls back to a narrative or an attachment otherwise.
func populateContent(t *testing.T, c ContentView) {
	t.Helper()
	b := mustRules(c.DocumentType()).Body
	switch {
	case len(b.Mandatory) > 0:
		for _, s := range b.Mandatory {
			addEntry(t, c, s)
		}
	case len(b.Structured) > 0:
		addEntry(t, c, b.Structured[0])
	case b.Narrative:
		c.(NarrativeCapability).SetNarrative(&NarrativeBlock{Title: "Notes", Text: "Feeling well."})
	default:
		c.(AttachmentCapability).SetAttachment(testAttachment())
	}
}

func addEntry(t *testing.T, c ContentView, s Section) {
	t.Helper()
	ok := false
	switch s {
	case SectionMedications:
		var m MedicationsCapability
		if m, ok = c.(MedicationsCapability); ok {
			m.AddMedication(testMedication())
		}
	case SectionAdverseReactions:
		var a AdverseReactionsCapability
		if a, ok = c.(AdverseReactionsCapability); ok {
			a.AddAdverseReaction(&AdverseReaction{
				Substance:      common.NewCodedTerm("764146007", "Penicillin", codes.SNOMEDCTAU),
				Manifestations: []*common.CodedTerm{common.NewCodedTerm("271807003", "Skin rash", codes.SNOMEDCTAU)},
			})
		}
	case SectionHistory:
		var h HistoryCapability
		if h, ok = c.(HistoryCapability); ok {
			h.AddHistoryItem(&HistoryItem{
				Problem: common.NewCodedTerm("38341003", "Hypertension", codes.SNOMEDCTAU),
				Onset:   testTime.AddDate(-3, 0, 0),
			})
		}
	case SectionObservations:
		var o ObservationsCapability
		if o, ok = c.(ObservationsCapability); ok {
			o.AddObservation(&Observation{
				Name:  common.NewCodedTerm("29463-7", "Body weight", codes.LOINC),
				Value: "72.5",
				Unit:  "kg",
				Time:  testTime,
			})
		}
	case SectionResults:
		var r ResultsCapability
		if r, ok = c.(ResultsCapability); ok {
			r.AddResult(&Result{
				TestName:        common.NewCodedTerm("58410-2", "Full blood count", codes.LOINC),
				Status:          common.NewCodedTerm("F", "Final", codes.NCTIS),
				ObservationTime: testTime,
				Report:          testAttachment(),
			})
		}
	case SectionPrescriptionItems:
		var p PrescriptionItemsCapability
		if p, ok = c.(PrescriptionItemsCapability); ok {
			p.AddPrescriptionItem(testPrescriptionItem())
		}
	case SectionDispenseItems:
		var d DispenseItemsCapability
		if d, ok = c.(DispenseItemsCapability); ok {
			d.AddDispenseItem(testDispenseItem())
		}
	case SectionReferral:
		var r ReferralCapability
		if r, ok = c.(ReferralCapability); ok {
			r.SetReferral(&ReferralDetail{DateTime: testTime, Reason: "Review of chest pain"})
		}
	}
	if !ok {
		t.Fatalf("%s content does not expose section %s", c.DocumentType(), s)
	}
}

func validDocument(t *testing.T, dt DocumentType) *AnyDocument {
	t.Helper()
	d, err := New(dt)
	if err != nil {
		t.Fatalf("New(%s): %v", dt, err)
	}
	populateContext(t, d.Context)
	populateContent(t, d.Content)
	return d
}

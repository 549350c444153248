package cda

import (
	"fmt"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Requirement states whether a field is mandatory, optional or absent for a variant
type Requirement uint8

const (
	Optional Requirement = iota
	Required
	Forbidden
)

func (r Requirement) String() string {
	switch r {
	case Required:
		return "required"
	case Forbidden:
		return "forbidden"
	}
	return "optional"
}

// Section names a structured body section
type Section string

const (
	SectionMedications       Section = "Medications"
	SectionAdverseReactions  Section = "AdverseReactions"
	SectionHistory           Section = "HistoryItems"
	SectionObservations      Section = "Observations"
	SectionResults           Section = "Results"
	SectionPrescriptionItems Section = "PrescriptionItems"
	SectionDispenseItems     Section = "DispenseItems"
	SectionReferral          Section = "Referral"
)

var allSections = []Section{
	SectionMedications, SectionAdverseReactions, SectionHistory, SectionObservations,
	SectionResults, SectionPrescriptionItems, SectionDispenseItems, SectionReferral,
}

// Bounds is an inclusive entry count range; Max may be validation.Unbounded
type Bounds struct {
	Min, Max int
}

// BodyRules describes the payload alternatives of a variant. Exactly one
// allowed alternative must be used: structured sections, one attachment,
// or a narrative block.
type BodyRules struct {
	// Structured lists the sections that count as structured content
	Structured []Section
	// Mandatory sections must be populated whenever structured content is used
	Mandatory  []Section
	Bounds     map[Section]Bounds
	Attachment bool
	Narrative  bool
}

// EntryRules toggles the entry level requirements that differ between variants
type EntryRules struct {
	MedicationDirections   bool
	MedicationChange       bool
	ReactionManifestations bool
	ObservationTime        bool
	ResultReport           bool
}

// Rules is the rule table entry of one variant
type Rules struct {
	Author                 common.AuthorRules
	Custodian              Requirement
	LegalAuthenticator     Requirement
	Recipients             Requirement
	Informants             Requirement
	EncounterPeriod        Requirement
	PrescriberOrganisation Requirement
	DispenserOrganisation  Requirement
	FilteringDates         Requirement
	Subject                common.SubjectRules
	Body                   BodyRules
	Entries                EntryRules
}

func (r Rules) with(fn func(*Rules)) Rules {
	fn(&r)
	return r
}

var (
	providerAuthor   = common.AuthorRules{HealthcareProvider: true, RequireTime: true, RequireProviderID: true}
	personAuthor     = common.AuthorRules{HealthcareProvider: true, NonHealthcareProvider: true, RequireTime: true}
	prescriberAuthor = common.AuthorRules{HealthcareProvider: true, RequireProviderID: true}
	deviceAuthor     = common.AuthorRules{Device: true}

	clinicalSubject = common.SubjectRules{
		IndigenousStatus: true, DateOfBirth: true, Sex: true, IHI: true,
		MinAddresses: 1, MaxAddresses: validation.Unbounded,
	}
	recordSubject = common.SubjectRules{
		DateOfBirth: true, Sex: true, IHI: true,
		MinAddresses: 0, MaxAddresses: validation.Unbounded,
	}
	prescriptionSubject = common.SubjectRules{
		DateOfBirth: true, Sex: true,
		MinAddresses: 1, MaxAddresses: 1,
	}
	viewSubject = common.SubjectRules{
		DateOfBirth: true, Sex: true, IHI: true,
		MinAddresses: 0, MaxAddresses: 0,
	}

	singleItem = Bounds{Min: 1, Max: 1}
)

func clinical(body BodyRules) Rules {
	return Rules{
		Author:                 providerAuthor,
		Custodian:              Required,
		LegalAuthenticator:     Optional,
		Recipients:             Forbidden,
		Informants:             Forbidden,
		EncounterPeriod:        Forbidden,
		PrescriberOrganisation: Forbidden,
		DispenserOrganisation:  Forbidden,
		FilteringDates:         Forbidden,
		Subject:                clinicalSubject,
		Body:                   body,
	}
}

func prescription(body BodyRules) Rules {
	return Rules{
		Author:                 prescriberAuthor,
		Custodian:              Forbidden,
		LegalAuthenticator:     Forbidden,
		Recipients:             Forbidden,
		Informants:             Forbidden,
		EncounterPeriod:        Forbidden,
		PrescriberOrganisation: Required,
		DispenserOrganisation:  Forbidden,
		FilteringDates:         Forbidden,
		Subject:                prescriptionSubject,
		Body:                   body,
	}
}

func dispense(body BodyRules) Rules {
	return prescription(body).with(func(r *Rules) {
		r.PrescriberOrganisation = Forbidden
		r.DispenserOrganisation = Required
	})
}

func consumer(body BodyRules) Rules {
	return Rules{
		Author:                 personAuthor,
		Custodian:              Required,
		LegalAuthenticator:     Forbidden,
		Recipients:             Forbidden,
		Informants:             Forbidden,
		EncounterPeriod:        Forbidden,
		PrescriberOrganisation: Forbidden,
		DispenserOrganisation:  Forbidden,
		FilteringDates:         Forbidden,
		Subject:                recordSubject,
		Body:                   body,
	}
}

func view(sections ...Section) Rules {
	return Rules{
		Author:                 deviceAuthor,
		Custodian:              Optional,
		LegalAuthenticator:     Forbidden,
		Recipients:             Forbidden,
		Informants:             Forbidden,
		EncounterPeriod:        Forbidden,
		PrescriberOrganisation: Forbidden,
		DispenserOrganisation:  Forbidden,
		FilteringDates:         Required,
		Subject:                viewSubject,
		Body:                   BodyRules{Structured: sections, Narrative: true},
	}
}

var rulesByType = map[DocumentType]Rules{
	EventSummary: clinical(BodyRules{
		Structured: []Section{SectionMedications, SectionAdverseReactions, SectionHistory, SectionObservations},
	}).with(func(r *Rules) {
		r.EncounterPeriod = Optional
		r.Entries = EntryRules{MedicationDirections: true}
	}),
	SharedHealthSummary: clinical(BodyRules{
		Structured: []Section{SectionMedications, SectionAdverseReactions, SectionHistory},
		Mandatory:  []Section{SectionMedications, SectionAdverseReactions, SectionHistory},
	}).with(func(r *Rules) {
		r.LegalAuthenticator = Required
		r.Entries = EntryRules{MedicationDirections: true, ReactionManifestations: true}
	}),
	DischargeSummary: clinical(BodyRules{
		Structured: []Section{SectionMedications, SectionAdverseReactions, SectionHistory},
		Attachment: true,
	}).with(func(r *Rules) {
		r.LegalAuthenticator = Required
		r.Recipients = Optional
		r.EncounterPeriod = Required
		r.Entries = EntryRules{MedicationDirections: true, MedicationChange: true, ReactionManifestations: true}
	}),
	EReferral: clinical(BodyRules{
		Structured: []Section{SectionReferral, SectionMedications, SectionAdverseReactions, SectionHistory},
		Mandatory:  []Section{SectionReferral},
		Attachment: true,
	}).with(func(r *Rules) {
		r.Recipients = Required
		r.Entries = EntryRules{MedicationDirections: true}
	}),
	SpecialistLetter: clinical(BodyRules{
		Structured: []Section{SectionMedications, SectionAdverseReactions, SectionHistory},
		Attachment: true,
		Narrative:  true,
	}).with(func(r *Rules) {
		r.Recipients = Required
	}),
	ServiceReferral: clinical(BodyRules{
		Structured: []Section{SectionReferral, SectionMedications, SectionAdverseReactions},
		Mandatory:  []Section{SectionReferral},
	}).with(func(r *Rules) {
		r.Recipients = Required
		r.Informants = Optional
		r.Entries = EntryRules{MedicationDirections: true}
	}),
	HealthCheckAssessment: clinical(BodyRules{
		Structured: []Section{SectionObservations, SectionHistory},
		Mandatory:  []Section{SectionObservations},
	}).with(func(r *Rules) {
		r.EncounterPeriod = Optional
		r.Informants = Optional
		r.Entries = EntryRules{ObservationTime: true}
	}),
	AdvanceCareDirectiveCustodianRecord: clinical(BodyRules{
		Attachment: true,
		Narrative:  true,
	}).with(func(r *Rules) {
		r.LegalAuthenticator = Forbidden
		r.Subject = recordSubject
	}),
	PathologyResultReport: clinical(BodyRules{
		Structured: []Section{SectionResults},
		Mandatory:  []Section{SectionResults},
		Attachment: true,
	}).with(func(r *Rules) {
		r.LegalAuthenticator = Required
		r.Recipients = Optional
		r.Subject = recordSubject
		r.Entries = EntryRules{ResultReport: true}
	}),
	DiagnosticImagingReport: clinical(BodyRules{
		Structured: []Section{SectionResults},
		Mandatory:  []Section{SectionResults},
		Attachment: true,
	}).with(func(r *Rules) {
		r.LegalAuthenticator = Required
		r.Recipients = Optional
		r.Subject = recordSubject
		r.Entries = EntryRules{ResultReport: true}
	}),

	EPrescription: prescription(BodyRules{
		Structured: []Section{SectionPrescriptionItems, SectionObservations},
		Mandatory:  []Section{SectionPrescriptionItems},
		Bounds:     map[Section]Bounds{SectionPrescriptionItems: singleItem},
	}).with(func(r *Rules) {
		r.Entries = EntryRules{ObservationTime: true}
	}),
	PrescriptionRequest: prescription(BodyRules{
		Structured: []Section{SectionPrescriptionItems, SectionDispenseItems},
		Mandatory:  []Section{SectionPrescriptionItems},
		Bounds: map[Section]Bounds{
			SectionPrescriptionItems: singleItem,
			SectionDispenseItems:     {Min: 0, Max: 1},
		},
	}).with(func(r *Rules) {
		r.DispenserOrganisation = Optional
	}),
	PCEHRPrescriptionRecord: prescription(BodyRules{
		Structured: []Section{SectionPrescriptionItems, SectionObservations},
		Mandatory:  []Section{SectionPrescriptionItems},
		Bounds:     map[Section]Bounds{SectionPrescriptionItems: singleItem},
	}).with(func(r *Rules) {
		r.Custodian = Required
		r.Subject = recordSubject
		r.Entries = EntryRules{ObservationTime: true}
	}),

	DispenseRecord: dispense(BodyRules{
		Structured: []Section{SectionDispenseItems},
		Mandatory:  []Section{SectionDispenseItems},
		Bounds:     map[Section]Bounds{SectionDispenseItems: singleItem},
	}),
	PCEHRDispenseRecord: dispense(BodyRules{
		Structured: []Section{SectionDispenseItems},
		Mandatory:  []Section{SectionDispenseItems},
		Bounds:     map[Section]Bounds{SectionDispenseItems: singleItem},
	}).with(func(r *Rules) {
		r.Custodian = Required
		r.Subject = recordSubject
	}),

	ConsumerEnteredHealthSummary: consumer(BodyRules{
		Structured: []Section{SectionMedications, SectionAdverseReactions},
	}),
	ConsumerEnteredNotes: consumer(BodyRules{
		Attachment: true,
		Narrative:  true,
	}),
	ConsumerEnteredAchievements: consumer(BodyRules{
		Structured: []Section{SectionHistory},
		Narrative:  true,
	}),
	ConsumerQuestionnaire: consumer(BodyRules{
		Structured: []Section{SectionObservations},
		Narrative:  true,
	}).with(func(r *Rules) {
		r.Entries = EntryRules{ObservationTime: true}
	}),
	AdvanceCareInformation: consumer(BodyRules{
		Attachment: true,
		Narrative:  true,
	}),
	PersonalHealthObservation: consumer(BodyRules{
		Structured: []Section{SectionObservations},
		Mandatory:  []Section{SectionObservations},
	}).with(func(r *Rules) {
		r.Entries = EntryRules{ObservationTime: true}
	}),
	ChildParentQuestionnaire: consumer(BodyRules{
		Structured: []Section{SectionObservations},
		Narrative:  true,
	}).with(func(r *Rules) {
		r.Informants = Optional
	}),
	BirthDetails: consumer(BodyRules{
		Structured: []Section{SectionObservations, SectionHistory},
	}).with(func(r *Rules) {
		r.Informants = Optional
	}),
	PhysicalMeasurements: consumer(BodyRules{
		Structured: []Section{SectionObservations},
		Mandatory:  []Section{SectionObservations},
	}).with(func(r *Rules) {
		r.Entries = EntryRules{ObservationTime: true}
	}),

	MedicareOverview:            view(SectionHistory, SectionMedications),
	PrescriptionAndDispenseView: view(SectionPrescriptionItems, SectionDispenseItems),
	PathologyResultView:         view(SectionResults),
	DiagnosticImagingResultView: view(SectionResults),
	MedicinesView:               view(SectionMedications, SectionAdverseReactions),
	ObservationView:             view(SectionObservations),
}

// RulesFor returns the rule table entry of t
func RulesFor(t DocumentType) (Rules, error) {
	r, ok := rulesByType[t]
	if !ok {
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, t)
	}
	return r, nil
}

// mustRules is used by Validate methods, which cannot return an error. Views
// are only created for known types, so a miss means the entity was built by hand.
func mustRules(t DocumentType) Rules {
	r, err := RulesFor(t)
	if err != nil {
		panic(err)
	}
	return r
}

func (b BodyRules) structures(s Section) bool {
	for _, x := range b.Structured {
		if x == s {
			return true
		}
	}
	return false
}

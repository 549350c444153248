package cda

// Clinical documents authored by a healthcare provider

type EventSummaryContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	EncounterCapability
}

type EventSummaryContent interface {
	ContentView
	MedicationsCapability
	AdverseReactionsCapability
	HistoryCapability
	ObservationsCapability
}

type SharedHealthSummaryContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
}

type SharedHealthSummaryContent interface {
	ContentView
	MedicationsCapability
	AdverseReactionsCapability
	HistoryCapability
}

type DischargeSummaryContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	RecipientsCapability
	EncounterCapability
}

type DischargeSummaryContent interface {
	ContentView
	MedicationsCapability
	AdverseReactionsCapability
	HistoryCapability
	AttachmentCapability
}

type EReferralContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	RecipientsCapability
}

type EReferralContent interface {
	ContentView
	ReferralCapability
	MedicationsCapability
	AdverseReactionsCapability
	HistoryCapability
	AttachmentCapability
}

type SpecialistLetterContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	RecipientsCapability
}

type SpecialistLetterContent interface {
	ContentView
	MedicationsCapability
	AdverseReactionsCapability
	HistoryCapability
	AttachmentCapability
	NarrativeCapability
}

type ServiceReferralContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	RecipientsCapability
	InformantsCapability
}

type ServiceReferralContent interface {
	ContentView
	ReferralCapability
	MedicationsCapability
	AdverseReactionsCapability
}

type HealthCheckAssessmentContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	EncounterCapability
	InformantsCapability
}

type HealthCheckAssessmentContent interface {
	ContentView
	ObservationsCapability
	HistoryCapability
}

type AdvanceCareDirectiveCustodianRecordContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type AdvanceCareDirectiveCustodianRecordContent interface {
	ContentView
	AttachmentCapability
	NarrativeCapability
}

type PathologyResultReportContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	RecipientsCapability
}

type PathologyResultReportContent interface {
	ContentView
	ResultsCapability
	AttachmentCapability
}

type DiagnosticImagingReportContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	LegalAuthenticatorCapability
	RecipientsCapability
}

type DiagnosticImagingReportContent interface {
	ContentView
	ResultsCapability
	AttachmentCapability
}

// Prescribing documents expose the author as the prescriber

type EPrescriptionContext interface {
	ContextView
	PrescriberCapability
	SubjectCapability
	PrescriberOrganisationCapability
}

type EPrescriptionContent interface {
	ContentView
	PrescriptionItemsCapability
	ObservationsCapability
}

type PrescriptionRequestContext interface {
	ContextView
	PrescriberCapability
	SubjectCapability
	PrescriberOrganisationCapability
	DispenserOrganisationCapability
}

type PrescriptionRequestContent interface {
	ContentView
	PrescriptionItemsCapability
	DispenseItemsCapability
}

type PCEHRPrescriptionRecordContext interface {
	ContextView
	PrescriberCapability
	SubjectCapability
	PrescriberOrganisationCapability
	CustodianCapability
}

type PCEHRPrescriptionRecordContent interface {
	ContentView
	PrescriptionItemsCapability
	ObservationsCapability
}

// Dispensing documents expose the author as the dispenser

type DispenseRecordContext interface {
	ContextView
	DispenserCapability
	SubjectCapability
	DispenserOrganisationCapability
}

type DispenseRecordContent interface {
	ContentView
	DispenseItemsCapability
}

type PCEHRDispenseRecordContext interface {
	ContextView
	DispenserCapability
	SubjectCapability
	DispenserOrganisationCapability
	CustodianCapability
}

type PCEHRDispenseRecordContent interface {
	ContentView
	DispenseItemsCapability
}

// Consumer documents accept a provider or a consumer author

type ConsumerEnteredHealthSummaryContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type ConsumerEnteredHealthSummaryContent interface {
	ContentView
	MedicationsCapability
	AdverseReactionsCapability
}

type ConsumerEnteredNotesContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type ConsumerEnteredNotesContent interface {
	ContentView
	AttachmentCapability
	NarrativeCapability
}

type ConsumerEnteredAchievementsContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type ConsumerEnteredAchievementsContent interface {
	ContentView
	HistoryCapability
	NarrativeCapability
}

type ConsumerQuestionnaireContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type ConsumerQuestionnaireContent interface {
	ContentView
	ObservationsCapability
	NarrativeCapability
}

type AdvanceCareInformationContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type AdvanceCareInformationContent interface {
	ContentView
	AttachmentCapability
	NarrativeCapability
}

type PersonalHealthObservationContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type PersonalHealthObservationContent interface {
	ContentView
	ObservationsCapability
}

type ChildParentQuestionnaireContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	InformantsCapability
}

type ChildParentQuestionnaireContent interface {
	ContentView
	ObservationsCapability
	NarrativeCapability
}

type BirthDetailsContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
	InformantsCapability
}

type BirthDetailsContent interface {
	ContentView
	ObservationsCapability
	HistoryCapability
}

type PhysicalMeasurementsContext interface {
	ContextView
	AuthorCapability
	SubjectCapability
	CustodianCapability
}

type PhysicalMeasurementsContent interface {
	ContentView
	ObservationsCapability
}

// Views are generated by a system and carry a filtering window

type MedicareOverviewContext interface {
	ContextView
	DeviceAuthorCapability
	SubjectCapability
	CustodianCapability
	FilteringCapability
}

type MedicareOverviewContent interface {
	ContentView
	HistoryCapability
	MedicationsCapability
	NarrativeCapability
}

type PrescriptionAndDispenseViewContext interface {
	ContextView
	DeviceAuthorCapability
	SubjectCapability
	CustodianCapability
	FilteringCapability
}

type PrescriptionAndDispenseViewContent interface {
	ContentView
	PrescriptionItemsCapability
	DispenseItemsCapability
	NarrativeCapability
}

type PathologyResultViewContext interface {
	ContextView
	DeviceAuthorCapability
	SubjectCapability
	CustodianCapability
	FilteringCapability
}

type PathologyResultViewContent interface {
	ContentView
	ResultsCapability
	NarrativeCapability
}

type DiagnosticImagingResultViewContext interface {
	ContextView
	DeviceAuthorCapability
	SubjectCapability
	CustodianCapability
	FilteringCapability
}

type DiagnosticImagingResultViewContent interface {
	ContentView
	ResultsCapability
	NarrativeCapability
}

type MedicinesViewContext interface {
	ContextView
	DeviceAuthorCapability
	SubjectCapability
	CustodianCapability
	FilteringCapability
}

type MedicinesViewContent interface {
	ContentView
	MedicationsCapability
	AdverseReactionsCapability
	NarrativeCapability
}

type ObservationViewContext interface {
	ContextView
	DeviceAuthorCapability
	SubjectCapability
	CustodianCapability
	FilteringCapability
}

type ObservationViewContent interface {
	ContentView
	ObservationsCapability
	NarrativeCapability
}

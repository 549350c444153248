package cda

// Each variant wraps the shared entities in a struct that embeds only its
// contract, so a holder of the contract cannot reach or type-assert to the
// capabilities of other variants.

type (
	eventSummaryContext                        struct{ EventSummaryContext }
	eventSummaryContent                        struct{ EventSummaryContent }
	sharedHealthSummaryContext                 struct{ SharedHealthSummaryContext }
	sharedHealthSummaryContent                 struct{ SharedHealthSummaryContent }
	dischargeSummaryContext                    struct{ DischargeSummaryContext }
	dischargeSummaryContent                    struct{ DischargeSummaryContent }
	eReferralContext                           struct{ EReferralContext }
	eReferralContent                           struct{ EReferralContent }
	specialistLetterContext                    struct{ SpecialistLetterContext }
	specialistLetterContent                    struct{ SpecialistLetterContent }
	serviceReferralContext                     struct{ ServiceReferralContext }
	serviceReferralContent                     struct{ ServiceReferralContent }
	healthCheckAssessmentContext               struct{ HealthCheckAssessmentContext }
	healthCheckAssessmentContent               struct{ HealthCheckAssessmentContent }
	advanceCareDirectiveCustodianRecordContext struct {
		AdvanceCareDirectiveCustodianRecordContext
	}
	advanceCareDirectiveCustodianRecordContent struct {
		AdvanceCareDirectiveCustodianRecordContent
	}
	pathologyResultReportContext        struct{ PathologyResultReportContext }
	pathologyResultReportContent        struct{ PathologyResultReportContent }
	diagnosticImagingReportContext      struct{ DiagnosticImagingReportContext }
	diagnosticImagingReportContent      struct{ DiagnosticImagingReportContent }
	ePrescriptionContext                struct{ EPrescriptionContext }
	ePrescriptionContent                struct{ EPrescriptionContent }
	prescriptionRequestContext          struct{ PrescriptionRequestContext }
	prescriptionRequestContent          struct{ PrescriptionRequestContent }
	pcehrPrescriptionRecordContext      struct{ PCEHRPrescriptionRecordContext }
	pcehrPrescriptionRecordContent      struct{ PCEHRPrescriptionRecordContent }
	dispenseRecordContext               struct{ DispenseRecordContext }
	dispenseRecordContent               struct{ DispenseRecordContent }
	pcehrDispenseRecordContext          struct{ PCEHRDispenseRecordContext }
	pcehrDispenseRecordContent          struct{ PCEHRDispenseRecordContent }
	consumerEnteredHealthSummaryContext struct {
		ConsumerEnteredHealthSummaryContext
	}
	consumerEnteredHealthSummaryContent struct {
		ConsumerEnteredHealthSummaryContent
	}
	consumerEnteredNotesContext        struct{ ConsumerEnteredNotesContext }
	consumerEnteredNotesContent        struct{ ConsumerEnteredNotesContent }
	consumerEnteredAchievementsContext struct {
		ConsumerEnteredAchievementsContext
	}
	consumerEnteredAchievementsContent struct {
		ConsumerEnteredAchievementsContent
	}
	consumerQuestionnaireContext     struct{ ConsumerQuestionnaireContext }
	consumerQuestionnaireContent     struct{ ConsumerQuestionnaireContent }
	advanceCareInformationContext    struct{ AdvanceCareInformationContext }
	advanceCareInformationContent    struct{ AdvanceCareInformationContent }
	personalHealthObservationContext struct {
		PersonalHealthObservationContext
	}
	personalHealthObservationContent struct {
		PersonalHealthObservationContent
	}
	childParentQuestionnaireContext struct {
		ChildParentQuestionnaireContext
	}
	childParentQuestionnaireContent struct {
		ChildParentQuestionnaireContent
	}
	birthDetailsContext                struct{ BirthDetailsContext }
	birthDetailsContent                struct{ BirthDetailsContent }
	physicalMeasurementsContext        struct{ PhysicalMeasurementsContext }
	physicalMeasurementsContent        struct{ PhysicalMeasurementsContent }
	medicareOverviewContext            struct{ MedicareOverviewContext }
	medicareOverviewContent            struct{ MedicareOverviewContent }
	prescriptionAndDispenseViewContext struct {
		PrescriptionAndDispenseViewContext
	}
	prescriptionAndDispenseViewContent struct {
		PrescriptionAndDispenseViewContent
	}
	pathologyResultViewContext         struct{ PathologyResultViewContext }
	pathologyResultViewContent         struct{ PathologyResultViewContent }
	diagnosticImagingResultViewContext struct {
		DiagnosticImagingResultViewContext
	}
	diagnosticImagingResultViewContent struct {
		DiagnosticImagingResultViewContent
	}
	medicinesViewContext   struct{ MedicinesViewContext }
	medicinesViewContent   struct{ MedicinesViewContent }
	observationViewContext struct{ ObservationViewContext }
	observationViewContent struct{ ObservationViewContent }
)

// NewEventSummary creates an empty EventSummary with fresh identifiers
func NewEventSummary() *Document[EventSummaryContext, EventSummaryContent] {
	return &Document[EventSummaryContext, EventSummaryContent]{
		Context: eventSummaryContext{newContext(EventSummary)},
		Content: eventSummaryContent{newContent(EventSummary)},
	}
}

// NewSharedHealthSummary creates an empty document of type SharedHealthSummary
func NewSharedHealthSummary() *Document[SharedHealthSummaryContext, SharedHealthSummaryContent] {
	return &Document[SharedHealthSummaryContext, SharedHealthSummaryContent]{
		Context: sharedHealthSummaryContext{newContext(SharedHealthSummary)},
		Content: sharedHealthSummaryContent{newContent(SharedHealthSummary)},
	}
}

// NewDischargeSummary creates an empty document of type DischargeSummary
func NewDischargeSummary() *Document[DischargeSummaryContext, DischargeSummaryContent] {
	return &Document[DischargeSummaryContext, DischargeSummaryContent]{
		Context: dischargeSummaryContext{newContext(DischargeSummary)},
		Content: dischargeSummaryContent{newContent(DischargeSummary)},
	}
}

// NewEReferral creates an empty document of type EReferral
func NewEReferral() *Document[EReferralContext, EReferralContent] {
	return &Document[EReferralContext, EReferralContent]{
		Context: eReferralContext{newContext(EReferral)},
		Content: eReferralContent{newContent(EReferral)},
	}
}

// NewSpecialistLetter creates an empty document of type SpecialistLetter
func NewSpecialistLetter() *Document[SpecialistLetterContext, SpecialistLetterContent] {
	return &Document[SpecialistLetterContext, SpecialistLetterContent]{
		Context: specialistLetterContext{newContext(SpecialistLetter)},
		Content: specialistLetterContent{newContent(SpecialistLetter)},
	}
}

// NewServiceReferral creates an empty document of type ServiceReferral
func NewServiceReferral() *Document[ServiceReferralContext, ServiceReferralContent] {
	return &Document[ServiceReferralContext, ServiceReferralContent]{
		Context: serviceReferralContext{newContext(ServiceReferral)},
		Content: serviceReferralContent{newContent(ServiceReferral)},
	}
}

// NewHealthCheckAssessment creates an empty document of type HealthCheckAssessment
func NewHealthCheckAssessment() *Document[HealthCheckAssessmentContext, HealthCheckAssessmentContent] {
	return &Document[HealthCheckAssessmentContext, HealthCheckAssessmentContent]{
		Context: healthCheckAssessmentContext{newContext(HealthCheckAssessment)},
		Content: healthCheckAssessmentContent{newContent(HealthCheckAssessment)},
	}
}

// NewAdvanceCareDirectiveCustodianRecord creates an empty document of type AdvanceCareDirectiveCustodianRecord
func NewAdvanceCareDirectiveCustodianRecord() *Document[AdvanceCareDirectiveCustodianRecordContext, AdvanceCareDirectiveCustodianRecordContent] {
	return &Document[AdvanceCareDirectiveCustodianRecordContext, AdvanceCareDirectiveCustodianRecordContent]{
		Context: advanceCareDirectiveCustodianRecordContext{newContext(AdvanceCareDirectiveCustodianRecord)},
		Content: advanceCareDirectiveCustodianRecordContent{newContent(AdvanceCareDirectiveCustodianRecord)},
	}
}

// NewPathologyResultReport creates an empty document of type PathologyResultReport
func NewPathologyResultReport() *Document[PathologyResultReportContext, PathologyResultReportContent] {
	return &Document[PathologyResultReportContext, PathologyResultReportContent]{
		Context: pathologyResultReportContext{newContext(PathologyResultReport)},
		Content: pathologyResultReportContent{newContent(PathologyResultReport)},
	}
}

// NewDiagnosticImagingReport creates an empty document of type DiagnosticImagingReport
func NewDiagnosticImagingReport() *Document[DiagnosticImagingReportContext, DiagnosticImagingReportContent] {
	return &Document[DiagnosticImagingReportContext, DiagnosticImagingReportContent]{
		Context: diagnosticImagingReportContext{newContext(DiagnosticImagingReport)},
		Content: diagnosticImagingReportContent{newContent(DiagnosticImagingReport)},
	}
}

// NewEPrescription creates an empty document of type EPrescription
func NewEPrescription() *Document[EPrescriptionContext, EPrescriptionContent] {
	return &Document[EPrescriptionContext, EPrescriptionContent]{
		Context: ePrescriptionContext{newContext(EPrescription)},
		Content: ePrescriptionContent{newContent(EPrescription)},
	}
}

// NewPrescriptionRequest creates an empty document of type PrescriptionRequest
func NewPrescriptionRequest() *Document[PrescriptionRequestContext, PrescriptionRequestContent] {
	return &Document[PrescriptionRequestContext, PrescriptionRequestContent]{
		Context: prescriptionRequestContext{newContext(PrescriptionRequest)},
		Content: prescriptionRequestContent{newContent(PrescriptionRequest)},
	}
}

// NewPCEHRPrescriptionRecord creates an empty document of type PCEHRPrescriptionRecord
func NewPCEHRPrescriptionRecord() *Document[PCEHRPrescriptionRecordContext, PCEHRPrescriptionRecordContent] {
	return &Document[PCEHRPrescriptionRecordContext, PCEHRPrescriptionRecordContent]{
		Context: pcehrPrescriptionRecordContext{newContext(PCEHRPrescriptionRecord)},
		Content: pcehrPrescriptionRecordContent{newContent(PCEHRPrescriptionRecord)},
	}
}

// NewDispenseRecord creates an empty document of type DispenseRecord
func NewDispenseRecord() *Document[DispenseRecordContext, DispenseRecordContent] {
	return &Document[DispenseRecordContext, DispenseRecordContent]{
		Context: dispenseRecordContext{newContext(DispenseRecord)},
		Content: dispenseRecordContent{newContent(DispenseRecord)},
	}
}

// NewPCEHRDispenseRecord creates an empty document of type PCEHRDispenseRecord
func NewPCEHRDispenseRecord() *Document[PCEHRDispenseRecordContext, PCEHRDispenseRecordContent] {
	return &Document[PCEHRDispenseRecordContext, PCEHRDispenseRecordContent]{
		Context: pcehrDispenseRecordContext{newContext(PCEHRDispenseRecord)},
		Content: pcehrDispenseRecordContent{newContent(PCEHRDispenseRecord)},
	}
}

// NewConsumerEnteredHealthSummary creates an empty document of type ConsumerEnteredHealthSummary
func NewConsumerEnteredHealthSummary() *Document[ConsumerEnteredHealthSummaryContext, ConsumerEnteredHealthSummaryContent] {
	return &Document[ConsumerEnteredHealthSummaryContext, ConsumerEnteredHealthSummaryContent]{
		Context: consumerEnteredHealthSummaryContext{newContext(ConsumerEnteredHealthSummary)},
		Content: consumerEnteredHealthSummaryContent{newContent(ConsumerEnteredHealthSummary)},
	}
}

// NewConsumerEnteredNotes creates an empty document of type ConsumerEnteredNotes
func NewConsumerEnteredNotes() *Document[ConsumerEnteredNotesContext, ConsumerEnteredNotesContent] {
	return &Document[ConsumerEnteredNotesContext, ConsumerEnteredNotesContent]{
		Context: consumerEnteredNotesContext{newContext(ConsumerEnteredNotes)},
		Content: consumerEnteredNotesContent{newContent(ConsumerEnteredNotes)},
	}
}

// NewConsumerEnteredAchievements creates an empty document of type ConsumerEnteredAchievements
func NewConsumerEnteredAchievements() *Document[ConsumerEnteredAchievementsContext, ConsumerEnteredAchievementsContent] {
	return &Document[ConsumerEnteredAchievementsContext, ConsumerEnteredAchievementsContent]{
		Context: consumerEnteredAchievementsContext{newContext(ConsumerEnteredAchievements)},
		Content: consumerEnteredAchievementsContent{newContent(ConsumerEnteredAchievements)},
	}
}

// NewConsumerQuestionnaire creates an empty document of type ConsumerQuestionnaire
func NewConsumerQuestionnaire() *Document[ConsumerQuestionnaireContext, ConsumerQuestionnaireContent] {
	return &Document[ConsumerQuestionnaireContext, ConsumerQuestionnaireContent]{
		Context: consumerQuestionnaireContext{newContext(ConsumerQuestionnaire)},
		Content: consumerQuestionnaireContent{newContent(ConsumerQuestionnaire)},
	}
}

// NewAdvanceCareInformation creates an empty document of type AdvanceCareInformation
func NewAdvanceCareInformation() *Document[AdvanceCareInformationContext, AdvanceCareInformationContent] {
	return &Document[AdvanceCareInformationContext, AdvanceCareInformationContent]{
		Context: advanceCareInformationContext{newContext(AdvanceCareInformation)},
		Content: advanceCareInformationContent{newContent(AdvanceCareInformation)},
	}
}

// NewPersonalHealthObservation creates an empty document of type PersonalHealthObservation
func NewPersonalHealthObservation() *Document[PersonalHealthObservationContext, PersonalHealthObservationContent] {
	return &Document[PersonalHealthObservationContext, PersonalHealthObservationContent]{
		Context: personalHealthObservationContext{newContext(PersonalHealthObservation)},
		Content: personalHealthObservationContent{newContent(PersonalHealthObservation)},
	}
}

// NewChildParentQuestionnaire creates an empty document of type ChildParentQuestionnaire
func NewChildParentQuestionnaire() *Document[ChildParentQuestionnaireContext, ChildParentQuestionnaireContent] {
	return &Document[ChildParentQuestionnaireContext, ChildParentQuestionnaireContent]{
		Context: childParentQuestionnaireContext{newContext(ChildParentQuestionnaire)},
		Content: childParentQuestionnaireContent{newContent(ChildParentQuestionnaire)},
	}
}

// NewBirthDetails creates an empty document of type BirthDetails
func NewBirthDetails() *Document[BirthDetailsContext, BirthDetailsContent] {
	return &Document[BirthDetailsContext, BirthDetailsContent]{
		Context: birthDetailsContext{newContext(BirthDetails)},
		Content: birthDetailsContent{newContent(BirthDetails)},
	}
}

// NewPhysicalMeasurements creates an empty document of type PhysicalMeasurements
func NewPhysicalMeasurements() *Document[PhysicalMeasurementsContext, PhysicalMeasurementsContent] {
	return &Document[PhysicalMeasurementsContext, PhysicalMeasurementsContent]{
		Context: physicalMeasurementsContext{newContext(PhysicalMeasurements)},
		Content: physicalMeasurementsContent{newContent(PhysicalMeasurements)},
	}
}

// NewMedicareOverview creates an empty document of type MedicareOverview
func NewMedicareOverview() *Document[MedicareOverviewContext, MedicareOverviewContent] {
	return &Document[MedicareOverviewContext, MedicareOverviewContent]{
		Context: medicareOverviewContext{newContext(MedicareOverview)},
		Content: medicareOverviewContent{newContent(MedicareOverview)},
	}
}

// NewPrescriptionAndDispenseView creates an empty document of type PrescriptionAndDispenseView
func NewPrescriptionAndDispenseView() *Document[PrescriptionAndDispenseViewContext, PrescriptionAndDispenseViewContent] {
	return &Document[PrescriptionAndDispenseViewContext, PrescriptionAndDispenseViewContent]{
		Context: prescriptionAndDispenseViewContext{newContext(PrescriptionAndDispenseView)},
		Content: prescriptionAndDispenseViewContent{newContent(PrescriptionAndDispenseView)},
	}
}

// NewPathologyResultView creates an empty document of type PathologyResultView
func NewPathologyResultView() *Document[PathologyResultViewContext, PathologyResultViewContent] {
	return &Document[PathologyResultViewContext, PathologyResultViewContent]{
		Context: pathologyResultViewContext{newContext(PathologyResultView)},
		Content: pathologyResultViewContent{newContent(PathologyResultView)},
	}
}

// NewDiagnosticImagingResultView creates an empty document of type DiagnosticImagingResultView
func NewDiagnosticImagingResultView() *Document[DiagnosticImagingResultViewContext, DiagnosticImagingResultViewContent] {
	return &Document[DiagnosticImagingResultViewContext, DiagnosticImagingResultViewContent]{
		Context: diagnosticImagingResultViewContext{newContext(DiagnosticImagingResultView)},
		Content: diagnosticImagingResultViewContent{newContent(DiagnosticImagingResultView)},
	}
}

// NewMedicinesView creates an empty document of type MedicinesView
func NewMedicinesView() *Document[MedicinesViewContext, MedicinesViewContent] {
	return &Document[MedicinesViewContext, MedicinesViewContent]{
		Context: medicinesViewContext{newContext(MedicinesView)},
		Content: medicinesViewContent{newContent(MedicinesView)},
	}
}

// NewObservationView creates an empty document of type ObservationView
func NewObservationView() *Document[ObservationViewContext, ObservationViewContent] {
	return &Document[ObservationViewContext, ObservationViewContent]{
		Context: observationViewContext{newContext(ObservationView)},
		Content: observationViewContent{newContent(ObservationView)},
	}
}

var factories = map[DocumentType]func() *AnyDocument{
	EventSummary:                        func() *AnyDocument { return NewEventSummary().Erase() },
	SharedHealthSummary:                 func() *AnyDocument { return NewSharedHealthSummary().Erase() },
	DischargeSummary:                    func() *AnyDocument { return NewDischargeSummary().Erase() },
	EReferral:                           func() *AnyDocument { return NewEReferral().Erase() },
	SpecialistLetter:                    func() *AnyDocument { return NewSpecialistLetter().Erase() },
	ServiceReferral:                     func() *AnyDocument { return NewServiceReferral().Erase() },
	HealthCheckAssessment:               func() *AnyDocument { return NewHealthCheckAssessment().Erase() },
	AdvanceCareDirectiveCustodianRecord: func() *AnyDocument { return NewAdvanceCareDirectiveCustodianRecord().Erase() },
	PathologyResultReport:               func() *AnyDocument { return NewPathologyResultReport().Erase() },
	DiagnosticImagingReport:             func() *AnyDocument { return NewDiagnosticImagingReport().Erase() },
	EPrescription:                       func() *AnyDocument { return NewEPrescription().Erase() },
	PrescriptionRequest:                 func() *AnyDocument { return NewPrescriptionRequest().Erase() },
	PCEHRPrescriptionRecord:             func() *AnyDocument { return NewPCEHRPrescriptionRecord().Erase() },
	DispenseRecord:                      func() *AnyDocument { return NewDispenseRecord().Erase() },
	PCEHRDispenseRecord:                 func() *AnyDocument { return NewPCEHRDispenseRecord().Erase() },
	ConsumerEnteredHealthSummary:        func() *AnyDocument { return NewConsumerEnteredHealthSummary().Erase() },
	ConsumerEnteredNotes:                func() *AnyDocument { return NewConsumerEnteredNotes().Erase() },
	ConsumerEnteredAchievements:         func() *AnyDocument { return NewConsumerEnteredAchievements().Erase() },
	ConsumerQuestionnaire:               func() *AnyDocument { return NewConsumerQuestionnaire().Erase() },
	AdvanceCareInformation:              func() *AnyDocument { return NewAdvanceCareInformation().Erase() },
	PersonalHealthObservation:           func() *AnyDocument { return NewPersonalHealthObservation().Erase() },
	ChildParentQuestionnaire:            func() *AnyDocument { return NewChildParentQuestionnaire().Erase() },
	BirthDetails:                        func() *AnyDocument { return NewBirthDetails().Erase() },
	PhysicalMeasurements:                func() *AnyDocument { return NewPhysicalMeasurements().Erase() },
	MedicareOverview:                    func() *AnyDocument { return NewMedicareOverview().Erase() },
	PrescriptionAndDispenseView:         func() *AnyDocument { return NewPrescriptionAndDispenseView().Erase() },
	PathologyResultView:                 func() *AnyDocument { return NewPathologyResultView().Erase() },
	DiagnosticImagingResultView:         func() *AnyDocument { return NewDiagnosticImagingResultView().Erase() },
	MedicinesView:                       func() *AnyDocument { return NewMedicinesView().Erase() },
	ObservationView:                     func() *AnyDocument { return NewObservationView().Erase() },
}

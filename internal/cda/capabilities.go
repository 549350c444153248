package cda

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Validatable is implemented by every view
type Validatable interface {
	Validate(path string, v *validation.Validator)
}

// ContextView is the part of every context contract
type ContextView interface {
	Identified
	AuthoredAt
	Validatable
}

// ContentView is the part of every content contract
type ContentView interface {
	DocumentType() DocumentType
	Validatable
}

// Identified exposes document identity, version and lineage
type Identified interface {
	DocumentType() DocumentType
	DocumentID() *common.Identifier
	SetDocumentID(id *common.Identifier)
	DocumentSetID() *common.Identifier
	SetDocumentSetID(id *common.Identifier)
	Version() int
	SetVersion(n int)
	ParentDocuments() []*common.ParentDocument
	AddParentDocument(p *common.ParentDocument)
}

type AuthoredAt interface {
	DateTimeAuthored() time.Time
	SetDateTimeAuthored(t time.Time)
}

// AuthorCapability exposes the full author union
type AuthorCapability interface {
	Author() *common.Author
	SetAuthor(a *common.Author)
}

// PrescriberCapability exposes the author as the prescribing provider
type PrescriberCapability interface {
	Prescriber() *common.PartyRole
	SetPrescriber(r *common.PartyRole)
}

// DispenserCapability exposes the author as the dispensing provider
type DispenserCapability interface {
	Dispenser() *common.PartyRole
	SetDispenser(r *common.PartyRole)
}

// DeviceAuthorCapability exposes the author as a device
type DeviceAuthorCapability interface {
	AuthoringDevice() *common.AuthoringDevice
	SetAuthoringDevice(d *common.AuthoringDevice)
}

type CustodianCapability interface {
	Custodian() *common.PartyRole
	SetCustodian(r *common.PartyRole)
}

type LegalAuthenticatorCapability interface {
	LegalAuthenticator() *common.PartyRole
	SetLegalAuthenticator(r *common.PartyRole)
}

type SubjectCapability interface {
	SubjectOfCare() *common.SubjectOfCare
	SetSubjectOfCare(s *common.SubjectOfCare)
}

type RecipientsCapability interface {
	Recipients() []*common.PartyRole
	AddRecipient(r *common.PartyRole)
}

type InformantsCapability interface {
	Informants() []*common.PartyRole
	AddInformant(r *common.PartyRole)
}

type EncounterCapability interface {
	EncounterPeriod() *common.Interval
	SetEncounterPeriod(i *common.Interval)
}

type PrescriberOrganisationCapability interface {
	PrescriberOrganisation() *common.PartyRole
	SetPrescriberOrganisation(r *common.PartyRole)
}

type DispenserOrganisationCapability interface {
	DispenserOrganisation() *common.PartyRole
	SetDispenserOrganisation(r *common.PartyRole)
}

// FilteringCapability exposes the date window a view was generated for
type FilteringCapability interface {
	EarliestDateForFiltering() time.Time
	SetEarliestDateForFiltering(t time.Time)
	LatestDateForFiltering() time.Time
	SetLatestDateForFiltering(t time.Time)
}

// Content capabilities

type MedicationsCapability interface {
	Medications() []*Medication
	AddMedication(m *Medication)
}

type AdverseReactionsCapability interface {
	AdverseReactions() []*AdverseReaction
	AddAdverseReaction(a *AdverseReaction)
}

type HistoryCapability interface {
	HistoryItems() []*HistoryItem
	AddHistoryItem(h *HistoryItem)
}

type ObservationsCapability interface {
	Observations() []*Observation
	AddObservation(o *Observation)
}

type ResultsCapability interface {
	Results() []*Result
	AddResult(r *Result)
}

type PrescriptionItemsCapability interface {
	PrescriptionItems() []*PrescriptionItem
	AddPrescriptionItem(p *PrescriptionItem)
}

type DispenseItemsCapability interface {
	DispenseItems() []*DispenseItem
	AddDispenseItem(d *DispenseItem)
}

type ReferralCapability interface {
	Referral() *ReferralDetail
	SetReferral(r *ReferralDetail)
}

type AttachmentCapability interface {
	Attachment() *common.ExternalData
	SetAttachment(e *common.ExternalData)
}

type NarrativeCapability interface {
	Narrative() *NarrativeBlock
	SetNarrative(n *NarrativeBlock)
}

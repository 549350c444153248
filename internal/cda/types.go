// Package cda provides the clinical document entities, the per-variant view
// contracts that scope them, and the rule table that drives their validation.
package cda

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
)

// Programmer errors. Domain violations are never returned as errors.
var (
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrNilDocument         = errors.New("nil document")
	ErrDocumentMismatch    = errors.New("context and content belong to different document types")
)

// DocumentType selects one document variant
type DocumentType string

const (
	EventSummary                        DocumentType = "EventSummary"
	SharedHealthSummary                 DocumentType = "SharedHealthSummary"
	DischargeSummary                    DocumentType = "DischargeSummary"
	EReferral                           DocumentType = "EReferral"
	SpecialistLetter                    DocumentType = "SpecialistLetter"
	ServiceReferral                     DocumentType = "ServiceReferral"
	HealthCheckAssessment               DocumentType = "HealthCheckAssessment"
	AdvanceCareDirectiveCustodianRecord DocumentType = "AdvanceCareDirectiveCustodianRecord"
	PathologyResultReport               DocumentType = "PathologyResultReport"
	DiagnosticImagingReport             DocumentType = "DiagnosticImagingReport"
	EPrescription                       DocumentType = "EPrescription"
	PrescriptionRequest                 DocumentType = "PrescriptionRequest"
	PCEHRPrescriptionRecord             DocumentType = "PCEHRPrescriptionRecord"
	DispenseRecord                      DocumentType = "DispenseRecord"
	PCEHRDispenseRecord                 DocumentType = "PCEHRDispenseRecord"
	ConsumerEnteredHealthSummary        DocumentType = "ConsumerEnteredHealthSummary"
	ConsumerEnteredNotes                DocumentType = "ConsumerEnteredNotes"
	ConsumerEnteredAchievements         DocumentType = "ConsumerEnteredAchievements"
	ConsumerQuestionnaire               DocumentType = "ConsumerQuestionnaire"
	AdvanceCareInformation              DocumentType = "AdvanceCareInformation"
	PersonalHealthObservation           DocumentType = "PersonalHealthObservation"
	ChildParentQuestionnaire            DocumentType = "ChildParentQuestionnaire"
	BirthDetails                        DocumentType = "BirthDetails"
	PhysicalMeasurements                DocumentType = "PhysicalMeasurements"
	MedicareOverview                    DocumentType = "MedicareOverview"
	PrescriptionAndDispenseView         DocumentType = "PrescriptionAndDispenseView"
	PathologyResultView                 DocumentType = "PathologyResultView"
	DiagnosticImagingResultView         DocumentType = "DiagnosticImagingResultView"
	MedicinesView                       DocumentType = "MedicinesView"
	ObservationView                     DocumentType = "ObservationView"
)

// Family groups variants that expose the author the same way
type Family string

const (
	FamilyClinical     Family = "clinical"
	FamilyPrescription Family = "prescription"
	FamilyDispense     Family = "dispense"
	FamilyConsumer     Family = "consumer"
	FamilyView         Family = "view"
)

type typeInfo struct {
	title  string
	code   string
	system codes.CodingSystem
	family Family
}

var typeOrder = []DocumentType{
	EventSummary, SharedHealthSummary, DischargeSummary, EReferral, SpecialistLetter,
	ServiceReferral, HealthCheckAssessment, AdvanceCareDirectiveCustodianRecord,
	PathologyResultReport, DiagnosticImagingReport,
	EPrescription, PrescriptionRequest, PCEHRPrescriptionRecord,
	DispenseRecord, PCEHRDispenseRecord,
	ConsumerEnteredHealthSummary, ConsumerEnteredNotes, ConsumerEnteredAchievements,
	ConsumerQuestionnaire, AdvanceCareInformation, PersonalHealthObservation,
	ChildParentQuestionnaire, BirthDetails, PhysicalMeasurements,
	MedicareOverview, PrescriptionAndDispenseView, PathologyResultView,
	DiagnosticImagingResultView, MedicinesView, ObservationView,
}

var typeInfos = map[DocumentType]typeInfo{
	EventSummary:                        {"Event Summary", "34133-9", codes.LOINC, FamilyClinical},
	SharedHealthSummary:                 {"Shared Health Summary", "60591-5", codes.LOINC, FamilyClinical},
	DischargeSummary:                    {"Discharge Summary", "18842-5", codes.LOINC, FamilyClinical},
	EReferral:                           {"e-Referral", "57133-1", codes.LOINC, FamilyClinical},
	SpecialistLetter:                    {"Specialist Letter", "51852-2", codes.LOINC, FamilyClinical},
	ServiceReferral:                     {"Service Referral", "100.32017", codes.NCTIS, FamilyClinical},
	HealthCheckAssessment:               {"Health Check Assessment", "100.16980", codes.NCTIS, FamilyClinical},
	AdvanceCareDirectiveCustodianRecord: {"Advance Care Directive Custodian Record", "100.16696", codes.NCTIS, FamilyClinical},
	PathologyResultReport:               {"Pathology Report", "11526-1", codes.LOINC, FamilyClinical},
	DiagnosticImagingReport:             {"Diagnostic Imaging Report", "100.16957", codes.NCTIS, FamilyClinical},
	EPrescription:                       {"e-Prescription", "100.16100", codes.NCTIS, FamilyPrescription},
	PrescriptionRequest:                 {"Prescription Request", "100.16285", codes.NCTIS, FamilyPrescription},
	PCEHRPrescriptionRecord:             {"Prescription Record", "100.16765", codes.NCTIS, FamilyPrescription},
	DispenseRecord:                      {"Dispense Record", "100.16112", codes.NCTIS, FamilyDispense},
	PCEHRDispenseRecord:                 {"PCEHR Dispense Record", "100.16764", codes.NCTIS, FamilyDispense},
	ConsumerEnteredHealthSummary:        {"Consumer Entered Health Summary", "100.16685", codes.NCTIS, FamilyConsumer},
	ConsumerEnteredNotes:                {"Consumer Entered Notes", "100.16681", codes.NCTIS, FamilyConsumer},
	ConsumerEnteredAchievements:         {"Consumer Entered Achievements", "100.16998", codes.NCTIS, FamilyConsumer},
	ConsumerQuestionnaire:               {"Consumer Questionnaire", "100.16978", codes.NCTIS, FamilyConsumer},
	AdvanceCareInformation:              {"Advance Care Information", "100.16975", codes.NCTIS, FamilyConsumer},
	PersonalHealthObservation:           {"Personal Health Observation", "100.16993", codes.NCTIS, FamilyConsumer},
	ChildParentQuestionnaire:            {"Child Parent Questionnaire", "100.16979", codes.NCTIS, FamilyConsumer},
	BirthDetails:                        {"Birth Details", "100.16984", codes.NCTIS, FamilyConsumer},
	PhysicalMeasurements:                {"Physical Measurements", "100.16987", codes.NCTIS, FamilyConsumer},
	MedicareOverview:                    {"Medicare Overview", "100.16644", codes.NCTIS, FamilyView},
	PrescriptionAndDispenseView:         {"Prescription and Dispense View", "100.16590", codes.NCTIS, FamilyView},
	PathologyResultView:                 {"Pathology Result View", "100.32024", codes.NCTIS, FamilyView},
	DiagnosticImagingResultView:         {"Diagnostic Imaging Result View", "100.32028", codes.NCTIS, FamilyView},
	MedicinesView:                       {"Medicines View", "100.32002", codes.NCTIS, FamilyView},
	ObservationView:                     {"Observation View", "100.32005", codes.NCTIS, FamilyView},
}

// Types returns every document type in catalogue order
func Types() []DocumentType {
	out := make([]DocumentType, len(typeOrder))
	copy(out, typeOrder)
	return out
}

// ParseDocumentType resolves a document type by name, ignoring case
func ParseDocumentType(s string) (DocumentType, error) {
	for _, t := range typeOrder {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
}

// Valid reports whether t is a known document type
func (t DocumentType) Valid() bool {
	_, ok := typeInfos[t]
	return ok
}

// Title returns the human readable name
func (t DocumentType) Title() string {
	return typeInfos[t].title
}

// Family returns the variant family
func (t DocumentType) Family() Family {
	return typeInfos[t].family
}

// Code returns the document type code carried in the document header
func (t DocumentType) Code() *common.CodedTerm {
	info, ok := typeInfos[t]
	if !ok {
		return nil
	}
	return common.NewCodedTerm(info.code, info.title, info.system)
}

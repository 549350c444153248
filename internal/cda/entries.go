package cda

import (
	"strconv"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Medication is a medicine the subject of care is taking or has ceased
type Medication struct {
	Medicine           *common.CodedTerm
	Directions         string
	ClinicalIndication string
	Comment            string
	ChangeType         *common.CodedTerm
	ChangeStatus       *common.CodedTerm
	ChangeReason       string
}

// Validate checks the medicine against AMT and the variant's entry rules
func (m *Medication) Validate(path string, v *validation.Validator, r EntryRules) {
	common.RequireCoded(validation.Field(path, "Medicine"), m.Medicine, codes.AMT, v)
	if r.MedicationDirections {
		v.RequireNonEmpty(validation.Field(path, "Directions"), m.Directions)
	}
	if r.MedicationChange {
		v.RequireNonEmpty(validation.Field(path, "ChangeType"), m.ChangeType)
		v.RequireNonEmpty(validation.Field(path, "ChangeStatus"), m.ChangeStatus)
	}
	if m.ChangeType != nil {
		m.ChangeType.Validate(validation.Field(path, "ChangeType"), v)
	}
	if m.ChangeStatus != nil {
		m.ChangeStatus.Validate(validation.Field(path, "ChangeStatus"), v)
	}
	if m.ChangeReason != "" && m.ChangeType == nil {
		v.AddMessage(validation.Field(path, "ChangeReason"), m.ChangeReason,
			"ChangeReason can only be provided with a ChangeType")
	}
}

// AdverseReaction is an allergy or other adverse reaction
type AdverseReaction struct {
	Substance      *common.CodedTerm
	ReactionType   *common.CodedTerm
	Manifestations []*common.CodedTerm
}

// Validate checks the substance and manifestations against SNOMED CT-AU
func (a *AdverseReaction) Validate(path string, v *validation.Validator, r EntryRules) {
	common.RequireCoded(validation.Field(path, "Substance"), a.Substance, codes.SNOMEDCTAU, v)
	if a.ReactionType != nil {
		a.ReactionType.Validate(validation.Field(path, "ReactionType"), v)
	}
	if r.ReactionManifestations {
		v.CheckRange(validation.Field(path, "Manifestations"), len(a.Manifestations), 1, validation.Unbounded)
	}
	for i, m := range a.Manifestations {
		common.RequireCoded(validation.Index(path, "Manifestations", i), m, codes.SNOMEDCTAU, v)
	}
}

// HistoryItem is a problem, diagnosis or free text medical history entry
type HistoryItem struct {
	Problem     *common.CodedTerm
	Description string
	Onset       time.Time
	Resolved    time.Time
	Comment     string
}

// Validate requires exactly one of a coded problem or a description
func (h *HistoryItem) Validate(path string, v *validation.Validator) {
	v.CheckChoice(path,
		validation.Choice{Name: "Problem", Value: h.Problem},
		validation.Choice{Name: "Description", Value: h.Description},
	)
	if h.Problem != nil {
		h.Problem.Validate(validation.Field(path, "Problem"), v)
		common.CheckCodeSystem(validation.Field(path, "Problem"), h.Problem, codes.SNOMEDCTAU, v)
	}
	if !h.Resolved.IsZero() && !h.Onset.IsZero() && h.Resolved.Before(h.Onset) {
		v.AddMessage(validation.Field(path, "Resolved"), h.Resolved.Format(time.RFC3339),
			"Resolved must not be before Onset")
	}
}

// Observation is a measurement or questionnaire answer
type Observation struct {
	Name           *common.CodedTerm
	Value          string
	Unit           string
	Time           time.Time
	Interpretation *common.CodedTerm
}

// Validate checks the LOINC name and the value
func (o *Observation) Validate(path string, v *validation.Validator, r EntryRules) {
	common.RequireCoded(validation.Field(path, "Name"), o.Name, codes.LOINC, v)
	v.RequireNonEmpty(validation.Field(path, "Value"), o.Value)
	if r.ObservationTime {
		v.RequireNonEmpty(validation.Field(path, "Time"), o.Time)
	}
	if o.Unit != "" {
		if _, err := strconv.ParseFloat(o.Value, 64); o.Value != "" && err != nil {
			v.Add(validation.KindFormat, validation.Field(path, "Value"), o.Value,
				"Value must be numeric when a Unit is provided")
		}
	}
	if o.Interpretation != nil {
		o.Interpretation.Validate(validation.Field(path, "Interpretation"), v)
	}
}

// Result is a pathology or diagnostic imaging test result
type Result struct {
	TestName        *common.CodedTerm
	Status          *common.CodedTerm
	ObservationTime time.Time
	Conclusion      string
	Report          *common.ExternalData
}

// Validate checks the test name, status and timing
func (res *Result) Validate(path string, v *validation.Validator, r EntryRules) {
	common.RequireCoded(validation.Field(path, "TestName"), res.TestName, codes.LOINC, v)
	statusPath := validation.Field(path, "Status")
	if v.RequireNonEmpty(statusPath, res.Status) {
		res.Status.Validate(statusPath, v)
	}
	v.RequireNonEmpty(validation.Field(path, "ObservationTime"), res.ObservationTime)
	reportPath := validation.Field(path, "Report")
	if r.ResultReport {
		v.RequireNonEmpty(reportPath, res.Report)
	}
	if res.Report != nil {
		res.Report.Validate(reportPath, v)
	}
}

// PrescriptionItem is one prescribed therapeutic good
type PrescriptionItem struct {
	ID                     *common.Identifier
	TherapeuticGood        *common.CodedTerm
	Directions             string
	DateTimeWritten        time.Time
	Quantity               string
	MaximumRepeats         int
	BrandSubstituteAllowed bool
}

// Validate checks the item identity, the AMT good and the supply details
func (p *PrescriptionItem) Validate(path string, v *validation.Validator) {
	idPath := validation.Field(path, "ID")
	if v.RequireNonEmpty(idPath, p.ID) {
		p.ID.Validate(idPath, v)
	}
	common.RequireCoded(validation.Field(path, "TherapeuticGood"), p.TherapeuticGood, codes.AMT, v)
	v.RequireNonEmpty(validation.Field(path, "Directions"), p.Directions)
	v.RequireNonEmpty(validation.Field(path, "DateTimeWritten"), p.DateTimeWritten)
	v.RequireNonEmpty(validation.Field(path, "Quantity"), p.Quantity)
	if p.MaximumRepeats < 0 {
		v.Add(validation.KindRange, validation.Field(path, "MaximumRepeats"), strconv.Itoa(p.MaximumRepeats),
			"MaximumRepeats must not be negative")
	}
}

// DispenseItem is one dispensed therapeutic good
type DispenseItem struct {
	ID                 *common.Identifier
	PrescriptionItemID *common.Identifier
	TherapeuticGood    *common.CodedTerm
	DateTimeDispensed  time.Time
	Quantity           string
	Label              string
	RepeatsRemaining   int
}

// Validate checks the item identity, the AMT good and the dispense event
func (d *DispenseItem) Validate(path string, v *validation.Validator) {
	idPath := validation.Field(path, "ID")
	if v.RequireNonEmpty(idPath, d.ID) {
		d.ID.Validate(idPath, v)
	}
	if d.PrescriptionItemID != nil {
		d.PrescriptionItemID.Validate(validation.Field(path, "PrescriptionItemID"), v)
	}
	common.RequireCoded(validation.Field(path, "TherapeuticGood"), d.TherapeuticGood, codes.AMT, v)
	v.RequireNonEmpty(validation.Field(path, "DateTimeDispensed"), d.DateTimeDispensed)
	v.RequireNonEmpty(validation.Field(path, "Quantity"), d.Quantity)
	if d.RepeatsRemaining < 0 {
		v.Add(validation.KindRange, validation.Field(path, "RepeatsRemaining"), strconv.Itoa(d.RepeatsRemaining),
			"RepeatsRemaining must not be negative")
	}
}

// ReferralDetail holds the reason and validity of a referral
type ReferralDetail struct {
	DateTime         time.Time
	Reason           string
	ValidityDuration *common.Interval
}

// Validate requires the referral date and reason
func (r *ReferralDetail) Validate(path string, v *validation.Validator) {
	v.RequireNonEmpty(validation.Field(path, "DateTime"), r.DateTime)
	v.RequireNonEmpty(validation.Field(path, "Reason"), r.Reason)
	if r.ValidityDuration != nil {
		r.ValidityDuration.Validate(validation.Field(path, "ValidityDuration"), v)
	}
}

// NarrativeBlock is an unstructured free text body
type NarrativeBlock struct {
	Title string
	Text  string
}

// Validate requires the text
func (n *NarrativeBlock) Validate(path string, v *validation.Validator) {
	v.RequireNonEmpty(validation.Field(path, "Text"), n.Text)
}

package cda

import (
	"strings"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Content is the document body shared by every variant. Like Context it
// implements every content contract and is only handed out through one.
type Content struct {
	docType DocumentType

	medications       []*Medication
	adverseReactions  []*AdverseReaction
	historyItems      []*HistoryItem
	observations      []*Observation
	results           []*Result
	prescriptionItems []*PrescriptionItem
	dispenseItems     []*DispenseItem
	referral          *ReferralDetail
	attachment        *common.ExternalData
	narrative         *NarrativeBlock
}

func newContent(t DocumentType) *Content {
	return &Content{docType: t}
}

func (c *Content) DocumentType() DocumentType { return c.docType }

func (c *Content) Medications() []*Medication           { return c.medications }
func (c *Content) AddMedication(m *Medication)          { c.medications = append(c.medications, m) }
func (c *Content) AdverseReactions() []*AdverseReaction { return c.adverseReactions }
func (c *Content) AddAdverseReaction(a *AdverseReaction) {
	c.adverseReactions = append(c.adverseReactions, a)
}
func (c *Content) HistoryItems() []*HistoryItem           { return c.historyItems }
func (c *Content) AddHistoryItem(h *HistoryItem)          { c.historyItems = append(c.historyItems, h) }
func (c *Content) Observations() []*Observation           { return c.observations }
func (c *Content) AddObservation(o *Observation)          { c.observations = append(c.observations, o) }
func (c *Content) Results() []*Result                     { return c.results }
func (c *Content) AddResult(r *Result)                    { c.results = append(c.results, r) }
func (c *Content) PrescriptionItems() []*PrescriptionItem { return c.prescriptionItems }
func (c *Content) AddPrescriptionItem(p *PrescriptionItem) {
	c.prescriptionItems = append(c.prescriptionItems, p)
}
func (c *Content) DispenseItems() []*DispenseItem       { return c.dispenseItems }
func (c *Content) AddDispenseItem(d *DispenseItem)      { c.dispenseItems = append(c.dispenseItems, d) }
func (c *Content) Referral() *ReferralDetail            { return c.referral }
func (c *Content) SetReferral(r *ReferralDetail)        { c.referral = r }
func (c *Content) Attachment() *common.ExternalData     { return c.attachment }
func (c *Content) SetAttachment(e *common.ExternalData) { c.attachment = e }
func (c *Content) Narrative() *NarrativeBlock           { return c.narrative }
func (c *Content) SetNarrative(n *NarrativeBlock)       { c.narrative = n }

func (c *Content) count(s Section) int {
	switch s {
	case SectionMedications:
		return len(c.medications)
	case SectionAdverseReactions:
		return len(c.adverseReactions)
	case SectionHistory:
		return len(c.historyItems)
	case SectionObservations:
		return len(c.observations)
	case SectionResults:
		return len(c.results)
	case SectionPrescriptionItems:
		return len(c.prescriptionItems)
	case SectionDispenseItems:
		return len(c.dispenseItems)
	case SectionReferral:
		if c.referral != nil {
			return 1
		}
	}
	return 0
}

// Validate checks the payload alternatives, section bounds and every entry
// against the rule table entry of its variant
func (c *Content) Validate(path string, v *validation.Validator) {
	r := mustRules(c.docType)

	c.validateBody(path, r.Body, v)
	for _, s := range r.Body.Structured {
		if b, ok := r.Body.Bounds[s]; ok && c.count(s) > 0 {
			v.CheckRange(validation.Field(path, string(s)), c.count(s), b.Min, b.Max)
		}
	}
	c.validateEntries(path, r, v)
}

func (c *Content) validateBody(path string, b BodyRules, v *validation.Validator) {
	bodyPath := validation.Field(path, "Body")
	structured := false
	for _, s := range allSections {
		if c.count(s) == 0 {
			continue
		}
		if !b.structures(s) {
			v.AddMessage(validation.Field(path, string(s)), "",
				"Section "+string(s)+" is not part of a "+c.docType.Title()+" document")
			continue
		}
		structured = true
	}
	if c.attachment != nil && !b.Attachment {
		v.AddMessage(validation.Field(path, "Attachment"), "",
			"An attachment is not permitted in a "+c.docType.Title()+" document")
	}
	if c.narrative != nil && !b.Narrative {
		v.AddMessage(validation.Field(path, "Narrative"), "",
			"A narrative body is not permitted in a "+c.docType.Title()+" document")
	}

	var choices []validation.Choice
	if len(b.Structured) > 0 {
		choices = append(choices, validation.Choice{Name: "StructuredSections", Value: presence(structured)})
	}
	if b.Attachment {
		choices = append(choices, validation.Choice{Name: "Attachment", Value: c.attachment})
	}
	if b.Narrative {
		choices = append(choices, validation.Choice{Name: "Narrative", Value: c.narrative})
	}

	onlyStructured := len(choices) == 1 && len(b.Structured) > 0
	switch {
	case onlyStructured:
		if !structured && len(b.Mandatory) == 0 {
			v.Add(validation.KindRequired, bodyPath, "",
				"At least one of "+sectionNames(b.Structured)+" must be provided")
		}
	case len(choices) == 1:
		v.RequireNonEmpty(validation.Field(path, choices[0].Name), choices[0].Value)
	case len(choices) > 1:
		v.CheckChoice(bodyPath, choices...)
	}

	if structured || onlyStructured {
		for _, s := range b.Mandatory {
			if c.count(s) == 0 {
				v.Add(validation.KindRequired, validation.Field(path, string(s)), "",
					"Section "+string(s)+" must be provided")
			}
		}
	}
}

func (c *Content) validateEntries(path string, r Rules, v *validation.Validator) {
	e := r.Entries
	for i, m := range c.medications {
		if p := validation.Index(path, string(SectionMedications), i); v.RequireNonEmpty(p, m) {
			m.Validate(p, v, e)
		}
	}
	for i, a := range c.adverseReactions {
		if p := validation.Index(path, string(SectionAdverseReactions), i); v.RequireNonEmpty(p, a) {
			a.Validate(p, v, e)
		}
	}
	for i, h := range c.historyItems {
		if p := validation.Index(path, string(SectionHistory), i); v.RequireNonEmpty(p, h) {
			h.Validate(p, v)
		}
	}
	for i, o := range c.observations {
		if p := validation.Index(path, string(SectionObservations), i); v.RequireNonEmpty(p, o) {
			o.Validate(p, v, e)
		}
	}
	for i, res := range c.results {
		if p := validation.Index(path, string(SectionResults), i); v.RequireNonEmpty(p, res) {
			res.Validate(p, v, e)
		}
	}
	for i, item := range c.prescriptionItems {
		if p := validation.Index(path, string(SectionPrescriptionItems), i); v.RequireNonEmpty(p, item) {
			item.Validate(p, v)
		}
	}
	for i, item := range c.dispenseItems {
		if p := validation.Index(path, string(SectionDispenseItems), i); v.RequireNonEmpty(p, item) {
			item.Validate(p, v)
		}
	}
	if c.referral != nil {
		c.referral.Validate(validation.Field(path, string(SectionReferral)), v)
	}
	if c.attachment != nil {
		c.attachment.Validate(validation.Field(path, "Attachment"), v)
	}
	if c.narrative != nil {
		c.narrative.Validate(validation.Field(path, "Narrative"), v)
	}
}

// presence turns a flag into a value CheckChoice treats as populated or empty
func presence(ok bool) any {
	if ok {
		return true
	}
	return nil
}

func sectionNames(sections []Section) string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = string(s)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

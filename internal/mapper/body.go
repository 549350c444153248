package mapper

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
)

// HL7 table 0127
var allergenTypes = map[string]string{
	"DA": "Drug allergy",
	"FA": "Food allergy",
	"MA": "Miscellaneous allergy",
	"MC": "Miscellaneous contraindication",
	"EA": "Environmental allergy",
	"AA": "Animal allergy",
	"PA": "Plant allergy",
	"LA": "Pollen allergy",
}

// HL7 table 0123
var resultStatuses = map[string]string{
	"O": "Order received",
	"I": "No results available",
	"S": "Scheduled",
	"A": "Some results available",
	"P": "Preliminary",
	"C": "Correction",
	"R": "Results stored",
	"F": "Final",
	"X": "Cancelled",
}

// HL7 table 0078
var abnormalFlags = map[string]string{
	"L":  "Below low normal",
	"H":  "Above high normal",
	"LL": "Below lower panic limits",
	"HH": "Above upper panic limits",
	"N":  "Normal",
	"A":  "Abnormal",
	"AA": "Very abnormal",
}

// HL7 ED type of data mnemonics
var mediaTypes = map[string]string{
	"AP":    "application",
	"TEXT":  "text",
	"IM":    "image",
	"AU":    "audio",
	"MULTI": "multipart",
}

// mapBody walks the message in order so that OBX and NTE segments attach to
// the OBR group they follow
func (b *builder) mapBody() error {
	var written time.Time
	if orc := b.msg.Segment("ORC"); orc != nil {
		t, err := timestamp("ORC-9", orc.Get(9))
		if err != nil {
			return err
		}
		written = t
	}

	var group *cda.Result
	counts := map[string]int{}
	for i := range b.msg.Segments {
		seg := &b.msg.Segments[i]
		n := counts[seg.Name]
		counts[seg.Name]++
		if seg.Name != "OBX" && seg.Name != "NTE" {
			group = nil
		}

		var err error
		switch seg.Name {
		case "RXE":
			err = b.mapRXE(seg, n, written)
		case "RXD":
			err = b.mapRXD(seg, n)
		case "AL1":
			b.mapAL1(seg, n)
		case "DG1":
			err = b.mapDG1(seg, n)
		case "OBR":
			group, err = b.mapOBR(seg, n)
		case "OBX":
			err = b.mapOBX(seg, n, group)
		case "RF1":
			err = b.mapRF1(seg, n)
		case "NTE":
			b.mapNTE(seg, group)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) mapRXE(seg *hl7v2.Segment, n int, written time.Time) error {
	repeats, err := optionalInt("RXE-12", seg.Get(12))
	if err != nil {
		return err
	}
	good := codedTerm(seg.Field(2))
	directions := firstNonEmpty(seg.Component(7, 2), seg.Component(7, 1), seg.Get(21))

	content := b.doc.Content
	if p, ok := content.(cda.PrescriptionItemsCapability); ok {
		if written.IsZero() {
			written = b.authoredAt
		}
		p.AddPrescriptionItem(&cda.PrescriptionItem{
			ID:                     b.itemID(seg.Get(15)),
			TherapeuticGood:        good,
			Directions:             directions,
			DateTimeWritten:        written,
			Quantity:               quantity(seg.Get(10), seg.Field(11)),
			MaximumRepeats:         repeats,
			BrandSubstituteAllowed: seg.Get(9) != "N",
		})
		b.bodyMapped = true
		return nil
	}
	if m, ok := content.(cda.MedicationsCapability); ok {
		m.AddMedication(&cda.Medication{
			Medicine:           good,
			Directions:         directions,
			ClinicalIndication: firstNonEmpty(seg.Component(27, 2), seg.Component(27, 1)),
		})
		b.bodyMapped = true
		return nil
	}
	b.notPart("RXE", n)
	return nil
}

func (b *builder) mapRXD(seg *hl7v2.Segment, n int) error {
	dispensed, err := timestamp("RXD-3", seg.Get(3))
	if err != nil {
		return err
	}
	remaining, err := optionalInt("RXD-8", seg.Get(8))
	if err != nil {
		return err
	}

	d, ok := b.doc.Content.(cda.DispenseItemsCapability)
	if !ok {
		b.notPart("RXD", n)
		return nil
	}
	d.AddDispenseItem(&cda.DispenseItem{
		ID:                 common.NewUUIDIdentifier(),
		PrescriptionItemID: b.linkedID(seg.Get(7)),
		TherapeuticGood:    codedTerm(seg.Field(2)),
		DateTimeDispensed:  dispensed,
		Quantity:           quantity(seg.Get(4), seg.Field(5)),
		Label:              seg.Get(9),
		RepeatsRemaining:   remaining,
	})
	b.bodyMapped = true
	return nil
}

func (b *builder) mapAL1(seg *hl7v2.Segment, n int) {
	a, ok := b.doc.Content.(cda.AdverseReactionsCapability)
	if !ok {
		b.notPart("AL1", n)
		return
	}
	r := &cda.AdverseReaction{Substance: codedTerm(seg.Field(3))}
	if t := seg.Component(2, 1); t != "" {
		r.ReactionType = tableTerm(t, allergenTypes, codes.HL7AllergenType)
	}
	for _, rep := range seg.Repetitions(5) {
		if term := codedTermOf(rep); term != nil {
			r.Manifestations = append(r.Manifestations, term)
		}
	}
	a.AddAdverseReaction(r)
	b.bodyMapped = true
}

func (b *builder) mapDG1(seg *hl7v2.Segment, n int) error {
	onset, err := timestamp("DG1-5", seg.Get(5))
	if err != nil {
		return err
	}
	h, ok := b.doc.Content.(cda.HistoryCapability)
	if !ok {
		b.notPart("DG1", n)
		return nil
	}
	item := &cda.HistoryItem{Problem: codedTerm(seg.Field(3)), Onset: onset}
	if item.Problem == nil {
		item.Description = seg.Get(4)
	}
	h.AddHistoryItem(item)
	b.bodyMapped = true
	return nil
}

// mapOBR opens a result group when the variant carries results. Otherwise
// the OBX segments that follow become observations.
func (b *builder) mapOBR(seg *hl7v2.Segment, n int) (*cda.Result, error) {
	at, err := timestamp("OBR-7", seg.Get(7))
	if err != nil {
		return nil, err
	}
	r, ok := b.doc.Content.(cda.ResultsCapability)
	if !ok {
		return nil, nil
	}
	res := &cda.Result{TestName: codedTerm(seg.Field(4)), ObservationTime: at}
	if s := seg.Get(25); s != "" {
		res.Status = tableTerm(s, resultStatuses, codes.HL7ResultStatus)
	}
	r.AddResult(res)
	b.bodyMapped = true
	return res, nil
}

func (b *builder) mapOBX(seg *hl7v2.Segment, n int, group *cda.Result) error {
	content := b.doc.Content
	valueType := seg.Get(2)

	if valueType == "ED" || valueType == "RP" {
		data, err := externalData(seg, valueType)
		if err != nil {
			return err
		}
		if group != nil && group.Report == nil {
			group.Report = data
			return nil
		}
		if a, ok := content.(cda.AttachmentCapability); ok && a.Attachment() == nil {
			a.SetAttachment(data)
			b.bodyMapped = true
			return nil
		}
		b.notPart("OBX", n)
		return nil
	}

	if group != nil {
		switch valueType {
		case "TX", "FT", "ST":
			group.Conclusion = joinLines(group.Conclusion, obxValue(seg, valueType))
		default:
			b.skip("OBX", n, "result groups only carry text conclusions and reports")
		}
		return nil
	}

	at, err := timestamp("OBX-14", seg.Get(14))
	if err != nil {
		return err
	}
	o, ok := content.(cda.ObservationsCapability)
	if !ok {
		b.notPart("OBX", n)
		return nil
	}
	obs := &cda.Observation{
		Name:  codedTerm(seg.Field(3)),
		Value: obxValue(seg, valueType),
		Unit:  seg.Component(6, 1),
		Time:  at,
	}
	if flag := seg.Get(8); flag != "" {
		obs.Interpretation = tableTerm(flag, abnormalFlags, codes.HL7AbnormalFlags)
	}
	o.AddObservation(obs)
	b.bodyMapped = true
	return nil
}

func (b *builder) mapRF1(seg *hl7v2.Segment, n int) error {
	effective, err := timestamp("RF1-7", seg.Get(7))
	if err != nil {
		return err
	}
	expires, err := timestamp("RF1-8", seg.Get(8))
	if err != nil {
		return err
	}
	r, ok := b.doc.Content.(cda.ReferralCapability)
	if !ok {
		b.notPart("RF1", n)
		return nil
	}
	if effective.IsZero() {
		effective = b.authoredAt
	}
	ref := &cda.ReferralDetail{
		DateTime: effective,
		Reason:   firstNonEmpty(seg.Component(10, 2), seg.Component(10, 1)),
	}
	if !expires.IsZero() {
		ref.ValidityDuration = common.NewInterval(effective, expires)
	}
	r.SetReferral(ref)
	b.referral = ref
	b.bodyMapped = true
	return nil
}

func (b *builder) mapNTE(seg *hl7v2.Segment, group *cda.Result) {
	var lines []string
	for _, rep := range seg.Repetitions(3) {
		if s := strings.TrimSpace(strings.Join(rep, " ")); s != "" {
			lines = append(lines, s)
		}
	}
	text := strings.Join(lines, "\n")
	if text == "" {
		return
	}
	if group != nil {
		group.Conclusion = joinLines(group.Conclusion, text)
		return
	}
	b.notes = append(b.notes, text)
}

// placeNotes gives free text comments a home: an empty referral reason, or
// a narrative body when nothing structured was mapped
func (b *builder) placeNotes() {
	if len(b.notes) == 0 {
		return
	}
	text := strings.Join(b.notes, "\n")
	if b.referral != nil && b.referral.Reason == "" {
		b.referral.Reason = text
		return
	}
	if n, ok := b.doc.Content.(cda.NarrativeCapability); ok && !b.bodyMapped {
		n.SetNarrative(&cda.NarrativeBlock{Title: "Notes", Text: text})
		return
	}
	for i := range b.notes {
		b.skip("NTE", i, "notes have no place in a "+b.doc.Type().Title()+" document")
	}
}

func (b *builder) itemID(number string) *common.Identifier {
	if id := b.linkedID(number); id != nil {
		return id
	}
	return common.NewUUIDIdentifier()
}

// linkedID builds a reproducible identifier for a prescription number so
// that dispense items can point back at the prescription item
func (b *builder) linkedID(number string) *common.Identifier {
	number = strings.TrimSpace(number)
	switch {
	case number == "":
		return nil
	case b.opts.IdentifierRoot != "":
		return common.NewIdentifier(b.opts.IdentifierRoot, number)
	case common.IsUUID(number):
		return common.NewIdentifier(number, "")
	}
	return nil
}

// codedTerm maps a CE/CWE: code^text^system^alt code^alt text^alt system
func codedTerm(f hl7v2.Field) *common.CodedTerm {
	if len(f.Repeats) == 0 {
		return nil
	}
	return codedTermOf(f.Repeats[0])
}

func codedTermOf(comps []string) *common.CodedTerm {
	get := func(i int) string { return hl7v2.Subcomponent(comps, i) }
	t := term(get(1), get(2), get(3))
	if t == nil {
		return nil
	}
	if alt := term(get(4), get(5), get(6)); alt != nil && alt.HasCodeSystem() {
		t.Translations = append(t.Translations, alt)
	}
	return t
}

func term(code, text, system string) *common.CodedTerm {
	if code == "" && text == "" {
		return nil
	}
	if cs, ok := codes.CodingSystemByMnemonic(system); ok && code != "" {
		t := common.NewCodedTerm(code, text, cs)
		if text == "" {
			t.OriginalText = code
		}
		return t
	}
	return common.NewOriginalText(firstNonEmpty(text, code))
}

func tableTerm(code string, table map[string]string, system codes.CodingSystem) *common.CodedTerm {
	if display, ok := table[code]; ok {
		return common.NewCodedTerm(code, display, system)
	}
	return common.NewOriginalText(code)
}

func quantity(amount string, units hl7v2.Field) string {
	return strings.TrimSpace(amount + " " + firstNonEmpty(units.Component(2), units.Component(1)))
}

func optionalInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &MapError{Field: field, Code: CodeInvalidMessage, Message: "expected a whole number", Cause: err}
	}
	return n, nil
}

func obxValue(seg *hl7v2.Segment, valueType string) string {
	if valueType == "CE" || valueType == "CWE" {
		return firstNonEmpty(seg.Component(5, 2), seg.Component(5, 1))
	}
	var parts []string
	for _, rep := range seg.Repetitions(5) {
		parts = append(parts, strings.TrimSpace(strings.Join(rep, "")))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// externalData maps an ED (source^type^subtype^encoding^data) or an RP
// (pointer^application^type^subtype) value
func externalData(seg *hl7v2.Segment, valueType string) (*common.ExternalData, error) {
	if valueType == "RP" {
		return &common.ExternalData{
			Reference: seg.Component(5, 1),
			MediaType: mediaType(seg.Component(5, 3), seg.Component(5, 4)),
		}, nil
	}

	e := &common.ExternalData{MediaType: mediaType(seg.Component(5, 2), seg.Component(5, 3))}
	raw := seg.Component(5, 5)
	var err error
	switch strings.ToUpper(seg.Component(5, 4)) {
	case "BASE64":
		e.Data, err = base64.StdEncoding.DecodeString(raw)
	case "HEX":
		e.Data, err = hex.DecodeString(raw)
	default:
		e.Data = []byte(raw)
	}
	if err != nil {
		return nil, &MapError{Field: "OBX-5", Code: CodeInvalidMessage, Message: "attachment data cannot be decoded", Cause: err}
	}
	if len(e.Data) == 0 {
		e.Data = nil
	}
	return e, nil
}

func mediaType(kind, subtype string) string {
	subtype = strings.ToLower(subtype)
	if strings.Contains(subtype, "/") {
		return subtype
	}
	if k, ok := mediaTypes[strings.ToUpper(kind)]; ok {
		kind = k
	}
	if kind == "" || subtype == "" {
		return ""
	}
	return strings.ToLower(kind) + "/" + subtype
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}

package mapper

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

const itemRoot = "1.2.36.1.2001.1005.43.1"

// seg builds a segment from sparse 1-based fields. A string is one
// component, a []string one repetition and a [][]string several.
func seg(name string, fields map[int]any) hl7v2.Segment {
	n := 0
	for i := range fields {
		if i > n {
			n = i
		}
	}
	s := hl7v2.Segment{Name: name, Fields: make([]hl7v2.Field, n)}
	for i, v := range fields {
		switch v := v.(type) {
		case string:
			s.Fields[i-1] = hl7v2.Field{Repeats: [][]string{{v}}}
		case []string:
			s.Fields[i-1] = hl7v2.Field{Repeats: [][]string{v}}
		case [][]string:
			s.Fields[i-1] = hl7v2.Field{Repeats: v}
		}
	}
	return s
}

func msh(event string) hl7v2.Segment {
	return seg("MSH", map[int]any{
		1:  "|",
		2:  `^~\&`,
		3:  "GPSoft",
		4:  []string{"Sandy Bay Clinic", "8003621566684455"},
		7:  "20260314093000+1100",
		9:  strings.Split(event, "^"),
		10: "MSG0001",
		12: "2.4",
	})
}

func pid() hl7v2.Segment {
	return seg("PID", map[int]any{
		3: [][]string{
			{"8003608166690503", "", "", "AUSHIC", "NI"},
			{"2950156481", "", "", "AUSHIC", "MC"},
		},
		5:  []string{"Citizen", "Alex"},
		7:  "19750802",
		8:  "F",
		10: "4",
		11: [][]string{{"12 Elizabeth St", "", "Hobart", "TAS", "7000", "AU", "H"}},
	})
}

func message(segments ...hl7v2.Segment) *hl7v2.Message {
	return &hl7v2.Message{Segments: segments}
}

func mapDocument(t *testing.T, opts Options, dt cda.DocumentType, segments ...hl7v2.Segment) *MapResult {
	t.Helper()
	res, err := NewHL7ToCDAMapper(opts).Map(message(segments...), dt)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	return res
}

func hasSkipped(res *MapResult, prefix string) bool {
	for _, s := range res.Skipped {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func TestMapReferral(t *testing.T) {
	res := mapDocument(t, Options{}, cda.EReferral,
		msh("REF^I12"),
		pid(),
		seg("PRD", map[int]any{
			1: "RP",
			2: []string{"Nguyen", "Sam", "", "", "Dr"},
			3: [][]string{{"1 Main St", "", "Hobart", "TAS", "7000", "AU", "B"}},
			7: [][]string{{"8003619900015717"}},
		}),
		seg("PRD", map[int]any{1: "RT", 2: []string{"Lee", "Jordan"}}),
		seg("AL1", map[int]any{
			1: "1",
			2: "DA",
			3: []string{"91936005", "Allergy to penicillin", "SCT"},
			5: [][]string{{"271807003", "Rash", "SCT"}},
		}),
		seg("RF1", map[int]any{
			1:  "A",
			6:  "REF-1",
			7:  "20260314",
			8:  "20260614",
			10: []string{"", "Chest pain review"},
		}),
	)

	if res.MessageID != "MSG0001" {
		t.Errorf("MessageID = %q", res.MessageID)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("unexpected skipped segments: %v", res.Skipped)
	}

	ctx := res.Document.Context
	authored := time.Date(2026, 3, 13, 22, 30, 0, 0, time.UTC)
	if !ctx.DateTimeAuthored().Equal(authored) {
		t.Errorf("DateTimeAuthored = %v, want %v", ctx.DateTimeAuthored(), authored)
	}

	author := ctx.(cda.AuthorCapability).Author()
	if author == nil || author.HealthcareProvider == nil {
		t.Fatal("author was not mapped")
	}
	if !author.Time.Equal(authored) {
		t.Errorf("author time = %v", author.Time)
	}
	if ids := author.HealthcareProvider.Party.Identifiers; len(ids) != 1 || !ids[0].IsHPII() {
		t.Errorf("author identifiers = %v", ids)
	}
	if got := ctx.(cda.RecipientsCapability).Recipients(); len(got) != 1 {
		t.Errorf("recipients = %d, want 1", len(got))
	}

	subject := ctx.(cda.SubjectCapability).SubjectOfCare()
	if ids := subject.Party.Identifiers; len(ids) != 1 || !ids[0].IsIHI() {
		t.Errorf("subject identifiers = %v", ids)
	}
	if e := subject.Party.Entitlements; len(e) != 1 || e[0].ID.Root != MedicareCardRoot {
		t.Errorf("subject entitlements = %v", e)
	}
	if len(subject.Party.Addresses) != 1 {
		t.Errorf("subject addresses = %d, want 1", len(subject.Party.Addresses))
	}
	if c := ctx.(cda.CustodianCapability).Custodian(); c == nil || len(c.Party.Identifiers) != 1 {
		t.Errorf("custodian = %v", c)
	}

	content := res.Document.Content
	ref := content.(cda.ReferralCapability).Referral()
	if ref == nil || ref.Reason != "Chest pain review" || ref.ValidityDuration == nil {
		t.Fatalf("referral = %+v", ref)
	}
	reactions := content.(cda.AdverseReactionsCapability).AdverseReactions()
	if len(reactions) != 1 {
		t.Fatalf("adverse reactions = %d, want 1", len(reactions))
	}
	if rt := reactions[0].ReactionType; rt == nil || rt.Code != "DA" {
		t.Errorf("reaction type = %+v", rt)
	}
	if len(reactions[0].Manifestations) != 1 {
		t.Errorf("manifestations = %d, want 1", len(reactions[0].Manifestations))
	}

	msgs, err := cda.Check(res.Document)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	for _, m := range msgs {
		if m.Kind == validation.KindRequired && (m.Path == "Author" || m.Path == "Body") {
			t.Errorf("unexpected violation %s", m)
		}
	}
}

func TestMapErrors(t *testing.T) {
	badRepeats := seg("RXE", map[int]any{2: []string{"1234567", "Amoxicillin", "AMT"}, 12: "two"})
	badMSH := seg("MSH", map[int]any{1: "|", 7: "2026-03-14"})

	tests := []struct {
		name      string
		msg       *hl7v2.Message
		dt        cda.DocumentType
		wantField string
		wantCode  string
	}{
		{"nil message", nil, cda.EReferral, "Message", CodeNullInput},
		{"no segments", message(), cda.EReferral, "MSH", CodeInvalidMessage},
		{"header not first", message(pid(), msh("REF^I12")), cda.EReferral, "MSH", CodeMissingSegment},
		{"no patient", message(msh("REF^I12")), cda.EReferral, "PID", CodeMissingSegment},
		{"malformed message time", message(badMSH, pid()), cda.EReferral, "MSH-7", CodeInvalidTimestamp},
		{"unknown type", message(msh("REF^I12"), pid()), cda.DocumentType("Nope"), "DocumentType", CodeUnknownType},
		{"repeats not a number", message(msh("RDE^O11"), pid(), badRepeats), cda.EPrescription, "RXE-12", CodeInvalidMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewHL7ToCDAMapper(Options{}).Map(tt.msg, tt.dt)
			if res != nil {
				t.Error("no result expected on failure")
			}
			var me *MapError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MapError, got %v", err)
			}
			if me.Field != tt.wantField || me.Code != tt.wantCode {
				t.Errorf("got %s/%s, want %s/%s", me.Field, me.Code, tt.wantField, tt.wantCode)
			}
		})
	}
}

func TestMapUnknownTypeWrapsSentinel(t *testing.T) {
	_, err := NewHL7ToCDAMapper(Options{}).Map(message(msh("REF^I12"), pid()), "Nope")
	if !errors.Is(err, cda.ErrUnknownDocumentType) {
		t.Errorf("got %v, want ErrUnknownDocumentType", err)
	}
}

func TestMapPrescription(t *testing.T) {
	res := mapDocument(t, Options{IdentifierRoot: itemRoot}, cda.EPrescription,
		msh("RDE^O11"),
		pid(),
		seg("ORC", map[int]any{
			1:  "NW",
			9:  "20260314090000",
			12: []string{"8003619900015717", "Nguyen", "Sam"},
		}),
		seg("RXE", map[int]any{
			2:  []string{"1234567", "Amoxicillin 500 mg capsule", "AMT"},
			7:  []string{"", "Take one capsule three times daily"},
			9:  "N",
			10: "20",
			11: []string{"CAP", "capsule"},
			12: "1",
			15: "RX-42",
		}),
		seg("AL1", map[int]any{3: []string{"91936005", "Allergy to penicillin", "SCT"}}),
	)

	if !hasSkipped(res, "AL1[0]") {
		t.Errorf("AL1 should be skipped, got %v", res.Skipped)
	}

	ctx := res.Document.Context
	if _, ok := ctx.(cda.AuthorCapability); ok {
		t.Fatal("prescriptions expose a prescriber, not an author")
	}
	if ctx.(cda.PrescriberCapability).Prescriber() == nil {
		t.Error("prescriber was not mapped")
	}
	if org := ctx.(cda.PrescriberOrganisationCapability).PrescriberOrganisation(); org == nil {
		t.Error("prescriber organisation should fall back to the sending facility")
	}

	items := res.Document.Content.(cda.PrescriptionItemsCapability).PrescriptionItems()
	if len(items) != 1 {
		t.Fatalf("prescription items = %d, want 1", len(items))
	}
	item := items[0]
	if !item.ID.Equal(common.NewIdentifier(itemRoot, "RX-42")) {
		t.Errorf("ID = %v", item.ID)
	}
	if item.Directions != "Take one capsule three times daily" {
		t.Errorf("Directions = %q", item.Directions)
	}
	if item.Quantity != "20 capsule" {
		t.Errorf("Quantity = %q", item.Quantity)
	}
	if item.MaximumRepeats != 1 || item.BrandSubstituteAllowed {
		t.Errorf("repeats/substitution = %d/%v", item.MaximumRepeats, item.BrandSubstituteAllowed)
	}
	if want := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC); !item.DateTimeWritten.Equal(want) {
		t.Errorf("DateTimeWritten = %v", item.DateTimeWritten)
	}
}

func TestMapDispenseLinksPrescriptionItem(t *testing.T) {
	res := mapDocument(t, Options{IdentifierRoot: itemRoot}, cda.DispenseRecord,
		msh("RDS^O13"),
		pid(),
		seg("RXD", map[int]any{
			1:  "1",
			2:  []string{"1234567", "Amoxicillin 500 mg capsule", "AMT"},
			3:  "20260315100000",
			4:  "20",
			5:  []string{"CAP", "capsule"},
			7:  "RX-42",
			8:  "0",
			9:  "Take one capsule three times daily",
			10: []string{"8003619900015717", "Tran", "Kim"},
		}),
	)

	ctx := res.Document.Context
	if ctx.(cda.DispenserCapability).Dispenser() == nil {
		t.Error("dispenser should fall back to RXD-10")
	}
	items := res.Document.Content.(cda.DispenseItemsCapability).DispenseItems()
	if len(items) != 1 {
		t.Fatalf("dispense items = %d, want 1", len(items))
	}
	if !items[0].PrescriptionItemID.Equal(common.NewIdentifier(itemRoot, "RX-42")) {
		t.Errorf("PrescriptionItemID = %v", items[0].PrescriptionItemID)
	}
	if items[0].ID == nil || items[0].Label == "" {
		t.Errorf("dispense item = %+v", items[0])
	}
}

func TestMapResultGroup(t *testing.T) {
	res := mapDocument(t, Options{}, cda.PathologyResultReport,
		msh("ORU^R01"),
		pid(),
		seg("OBR", map[int]any{
			4:  []string{"2951-2", "Sodium", "LN"},
			7:  "20260314080000",
			16: []string{"8003619900015717", "Nguyen", "Sam"},
			25: "F",
		}),
		seg("OBX", map[int]any{
			2: "ED",
			3: []string{"11526-1", "Pathology report", "LN"},
			5: []string{"LAB", "AP", "pdf", "Base64", "JVBERi0xLjQ="},
		}),
		seg("OBX", map[int]any{2: "TX", 5: "Sodium within range"}),
		seg("NTE", map[int]any{3: "Reviewed by duty pathologist"}),
	)

	results := res.Document.Content.(cda.ResultsCapability).Results()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.Status == nil || r.Status.Code != "F" {
		t.Errorf("Status = %+v", r.Status)
	}
	if r.Report == nil || r.Report.MediaType != "application/pdf" || string(r.Report.Data) != "%PDF-1.4" {
		t.Fatalf("Report = %+v", r.Report)
	}
	if want := "Sodium within range\nReviewed by duty pathologist"; r.Conclusion != want {
		t.Errorf("Conclusion = %q, want %q", r.Conclusion, want)
	}
	if res.Document.Context.(cda.AuthorCapability).Author() == nil {
		t.Error("author should fall back to OBR-16")
	}
}

func TestMapAttachmentDecodingFailure(t *testing.T) {
	_, err := NewHL7ToCDAMapper(Options{}).Map(message(
		msh("MDM^T02"),
		pid(),
		seg("OBX", map[int]any{2: "ED", 5: []string{"", "AP", "pdf", "Base64", "not base64!"}}),
	), cda.SpecialistLetter)

	var me *MapError
	if !errors.As(err, &me) || me.Field != "OBX-5" {
		t.Fatalf("expected OBX-5 error, got %v", err)
	}
}

func TestMapNotes(t *testing.T) {
	t.Run("referral reason", func(t *testing.T) {
		res := mapDocument(t, Options{}, cda.EReferral,
			msh("REF^I12"), pid(),
			seg("RF1", map[int]any{7: "20260314"}),
			seg("NTE", map[int]any{3: "Please review"}),
		)
		ref := res.Document.Content.(cda.ReferralCapability).Referral()
		if ref == nil || ref.Reason != "Please review" {
			t.Errorf("referral = %+v", ref)
		}
		if !ref.DateTime.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("referral DateTime = %v", ref.DateTime)
		}
	})

	t.Run("narrative", func(t *testing.T) {
		res := mapDocument(t, Options{}, cda.ConsumerEnteredNotes,
			msh("MDM^T02"), pid(),
			seg("NTE", map[int]any{3: "Slept badly"}),
			seg("NTE", map[int]any{3: "Headache in the morning"}),
		)
		n := res.Document.Content.(cda.NarrativeCapability).Narrative()
		if n == nil || n.Text != "Slept badly\nHeadache in the morning" {
			t.Errorf("narrative = %+v", n)
		}
	})

	t.Run("no home", func(t *testing.T) {
		res := mapDocument(t, Options{}, cda.DispenseRecord,
			msh("RDS^O13"), pid(),
			seg("NTE", map[int]any{3: "Counselled"}),
		)
		if !hasSkipped(res, "NTE[0]") {
			t.Errorf("note should be skipped, got %v", res.Skipped)
		}
	})
}

func TestMapEncounter(t *testing.T) {
	pv1 := seg("PV1", map[int]any{44: "20260310", 45: "20260314"})

	res := mapDocument(t, Options{}, cda.DischargeSummary, msh("ADT^A03"), pid(), pv1)
	period := res.Document.Context.(cda.EncounterCapability).EncounterPeriod()
	if period == nil || !period.Contains(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("encounter period = %+v", period)
	}

	res = mapDocument(t, Options{}, cda.EReferral, msh("REF^I12"), pid(), pv1)
	if !hasSkipped(res, "PV1[0]") {
		t.Errorf("PV1 should be skipped for a referral, got %v", res.Skipped)
	}
}

func TestMapView(t *testing.T) {
	earliest := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	setID := common.NewUUIDIdentifier()

	res := mapDocument(t, Options{
		Version:                  2,
		SetID:                    setID,
		EarliestDateForFiltering: earliest,
		LatestDateForFiltering:   latest,
	}, cda.PathologyResultView, msh("ORU^R01"), pid())

	ctx := res.Document.Context
	if _, ok := ctx.(cda.AuthorCapability); ok {
		t.Fatal("views are authored by a device")
	}
	if d := ctx.(cda.DeviceAuthorCapability).AuthoringDevice(); d == nil || d.SoftwareName != "GPSoft" {
		t.Errorf("authoring device = %+v", d)
	}
	f := ctx.(cda.FilteringCapability)
	if !f.EarliestDateForFiltering().Equal(earliest) || !f.LatestDateForFiltering().Equal(latest) {
		t.Errorf("filtering = %v..%v", f.EarliestDateForFiltering(), f.LatestDateForFiltering())
	}
	if ctx.Version() != 2 || !ctx.DocumentSetID().Equal(setID) {
		t.Errorf("version/set = %d/%v", ctx.Version(), ctx.DocumentSetID())
	}
}

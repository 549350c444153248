package r5

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

func TestIssueType(t *testing.T) {
	tests := []struct {
		kind validation.Kind
		want string
	}{
		{validation.KindRequired, IssueRequired},
		{validation.KindRange, IssueValue},
		{validation.KindFormat, IssueValue},
		{validation.KindChoice, IssueBusinessRule},
		{validation.KindBusinessRule, IssueBusinessRule},
		{validation.KindCodeSystem, IssueCodeInvalid},
		{validation.KindInvalid, IssueInvalid},
		{validation.Kind("other"), IssueInvalid},
	}
	for _, tt := range tests {
		if got := IssueType(tt.kind); got != tt.want {
			t.Errorf("IssueType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewValidationOutcome(t *testing.T) {
	docType := common.NewCodedTerm("57133-1", "e-Referral", codes.LOINC)
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	out := NewValidationOutcome(docType, []validation.Message{
		{Path: "Author", Text: "Author is required", Kind: validation.KindRequired},
		{Path: "", Text: "document body is empty", Kind: validation.KindBusinessRule},
	}, at)

	if !out.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(out.Issue) != 2 {
		t.Fatalf("issues = %d, want 2", len(out.Issue))
	}
	first := out.Issue[0]
	if first.Code != IssueRequired || len(first.Expression) != 1 || first.Expression[0] != "Author" {
		t.Errorf("first issue = %+v", first)
	}
	if first.Details == nil || first.Details.Text != "Author is required" {
		t.Errorf("first issue details = %+v", first.Details)
	}
	if out.Issue[1].Expression != nil {
		t.Errorf("root violations carry no expression, got %v", out.Issue[1].Expression)
	}
	if len(out.Meta.Tag) != 1 || out.Meta.Tag[0].System != SystemLOINC {
		t.Errorf("meta tags = %+v", out.Meta.Tag)
	}

	body, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["resourceType"] != "OperationOutcome" {
		t.Errorf("resourceType = %v", decoded["resourceType"])
	}
}

func TestNewValidationOutcomeForValidDocument(t *testing.T) {
	out := NewValidationOutcome(nil, nil, time.Now())
	if out.HasErrors() {
		t.Error("a valid document has no errors")
	}
	if len(out.Issue) != 1 || out.Issue[0].Severity != SeverityInformation {
		t.Errorf("issues = %+v", out.Issue)
	}
}

func TestNewCodeableConcept(t *testing.T) {
	term := common.NewCodedTerm("1234567", "Amoxicillin", codes.AMT)
	term.Translations = []*common.CodedTerm{common.NewCodedTerm("91936005", "Penicillin", codes.SNOMEDCTAU)}

	cc := NewCodeableConcept(term)
	if cc.Text != "Amoxicillin" || len(cc.Coding) != 2 {
		t.Fatalf("concept = %+v", cc)
	}
	if cc.Coding[0].System != SystemOIDPrefix+codes.AMT.OID {
		t.Errorf("system = %q", cc.Coding[0].System)
	}
	if cc.Coding[1].System != SystemSNOMED {
		t.Errorf("translation system = %q", cc.Coding[1].System)
	}
	if NewCodeableConcept(nil) != nil {
		t.Error("nil term should render nil")
	}
	if got := NewCodeableConcept(common.NewOriginalText("Influenza")); got.Text != "Influenza" || got.Coding != nil {
		t.Errorf("original text = %+v", got)
	}
}

package common

import (
	"testing"

	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

func TestCodedTermDisplayNameWithoutCodeSystem(t *testing.T) {
	v := validation.New()
	(&CodedTerm{DisplayName: "Influenza"}).Validate("Problem", v)

	msgs := v.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %v", msgs)
	}
	if msgs[0].Text != "DisplayName can only be provided if a CodeSystem is specified" {
		t.Errorf("unexpected text %q", msgs[0].Text)
	}
	if msgs[0].Path != "Problem.DisplayName" {
		t.Errorf("unexpected path %q", msgs[0].Path)
	}
}

func TestCodedTermRules(t *testing.T) {
	tests := []struct {
		name  string
		term  *CodedTerm
		paths []string
	}{
		{
			name: "coded",
			term: NewCodedTerm("6142004", "Influenza", codes.SNOMEDCTAU),
		},
		{
			name: "original text only",
			term: NewOriginalText("flu like illness"),
		},
		{
			name: "null flavor only",
			term: NewNullFlavorTerm(codes.NullFlavorAskedButUnknown),
		},
		{
			name:  "empty",
			term:  &CodedTerm{},
			paths: []string{"Term"},
		},
		{
			name:  "code without system",
			term:  &CodedTerm{Code: "6142004", OriginalText: "flu"},
			paths: []string{"Term.Code"},
		},
		{
			name: "qualifiers without original text",
			term: &CodedTerm{
				Code: "6142004", CodeSystemCode: codes.SNOMEDCTAU.OID, DisplayName: "Influenza",
				Qualifiers: []*Qualifier{{
					Name:  NewCodedTerm("272741003", "Laterality", codes.SNOMEDCTAU),
					Value: NewCodedTerm("7771000", "Left", codes.SNOMEDCTAU),
				}},
			},
			paths: []string{"Term.OriginalText"},
		},
		{
			name: "invalid translation",
			term: &CodedTerm{
				OriginalText: "flu",
				Translations: []*CodedTerm{{DisplayName: "Influenza"}},
			},
			paths: []string{"Term.Translations[0].DisplayName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.New()
			tt.term.Validate("Term", v)
			if v.Len() != len(tt.paths) {
				t.Fatalf("expected %d messages, got %v", len(tt.paths), v.Messages())
			}
			for _, p := range tt.paths {
				if !v.HasPath(p) {
					t.Errorf("missing violation at %q: %v", p, v.Messages())
				}
			}
		})
	}
}

func TestCodedTermNarrative(t *testing.T) {
	tests := []struct {
		term *CodedTerm
		want string
	}{
		{&CodedTerm{OriginalText: "flu", DisplayName: "Influenza"}, "flu"},
		{NewCodedTerm("6142004", "Influenza", codes.SNOMEDCTAU), "Influenza"},
		{NewNullFlavorTerm(codes.NullFlavorUnknown), "unknown"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := tt.term.Narrative(); got != tt.want {
			t.Errorf("Narrative() = %q, want %q", got, tt.want)
		}
	}
}

func TestCheckCodeSystem(t *testing.T) {
	v := validation.New()
	if !CheckCodeSystem("Medicine", NewCodedTerm("21360011000036101", "Paracetamol", codes.AMT), codes.AMT, v) {
		t.Error("matching system should pass")
	}
	if !CheckCodeSystem("Medicine", NewOriginalText("paracetamol"), codes.AMT, v) {
		t.Error("uncoded term should pass")
	}
	if CheckCodeSystem("Medicine", NewCodedTerm("387517004", "Paracetamol", codes.SNOMEDCTAU), codes.AMT, v) {
		t.Error("mismatched system should fail")
	}
	msgs := v.Messages()
	if len(msgs) != 1 || msgs[0].Kind != validation.KindCodeSystem {
		t.Fatalf("expected one code-system message, got %v", msgs)
	}
	if msgs[0].Path != "Medicine.CodeSystemCode" {
		t.Errorf("unexpected path %q", msgs[0].Path)
	}
}

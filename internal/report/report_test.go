package report

import (
	"testing"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

func newDocument(t *testing.T) *cda.AnyDocument {
	t.Helper()
	doc, err := cda.New(cda.EReferral)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return doc
}

func TestNew(t *testing.T) {
	doc := newDocument(t)
	at := time.Date(2026, 3, 14, 20, 30, 0, 0, time.FixedZone("AEDT", 11*3600))

	r := New(doc, nil, at)
	if !r.Valid || r.Violations == nil || len(r.Violations) != 0 {
		t.Errorf("report without violations = %+v", r)
	}
	if r.DocumentID == "" || r.DocumentID != doc.Context.DocumentID().String() {
		t.Errorf("DocumentID = %q", r.DocumentID)
	}
	if r.ValidatedAt.Location() != time.UTC {
		t.Errorf("ValidatedAt should be UTC, got %v", r.ValidatedAt)
	}

	r = New(doc, []validation.Message{
		{Path: "Author", Kind: validation.KindRequired},
		{Path: "Recipients", Kind: validation.KindRequired},
		{Path: "Body", Kind: validation.KindChoice},
	}, at)
	if r.Valid {
		t.Error("report with violations should not be valid")
	}
	counts := r.CountByKind()
	if counts[validation.KindRequired] != 2 || counts[validation.KindChoice] != 1 {
		t.Errorf("CountByKind = %v", counts)
	}
	if out := r.Outcome(); len(out.Issue) != 3 || !out.HasErrors() {
		t.Errorf("outcome = %+v", out)
	}
}

func TestNewEvent(t *testing.T) {
	doc := newDocument(t)

	tests := []struct {
		name string
		msgs []validation.Message
		want EventType
	}{
		{"valid", nil, EventDocumentAccepted},
		{"invalid", []validation.Message{{Path: "Author", Kind: validation.KindRequired}}, EventDocumentRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(doc, tt.msgs, time.Now())
			e, err := NewEvent(r)
			if err != nil {
				t.Fatalf("NewEvent: %v", err)
			}
			e.WithCorrelationID("req-1")
			if e.EventType != tt.want || e.CorrelationID != "req-1" || e.DocumentID != r.DocumentID {
				t.Errorf("event = %+v", e)
			}
			decoded, err := e.Report()
			if err != nil {
				t.Fatalf("Report: %v", err)
			}
			if decoded.ID != r.ID || decoded.Valid != r.Valid || len(decoded.Violations) != len(r.Violations) {
				t.Errorf("decoded report = %+v", decoded)
			}
		})
	}
}

func TestNewFailureEvent(t *testing.T) {
	e, err := NewFailureEvent(cda.EReferral, FailureData{Field: "PID", Code: "MISSING_SEGMENT", Reason: "patient identification is required"})
	if err != nil {
		t.Fatalf("NewFailureEvent: %v", err)
	}
	if e.EventType != EventDocumentFailed || e.ID == "" || len(e.EventData) == 0 {
		t.Errorf("event = %+v", e)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/fhir/r5"
	"github.com/drfirst/go-clinicaldoc/internal/mapper"
	"github.com/drfirst/go-clinicaldoc/internal/report"
	"github.com/drfirst/go-clinicaldoc/internal/service"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
	"go.uber.org/zap"
)

const body = `{"segments": [{"name": "MSH", "fields": ["|", "^~\\&", "GPSoft", "", "", "", "20260314093000", "", ["REF", "I12"], "MSG0001"]}]}`

type fakeValidator struct {
	rep *report.Report
	err error
	got service.Request
}

func (f *fakeValidator) Validate(_ context.Context, req service.Request) (*report.Report, error) {
	f.got = req
	return f.rep, f.err
}

func newReport(violations ...validation.Message) *report.Report {
	return &report.Report{
		ID:           "r-1",
		DocumentID:   "d-1",
		DocumentType: cda.EReferral,
		MessageID:    "MSG0001",
		Valid:        len(violations) == 0,
		Violations:   violations,
		ValidatedAt:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func serve(h *DocumentHandler, method, target, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeOutcome(t *testing.T, rec *httptest.ResponseRecorder) r5.OperationOutcome {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != r5.ContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	var o r5.OperationOutcome
	if err := json.NewDecoder(rec.Body).Decode(&o); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if o.ResourceType != "OperationOutcome" || len(o.Issue) == 0 {
		t.Fatalf("outcome = %+v", o)
	}
	return o
}

func TestValidateStatus(t *testing.T) {
	missingAuthor := validation.Message{Path: "Author", Text: "Author is required", Kind: validation.KindRequired}

	tests := []struct {
		name       string
		validator  *fakeValidator
		target     string
		payload    string
		wantStatus int
		wantIssue  string
	}{
		{"valid", &fakeValidator{rep: newReport()}, "/documents/EReferral/validate", body, http.StatusOK, r5.IssueInformational},
		{"violations", &fakeValidator{rep: newReport(missingAuthor)}, "/documents/EReferral/validate", body, http.StatusUnprocessableEntity, r5.IssueRequired},
		{"malformed body", &fakeValidator{}, "/documents/EReferral/validate", `{"segments": 3}`, http.StatusBadRequest, r5.IssueStructure},
		{"not a message", &fakeValidator{}, "/documents/EReferral/validate", `{"segments": []}`, http.StatusBadRequest, r5.IssueStructure},
		{"bad option", &fakeValidator{}, "/documents/EReferral/validate?version=x", body, http.StatusBadRequest, r5.IssueInvalid},
		{
			"unknown type",
			&fakeValidator{err: &mapper.MapError{Field: "DocumentType", Code: mapper.CodeUnknownType, Message: "unsupported document type"}},
			"/documents/Letter/validate", body, http.StatusBadRequest, r5.IssueNotSupported,
		},
		{
			"missing patient",
			&fakeValidator{err: &mapper.MapError{Field: "PID", Code: mapper.CodeMissingSegment, Message: "patient identification is required"}},
			"/documents/EReferral/validate", body, http.StatusBadRequest, r5.IssueRequired,
		},
		{"internal", &fakeValidator{err: errors.New("boom")}, "/documents/EReferral/validate", body, http.StatusInternalServerError, r5.IssueException},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewDocumentHandler(tt.validator, zap.NewNop()), http.MethodPost, tt.target, tt.payload)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			o := decodeOutcome(t, rec)
			if o.Issue[0].Code != tt.wantIssue {
				t.Errorf("issue code = %q, want %q", o.Issue[0].Code, tt.wantIssue)
			}
		})
	}
}

func TestValidatePassesRequest(t *testing.T) {
	v := &fakeValidator{rep: newReport()}
	rec := serve(NewDocumentHandler(v, nil), http.MethodPost, "/documents/MedicinesView/validate?version=2&from=20260101&to=20260301", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if v.got.DocumentType != "MedicinesView" {
		t.Errorf("DocumentType = %q", v.got.DocumentType)
	}
	if v.got.Message == nil || v.got.Message.ControlID() != "MSG0001" {
		t.Errorf("message was not decoded: %+v", v.got.Message)
	}
	if v.got.Options.Version != 2 || v.got.Options.EarliestDateForFiltering.IsZero() || v.got.Options.LatestDateForFiltering.IsZero() {
		t.Errorf("Options = %+v", v.got.Options)
	}
}

func TestValidateOutcomeExpressions(t *testing.T) {
	v := &fakeValidator{rep: newReport(
		validation.Message{Path: "Author", Text: "Author is required", Kind: validation.KindRequired},
		validation.Message{Path: "Referral.ValidityDuration", Value: "-1", Text: "must be positive", Kind: validation.KindRange},
	)}
	rec := serve(NewDocumentHandler(v, nil), http.MethodPost, "/documents/EReferral/validate", body)
	o := decodeOutcome(t, rec)
	if len(o.Issue) != 2 {
		t.Fatalf("issues = %d, want 2", len(o.Issue))
	}
	if got := o.Issue[1].Expression; len(got) != 1 || got[0] != "Referral.ValidityDuration" {
		t.Errorf("expression = %v", got)
	}
	if o.Issue[1].Code != r5.IssueValue || o.Issue[1].Diagnostics != "-1" {
		t.Errorf("issue = %+v", o.Issue[1])
	}
}

func TestValidateReportFormat(t *testing.T) {
	v := &fakeValidator{rep: newReport(validation.Message{Path: "Author", Text: "Author is required", Kind: validation.KindRequired})}
	rec := serve(NewDocumentHandler(v, nil), http.MethodPost, "/documents/EReferral/validate?format=report", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	var got report.Report
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if got.DocumentType != cda.EReferral || got.Valid || len(got.Violations) != 1 {
		t.Errorf("report = %+v", got)
	}
}

func TestListTypes(t *testing.T) {
	rec := serve(NewDocumentHandler(&fakeValidator{}, nil), http.MethodGet, "/document-types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var types []service.DocumentTypeInfo
	if err := json.NewDecoder(rec.Body).Decode(&types); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(types) != 30 {
		t.Errorf("types = %d, want 30", len(types))
	}
}

// Package handlers provides HTTP handlers for the validation API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drfirst/go-clinicaldoc/internal/api/middleware"
	"github.com/drfirst/go-clinicaldoc/internal/fhir/r5"
	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
	"github.com/drfirst/go-clinicaldoc/internal/mapper"
	"github.com/drfirst/go-clinicaldoc/internal/report"
	"github.com/drfirst/go-clinicaldoc/internal/service"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxBodyBytes bounds a single message upload
const maxBodyBytes = 4 << 20

// Validator assembles and validates one document
type Validator interface {
	Validate(ctx context.Context, req service.Request) (*report.Report, error)
}

// DocumentHandler handles document validation endpoints
type DocumentHandler struct {
	validator Validator
	logger    *zap.Logger
}

// NewDocumentHandler creates a new handler
func NewDocumentHandler(v Validator, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{validator: v, logger: logger}
}

// Routes returns the handler routes
func (h *DocumentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/document-types", h.ListTypes)
	r.Post("/documents/{documentType}/validate", h.Validate)
	return r
}

// ListTypes handles GET /document-types
func (h *DocumentHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.DocumentTypes())
}

// Validate handles POST /documents/{documentType}/validate. The body is a
// parsed HL7 v2 message. The response is a FHIR OperationOutcome, or the
// report itself with ?format=report: 200 when the document is valid, 422
// when it has violations and 400 when it cannot be assembled.
func (h *DocumentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("document-handler").Start(r.Context(), "validate_document")
	defer span.End()

	documentType := chi.URLParam(r, "documentType")
	requestID := middleware.GetRequestID(ctx)
	span.SetAttributes(attribute.String("document_type", documentType))

	opts, err := service.ParseOptions(r.URL.Query().Get)
	if err != nil {
		h.requestError(w, err)
		return
	}

	msg, err := hl7v2.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		middleware.WriteOutcome(w, http.StatusBadRequest, r5.NewErrorOutcome(r5.IssueStructure, err.Error()))
		return
	}

	rep, err := h.validator.Validate(ctx, service.Request{
		DocumentType:  documentType,
		Message:       msg,
		Options:       opts,
		CorrelationID: requestID,
	})
	if err != nil {
		if service.IsRequestError(err) {
			h.requestError(w, err)
			return
		}
		span.RecordError(err)
		h.logger.Error("validation failed",
			zap.String("document_type", documentType),
			zap.String("request_id", requestID),
			zap.Error(err))
		middleware.WriteOutcome(w, http.StatusInternalServerError, r5.NewErrorOutcome(r5.IssueException, "validation failed"))
		return
	}

	span.SetAttributes(
		attribute.String("document_id", rep.DocumentID),
		attribute.Bool("valid", rep.Valid),
	)

	status := http.StatusOK
	if !rep.Valid {
		status = http.StatusUnprocessableEntity
	}
	if r.URL.Query().Get("format") == "report" {
		writeJSON(w, status, rep)
		return
	}
	middleware.WriteOutcome(w, status, rep.Outcome())
}

func (h *DocumentHandler) requestError(w http.ResponseWriter, err error) {
	code := r5.IssueInvalid
	var me *mapper.MapError
	if errors.As(err, &me) {
		switch me.Code {
		case mapper.CodeUnknownType:
			code = r5.IssueNotSupported
		case mapper.CodeMissingSegment:
			code = r5.IssueRequired
		case mapper.CodeInvalidTimestamp:
			code = r5.IssueValue
		}
	}
	o := r5.NewErrorOutcome(code, err.Error())
	if me != nil && me.Field != "" {
		o.Issue[0].Expression = []string{me.Field}
	}
	middleware.WriteOutcome(w, http.StatusBadRequest, o)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

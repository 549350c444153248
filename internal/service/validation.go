// Package service runs the assemble-and-validate pipeline shared by the HTTP
// API, the Kafka worker and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
	"github.com/drfirst/go-clinicaldoc/internal/mapper"
	"github.com/drfirst/go-clinicaldoc/internal/observability/metrics"
	"github.com/drfirst/go-clinicaldoc/internal/report"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Request asks for one document of DocumentType to be assembled from Message
// and validated
type Request struct {
	DocumentType  string         `json:"document_type"`
	Message       *hl7v2.Message `json:"message"`
	Options       mapper.Options `json:"-"`
	CorrelationID string         `json:"correlation_id,omitempty"`
}

// Service validates build requests
type Service struct {
	logger         *zap.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	identifierRoot string
	now            func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records validation metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithIdentifierRoot sets the OID used for item identifiers when a request
// does not carry one
func WithIdentifierRoot(root string) Option {
	return func(s *Service) { s.identifierRoot = root }
}

// WithClock overrides the validation timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a validation service
func New(logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		logger: logger,
		tracer: otel.Tracer("validation-service"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Validate assembles and checks the requested document. Violations are
// returned in the report; an error means no document could be assembled.
func (s *Service) Validate(ctx context.Context, req Request) (*report.Report, error) {
	ctx, span := s.tracer.Start(ctx, "service.Validate",
		trace.WithAttributes(attribute.String("document_type", req.DocumentType)))
	defer span.End()

	start := time.Now()
	rep, err := s.validate(ctx, req)
	if s.metrics != nil {
		s.metrics.ValidationDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordFailure(err)
		s.logger.Warn("document could not be assembled",
			zap.String("document_type", req.DocumentType),
			zap.String("correlation_id", req.CorrelationID),
			zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("document_id", rep.DocumentID),
		attribute.Bool("valid", rep.Valid),
		attribute.Int("violations", len(rep.Violations)),
	)
	s.recordReport(rep)
	s.logger.Info("document validated",
		zap.String("document_type", string(rep.DocumentType)),
		zap.String("document_id", rep.DocumentID),
		zap.String("message_id", rep.MessageID),
		zap.Bool("valid", rep.Valid),
		zap.Int("violations", len(rep.Violations)),
		zap.Int("skipped", len(rep.Skipped)))
	return rep, nil
}

func (s *Service) validate(ctx context.Context, req Request) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dt, err := cda.ParseDocumentType(req.DocumentType)
	if err != nil {
		return nil, &mapper.MapError{
			Field:   "DocumentType",
			Code:    mapper.CodeUnknownType,
			Message: "unsupported document type",
			Cause:   err,
		}
	}

	opts := req.Options
	if opts.IdentifierRoot == "" {
		opts.IdentifierRoot = s.identifierRoot
	}
	res, err := mapper.NewHL7ToCDAMapper(opts).Map(req.Message, dt)
	if err != nil {
		return nil, err
	}

	msgs, err := cda.Check(res.Document)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", dt, err)
	}

	rep := report.New(res.Document, msgs, s.now())
	rep.MessageID = res.MessageID
	rep.Skipped = res.Skipped
	return rep, nil
}

func (s *Service) recordReport(rep *report.Report) {
	if s.metrics == nil {
		return
	}
	result := "valid"
	if !rep.Valid {
		result = "invalid"
	}
	dt := string(rep.DocumentType)
	s.metrics.DocumentsValidated.WithLabelValues(dt, result).Inc()
	for kind, n := range rep.CountByKind() {
		s.metrics.Violations.WithLabelValues(dt, string(kind)).Add(float64(n))
	}
}

func (s *Service) recordFailure(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.MappingFailures.WithLabelValues(FailureCode(err)).Inc()
}

// FailureCode returns the MapError code carried by err, or "INTERNAL"
func FailureCode(err error) string {
	var me *mapper.MapError
	if errors.As(err, &me) {
		return me.Code
	}
	return "INTERNAL"
}

// IsRequestError reports whether err was caused by the request rather than
// by the service
func IsRequestError(err error) bool {
	var me *mapper.MapError
	return errors.As(err, &me)
}

// DocumentTypeInfo describes one supported variant
type DocumentTypeInfo struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Family string `json:"family"`
	Code   string `json:"code"`
}

// DocumentTypes lists the supported variants in a stable order
func DocumentTypes() []DocumentTypeInfo {
	types := cda.Types()
	out := make([]DocumentTypeInfo, 0, len(types))
	for _, t := range types {
		info := DocumentTypeInfo{Name: string(t), Title: t.Title(), Family: string(t.Family())}
		if c := t.Code(); c != nil {
			info.Code = c.Code
		}
		out = append(out, info)
	}
	return out
}

// ParseOptions reads mapper options from string parameters as supplied on a
// query string or message header. Unknown keys are ignored.
func ParseOptions(get func(key string) string) (mapper.Options, error) {
	var opts mapper.Options
	if v := get("version"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, &mapper.MapError{Field: "version", Code: mapper.CodeInvalidMessage, Message: fmt.Sprintf("invalid version %q", v)}
		}
		opts.Version = n
	}
	for _, key := range []string{"from", "to"} {
		v := get(key)
		if v == "" {
			continue
		}
		t, err := hl7v2.ParseTimestamp(v)
		if err != nil {
			return opts, &mapper.MapError{Field: key, Code: mapper.CodeInvalidTimestamp, Message: fmt.Sprintf("invalid timestamp %q", v), Cause: err}
		}
		if key == "from" {
			opts.EarliestDateForFiltering = t
		} else {
			opts.LatestDateForFiltering = t
		}
	}
	opts.IdentifierRoot = get("identifier_root")
	return opts, nil
}

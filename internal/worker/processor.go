// Package worker processes build requests consumed from Redpanda: each one
// is validated and its report published, or dead-lettered when it can never
// be processed.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/infrastructure/redpanda"
	"github.com/drfirst/go-clinicaldoc/internal/mapper"
	"github.com/drfirst/go-clinicaldoc/internal/observability/metrics"
	"github.com/drfirst/go-clinicaldoc/internal/report"
	"github.com/drfirst/go-clinicaldoc/internal/service"
	"github.com/drfirst/go-clinicaldoc/pkg/idempotency"
	"github.com/drfirst/go-clinicaldoc/pkg/workerpool"
	"go.uber.org/zap"
)

// Publisher sends one record
type Publisher interface {
	Produce(ctx context.Context, msg redpanda.Message) error
}

// Validator assembles and validates one document
type Validator interface {
	Validate(ctx context.Context, req service.Request) (*report.Report, error)
}

// Guard runs fn unless the downstream is known to be failing
type Guard interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type noGuard struct{}

func (noGuard) Execute(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// Processor handles consumed build requests
type Processor struct {
	validator Validator
	publisher Publisher
	guard     Guard
	metrics   *metrics.Metrics
	logger    *zap.Logger
	inbox     *idempotency.Inbox
}

// NewProcessor creates a processor. A nil guard publishes unguarded and nil
// metrics are not recorded.
func NewProcessor(v Validator, p Publisher, g Guard, m *metrics.Metrics, logger *zap.Logger) *Processor {
	if g == nil {
		g = noGuard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{validator: v, publisher: p, guard: g, metrics: m, logger: logger}
}

// WithInbox suppresses reports for build requests already processed, keyed
// on document type, MSH-10 and correlation id. Requests without a control id
// are always processed.
func (p *Processor) WithInbox(in *idempotency.Inbox) *Processor {
	p.inbox = in
	return p
}

// Handle processes one build request. Returned errors are retryable unless
// marked with workerpool.Permanent.
func (p *Processor) Handle(ctx context.Context, msg *redpanda.ConsumedMessage) error {
	if p.metrics != nil {
		p.metrics.KafkaMessagesConsumed.Inc()
	}
	log := p.logger.With(
		zap.String("topic", msg.Topic),
		zap.Int32("partition", msg.Partition),
		zap.Int64("offset", msg.Offset))

	req, err := service.DecodeBuildRequest(msg.Value)
	if err != nil {
		log.Warn("malformed build request", zap.Error(err))
		return p.deadLetter(ctx, msg, err)
	}
	if req.CorrelationID == "" {
		req.CorrelationID = msg.Headers[redpanda.HeaderCorrelationID]
	}

	controlID := req.Message.ControlID()
	if p.inbox == nil || controlID == "" {
		return p.process(ctx, req, log)
	}

	key := idempotency.GenerateKey(req.DocumentType, controlID, req.CorrelationID)
	res, err := p.inbox.Process(ctx, key, func(ctx context.Context) error {
		return p.process(ctx, req, log)
	})
	switch {
	case errors.Is(err, idempotency.ErrPreviouslyFailed):
		log.Warn("skipping build request that failed permanently", zap.String("message_id", controlID))
		return nil
	case err != nil:
		return err
	case res.Duplicate:
		log.Info("skipping duplicate build request", zap.String("message_id", controlID))
	}
	return nil
}

func (p *Processor) process(ctx context.Context, req service.Request, log *zap.Logger) error {
	rep, err := p.validator.Validate(ctx, req)
	if err != nil {
		var me *mapper.MapError
		if !errors.As(err, &me) {
			return err
		}
		return p.publishFailure(ctx, req, me)
	}

	event, err := report.NewEvent(rep)
	if err != nil {
		return workerpool.Permanent(fmt.Errorf("encode report: %w", err))
	}
	event.WithCorrelationID(req.CorrelationID)
	if err := p.publish(ctx, redpanda.TopicValidationReports, rep.DocumentID, event); err != nil {
		return err
	}
	log.Info("report published",
		zap.String("document_id", rep.DocumentID),
		zap.String("document_type", string(rep.DocumentType)),
		zap.Bool("valid", rep.Valid),
		zap.Int("violations", len(rep.Violations)))
	return nil
}

func (p *Processor) publishFailure(ctx context.Context, req service.Request, me *mapper.MapError) error {
	event, err := report.NewFailureEvent(cda.DocumentType(req.DocumentType), report.FailureData{
		MessageID: req.Message.ControlID(),
		Field:     me.Field,
		Code:      me.Code,
		Reason:    me.Error(),
	})
	if err != nil {
		return workerpool.Permanent(err)
	}
	event.WithCorrelationID(req.CorrelationID)
	key := req.Message.ControlID()
	if key == "" {
		key = event.ID
	}
	return p.publish(ctx, redpanda.TopicValidationReports, key, event)
}

func (p *Processor) publish(ctx context.Context, topic, key string, event *report.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return workerpool.Permanent(fmt.Errorf("encode event: %w", err))
	}
	out := redpanda.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Headers: map[string]string{
			redpanda.HeaderEventType:    string(event.EventType),
			redpanda.HeaderDocumentType: string(event.DocumentType),
		},
	}
	if event.CorrelationID != "" {
		out.Headers[redpanda.HeaderCorrelationID] = event.CorrelationID
	}
	return p.produce(ctx, out)
}

// deadLetter forwards the original payload with the reason it was rejected
func (p *Processor) deadLetter(ctx context.Context, msg *redpanda.ConsumedMessage, cause error) error {
	headers := make(map[string]string, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["dead_letter_reason"] = cause.Error()
	headers["source_topic"] = msg.Topic

	if err := p.produce(ctx, redpanda.Message{
		Topic:   redpanda.TopicDeadLetter,
		Key:     string(msg.Key),
		Value:   msg.Value,
		Headers: headers,
	}); err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.DeadLetters.Inc()
	}
	return nil
}

func (p *Processor) produce(ctx context.Context, msg redpanda.Message) error {
	err := p.guard.Execute(ctx, func(ctx context.Context) error {
		return p.publisher.Produce(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", msg.Topic, err)
	}
	if p.metrics != nil {
		p.metrics.KafkaMessagesProduced.Inc()
	}
	return nil
}

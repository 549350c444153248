package redpanda

import (
	"context"
	"testing"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceHeadersRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	record := newRecord(Message{Topic: TopicValidationReports, Key: "doc-1", Headers: map[string]string{HeaderEventType: "DocumentAccepted"}})
	injectTraceHeaders(ctx, record)
	injectTraceHeaders(ctx, record)

	if got := (headerCarrier{record: record}).Get("traceparent"); got != "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01" {
		t.Errorf("traceparent = %q", got)
	}
	if n := len(record.Headers); n != 2 {
		t.Errorf("headers = %d, want 2 (re-injection must not duplicate)", n)
	}

	got := trace.SpanContextFromContext(extractTraceContext(context.Background(), record))
	if got.TraceID() != traceID || got.SpanID() != spanID || !got.IsRemote() {
		t.Errorf("extracted span context = %+v", got)
	}
}

func TestExtractWithoutHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	ctx := extractTraceContext(context.Background(), &kgo.Record{})
	if trace.SpanContextFromContext(ctx).IsValid() {
		t.Error("expected no span context")
	}
}

func TestToMessage(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	msg := toMessage(&kgo.Record{
		Topic:     TopicBuildRequests,
		Partition: 3,
		Offset:    42,
		Key:       []byte("MSG0001"),
		Value:     []byte(`{}`),
		Headers:   []kgo.RecordHeader{{Key: HeaderCorrelationID, Value: []byte("c-1")}},
		Timestamp: ts,
	})
	if msg.Topic != TopicBuildRequests || msg.Partition != 3 || msg.Offset != 42 {
		t.Errorf("position = %s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}
	if string(msg.Key) != "MSG0001" || msg.Headers[HeaderCorrelationID] != "c-1" || !msg.Timestamp.Equal(ts) {
		t.Errorf("message = %+v", msg)
	}
}

func TestWorkerTopics(t *testing.T) {
	want := map[string]bool{TopicBuildRequests: true, TopicValidationReports: true, TopicDeadLetter: true}
	for _, spec := range WorkerTopics(12, 3) {
		if !want[spec.Name] {
			t.Errorf("unexpected topic %s", spec.Name)
		}
		delete(want, spec.Name)
		if spec.ReplicationFactor != 3 {
			t.Errorf("%s: replication %d", spec.Name, spec.ReplicationFactor)
		}
		if spec.Name == TopicDeadLetter && spec.Partitions != 3 {
			t.Errorf("dead letter partitions = %d, want 3", spec.Partitions)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing topics %v", want)
	}

	for _, spec := range WorkerTopics(0, 0) {
		if spec.Partitions != 1 || spec.ReplicationFactor != 1 {
			t.Errorf("%s: %d partitions, replication %d", spec.Name, spec.Partitions, spec.ReplicationFactor)
		}
	}
}

func TestTopicSpecConfigs(t *testing.T) {
	specs := WorkerTopics(12, 1)
	requests := specs[0].Configs()
	if got := *requests["retention.ms"]; got != "86400000" {
		t.Errorf("retention.ms = %s", got)
	}
	if got := *requests["max.message.bytes"]; got != "8388608" {
		t.Errorf("max.message.bytes = %s", got)
	}
	if _, ok := specs[1].Configs()["max.message.bytes"]; ok {
		t.Error("reports keep the broker message limit")
	}
}

func TestMissingTopics(t *testing.T) {
	specs := WorkerTopics(12, 1)
	existing := kadm.TopicDetails{
		TopicBuildRequests:     {Topic: TopicBuildRequests},
		TopicValidationReports: {Topic: TopicValidationReports, Err: kerr.UnknownTopicOrPartition},
	}
	missing := missingTopics(specs, existing)
	if len(missing) != 2 || missing[0].Name != TopicValidationReports || missing[1].Name != TopicDeadLetter {
		t.Errorf("missing = %+v", missing)
	}
}

func TestNewConsumerRequiresHandler(t *testing.T) {
	if _, err := NewConsumer(DefaultConsumerConfig(), nil, nil); err == nil {
		t.Error("expected an error without a handler")
	}
}

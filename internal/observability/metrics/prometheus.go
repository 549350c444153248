// Package metrics provides Prometheus metrics for the document validation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	DocumentsValidated    *prometheus.CounterVec
	Violations            *prometheus.CounterVec
	MappingFailures       *prometheus.CounterVec
	ValidationDuration    prometheus.Histogram
	KafkaMessagesProduced prometheus.Counter
	KafkaMessagesConsumed prometheus.Counter
	DeadLetters           prometheus.Counter
	ConsumerLag           prometheus.Gauge
	WorkerQueueDepth      prometheus.Gauge
	CircuitBreakerState   *prometheus.GaugeVec
}

// New creates all metrics and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry(); mains pass prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "documents_validated_total",
			Help: "Total documents validated",
		}, []string{"document_type", "result"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "document_violations_total",
			Help: "Total violations reported",
		}, []string{"document_type", "kind"}),
		MappingFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "document_mapping_failures_total",
			Help: "Total requests that could not be assembled into a document",
		}, []string{"code"}),
		ValidationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "document_validation_duration_seconds",
			Help:    "Document assembly and validation duration",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
		}),
		KafkaMessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_produced_total",
			Help: "Total Kafka messages produced",
		}),
		KafkaMessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		}),
		DeadLetters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_dead_letters_total",
			Help: "Total build requests sent to the dead letter topic",
		}),
		ConsumerLag: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kafka_consumer_group_lag",
			Help: "Build requests not yet consumed by the worker group",
		}),
		WorkerQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Build requests waiting for a worker",
		}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}

	reg.MustRegister(
		m.DocumentsValidated,
		m.Violations,
		m.MappingFailures,
		m.ValidationDuration,
		m.KafkaMessagesProduced,
		m.KafkaMessagesConsumed,
		m.DeadLetters,
		m.ConsumerLag,
		m.WorkerQueueDepth,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler for the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a Prometheus HTTP handler for g
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package redpanda

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Topics used by the validation worker
const (
	TopicBuildRequests     = "document.build.requests"
	TopicValidationReports = "document.validation.reports"
	TopicDeadLetter        = "document.dead.letter"
)

// Build requests and dead letters carry whole attachments
const maxDocumentBytes = 8 << 20

// TopicSpec describes a topic the worker needs
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	Retention         time.Duration
	// MaxMessageBytes overrides the broker limit when positive
	MaxMessageBytes int
}

// Configs returns the topic level settings sent on creation
func (s TopicSpec) Configs() map[string]*string {
	ptr := func(s string) *string { return &s }
	out := map[string]*string{
		"cleanup.policy":   ptr("delete"),
		"compression.type": ptr("lz4"),
		"retention.ms":     ptr(strconv.FormatInt(s.Retention.Milliseconds(), 10)),
	}
	if s.MaxMessageBytes > 0 {
		out["max.message.bytes"] = ptr(strconv.Itoa(s.MaxMessageBytes))
	}
	return out
}

// WorkerTopics returns the topics the worker reads and writes. Dead letters
// get a quarter of the partitions and are kept longest for inspection.
func WorkerTopics(partitions int32, replication int16) []TopicSpec {
	if partitions < 1 {
		partitions = 1
	}
	if replication < 1 {
		replication = 1
	}
	dlq := partitions / 4
	if dlq < 1 {
		dlq = 1
	}
	return []TopicSpec{
		{TopicBuildRequests, partitions, replication, 24 * time.Hour, maxDocumentBytes},
		{TopicValidationReports, partitions, replication, 7 * 24 * time.Hour, 0},
		{TopicDeadLetter, dlq, replication, 30 * 24 * time.Hour, maxDocumentBytes},
	}
}

// Admin provides administrative operations for Redpanda
type Admin struct {
	client *kadm.Client
	logger *zap.Logger
}

// NewAdmin creates a new admin client
func NewAdmin(brokers []string, logger *zap.Logger) (*Admin, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("create admin client: %w", err)
	}
	return &Admin{client: kadm.NewClient(cl), logger: logger}, nil
}

// EnsureTopics creates the topics in specs that do not exist yet. Existing
// topics are never altered.
func (a *Admin) EnsureTopics(ctx context.Context, specs []TopicSpec) error {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	existing, err := a.client.ListTopics(ctx, names...)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}

	for _, s := range missingTopics(specs, existing) {
		resp, err := a.client.CreateTopics(ctx, s.Partitions, s.ReplicationFactor, s.Configs(), s.Name)
		if err != nil {
			return fmt.Errorf("create topic %s: %w", s.Name, err)
		}
		for _, r := range resp {
			// Another worker may have created it since the listing
			if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
				return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
			}
		}
		a.logger.Info("topic created",
			zap.String("topic", s.Name),
			zap.Int32("partitions", s.Partitions),
			zap.Duration("retention", s.Retention))
	}
	return nil
}

func missingTopics(specs []TopicSpec, existing kadm.TopicDetails) []TopicSpec {
	var out []TopicSpec
	for _, s := range specs {
		if d, ok := existing[s.Name]; ok && d.Err == nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Lag returns the total lag of groupID across its assigned partitions
func (a *Admin) Lag(ctx context.Context, groupID string) (int64, error) {
	lags, err := a.client.Lag(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("describe lag of %s: %w", groupID, err)
	}
	l, ok := lags[groupID]
	if !ok {
		return 0, nil
	}
	if l.DescribeErr != nil {
		return 0, fmt.Errorf("describe group %s: %w", groupID, l.DescribeErr)
	}
	if l.FetchErr != nil {
		return 0, fmt.Errorf("fetch offsets of %s: %w", groupID, l.FetchErr)
	}
	return l.Lag.Total(), nil
}

// Close closes the admin client
func (a *Admin) Close() {
	a.client.Close()
}

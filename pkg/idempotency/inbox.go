// Package idempotency provides an in-memory inbox that suppresses repeated
// processing of the same message, e.g. a build request redelivered after a
// consumer group rebalance.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Status represents the processing status of an inbox entry
type Status string

const (
	StatusStarted     Status = "STARTED"
	StatusFinished    Status = "FINISHED"
	StatusRecoverable Status = "RECOVERABLE"
	StatusFailed      Status = "FAILED"
)

var (
	// ErrMessageInProgress indicates the message is being processed elsewhere
	ErrMessageInProgress = errors.New("message in progress by another handler")
	// ErrPreviouslyFailed indicates the message failed permanently before
	ErrPreviouslyFailed = errors.New("message previously failed permanently")
)

type entry struct {
	status    Status
	updatedAt time.Time
	expiresAt time.Time
}

// InboxConfig holds configuration for the inbox
type InboxConfig struct {
	// TTL is how long a finished or failed key is remembered
	TTL time.Duration
	// CleanupInterval is how often expired entries are dropped
	CleanupInterval time.Duration
	// RecoveryTimeout is when a STARTED entry is considered abandoned
	RecoveryTimeout time.Duration
	// IsTerminal reports handler errors that must not be retried
	IsTerminal func(error) bool
}

// DefaultInboxConfig returns sensible defaults
func DefaultInboxConfig() InboxConfig {
	return InboxConfig{
		TTL:             time.Hour,
		CleanupInterval: time.Minute,
		RecoveryTimeout: 5 * time.Minute,
	}
}

// Inbox remembers processed keys for a bounded time
type Inbox struct {
	config InboxConfig
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewInbox creates a new inbox. Zero config values fall back to defaults.
func NewInbox(cfg InboxConfig, logger *zap.Logger) *Inbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultInboxConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = def.RecoveryTimeout
	}
	return &Inbox{
		config:  cfg,
		logger:  logger,
		tracer:  otel.Tracer("inbox"),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// ProcessResult describes how Process treated a key
type ProcessResult struct {
	// Duplicate is set when the key had already finished; fn was not run
	Duplicate    bool
	WasRecovered bool
}

// ProcessFunc is the handler run at most once per key while remembered
type ProcessFunc func(ctx context.Context) error

// Process runs fn unless key already finished. A failed run leaves the key
// recoverable, or failed when the error is terminal.
func (i *Inbox) Process(ctx context.Context, key string, fn ProcessFunc) (*ProcessResult, error) {
	ctx, span := i.tracer.Start(ctx, "inbox_process",
		trace.WithAttributes(attribute.String("idempotency_key", key)))
	defer span.End()

	res, err := i.start(key)
	if err != nil || res.Duplicate {
		span.SetAttributes(attribute.Bool("duplicate", res != nil && res.Duplicate))
		return res, err
	}

	if err := fn(ctx); err != nil {
		status := StatusRecoverable
		if i.config.IsTerminal != nil && i.config.IsTerminal(err) {
			status = StatusFailed
		}
		i.mark(key, status)
		span.RecordError(err)
		return nil, err
	}

	i.mark(key, StatusFinished)
	return res, nil
}

func (i *Inbox) start(key string) (*ProcessResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	res := &ProcessResult{}
	if e, ok := i.entries[key]; ok && now.Before(e.expiresAt) {
		switch e.status {
		case StatusFinished:
			res.Duplicate = true
			return res, nil
		case StatusFailed:
			return nil, ErrPreviouslyFailed
		case StatusStarted:
			if now.Sub(e.updatedAt) <= i.config.RecoveryTimeout {
				return nil, ErrMessageInProgress
			}
			i.logger.Warn("recovering abandoned inbox entry", zap.String("key", key))
			res.WasRecovered = true
		case StatusRecoverable:
			res.WasRecovered = true
		}
	}
	i.entries[key] = &entry{status: StatusStarted, updatedAt: now, expiresAt: now.Add(i.config.TTL)}
	return res, nil
}

func (i *Inbox) mark(key string, status Status) {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := i.now()
	i.entries[key] = &entry{status: status, updatedAt: now, expiresAt: now.Add(i.config.TTL)}
}

// GenerateKey creates a deterministic key from message components. Empty
// components still take part so that ("a", "") and ("", "a") differ.
func GenerateKey(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:])
}

// StartCleanup starts dropping expired entries in the background
func (i *Inbox) StartCleanup() {
	ctx, cancel := context.WithCancel(context.Background())
	i.cancel = cancel
	i.done = make(chan struct{})
	go i.cleanupLoop(ctx)
}

// Stop stops the cleanup loop
func (i *Inbox) Stop() {
	i.once.Do(func() {
		if i.cancel != nil {
			i.cancel()
			<-i.done
		}
	})
}

func (i *Inbox) cleanupLoop(ctx context.Context) {
	defer close(i.done)
	ticker := time.NewTicker(i.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := i.Cleanup(); n > 0 {
				i.logger.Debug("inbox cleanup", zap.Int("removed", n))
			}
		}
	}
}

// Cleanup drops expired entries and returns how many were removed
func (i *Inbox) Cleanup() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := i.now()
	n := 0
	for k, e := range i.entries {
		if !now.Before(e.expiresAt) {
			delete(i.entries, k)
			n++
		}
	}
	return n
}

// InboxStats counts remembered entries by status
type InboxStats struct {
	Started     int
	Finished    int
	Recoverable int
	Failed      int
}

// Stats returns current inbox statistics
func (i *Inbox) Stats() InboxStats {
	i.mu.Lock()
	defer i.mu.Unlock()
	var s InboxStats
	for _, e := range i.entries {
		switch e.status {
		case StatusStarted:
			s.Started++
		case StatusFinished:
			s.Finished++
		case StatusRecoverable:
			s.Recoverable++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

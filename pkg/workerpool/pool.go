// Package workerpool provides a bounded worker pool for validating
// independent documents concurrently. Each job is handled by exactly one
// worker.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrStopped   = errors.New("workerpool: pool is stopped")
	ErrQueueFull = errors.New("workerpool: queue is full")
)

// Handler processes one job. Errors wrapped with Permanent are not retried.
type Handler[T any] func(ctx context.Context, job T) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Config holds worker pool configuration
type Config struct {
	Workers   int
	QueueSize int
	// MaxRetries is the number of extra attempts after a failed one
	MaxRetries int
	// RetryDelay grows linearly with every attempt
	RetryDelay              time.Duration
	GracefulShutdownTimeout time.Duration
}

// DefaultConfig returns defaults for a validation worker
func DefaultConfig() Config {
	return Config{
		Workers:                 8,
		QueueSize:               1000,
		MaxRetries:              3,
		RetryDelay:              100 * time.Millisecond,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}

// Pool runs jobs of type T on a fixed set of goroutines
type Pool[T any] struct {
	config  Config
	handler Handler[T]
	logger  *zap.Logger

	jobs   chan T
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64
	active    atomic.Int64
}

// New creates a pool. Zero config values fall back to DefaultConfig.
func New[T any](cfg Config, h Handler[T], logger *zap.Logger) (*Pool[T], error) {
	if h == nil {
		return nil, fmt.Errorf("workerpool: handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.GracefulShutdownTimeout <= 0 {
		cfg.GracefulShutdownTimeout = def.GracefulShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool[T]{
		config:  cfg,
		handler: h,
		logger:  logger,
		jobs:    make(chan T, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start launches all workers
func (p *Pool[T]) Start() {
	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started",
		zap.Int("workers", p.config.Workers),
		zap.Int("queue_size", p.config.QueueSize))
}

// Submit queues a job, blocking while the queue is full until ctx is done
func (p *Pool[T]) Submit(ctx context.Context, job T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStopped
	}
	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrStopped
	}
}

// TrySubmit queues a job without blocking
func (p *Pool[T]) TrySubmit(job T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStopped
	}
	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop stops accepting jobs, drains the queue and waits for the workers
func (p *Pool[T]) Stop() error {
	var err error
	p.once.Do(func() {
		p.logger.Info("stopping worker pool")
		// Unblock pending Submit calls before taking the write lock
		p.cancel()
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			p.logger.Info("worker pool stopped gracefully")
		case <-time.After(p.config.GracefulShutdownTimeout):
			err = fmt.Errorf("workerpool: shutdown timed out after %s", p.config.GracefulShutdownTimeout)
			p.logger.Warn("worker pool shutdown timed out")
		}
	})
	return err
}

func (p *Pool[T]) worker(id int) {
	defer p.wg.Done()
	p.active.Add(1)
	defer p.active.Add(-1)

	for job := range p.jobs {
		if err := p.process(job); err != nil {
			p.failed.Add(1)
			p.logger.Error("job failed", zap.Int("worker_id", id), zap.Error(err))
			continue
		}
		p.completed.Add(1)
	}
}

// process runs the handler with retries. Jobs already queued at Stop still
// run, so the handler context is not tied to the pool's lifetime.
func (p *Pool[T]) process(job T) error {
	ctx := context.Background()
	var err error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if err = p.handler(ctx, job); err == nil || IsPermanent(err) {
			return err
		}
		if attempt == p.config.MaxRetries {
			break
		}
		p.retried.Add(1)
		p.logger.Debug("retrying job", zap.Int("attempt", attempt+1), zap.Error(err))
		time.Sleep(p.config.RetryDelay * time.Duration(attempt+1))
	}
	return fmt.Errorf("job failed after %d retries: %w", p.config.MaxRetries, err)
}

// Stats is a snapshot of the pool counters
type Stats struct {
	Submitted     int64
	Completed     int64
	Failed        int64
	Retried       int64
	ActiveWorkers int64
	QueueDepth    int
	QueueCapacity int
	Workers       int
}

// Stats returns current pool statistics
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Submitted:     p.submitted.Load(),
		Completed:     p.completed.Load(),
		Failed:        p.failed.Load(),
		Retried:       p.retried.Load(),
		ActiveWorkers: p.active.Load(),
		QueueDepth:    len(p.jobs),
		QueueCapacity: p.config.QueueSize,
		Workers:       p.config.Workers,
	}
}

// IsHealthy reports whether the queue is below 90% of its capacity
func (p *Pool[T]) IsHealthy() bool {
	s := p.Stats()
	return float64(s.QueueDepth)/float64(s.QueueCapacity) < 0.9
}

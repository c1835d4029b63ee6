// Package scheduler runs the background jobs of the storefront backend.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// IntentExpirer fails pending payments whose intent was created before cutoff
// and reports how many were expired.
type IntentExpirer interface {
	ExpireStaleIntents(ctx context.Context, cutoff time.Time) (int, error)
}

// PaymentExpiryConfig holds configuration for the payment expiry sweep
type PaymentExpiryConfig struct {
	// Interval between two sweeps
	Interval time.Duration
	// IntentTTL is how long an unverified intent stays pending
	IntentTTL time.Duration
	// JobTimeout bounds a single sweep
	JobTimeout time.Duration
}

// DefaultPaymentExpiryConfig returns the default sweep configuration
func DefaultPaymentExpiryConfig() PaymentExpiryConfig {
	return PaymentExpiryConfig{
		Interval:   5 * time.Minute,
		IntentTTL:  30 * time.Minute,
		JobTimeout: time.Minute,
	}
}

// Validate checks the configuration
func (c PaymentExpiryConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.IntentTTL <= 0 {
		return fmt.Errorf("%w: intent ttl must be positive", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// SweepStats summarises the sweeps run so far
type SweepStats struct {
	Runs         int64
	Failures     int64
	Expired      int64
	LastRunAt    time.Time
	LastExpired  int
	LastError    string
	LastDuration time.Duration
}

// PaymentExpiryScheduler periodically expires stale payment intents
type PaymentExpiryScheduler struct {
	config  PaymentExpiryConfig
	expirer IntentExpirer
	logger  *zap.Logger
	now     func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  atomic.Bool
	stats     SweepStats
}

// NewPaymentExpiryScheduler creates a new payment expiry scheduler
func NewPaymentExpiryScheduler(config PaymentExpiryConfig, expirer IntentExpirer, logger *zap.Logger) (*PaymentExpiryScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if expirer == nil {
		return nil, fmt.Errorf("%w: intent expirer is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentExpiryScheduler{
		config:  config,
		expirer: expirer,
		logger:  logger.Named("payment_expiry"),
		now:     time.Now,
	}, nil
}

// Start starts the sweep loop. Calling Start on a running scheduler is a no-op.
func (s *PaymentExpiryScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Payment expiry scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("intent_ttl", s.config.IntentTTL),
	)
	return nil
}

// Stop stops the loop and waits for an in-flight sweep or for ctx to expire
func (s *PaymentExpiryScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Payment expiry scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the sweep loop is active
func (s *PaymentExpiryScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Stats returns a snapshot of the sweep statistics
func (s *PaymentExpiryScheduler) Stats() SweepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *PaymentExpiryScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("payment expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sweep with cutoff now minus the intent TTL.
// Overlapping calls return ErrSweepInProgress.
func (s *PaymentExpiryScheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return 0, ErrSweepInProgress
	}
	defer s.sweeping.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	started := s.now()
	cutoff := started.Add(-s.config.IntentTTL)

	var (
		expired int
		err     error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("payment_expiry_sweep"), func(ctx context.Context) {
		expired, err = s.expirer.ExpireStaleIntents(ctx, cutoff)
	})

	s.record(started, expired, err)
	if err != nil {
		return expired, fmt.Errorf("expire stale intents: %w", err)
	}
	if expired > 0 {
		s.logger.Debug("payment expiry sweep completed",
			zap.Int("expired", expired),
			zap.Time("cutoff", cutoff),
		)
	}
	return expired, nil
}

func (s *PaymentExpiryScheduler) record(started time.Time, expired int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Runs++
	s.stats.Expired += int64(expired)
	s.stats.LastRunAt = started
	s.stats.LastExpired = expired
	s.stats.LastDuration = s.now().Sub(started)
	s.stats.LastError = ""
	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err.Error()
	}
}

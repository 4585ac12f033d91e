package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration.
type Config struct {
	// MaxRetries is the number of retry attempts after the initial one.
	MaxRetries int
	// InitialInterval is the first backoff interval (default: 1s).
	InitialInterval time.Duration
	// MaxInterval caps the backoff interval (default: 30s).
	MaxInterval time.Duration
	// Multiplier grows the interval after each attempt (default: 2.0).
	Multiplier float64
	// JitterFactor adds ±N% random jitter to each interval (default: 0.1).
	JitterFactor float64
}

// DefaultConfig returns the default backoff schedule: 1s, 2s, 4s, 8s, 16s, 30s (capped).
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      5,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried.
type Operation func(ctx context.Context) error

// PermanentError wraps an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retrier executes operations with exponential backoff.
type Retrier struct {
	config *Config
}

// New creates a Retrier. A nil config uses DefaultConfig; zero-valued
// fields fall back to their defaults.
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 1 * time.Second
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	return &Retrier{config: config}
}

// Do runs op until it succeeds, returns a permanent error, or the retry
// budget is exhausted.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			interval := r.intervalFor(attempt)
			select {
			case <-ctx.Done():
				return errors.Join(ErrContextCanceled, lastErr)
			case <-time.After(interval):
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *PermanentError
		if errors.As(lastErr, &perm) {
			return perm.Err
		}
	}

	return errors.Join(ErrMaxRetriesExceeded, lastErr)
}

// intervalFor computes the backoff interval for the given attempt (1-based).
func (r *Retrier) intervalFor(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval = interval - jitter + rand.Float64()*2*jitter
	}
	return time.Duration(interval)
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := New(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	transient := errors.New("still down")
	calls := 0
	err := New(fastConfig(2)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return transient
	})
	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Fatalf("error = %v, want ErrMaxRetriesExceeded", err)
	}
	if !errors.Is(err, transient) {
		t.Errorf("error does not wrap the last failure: %v", err)
	}
	// Initial attempt plus MaxRetries
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	fatal := errors.New("bad credentials")
	calls := 0
	err := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(fatal)
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("error = %v, want the permanent cause", err)
	}
	if errors.Is(err, ErrMaxRetriesExceeded) {
		t.Error("permanent error was reported as budget exhaustion")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := New(&Config{
		MaxRetries:      10,
		InitialInterval: time.Hour, // never elapses
		MaxInterval:     time.Hour,
		Multiplier:      2.0,
	}).Do(ctx, func(ctx context.Context) error {
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, ErrContextCanceled) {
		t.Fatalf("error = %v, want ErrContextCanceled", err)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	r := New(nil)
	if r.config.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", r.config.MaxRetries)
	}

	r = New(&Config{MaxRetries: 2})
	if r.config.InitialInterval != time.Second {
		t.Errorf("InitialInterval = %v, want 1s", r.config.InitialInterval)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want 2.0", r.config.Multiplier)
	}
}

func TestIntervalForIsCapped(t *testing.T) {
	r := New(&Config{
		MaxRetries:      10,
		InitialInterval: time.Second,
		MaxInterval:     4 * time.Second,
		Multiplier:      2.0,
	})
	if got := r.intervalFor(10); got > 4*time.Second {
		t.Errorf("intervalFor(10) = %v, want <= 4s", got)
	}
}

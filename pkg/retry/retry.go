package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Common errors
var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of attempts after the first one
	MaxRetries int
	// InitialInterval is the wait before the first retry
	InitialInterval time.Duration
	// MaxInterval caps the wait between attempts
	MaxInterval time.Duration
	// Multiplier grows the wait after each retry
	Multiplier float64
	// JitterFactor in [0, 1]; 0.1 means ±10%
	JitterFactor float64
}

// DefaultConfig returns the backoff used for broker deliveries:
// 100ms, 200ms, 400ms with ±10% jitter.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

func (c *Config) normalize() *Config {
	out := *DefaultConfig()
	if c == nil {
		return &out
	}
	out.MaxRetries = max(c.MaxRetries, 0)
	if c.InitialInterval > 0 {
		out.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		out.MaxInterval = c.MaxInterval
	}
	if c.Multiplier > 0 {
		out.Multiplier = c.Multiplier
	}
	out.JitterFactor = min(max(c.JitterFactor, 0), 1)
	return &out
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// PermanentError stops the retry loop immediately
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks an error as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Result describes a finished retry loop
type Result struct {
	// Err is nil on success, the unwrapped cause for permanent errors,
	// otherwise ErrMaxRetriesExceeded or ErrContextCanceled
	Err error
	// Attempts counts the initial attempt too
	Attempts int
	// LastError is the error returned by the final attempt
	LastError error
}

// OnRetry is called before waiting for the next attempt
type OnRetry func(attempt int, err error, wait time.Duration)

// Do runs op until it succeeds, fails permanently, runs out of retries,
// or ctx is done. onRetry may be nil.
func Do(ctx context.Context, cfg *Config, op Operation, onRetry OnRetry) *Result {
	cfg = cfg.normalize()
	res := &Result{}

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			res.Err = ErrContextCanceled
			return res
		}

		res.Attempts = attempt + 1
		err := op(ctx)
		if err == nil {
			res.Err, res.LastError = nil, nil
			return res
		}
		res.LastError = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			res.Err = perm.Err
			res.LastError = perm.Err
			return res
		}

		if attempt >= cfg.MaxRetries {
			res.Err = ErrMaxRetriesExceeded
			return res
		}

		wait := backoff(cfg, attempt)
		if onRetry != nil {
			onRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			res.Err = ErrContextCanceled
			return res
		case <-timer.C:
		}
	}
}

func backoff(cfg *Config, attempt int) time.Duration {
	interval := float64(cfg.InitialInterval) * math.Pow(cfg.Multiplier, float64(attempt))
	if cfg.JitterFactor > 0 {
		jitter := interval * cfg.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
	}
	if interval > float64(cfg.MaxInterval) {
		interval = float64(cfg.MaxInterval)
	}
	if interval <= 0 {
		interval = float64(cfg.InitialInterval)
	}
	return time.Duration(interval)
}

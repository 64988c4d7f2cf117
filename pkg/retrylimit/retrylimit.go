// Package retrylimit provides adaptive rate limiting and retry for outbound
// calls. Errors carrying an HTTP status get special handling: 429 slows the
// limiter down, 5xx is retried with backoff, other 4xx stop immediately.
// RetryConfig.RetryIf narrows that for calls that are not safe to repeat.
//
// Example usage:
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	err := retrylimit.WithRetry(ctx, func() error {
//	    return send()
//	}, lim)
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter manages a rate limit that increases on success and
// decreases on rate limit errors. Thread-safe.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates an AdaptiveLimiter.
//
// Parameters:
//   - initial: starting requests per second
//   - min: minimum allowed rate
//   - max: maximum allowed rate
//   - stepUp: increment on success
//   - stepDown: multiplier applied on failure (e.g., 0.5 to halve)
func NewAdaptiveLimiter(initial, min, max rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max1(int(initial))),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or the context is canceled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success increases the rate once no errors were seen for a while.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.adjustLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited reduces the rate after the server asked us to slow down.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjustLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjustLimit(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(max1(int(newLimit)))
	}
}

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError wraps errors that should stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts    int           // 0 means 100
	InitialDelay   time.Duration // first backoff delay
	MaxDelay       time.Duration
	RateLimitDelay time.Duration // fixed delay after a 429
	Multiplier     float64
	Jitter         bool
	Logger         zerolog.Logger
	// RetryIf decides which errors are retried. nil means Retryable.
	// A FatalError always stops.
	RetryIf func(error) bool
}

// DefaultRetryConfig returns the configuration used by WithRetry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    5,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: 100 * time.Millisecond,
		Multiplier:     2.0,
		Jitter:         true,
		Logger:         zerolog.Nop(),
	}
}

// WithRetry executes fn with the default configuration.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

// WithRetryConfig executes fn with exponential backoff. It stops when fn
// succeeds, returns a FatalError or an error cfg.RetryIf rejects, when ctx is
// done, or after MaxAttempts.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 100
	}
	retryable := Retryable
	if cfg.RetryIf != nil {
		retryable = func(err error) bool {
			var fatal *FatalError
			return !errors.As(err, &fatal) && cfg.RetryIf(err)
		}
	}
	delay := cfg.InitialDelay
	var err error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err = fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				cfg.Logger.Debug().Int("attempt", attempt).Msg("Retry succeeded")
			}
			return nil
		}

		if !retryable(err) {
			return err
		}

		wait := delay
		if IsRateLimit(err) {
			if lim != nil {
				lim.RateLimited()
			}
			wait = cfg.RateLimitDelay
			cfg.Logger.Warn().Err(err).Int("attempt", attempt).Msg("Rate limited")
		} else {
			if cfg.Jitter {
				wait = addJitter(delay)
			}
			cfg.Logger.Warn().Err(err).Int("attempt", attempt).Dur("sleep", wait).Msg("Request failed")
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
}

// Retryable reports whether err is worth another attempt: not fatal and,
// when it carries a status, a 429 or 5xx.
func Retryable(err error) bool {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return false
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode()
		return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
	}
	return true
}

// IsRateLimit reports whether err carries a 429 status.
func IsRateLimit(err error) bool {
	var httpErr HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode() == http.StatusTooManyRequests
}

// addJitter adds 0-25% random jitter to delay.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

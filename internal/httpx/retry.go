package httpx

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy implements exponential backoff with optional jitter.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Factor     float64
	Jitter     bool
}

// NewRetryPolicy creates a new retry policy. Zero delay fields fall back to
// defaults; MaxRetries is taken as given since zero means no retries.
func NewRetryPolicy(cfg RetryConfig) *RetryPolicy {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 1 * time.Second
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 60 * time.Second
	}
	if cfg.Factor == 0 {
		cfg.Factor = 2.0
	}

	return &RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseDelay,
		MaxDelay:   cfg.MaxDelay,
		Factor:     cfg.Factor,
		Jitter:     cfg.Jitter,
	}
}

// Delay calculates the delay for a given retry attempt (0-indexed).
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	delay := float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	if p.Jitter {
		// Random factor between 0.5 and 1.5 of the computed delay.
		delay *= 0.5 + rand.Float64()
	}

	return time.Duration(delay)
}

// ShouldRetry returns true if we haven't exhausted retry attempts.
func (p *RetryPolicy) ShouldRetry(attempt int) bool {
	return attempt < p.MaxRetries
}

package client

import (
	"time"
)

// BackoffConfig configures exponential backoff behavior for
// transport-level retries
type BackoffConfig struct {
	BaseDelay   time.Duration // Initial delay for the first retry
	MaxDelay    time.Duration // Maximum delay cap
	Multiplier  float64       // Exponential multiplier (typically 2.0)
	MaxAttempts int           // Maximum number of retry attempts
}

// DefaultBackoffConfig returns sensible defaults for exponential backoff
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		MaxAttempts: 2,
	}
}

// CalculateBackoff returns the delay for a given attempt number using exponential backoff.
// attempt is 1-indexed (first retry is attempt 1).
func CalculateBackoff(config BackoffConfig, attempt int) time.Duration {
	if attempt <= 0 {
		return config.BaseDelay
	}

	// Cap the shift so the multiplier cannot overflow.
	if attempt > 30 {
		attempt = 30
	}

	multiplier := float64(int(1)<<uint(attempt-1)) * config.Multiplier
	delay := time.Duration(float64(config.BaseDelay) * multiplier)

	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	return delay
}

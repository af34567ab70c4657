package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBackoff(t *testing.T) {
	config := BackoffConfig{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
		Multiplier:  2.0,
		MaxAttempts: 5,
	}

	assert.Equal(t, 100*time.Millisecond, CalculateBackoff(config, 0))
	assert.Equal(t, 200*time.Millisecond, CalculateBackoff(config, 1))
	assert.Equal(t, 400*time.Millisecond, CalculateBackoff(config, 2))
	assert.Equal(t, 800*time.Millisecond, CalculateBackoff(config, 3))

	// Capped at MaxDelay.
	assert.Equal(t, time.Second, CalculateBackoff(config, 4))
	assert.Equal(t, time.Second, CalculateBackoff(config, 10))

	// Large attempt numbers must not overflow.
	assert.Equal(t, time.Second, CalculateBackoff(config, 1000))
}

func TestDefaultBackoffConfig(t *testing.T) {
	config := DefaultBackoffConfig()
	assert.Equal(t, 500*time.Millisecond, config.BaseDelay)
	assert.Equal(t, 10*time.Second, config.MaxDelay)
	assert.Equal(t, 2.0, config.Multiplier)
	assert.Equal(t, 2, config.MaxAttempts)
}

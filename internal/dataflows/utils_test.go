package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	attempts := 0
	err := WithRetry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	sentinel := errors.New("permanent")
	attempts := 0
	err := WithRetry(context.Background(), cfg, func() error {
		attempts++
		return sentinel
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2.0}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, cfg, func() error {
		return errors.New("always fails")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("AAPL"))
	assert.NoError(t, ValidateSymbol("brk.b"))
	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("   "))
	assert.Error(t, ValidateSymbol("TOOLONGSYMBOL"))
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl "))
	assert.Equal(t, "BRK.B", NormalizeSymbol("brk.b"))
}

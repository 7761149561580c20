package dataflows

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// RetryConfig configures retry behavior for flaky upstream APIs.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryConfig returns sensible retry defaults
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
	}
}

// WithRetry executes a function with exponential backoff retry. The context
// is checked between attempts so a cancelled run stops retrying.
func WithRetry(ctx context.Context, config *RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt-1)))
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// ValidateSymbol checks if a stock symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

type Config struct {
	RetryMaxAttempts    int           `koanf:"retry_max_attempts"`
	RetryInitialBackoff time.Duration `koanf:"retry_initial_backoff"`
	RetryMaxBackoff     time.Duration `koanf:"retry_max_backoff"`
	RetryMultiplier     float64       `koanf:"retry_multiplier"`

	BreakerEnabled          bool          `koanf:"breaker_enabled"`
	BreakerMinRequests      uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio     float64       `koanf:"breaker_failure_ratio"`
	BreakerOpenTimeout      time.Duration `koanf:"breaker_open_timeout"`
	BreakerHalfOpenMaxCalls uint32        `koanf:"breaker_half_open_max_calls"`
}

// DefaultConfig keeps retries short: enrichment calls run inside a request
// budget of a few seconds.
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 100 * time.Millisecond,
		RetryMaxBackoff:     400 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = def.RetryInitialBackoff
	}
	if out.RetryMaxBackoff <= 0 {
		out.RetryMaxBackoff = def.RetryMaxBackoff
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = def.RetryMultiplier
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}

	return out
}

// ClassifyTransient covers the cases every remote adapter treats alike:
// cancellation and an open breaker are neither retried nor recorded, while
// network errors are retried. It reports ok=false when the error needs
// adapter-specific handling.
func ClassifyTransient(err error) (ErrorClassification, bool) {
	switch {
	case err == nil:
		return ErrorClassification{}, true
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return ErrorClassification{Retryable: false, RecordFailure: false}, true
	case IsCircuitOpen(err):
		return ErrorClassification{Retryable: false, RecordFailure: false}, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorClassification{Retryable: true, RecordFailure: true}, true
	}
	return ErrorClassification{}, false
}

// ClassifyHTTPStatus retries throttling, timeouts and server errors; other
// statuses are caller mistakes that must not trip the breaker.
func ClassifyHTTPStatus(statusCode int) ErrorClassification {
	if IsRetryableHTTPStatus(statusCode) {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return ErrorClassification{Retryable: false, RecordFailure: false}
}

func IsRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

package lib

import (
	"math"
	"strings"
	"time"
)

// ErrorType distinguishes errors the HTTP sink may retry from those it must not
type ErrorType string

const (
	ErrorTypeTransient    ErrorType = "transient"     // Network failures, 5xx, timeouts
	ErrorTypeNonTransient ErrorType = "non_transient" // 4xx, malformed resources
)

// RetryConfig holds retry strategy parameters
type RetryConfig struct {
	MaxAttempts      int
	InitialBackoffMs int64
	MaxBackoffMs     int64
}

// CalculateBackoff computes exponential backoff duration
// Formula: min(initialBackoff * 2^attempt, maxBackoff)
func CalculateBackoff(attempt int, initialBackoffMs int64, maxBackoffMs int64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// Exponential backoff: initialBackoff * 2^attempt
	backoffMs := float64(initialBackoffMs) * math.Pow(2, float64(attempt))

	// Cap at maxBackoff
	if backoffMs > float64(maxBackoffMs) {
		backoffMs = float64(maxBackoffMs)
	}

	return time.Duration(backoffMs) * time.Millisecond
}

// ShouldRetry determines if an operation should be retried based on error type and retry count
func ShouldRetry(errorType ErrorType, currentRetries int, maxRetries int) bool {
	// Only retry transient errors
	if errorType != ErrorTypeTransient {
		return false
	}

	return currentRetries < maxRetries
}

// IsTransientHTTPStatus reports whether an HTTP status is worth retrying
func IsTransientHTTPStatus(status int) bool {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ClassifyHTTPError determines if an HTTP error is transient or non-transient
func ClassifyHTTPError(statusCode int) ErrorType {
	if IsTransientHTTPStatus(statusCode) {
		return ErrorTypeTransient
	}
	return ErrorTypeNonTransient
}

// IsNetworkError checks if an error looks like a transient network failure
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	// Common network error patterns (case-insensitive matching)
	networkErrors := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"deadline exceeded", // Catches "context deadline exceeded"
		"EOF",
	}

	for _, pattern := range networkErrors {
		if containsIgnoreCase(errMsg, pattern) {
			return true
		}
	}

	return false
}

// containsIgnoreCase performs case-insensitive substring matching
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

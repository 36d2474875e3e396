package lib

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBackoff_ExponentialWithCap(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{10, 30 * time.Second}, // capped
		{-1, 1 * time.Second},  // clamped to first attempt
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateBackoff(tt.attempt, 1000, 30000), "attempt %d", tt.attempt)
	}
}

func TestClassifyHTTPError(t *testing.T) {
	transient := []int{408, 429, 500, 502, 503, 504}
	for _, status := range transient {
		assert.Equal(t, ErrorTypeTransient, ClassifyHTTPError(status), "status %d", status)
	}

	nonTransient := []int{400, 401, 403, 404, 409, 422}
	for _, status := range nonTransient {
		assert.Equal(t, ErrorTypeNonTransient, ClassifyHTTPError(status), "status %d", status)
	}
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(ErrorTypeTransient, 0, 3))
	assert.True(t, ShouldRetry(ErrorTypeTransient, 2, 3))
	assert.False(t, ShouldRetry(ErrorTypeTransient, 3, 3))
	assert.False(t, ShouldRetry(ErrorTypeNonTransient, 0, 3))
}

func TestIsNetworkError(t *testing.T) {
	assert.True(t, IsNetworkError(errors.New("dial tcp: connection refused")))
	assert.True(t, IsNetworkError(errors.New("context deadline exceeded")))
	assert.True(t, IsNetworkError(errors.New("lookup example.invalid: no such host")))
	assert.False(t, IsNetworkError(errors.New("invalid resource")))
	assert.False(t, IsNetworkError(nil))
}

func TestGeneratorError_WrapsAndClassifies(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := ErrNetworkUnreachable("http://localhost:8080/fhir", cause)

	assert.True(t, err.IsRetryable)
	assert.Equal(t, CategoryNetwork, err.Category)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "[NETWORK]")

	rejected := ErrResourceRejected("Patient", 422, "Unknown element")
	assert.False(t, rejected.IsRetryable)
	assert.Contains(t, rejected.Error(), "HTTP 422")
	assert.Contains(t, rejected.UserMessage(), "How to fix:")
}

package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/models"
)

// HTTPClient wraps the standard http.Client with retry logic and configuration
type HTTPClient struct {
	client      *http.Client
	retryConfig lib.RetryConfig
	logger      *lib.Logger
}

// NewHTTPClient creates an HTTP client with timeout and retry configuration
func NewHTTPClient(timeout time.Duration, retryConfig models.RetryConfig, logger *lib.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retryConfig: lib.RetryConfig{
			MaxAttempts:      retryConfig.MaxAttempts,
			InitialBackoffMs: retryConfig.InitialBackoffMs,
			MaxBackoffMs:     retryConfig.MaxBackoffMs,
		},
		logger: logger,
	}
}

// DefaultHTTPClient creates an HTTP client with sensible defaults
func DefaultHTTPClient() *HTTPClient {
	return NewHTTPClient(
		30*time.Second,
		models.RetryConfig{
			MaxAttempts:      5,
			InitialBackoffMs: 1000,
			MaxBackoffMs:     30000,
		},
		lib.DefaultLogger,
	)
}

// Get performs an HTTP GET request with retry logic
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.Do(req)
}

// Post performs an HTTP POST request with retry logic
func (c *HTTPClient) Post(url string, contentType string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	return c.Do(req)
}

// PostJSON performs an HTTP POST request with JSON content type
func (c *HTTPClient) PostJSON(url string, jsonBody []byte) (*http.Response, error) {
	return c.Post(url, "application/fhir+json", jsonBody)
}

// Do executes an HTTP request with retry logic for transient errors
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < c.retryConfig.MaxAttempts; attempt++ {
		// Request body can only be read once, so keep a copy for retries
		var bodyBytes []byte
		if req.Body != nil {
			bodyBytes, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		startTime := time.Now()
		resp, lastErr = c.client.Do(req)
		duration := time.Since(startTime)

		lib.LogServiceCall(c.logger, req.URL.Host, req.URL.Path, req.Method)

		if lastErr == nil {
			lib.LogServiceResponse(c.logger, req.URL.Host, resp.StatusCode, duration)

			if resp.StatusCode >= 400 {
				errorType := lib.ClassifyHTTPError(resp.StatusCode)
				statusErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)

				// Non-transient: return the response so the caller can read
				// the OperationOutcome details
				if errorType == lib.ErrorTypeNonTransient {
					return resp, nil
				}

				if lib.ShouldRetry(errorType, attempt, c.retryConfig.MaxAttempts) {
					lib.LogRetry(c.logger, req.URL.String(), attempt, c.retryConfig.MaxAttempts, statusErr)

					lastErr = statusErr
					_ = resp.Body.Close()

					if attempt < c.retryConfig.MaxAttempts-1 {
						backoff := lib.CalculateBackoff(attempt, c.retryConfig.InitialBackoffMs, c.retryConfig.MaxBackoffMs)
						time.Sleep(backoff)
					}

					if bodyBytes != nil {
						req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
					}

					continue
				}
			}

			return resp, nil
		}

		// Network error occurred
		if lib.IsNetworkError(lastErr) {
			if lib.ShouldRetry(lib.ErrorTypeTransient, attempt, c.retryConfig.MaxAttempts) {
				lib.LogRetry(c.logger, req.URL.String(), attempt, c.retryConfig.MaxAttempts, lastErr)

				if attempt < c.retryConfig.MaxAttempts-1 {
					backoff := lib.CalculateBackoff(attempt, c.retryConfig.InitialBackoffMs, c.retryConfig.MaxBackoffMs)
					time.Sleep(backoff)
				}

				if bodyBytes != nil {
					req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
				}

				continue
			}
		}

		return nil, lastErr
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryConfig.MaxAttempts, lastErr)
}

// Download downloads a file from a URL and writes it to a writer
// Returns the number of bytes downloaded
func (c *HTTPClient) Download(url string, writer io.Writer) (int64, error) {
	resp, err := c.Get(url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	bytesWritten, err := io.Copy(writer, resp.Body)
	if err != nil {
		return bytesWritten, fmt.Errorf("failed to download: %w", err)
	}

	return bytesWritten, nil
}

// DownloadWithProgress downloads a file with progress callback
// The callback is called periodically with bytes downloaded so far
func (c *HTTPClient) DownloadWithProgress(url string, writer io.Writer, progressCallback func(int64)) (int64, error) {
	resp, err := c.Get(url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	reader := &ProgressReader{
		Reader:   resp.Body,
		Callback: progressCallback,
	}

	bytesWritten, err := io.Copy(writer, reader)
	if err != nil {
		return bytesWritten, fmt.Errorf("failed to download: %w", err)
	}

	return bytesWritten, nil
}

// ProgressReader wraps an io.Reader and calls a callback with bytes read
type ProgressReader struct {
	Reader   io.Reader
	Callback func(int64)
	total    int64
}

func (r *ProgressReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.total += int64(n)
	if r.Callback != nil && n > 0 {
		r.Callback(r.total)
	}
	return n, err
}

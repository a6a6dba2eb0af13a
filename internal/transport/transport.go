// Package transport provides HTTP middleware for the Anthropic API client.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

const (
	// maxRateLimitRetries bounds how many 429 responses a single request
	// rides out before the response is handed back to the caller.
	maxRateLimitRetries = 10

	// defaultRetryWait is used when a 429 arrives without a usable
	// retry-after header.
	defaultRetryWait = 30 * time.Second
)

// RateLimitedTransport retries requests that are rejected with HTTP 429,
// honoring the retry-after header. Screenshot-heavy runs burn input tokens
// quickly, so rate limiting is routine rather than exceptional.
type RateLimitedTransport struct {
	base http.RoundTripper
}

// WithRateLimiting wraps base with 429 handling. A nil base uses
// http.DefaultTransport.
func WithRateLimiting(base http.RoundTripper) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitedTransport{base: base}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Buffer the body so the request can be replayed.
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRateLimitRetries {
			return resp, nil
		}

		wait := retryAfter(resp.Header.Get("retry-after"))
		if err := resp.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close response body: %w", err)
		}

		log.Printf("Rate limited, waiting %s (attempt %d/%d)", wait, attempt+1, maxRateLimitRetries)
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter parses a retry-after header, which is either a delay in seconds
// or an HTTP date. Missing or malformed values fall back to a fixed wait.
func retryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryWait
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if retryTime, err := time.Parse(time.RFC1123, header); err == nil {
		if wait := time.Until(retryTime); wait > 0 {
			return wait
		}
	}
	return defaultRetryWait
}

// Package clients builds the outbound clients kalusto talks through: a
// tuned HTTP client for the bulk price-list endpoint and the AWS SDK
// service bundle.
package clients

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewBulkHTTPClient returns an HTTP client tuned for pulling large offer
// documents: generous timeout, keep-alive reuse, compression left on.
func NewBulkHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: &retryTransport{next: transport, maxRetries: 3, backoff: time.Second},
		Timeout:   timeout,
	}
}

// retryTransport retries idempotent GETs on transport errors, 5xx, and
// 429, with capped exponential backoff.
type retryTransport struct {
	next       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (rt *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return rt.next.RoundTrip(req)
	}

	var lastErr error
	backoff := rt.backoff

	for attempt := 0; attempt <= rt.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		}

		resp, err := rt.next.RoundTrip(req.Clone(req.Context()))
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", rt.maxRetries, lastErr)
}

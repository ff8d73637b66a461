package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/fitbot/core/telegram/netutil"
)

// BuildHTTPClient returns the HTTP client used for Bot API calls. Idempotent
// GET requests are retried a few times on transient network failures.
func BuildHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Timeout:   65 * time.Second,
		Transport: &retryTransport{base: transport, attempts: 3},
	}
}

// retryTransport retries idempotent requests on transient transport errors.
type retryTransport struct {
	base     http.RoundTripper
	attempts int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	attempts := t.attempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		resp, err := t.base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Method != http.MethodGet || !netutil.ShouldRetry(err) {
			return nil, err
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(time.Duration(i+1) * 250 * time.Millisecond):
		}
	}
	return nil, lastErr
}

package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds the whole request; no retries are attempted.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRedirects caps automatic redirect following.
	DefaultMaxRedirects = 5
	// DefaultUserAgent identifies the scanner to target servers.
	DefaultUserAgent = "webposture/1.0"
)

// Fetcher issues the single top-level GET request the scanners analyze.
// The zero value uses the package defaults; all fields can be overridden
// per call site so tests can point it at a local server.
type Fetcher struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
}

// Fetch normalizes the target, performs one GET and returns the response.
// Any status code is accepted; classification never looks at it. The caller
// owns the response body.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*http.Response, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRedirects := f.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, NormalizeTarget(target), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	return client.Do(req)
}

// drainBody discards and closes a response body so connections can be reused.
func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

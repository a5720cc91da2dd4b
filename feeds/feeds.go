// Package feeds talks to the upstream HTTP APIs: crossref works and NCBI
// E-utilities.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"
)

// ErrHTTPStatus is returned, wrapped, for any non-2xx response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client that makes a single attempt per request,
// bounded by timeout. Upstream failures are handled by the callers, which
// log and move on.
func NewHTTPClient(timeout time.Duration) *pester.Client {
	client := pester.New()
	client.MaxRetries = 1
	client.Timeout = timeout
	return client
}

// NewLimiter allows one event per interval d; d <= 0 disables throttling.
func NewLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// Get performs a GET request and returns the complete body. Non-2xx
// responses yield an error wrapping ErrHTTPStatus.
func Get(ctx context.Context, client Doer, link string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d while fetching %s", ErrHTTPStatus, resp.StatusCode, link)
	}
	return io.ReadAll(resp.Body)
}

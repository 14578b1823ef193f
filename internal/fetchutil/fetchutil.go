// Package fetchutil is the shared HTTP GET helper used by every data
// source: bounded retry with exponential backoff, browser-ish headers,
// and an error (never a silent non-2xx body) on failure.
package fetchutil

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = 2 * time.Second
	DefaultTimeout  = 10 * time.Second

	// UserAgent mirrors a desktop Chrome; NSE and the IPO sites reject
	// the default Go client string outright.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Client wraps a resty client configured for N total attempts with the
// wait doubling from an initial delay between attempts.
type Client struct {
	rc *resty.Client
}

// New builds a retrying GET client. attempts is the total attempt count
// (not the retry count); delay is the wait before the first retry.
// noRetry lists status codes that fail immediately instead of burning
// the attempt budget: quota responses like 429 carry a body the caller
// needs to inspect, and retrying them only delays that.
func New(attempts int, delay, timeout time.Duration, noRetry ...int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	terminal := make(map[int]bool, len(noRetry))
	for _, code := range noRetry {
		terminal[code] = true
	}
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(attempts-1).
		SetRetryWaitTime(delay).
		SetRetryMaxWaitTime(delay*time.Duration(1<<uint(attempts))).
		SetHeader("User-Agent", UserAgent).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			if terminal[r.StatusCode()] {
				return false
			}
			return r.StatusCode() >= 400
		})
	return &Client{rc: rc}
}

// Default returns a client with the standard 3-attempt / 2s profile.
func Default() *Client {
	return New(DefaultAttempts, DefaultDelay, DefaultTimeout)
}

// Resty exposes the underlying client for callers that need cookies or
// a base URL (the NSE session fetch, the Yahoo chart client).
func (c *Client) Resty() *resty.Client {
	return c.rc
}

// Get performs a GET and returns the response, or an error once all
// attempts are exhausted or the final status is not 2xx.
func (c *Client) Get(ctx context.Context, url string, query, headers map[string]string) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return resp, fmt.Errorf("GET %s: status %d", url, resp.StatusCode())
	}
	return resp, nil
}

// GetJSON performs a GET and unmarshals the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, query, headers map[string]string, out any) error {
	req := c.rc.R().SetContext(ctx).SetResult(out).ForceContentType("application/json")
	if query != nil {
		req.SetQueryParams(query)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode())
	}
	return nil
}

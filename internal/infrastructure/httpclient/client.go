package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from an upstream (10MB)
const maxResponseSize = 10 * 1024 * 1024

// retryableStatuses are the HTTP statuses worth retrying: rate limiting and
// transient server-side failures. Everything else in the 4xx/5xx range
// surfaces immediately without consuming a retry.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// UpstreamError reports a non-2xx response from an upstream service after
// the retry budget is spent (or immediately, for non-retryable statuses).
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.StatusCode)
}

// Options configures a Client. Use DefaultOptions as the starting point;
// an RPS of 0 disables throttling entirely.
type Options struct {
	RPS         float64       // requests-per-second ceiling
	MaxRetries  int           // retry budget for retryable failures
	BackoffBase time.Duration // first backoff delay, doubled per attempt
	BackoffCap  time.Duration // upper bound on the computed backoff
	Timeout     time.Duration // per-request socket timeout
}

// DefaultOptions returns the standard client configuration.
func DefaultOptions() Options {
	return Options{
		RPS:         3,
		MaxRetries:  5,
		BackoffBase: 500 * time.Millisecond,
		BackoffCap:  8 * time.Second,
		Timeout:     15 * time.Second,
	}
}

// Request describes a single outbound HTTP call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	Body   []byte
}

// Response is the buffered result of a successful call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is a rate-limited HTTP client with bounded exponential-backoff
// retries. Throttle and backoff sleeps block the calling goroutine. The
// client is safe for concurrent use; concurrent callers share one rate
// budget and each reserves the next send slot in turn.
type Client struct {
	http        *http.Client
	opts        Options
	minInterval time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	nextSlot time.Time
	rng      *rand.Rand
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTransport overrides the underlying transport (used in tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// New creates a Client with the given options.
func New(opts Options, clientOpts ...Option) *Client {
	var minInterval time.Duration
	if opts.RPS > 0 {
		minInterval = time.Duration(float64(time.Second) / opts.RPS)
	}

	c := &Client{
		http:        &http.Client{Timeout: opts.Timeout},
		opts:        opts,
		minInterval: minInterval,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      zap.NewNop(),
	}

	for _, opt := range clientOpts {
		opt(c)
	}

	return c
}

// Do executes the request, honoring the RPS ceiling before every attempt
// (including the first) and retrying transport failures and retryable
// statuses up to MaxRetries times. A Retry-After header with a valid
// numeric value overrides the computed backoff for that attempt.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		c.throttle()

		resp, err := c.attempt(ctx, req)
		c.markCallDone()

		if err != nil {
			lastErr = err
			if attempt >= c.opts.MaxRetries {
				return nil, fmt.Errorf("request to %s failed after %d attempts: %w", req.URL, attempt+1, err)
			}
			c.sleep(attempt, "", err.Error())
			continue
		}

		if retryableStatuses[resp.StatusCode] {
			lastErr = &UpstreamError{StatusCode: resp.StatusCode, Body: resp.Body}
			if attempt >= c.opts.MaxRetries {
				return nil, lastErr
			}
			c.sleep(attempt, resp.Header.Get("Retry-After"), fmt.Sprintf("HTTP %d", resp.StatusCode))
			continue
		}

		if resp.StatusCode >= 400 {
			return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: resp.Body}
		}

		return resp, nil
	}

	// Unreachable: the loop always returns on the final attempt.
	return nil, lastErr
}

// attempt performs one HTTP round trip and buffers the response.
func (c *Client) attempt(ctx context.Context, req Request) (*Response, error) {
	target := req.URL
	if len(req.Query) > 0 {
		target = target + "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// throttle enforces the minimum inter-call interval. Each caller reserves
// the next send slot under the lock, then sleeps outside it until the slot
// arrives.
func (c *Client) throttle() {
	if c.minInterval <= 0 {
		return
	}

	c.mu.Lock()
	now := time.Now()
	slot := c.nextSlot
	if slot.Before(now) {
		slot = now
	}
	c.nextSlot = slot.Add(c.minInterval)
	c.mu.Unlock()

	if wait := time.Until(slot); wait > 0 {
		time.Sleep(wait)
	}
}

// markCallDone pushes the next send slot out to a full interval past the
// end of the call that just finished. The interval is measured from call
// completion, not call start.
func (c *Client) markCallDone() {
	if c.minInterval <= 0 {
		return
	}

	c.mu.Lock()
	if next := time.Now().Add(c.minInterval); next.After(c.nextSlot) {
		c.nextSlot = next
	}
	c.mu.Unlock()
}

// sleep blocks before the next attempt. A valid numeric Retry-After value
// is used as-is; otherwise the delay is min(cap, base*2^attempt) plus a
// uniform jitter of up to 25% of that value.
func (c *Client) sleep(attempt int, retryAfter, reason string) {
	if retryAfter != "" {
		if secs, err := strconv.ParseFloat(retryAfter, 64); err == nil && secs >= 0 {
			delay := time.Duration(secs * float64(time.Second))
			c.logger.Info("retrying after Retry-After",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.String("reason", reason),
			)
			time.Sleep(delay)
			return
		}
	}

	base := math.Min(
		float64(c.opts.BackoffCap),
		float64(c.opts.BackoffBase)*math.Pow(2, float64(attempt)),
	)
	c.mu.Lock()
	jitter := c.rng.Float64()
	c.mu.Unlock()
	delay := time.Duration(base + jitter*base*0.25)
	c.logger.Info("retrying after backoff",
		zap.Int("attempt", attempt+1),
		zap.Duration("delay", delay),
		zap.String("reason", reason),
	)
	time.Sleep(delay)
}

package tableau

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request budget per rolling minute.
	DefaultRateLimit = 60

	// MaxRetries is the maximum number of retries for 429/5xx responses.
	MaxRetries = 3

	// RetryBackoffBase is the base delay between retries; the actual
	// delay scales with the attempt number.
	RetryBackoffBase = time.Second

	// rateWindow is the span of the rolling request window.
	rateWindow = time.Minute
)

// sleepFunc pauses for d, honoring ctx cancellation. Injectable so
// tests can run with a fake clock.
type sleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WindowLimiter admits at most budget requests per rolling window.
//
// Unlike a token bucket it enforces a strict window: when the budget is
// spent, the caller blocks until the oldest recorded request ages out
// of the window. The crawl pipeline is not latency-sensitive, so a
// blocking wait is acceptable.
type WindowLimiter struct {
	mu     sync.Mutex
	budget int
	window time.Duration
	stamps []time.Time

	now   func() time.Time
	sleep sleepFunc
}

// NewWindowLimiter creates a limiter admitting budget requests per
// rolling minute.
func NewWindowLimiter(budget int) *WindowLimiter {
	if budget <= 0 {
		budget = DefaultRateLimit
	}
	return &WindowLimiter{
		budget: budget,
		window: rateWindow,
		now:    time.Now,
		sleep:  defaultSleep,
	}
}

// Wait blocks until a request may be issued, then records it.
func (l *WindowLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	l.prune()
	if len(l.stamps) >= l.budget {
		wait := l.window - l.now().Sub(l.stamps[0])
		l.mu.Unlock()

		if wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}

		l.mu.Lock()
		l.prune()
	}
	l.stamps = append(l.stamps, l.now())
	l.mu.Unlock()
	return nil
}

// prune drops stamps older than the window. Caller holds the lock.
func (l *WindowLimiter) prune() {
	cutoff := l.now().Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	l.stamps = l.stamps[i:]
}

// Pending returns the number of requests currently inside the window.
func (l *WindowLimiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	return len(l.stamps)
}

// Response is a fully-read platform HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport issues platform HTTP requests under the rolling rate
// window, retrying 429 and 5xx responses with attempt-scaled backoff.
// All other failures propagate immediately.
type Transport struct {
	client      *http.Client
	limiter     *WindowLimiter
	maxRetries  int
	backoffBase time.Duration
	sleep       sleepFunc
}

// NewTransport creates a Transport with the given per-minute budget.
func NewTransport(rateLimitPerMinute int, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		client:      &http.Client{Timeout: timeout},
		limiter:     NewWindowLimiter(rateLimitPerMinute),
		maxRetries:  MaxRetries,
		backoffBase: RetryBackoffBase,
		sleep:       defaultSleep,
	}
}

// Execute issues one request and returns the final fully-read response.
// The body is buffered so it can be re-sent on retry. Every attempt,
// including retries, consumes rate budget. Non-2xx terminal statuses
// are returned as errors (*APIError, or *RateLimitError for 429).
func (t *Transport) Execute(ctx context.Context, method, url string, body []byte, header http.Header) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			if err := t.sleep(ctx, time.Duration(attempt)*t.backoffBase); err != nil {
				return nil, err
			}
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := t.attempt(ctx, method, url, body, header)
		if err != nil {
			// Transport-level failures are not retried.
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}

		switch {
		case resp.StatusCode < 300:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = &RateLimitError{RetryAfter: retryAfter(resp.Header), URL: url}
		case resp.StatusCode >= 500:
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: errorSummary(resp.Body), URL: url}
		default:
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errorSummary(resp.Body), URL: url}
		}
	}

	return nil, lastErr
}

// attempt issues a single HTTP request and reads the body fully.
func (t *Transport) attempt(ctx context.Context, method, url string, body []byte, header http.Header) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// retryAfter parses a Retry-After header in seconds.
func retryAfter(header http.Header) time.Duration {
	if raw := header.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}

// errorSummary truncates a response body for error messages.
func errorSummary(body []byte) string {
	const maxLen = 200
	s := string(bytes.TrimSpace(body))
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	if s == "" {
		s = "no response body"
	}
	return s
}

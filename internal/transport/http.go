// Package transport provides the authenticated HTTP collaborator the Baby Buddy client runs on.
package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/babybuddywidgets/bbclient/internal/id"
	"github.com/babybuddywidgets/bbclient/internal/ratelimit"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "bbclient/1.0"

	// HeaderRequestID carries the per-request correlation id.
	HeaderRequestID = "X-Request-ID"
)

// Doer executes a single HTTP exchange.
// *http.Client and *HTTP both satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds transport settings.
type Config struct {
	Token     string        // API token sent as "Authorization: Token <token>"
	UserAgent string        // default: bbclient/1.0
	Timeout   time.Duration // per-exchange timeout (default: 30s)
	RPS       float64       // requests per second per host; <= 0 disables limiting
	Burst     int           // token bucket burst
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying *http.Client, e.g. with httptest.Server.Client().
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTP) {
		t.client = c
	}
}

// WithClock overrides the local clock used for server offset tracking.
func WithClock(now func() time.Time) Option {
	return func(t *HTTP) {
		t.now = now
	}
}

// HTTP is an authenticated, rate-limited transport.
// It keeps no session state apart from the rate limiter and the last observed server clock offset.
type HTTP struct {
	client    *http.Client
	token     string
	userAgent string
	limiter   *ratelimit.KeyedRateLimiter
	logger    *slog.Logger
	now       func() time.Time

	offset   atomic.Int64 // server minus local clock, nanoseconds
	hasClock atomic.Bool
}

// New creates a transport. The returned value must be closed to stop the limiter.
func New(cfg Config, logger *slog.Logger, opts ...Option) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &HTTP{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
		limiter:   ratelimit.New(cfg.RPS, cfg.Burst),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Close releases resources held by the transport.
func (t *HTTP) Close() {
	t.limiter.Stop()
}

// Do waits for the host's rate limit, decorates a copy of req with auth and
// correlation headers, and executes it. req itself is not modified.
func (t *HTTP) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if err := t.limiter.Wait(ctx, req.URL.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	out := req.Clone(ctx)
	if t.token != "" {
		out.Header.Set("Authorization", "Token "+t.token)
	}
	out.Header.Set("Accept", "application/json")
	out.Header.Set("User-Agent", t.userAgent)

	reqID := out.Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = id.NewRequestID()
		if reqID != "" {
			out.Header.Set(HeaderRequestID, reqID)
		}
	}

	start := t.now()
	resp, err := t.client.Do(out)
	if err != nil {
		t.logger.Debug("babybuddy request failed",
			"method", out.Method,
			"path", out.URL.Path,
			"request_id", reqID,
			"error", err,
		)
		return nil, err
	}

	t.observeServerDate(resp.Header.Get("Date"))

	t.logger.Debug("babybuddy request",
		"method", out.Method,
		"path", out.URL.Path,
		"query", out.URL.RawQuery,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", t.now().Sub(start),
	)

	return resp, nil
}

// observeServerDate records the offset between the server's Date header and the local clock.
func (t *HTTP) observeServerDate(header string) {
	if header == "" {
		return
	}
	serverTime, err := http.ParseTime(header)
	if err != nil {
		return
	}
	t.offset.Store(int64(serverTime.Sub(t.now())))
	t.hasClock.Store(true)
}

// ServerOffset returns the last observed server minus local clock difference.
// ok is false until a response carrying a Date header has been seen.
func (t *HTTP) ServerOffset() (offset time.Duration, ok bool) {
	return time.Duration(t.offset.Load()), t.hasClock.Load()
}

// ServerNow estimates the current server time.
func (t *HTTP) ServerNow() time.Time {
	offset, _ := t.ServerOffset()
	return t.now().Add(offset)
}

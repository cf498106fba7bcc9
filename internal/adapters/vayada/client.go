// internal/adapters/vayada/client.go
package vayada

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"vayada_admin/internal/adapters/observability"
	"vayada_admin/internal/domain"
)

// TokenSource yields the current bearer token, if one is present and unexpired.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, bool)

func (f TokenFunc) Token(ctx context.Context) (string, bool) { return f(ctx) }

type Client struct {
	base           string
	hc             *http.Client
	tokens         TokenSource
	rl             *rate.Limiter
	retries        int
	ua             string
	onUnauthorized func()
}

type Option func(*Client)

func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }
func WithRetries(n int) Option              { return func(c *Client) { c.retries = n } }
func WithUserAgent(ua string) Option        { return func(c *Client) { c.ua = ua } }

func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.rl = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// WithUnauthorizedHook runs f when a request that carried a bearer token gets
// a 401, so the session can invalidate itself.
func WithUnauthorizedHook(f func()) Option { return func(c *Client) { c.onUnauthorized = f } }

func New(base string, opts ...Option) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", base, err)
	}
	c := &Client{
		base:    base,
		hc:      &http.Client{Timeout: 20 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(10), 10),
		retries: 3,
		ua:      "vayada-admin/1.0",
	}
	for _, o := range opts {
		o(c)
	}
	if c.retries < 0 {
		c.retries = 0
	}
	return c, nil
}

// ---- per-request token (gateway pass-through) ----

type tokenKey struct{}

// WithToken pins the bearer token for calls made with ctx, overriding the TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}

// ---- Public API ----

func (c *Client) Get(ctx context.Context, path string, q url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, out, true)
}

func (c *Client) GetPublic(ctx context.Context, path string, q url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, out, false)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *Client) PostPublic(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, false)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out, true)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}

// ---- Internals ----

// do issues one logical call. GETs are retried on 429 and transient 5xx,
// honoring Retry-After; other verbs are sent exactly once.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any, auth bool) error {
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}
	endpoint := endpointLabel(path)
	reqID := uuid.NewString()

	var (
		lastErr error
		bearer  bool
	)
	for i := 0; i < attempts; i++ {
		last := i == attempts-1

		// build a fresh request each attempt
		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rdr)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)
		req.Header.Set("X-Request-ID", reqID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if auth {
			if tok, ok := c.token(ctx); ok {
				req.Header.Set("Authorization", "Bearer "+tok)
				bearer = true
			}
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("vayada", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = &domain.NetworkError{Op: method + " " + path, Err: err}
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("vayada", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := decodeBody(resp, out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s %s: %w", method, path, err)
			}
			return nil

		case retryable(resp.StatusCode) && !last:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			apiErr := readAPIError(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = apiErr
			if sleepCtx(ctx, wait) {
				continue
			}
			return ctx.Err()

		default:
			apiErr := readAPIError(resp)
			resp.Body.Close()
			if apiErr.Status == http.StatusUnauthorized && bearer && c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return apiErr
		}
	}

	return lastErr
}

func (c *Client) token(ctx context.Context) (string, bool) {
	if t, ok := tokenFrom(ctx); ok {
		return t, true
	}
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.Token(ctx)
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func decodeBody(resp *http.Response, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}

// readAPIError normalizes a non-2xx response into *domain.APIError.
func readAPIError(resp *http.Response) *domain.APIError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	e := &domain.APIError{Status: resp.StatusCode, Raw: strings.TrimSpace(string(b))}
	var obj map[string]any
	if len(b) > 0 && json.Unmarshal(b, &obj) == nil {
		e.Body = obj
	}
	e.Message = messageFromBody(e.Body)
	if e.Message == "" {
		e.Message = e.Raw
	}
	if e.Message == "" || len(e.Message) > 512 {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// endpointLabel collapses IDs so metric cardinality stays bounded.
func endpointLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if i > 0 && (parts[i-1] == "users" || parts[i-1] == "social-media" || parts[i-1] == "listings") &&
			p != "social-media" && p != "listings" && p != "status" && p != "profile" {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with up to +50% jitter.
// i = retry attempt (0,1,2,...) -> 200ms, 400ms, 800ms...
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

var _ domain.Backend = (*Client)(nil)

// IsNetwork reports whether err means the backend was never reached.
func IsNetwork(err error) bool { return errors.Is(err, domain.ErrNetwork) }

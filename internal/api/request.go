package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"vtruck/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

type authMode int

const (
	authBasic authMode = iota
	authBearer
)

// body is a fully buffered request body, so retries can resend it.
type body struct {
	contentType string
	data        []byte
}

type request struct {
	method string
	route  string // path template used as the metrics label
	path   string
	query  url.Values
	auth   authMode
	body   *body
}

func jsonBody(v any) (*body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &body{contentType: "application/json", data: b}, nil
}

func formBody(vals url.Values) *body {
	return &body{contentType: "application/x-www-form-urlencoded", data: []byte(vals.Encode())}
}

// do sends req and returns the raw 2xx response body.
func (c *HTTPClient) do(ctx context.Context, req request) ([]byte, error) {
	token := ""
	if req.auth == authBearer {
		var err error
		if token, err = c.token(); err != nil {
			return nil, err
		}
	}
	u := c.url(req.path, req.query)

	attempts := 1
	if idempotent(req.method) {
		attempts += c.retry.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.metrics.ObserveRetry(req.route)
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		raw, status, err := c.roundTrip(ctx, req, u, token)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(status) {
			break
		}
	}
	return nil, lastErr
}

func (c *HTTPClient) roundTrip(ctx context.Context, req request, u, token string) ([]byte, int, error) {
	var rdr io.Reader
	if req.body != nil {
		rdr = bytes.NewReader(req.body.data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, rdr)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", req.body.contentType)
	}
	switch req.auth {
	case authBasic:
		httpReq.SetBasicAuth(c.basicUser, c.basicPass)
	case authBearer:
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if id := logger.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(req.route, req.method, 0, elapsed)
		c.log.Debug("request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.ObserveRequest(req.route, req.method, resp.StatusCode, elapsed)
	c.log.Debug("request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s %s: read response: %w", req.method, req.path, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, resp.StatusCode, newError(req.method, req.path, resp.StatusCode, raw)
	}
	return raw, resp.StatusCode, nil
}

func (c *HTTPClient) token() (string, error) {
	if c.sessions == nil {
		return "", ErrNoSession
	}
	s, ok, err := c.sessions.LoadSession()
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok || s.Token == "" {
		return "", ErrNoSession
	}
	return s.Token, nil
}

func (c *HTTPClient) url(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// backoff returns the delay before the given retry attempt, with ±25% jitter.
func (c *HTTPClient) backoff(attempt int) time.Duration {
	delay := float64(c.retry.BaseDelay) * math.Pow(c.retry.Multiplier, float64(attempt-1))
	if delay > float64(c.retry.MaxDelay) {
		delay = float64(c.retry.MaxDelay)
	}
	jitter := delay * 0.25
	return time.Duration(delay + (rand.Float64()*2-1)*jitter)
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// retryable reports whether a failed attempt with the given status is worth
// repeating. Status 0 means no response was received.
func retryable(status int) bool {
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vtruck/internal/domain"
	"vtruck/internal/metrics"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://2maato.com/api"

// ErrNoSession is returned by user-scoped calls when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Config configures an HTTPClient.
type Config struct {
	BaseURL       string
	BasicUser     string
	BasicPassword string
	Timeout       time.Duration
	RateLimit     float64 // requests per second; 0 disables limiting
	Burst         int
	Retry         RetryConfig

	HTTP     *http.Client // optional; built from Timeout when nil
	Sessions domain.SessionStore
	Logger   *zap.Logger
	Metrics  *metrics.Recorder
}

// RetryConfig configures retry behaviour for idempotent requests.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  300 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2,
	}
}

// HTTPClient implements domain.Backend over HTTP.
type HTTPClient struct {
	base      *url.URL
	http      *http.Client
	basicUser string
	basicPass string
	sessions  domain.SessionStore
	limiter   *rate.Limiter
	retry     RetryConfig
	log       *zap.Logger
	metrics   *metrics.Recorder
}

// NewHTTP builds a client from cfg.
func NewHTTP(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	hc := cfg.HTTP
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	retry := cfg.Retry
	if retry.Multiplier <= 0 {
		retry.Multiplier = 2
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetryConfig().BaseDelay
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = DefaultRetryConfig().MaxDelay
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &HTTPClient{
		base:      base,
		http:      hc,
		basicUser: cfg.BasicUser,
		basicPass: cfg.BasicPassword,
		sessions:  cfg.Sessions,
		limiter:   limiter,
		retry:     retry,
		log:       log.Named("api"),
		metrics:   cfg.Metrics,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *HTTPClient) BaseURL() string { return c.base.String() }

// Compile-time assertion that HTTPClient implements domain.Backend.
var _ domain.Backend = (*HTTPClient)(nil)

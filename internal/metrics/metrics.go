// Package metrics records backend API traffic in a private Prometheus
// registry and can expose it over HTTP for long-running commands.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vtruck"

// Recorder holds the API client metrics.
//
// Safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Backend API requests by endpoint, method and status code.",
		},
		[]string{"endpoint", "method", "status"},
	)
	r.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	r.retriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_retries_total",
			Help:      "Backend API request retries by endpoint.",
		},
		[]string{"endpoint"},
	)

	r.registry.MustRegister(r.requestsTotal, r.requestDuration, r.retriesTotal)
	return r
}

// ObserveRequest records one completed request. A status of 0 means the
// request failed before a response arrived.
func (r *Recorder) ObserveRequest(endpoint, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.requestsTotal.WithLabelValues(endpoint, method, label).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveRetry records a retried request.
func (r *Recorder) ObserveRetry(endpoint string) {
	if r == nil {
		return
	}
	r.retriesTotal.WithLabelValues(endpoint).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Server exposes a Recorder on /metrics.
type Server struct {
	mu      sync.Mutex
	rec     *Recorder
	server  *http.Server
	ln      net.Listener
	lastErr error
}

// NewServer returns a stopped metrics server for rec.
func NewServer(rec *Recorder) *Server { return &Server{rec: rec} }

// Start listens on addr (host:port, port 0 picks a free port).
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.rec.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	s.ln = ln
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
		}
	}()
	return nil
}

// Addr returns the bound address, or "" when stopped.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Err returns the last serve error, if any.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server, s.ln = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

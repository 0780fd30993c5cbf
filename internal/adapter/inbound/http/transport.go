// Package http provides the HTTP transport adapter for the gateway.
package http

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solawi-gate/listgate/internal/service"
)

// HTTPTransport is the inbound adapter that exposes the gateway's two MTA
// endpoints (POST /mta-hook, POST /user-sync) plus /health and /metrics.
type HTTPTransport struct {
	hookService    *service.HookService
	syncService    *service.SyncService
	server         *http.Server
	addr           string
	allowedOrigins []string
	certFile       string
	keyFile        string
	logger         *slog.Logger
	redactIPs      bool
	extraHandler   http.Handler   // admin API, mounted under /admin/
	metrics        *Metrics       // Prometheus metrics
	healthChecker  *HealthChecker // health check handler
}

// Option is a functional option for configuring HTTPTransport.
type Option func(*HTTPTransport)

// WithAddr sets the listen address for the HTTP server.
func WithAddr(addr string) Option {
	return func(t *HTTPTransport) { t.addr = addr }
}

// WithTLS enables TLS with the provided certificate and key files.
func WithTLS(certFile, keyFile string) Option {
	return func(t *HTTPTransport) {
		t.certFile = certFile
		t.keyFile = keyFile
	}
}

// WithAllowedOrigins sets the allowed origins for DNS rebinding protection.
func WithAllowedOrigins(origins []string) Option {
	return func(t *HTTPTransport) { t.allowedOrigins = origins }
}

// WithLogger sets the logger for the HTTP transport.
func WithLogger(logger *slog.Logger) Option {
	return func(t *HTTPTransport) { t.logger = logger }
}

// WithRedactIPs toggles IP redaction when logging/persisting connection
// records (LOG_REDACT_IPS).
func WithRedactIPs(redact bool) Option {
	return func(t *HTTPTransport) { t.redactIPs = redact }
}

// WithExtraHandler mounts an extra HTTP handler under /admin/ (the admin
// API: category/subscription/blocked-IP CRUD and the feed endpoint).
func WithExtraHandler(h http.Handler) Option {
	return func(t *HTTPTransport) { t.extraHandler = h }
}

// WithHealthChecker sets the health checker for the /health endpoint.
func WithHealthChecker(hc *HealthChecker) Option {
	return func(t *HTTPTransport) { t.healthChecker = hc }
}

// NewHTTPTransport creates an HTTP transport adapter wrapping the given
// hook and sync services.
func NewHTTPTransport(hookService *service.HookService, syncService *service.SyncService, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		hookService:    hookService,
		syncService:    syncService,
		addr:           "127.0.0.1:8025",
		allowedOrigins: []string{},
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start begins accepting HTTP connections and serving the hook and sync
// endpoints. It blocks until the context is cancelled or an error occurs.
func (t *HTTPTransport) Start(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	t.metrics = NewMetrics(reg)

	// Middleware order (outermost first): Metrics -> RequestID -> RealIP -> DNSRebinding -> Handler.
	wrap := func(h http.Handler) http.Handler {
		h = DNSRebindingProtection(t.allowedOrigins)(h)
		h = RealIPMiddleware(h)
		h = RequestIDMiddleware(t.logger)(h)
		h = MetricsMiddleware(t.metrics)(h)
		return h
	}

	mux := http.NewServeMux()
	if t.extraHandler != nil {
		mux.Handle("/admin/", t.extraHandler)
		mux.Handle("/admin", t.extraHandler)
	}
	if t.healthChecker != nil {
		mux.Handle("/health", t.healthChecker.Handler())
	}
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/favicon.ico", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.Handle("/mta-hook", wrap(hookHandlerWithMetrics(t.hookService, t.redactIPs, t.metrics)))
	mux.Handle("/user-sync", wrap(userSyncHandlerWithMetrics(t.syncService, t.metrics)))

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	if t.certFile != "" && t.keyFile != "" {
		t.server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	errCh := make(chan error, 1)

	go func() {
		var err error
		if t.certFile != "" && t.keyFile != "" {
			t.logger.Info("starting HTTPS server", "addr", t.addr)
			err = t.server.ListenAndServeTLS(t.certFile, t.keyFile)
		} else {
			t.logger.Info("starting HTTP server", "addr", t.addr)
			err = t.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		t.logger.Info("context cancelled, shutting down HTTP server")
		return t.shutdown()
	case err := <-errCh:
		return err
	}
}

// shutdown performs graceful shutdown of the HTTP server.
func (t *HTTPTransport) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := t.server.Shutdown(ctx); err != nil {
		t.logger.Error("error during server shutdown", "error", err)
		return err
	}

	t.logger.Info("HTTP server shutdown complete")
	return nil
}

// Close gracefully shuts down the transport.
func (t *HTTPTransport) Close() error {
	if t.server == nil {
		return nil
	}
	return t.shutdown()
}

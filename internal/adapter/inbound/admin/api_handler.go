// Package admin provides the JSON API for the gateway's admin read/write
// surface: category, subscription, and blocked-IP management, account
// listing, dashboard stats, and the live feed over the four relations.
package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/principal"
	"github.com/solawi-gate/listgate/internal/domain/store"
	"github.com/solawi-gate/listgate/internal/service"
)

// AdminAPIHandler provides JSON API endpoints for the admin surface.
type AdminAPIHandler struct {
	store       store.Store
	statsService *service.StatsService
	feedService  *service.FeedService
	resolver     *principal.Resolver
	logger       *slog.Logger
	startTime    time.Time
}

// AdminAPIOption configures an AdminAPIHandler dependency.
type AdminAPIOption func(*AdminAPIHandler)

// WithStore sets the authoritative store backing CRUD and listing.
func WithStore(s store.Store) AdminAPIOption {
	return func(h *AdminAPIHandler) { h.store = s }
}

// WithStatsService sets the stats service for dashboard counters.
func WithStatsService(s *service.StatsService) AdminAPIOption {
	return func(h *AdminAPIHandler) { h.statsService = s }
}

// WithFeedService sets the service backing the live feed endpoint.
func WithFeedService(s *service.FeedService) AdminAPIOption {
	return func(h *AdminAPIHandler) { h.feedService = s }
}

// WithResolver sets the bearer-credential resolver used to authorize
// admin requests.
func WithResolver(r *principal.Resolver) AdminAPIOption {
	return func(h *AdminAPIHandler) { h.resolver = r }
}

// WithAPILogger sets the logger.
func WithAPILogger(l *slog.Logger) AdminAPIOption {
	return func(h *AdminAPIHandler) { h.logger = l }
}

// NewAdminAPIHandler creates a new AdminAPIHandler with the given options.
func NewAdminAPIHandler(opts ...AdminAPIOption) *AdminAPIHandler {
	h := &AdminAPIHandler{
		logger:    slog.Default(),
		startTime: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns an http.Handler with all admin API routes registered.
// The auth status endpoint is accessible without admin credentials
// (informational only); every other route requires a bearer credential
// that resolves to an admin principal.
func (h *AdminAPIHandler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin/api/auth/status", h.handleAuthStatus)

	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("GET /admin/api/categories", h.handleListCategories)
	protectedMux.HandleFunc("POST /admin/api/categories", h.handleCreateCategory)
	protectedMux.HandleFunc("PUT /admin/api/categories/{id}/active", h.handleSetCategoryActive)

	protectedMux.HandleFunc("GET /admin/api/subscriptions", h.handleListSubscriptions)
	protectedMux.HandleFunc("POST /admin/api/subscriptions", h.handleCreateSubscription)
	protectedMux.HandleFunc("PUT /admin/api/subscriptions/{id}/active", h.handleSetSubscriptionActive)

	protectedMux.HandleFunc("GET /admin/api/blocked-ips", h.handleListBlockedIPs)
	protectedMux.HandleFunc("POST /admin/api/blocked-ips", h.handleBlockIP)
	protectedMux.HandleFunc("DELETE /admin/api/blocked-ips/{ip}", h.handleUnblockIP)

	protectedMux.HandleFunc("GET /admin/api/accounts", h.handleListAccounts)

	protectedMux.HandleFunc("GET /admin/api/connection-log", h.handleListConnectionLog)
	protectedMux.HandleFunc("GET /admin/api/message-log", h.handleListMessageLog)

	protectedMux.HandleFunc("GET /admin/api/stats", h.handleGetStats)
	protectedMux.HandleFunc("GET /admin/api/feed/{relation}", h.handleFeed)

	mux.Handle("/admin/api/", h.adminAuthMiddleware(protectedMux))

	rateLimited := apiRateLimitMiddleware(60, time.Minute, mux)
	return cspMiddleware(rateLimited)
}

// --- JSON helper methods ---

// respondJSON writes a JSON response with the given status code and data.
func (h *AdminAPIHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a JSON error response with the given status code
// and message. Mapping store errors to a status is storeErrorStatus's job.
func (h *AdminAPIHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// storeErrorStatus maps a store sentinel error, possibly wrapped, to its
// HTTP status.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvariantViolation):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// readJSON decodes the request body into the given value.
func (h *AdminAPIHandler) readJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathParam extracts a named path parameter from the request URL.
func (h *AdminAPIHandler) pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

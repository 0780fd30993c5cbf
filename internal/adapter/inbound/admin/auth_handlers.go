package admin

import (
	"net/http"
)

// authStatusResponse is the JSON response for GET /admin/api/auth/status.
type authStatusResponse struct {
	AuthRequired bool `json:"auth_required"`
}

// handleAuthStatus returns authentication status information. It is the
// one admin endpoint reachable without a bearer credential, so a client
// can discover that one is required before attempting anything else.
// GET /admin/api/auth/status
func (h *AdminAPIHandler) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, authStatusResponse{AuthRequired: true})
}

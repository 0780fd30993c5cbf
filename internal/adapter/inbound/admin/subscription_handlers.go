package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// handleListSubscriptions serves GET /admin/api/subscriptions.
func (h *AdminAPIHandler) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListSubscriptions(r.Context())
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, subs)
}

// createSubscriptionRequest is the body for POST /admin/api/subscriptions.
type createSubscriptionRequest struct {
	AccountID  uint64 `json:"account_id"`
	Email      string `json:"email"`
	CategoryID uint64 `json:"category_id"`
}

// handleCreateSubscription serves POST /admin/api/subscriptions.
func (h *AdminAPIHandler) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.CategoryID == 0 {
		h.respondError(w, http.StatusBadRequest, "email and category_id are required")
		return
	}

	sub, err := h.store.AddSubscription(r.Context(), req.AccountID, req.Email, req.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "category not found")
			return
		}
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, sub)
}

// handleSetSubscriptionActive serves PUT /admin/api/subscriptions/{id}/active.
func (h *AdminAPIHandler) handleSetSubscriptionActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(h.pathParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req setActiveRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.store.SetSubscriptionActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "subscription not found")
			return
		}
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

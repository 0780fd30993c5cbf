package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// handleListCategories serves GET /admin/api/categories.
func (h *AdminAPIHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, cats)
}

// createCategoryRequest is the body for POST /admin/api/categories.
type createCategoryRequest struct {
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	Description  string `json:"description"`
}

// handleCreateCategory serves POST /admin/api/categories.
func (h *AdminAPIHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())

	var req createCategoryRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" || req.EmailAddress == "" {
		h.respondError(w, http.StatusBadRequest, "name and email_address are required")
		return
	}

	cat, err := h.store.AddMessageCategory(r.Context(), p, req.Name, req.EmailAddress, req.Description)
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, cat)
}

// setActiveRequest is the body for the active-toggle endpoints.
type setActiveRequest struct {
	Active bool `json:"active"`
}

// handleSetCategoryActive serves PUT /admin/api/categories/{id}/active.
func (h *AdminAPIHandler) handleSetCategoryActive(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())

	id, err := strconv.ParseUint(h.pathParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req setActiveRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.store.SetCategoryActive(r.Context(), p, id, req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "category not found")
			return
		}
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

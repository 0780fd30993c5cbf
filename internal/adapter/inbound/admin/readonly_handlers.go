package admin

import (
	"net/http"
	"strconv"
)

// defaultLogLimit bounds GET .../connection-log and .../message-log when
// the caller does not supply ?limit=.
const defaultLogLimit = 200

// handleListAccounts serves GET /admin/api/accounts. Accounts are
// created and updated exclusively via the account-sync operation (I5);
// this endpoint is read-only.
func (h *AdminAPIHandler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, accounts)
}

// handleListConnectionLog serves GET /admin/api/connection-log.
func (h *AdminAPIHandler) handleListConnectionLog(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultLogLimit)
	rows, err := h.store.ListConnectionLog(r.Context(), limit)
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, rows)
}

// handleListMessageLog serves GET /admin/api/message-log.
func (h *AdminAPIHandler) handleListMessageLog(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultLogLimit)
	rows, err := h.store.ListMessageLog(r.Context(), limit)
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, rows)
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

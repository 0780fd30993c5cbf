package admin

import (
	"net/http"
)

// handleListBlockedIPs serves GET /admin/api/blocked-ips.
func (h *AdminAPIHandler) handleListBlockedIPs(w http.ResponseWriter, r *http.Request) {
	ips, err := h.store.ListBlockedIPs(r.Context())
	if err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, ips)
}

// blockIPRequest is the body for POST /admin/api/blocked-ips.
type blockIPRequest struct {
	IP     string `json:"ip"`
	Reason string `json:"reason"`
}

// handleBlockIP serves POST /admin/api/blocked-ips.
func (h *AdminAPIHandler) handleBlockIP(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())

	var req blockIPRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.IP == "" {
		h.respondError(w, http.StatusBadRequest, "ip is required")
		return
	}

	if err := h.store.BlockIP(r.Context(), p, req.IP, req.Reason); err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"ip": req.IP})
}

// handleUnblockIP serves DELETE /admin/api/blocked-ips/{ip}.
func (h *AdminAPIHandler) handleUnblockIP(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())

	ip := h.pathParam(r, "ip")
	if ip == "" {
		h.respondError(w, http.StatusBadRequest, "ip is required")
		return
	}

	if err := h.store.UnblockIP(r.Context(), p, ip); err != nil {
		h.respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

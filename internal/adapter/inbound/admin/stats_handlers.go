package admin

import (
	"net/http"
)

// StatsResponse is the JSON response for GET /admin/api/stats.
type StatsResponse struct {
	Accepted    int64            `json:"accepted"`
	Rejected    int64            `json:"rejected"`
	Quarantined int64            `json:"quarantined"`
	Errors      int64            `json:"errors"`
	ByStage     map[string]int64 `json:"by_stage"`
}

// handleGetStats returns the StatsService counters. The hook path does not
// record into StatsService, so outside tests every counter reads zero.
func (h *AdminAPIHandler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{ByStage: make(map[string]int64)}

	if h.statsService != nil {
		snap := h.statsService.Snapshot()
		resp.Accepted = snap.Accepted
		resp.Rejected = snap.Rejected
		resp.Quarantined = snap.Quarantined
		resp.Errors = snap.Errors
		for stage, count := range snap.ByStage {
			resp.ByStage[string(stage)] = count
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

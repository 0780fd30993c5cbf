package admin

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// feedEvent is one Server-Sent Event payload: either the initial snapshot
// (kind "snapshot") or a subsequent row-level change (kind "delta").
type feedEvent struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

// handleFeed serves GET /admin/api/feed/{relation}: an SSE stream that
// opens with the relation's current snapshot and then emits deltas as
// they commit (§4.3's admin read-path). The relation names one of the
// four observable relations (account, message_category, subscription,
// blocked_ip).
func (h *AdminAPIHandler) handleFeed(w http.ResponseWriter, r *http.Request) {
	if h.feedService == nil {
		h.respondError(w, http.StatusServiceUnavailable, "feed service not configured")
		return
	}

	relation := store.Relation(h.pathParam(r, "relation"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	snapshot, deltas, err := h.feedService.Attach(r.Context(), relation)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, feedEvent{Kind: "snapshot", Data: snapshot})
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case d, open := <-deltas:
			if !open {
				return
			}
			writeEvent(w, feedEvent{Kind: "delta", Data: d})
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev feedEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

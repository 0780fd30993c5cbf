// Package http provides the HTTP transport adapter for the gateway.
package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/solawi-gate/listgate/internal/service"
	"github.com/solawi-gate/listgate/internal/wire"
)

// maxSyncBodySize bounds the size of a user-sync request body (64 KiB).
const maxSyncBodySize = 1 << 16

// userSyncHandler serves POST /user-sync: decode the membership system's
// upsert/delete payload and apply it to the account relation.
func userSyncHandler(svc *service.SyncService) http.Handler {
	return userSyncHandlerWithMetrics(svc, nil)
}

// userSyncHandlerWithMetrics is userSyncHandler with optional action/result
// metric recording; metrics may be nil.
func userSyncHandlerWithMetrics(svc *service.SyncService, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxSyncBodySize+1))
		if err != nil {
			writeSyncResponse(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if len(body) > maxSyncBodySize {
			writeSyncResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}

		action, payload, err := wire.DecodeUserSync(body)
		if err != nil {
			logger.Warn("user-sync: malformed request", "error", err)
			writeSyncResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := svc.Sync(r.Context(), action, payload); err != nil {
			logger.Error("user-sync: failed", "error", err, "action", action)
			if metrics != nil {
				metrics.SyncTotal.WithLabelValues(string(action), "error").Inc()
			}
			writeSyncResponse(w, http.StatusInternalServerError, "sync failed")
			return
		}

		if metrics != nil {
			metrics.SyncTotal.WithLabelValues(string(action), "ok").Inc()
		}
		writeSyncResponse(w, http.StatusOK, "")
	})
}

func writeSyncResponse(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(wire.UserSyncResponse{
		OK:    errMsg == "",
		Error: errMsg,
	})
}

// Package http provides the HTTP transport adapter for the gateway.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/policy"
	"github.com/solawi-gate/listgate/internal/service"
	"github.com/solawi-gate/listgate/internal/wire"
)

// maxHookBodySize bounds the size of an mta-hook request body (1 MiB).
const maxHookBodySize = 1 << 20

// hookHandler serves POST /mta-hook: decode the MTA's stage context,
// run it through the policy engine, encode the verdict back.
func hookHandler(svc *service.HookService, redactIPs bool) http.Handler {
	return hookHandlerWithMetrics(svc, redactIPs, nil)
}

// hookHandlerWithMetrics is hookHandler with optional stage/outcome metric
// recording; metrics may be nil (routing tests exercise it that way).
func hookHandlerWithMetrics(svc *service.HookService, redactIPs bool, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxHookBodySize+1))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		if len(body) > maxHookBodySize {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		in, err := wire.DecodeHookInput(body)
		if err != nil {
			if errors.Is(err, wire.ErrUnknownStage) {
				logger.Warn("mta-hook: unknown stage", "error", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.Warn("mta-hook: malformed request", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		verdict, err := svc.Evaluate(r.Context(), in, redactIPs)
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error("mta-hook: deadline exceeded", "error", err, "stage", in.Stage)
			http.Error(w, "hook deadline exceeded", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			logger.Error("mta-hook: evaluation failed", "error", err, "stage", in.Stage)
			http.Error(w, "internal evaluation error", http.StatusInternalServerError)
			return
		}

		if metrics != nil {
			stage := string(in.Stage)
			metrics.HookDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
			metrics.HooksTotal.WithLabelValues(stage, strings.ToLower(string(verdict.Outcome))).Inc()
			if verdict.Outcome == policy.Reject && strings.Contains(verdict.Reason, "block") {
				metrics.BlockedIPHits.Inc()
			}
		}

		resp := wire.EncodeHookResponse(verdict)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	})
}

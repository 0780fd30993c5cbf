// Package service contains application services that sit between the
// inbound transports and the domain/store layer: request tracking,
// latency measurement, and tracing, none of which belong in the pure
// policy engine or the store adapters themselves.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/solawi-gate/listgate/internal/domain/policy"
	"github.com/solawi-gate/listgate/internal/domain/store"
)

var hookTracer = otel.Tracer("listgate/hook")

// HookRecord is a bounded, in-memory record of a recent hook evaluation,
// returned by RecentHooks without a round trip through the authoritative
// store's connection/message log. The admin API does not expose it.
type HookRecord struct {
	RequestID string
	Stage     policy.Stage
	Outcome   policy.Outcome
	LatencyMs int64
	CreatedAt time.Time
}

// HookService wraps store.Store.HandleHook with request correlation,
// a wall-clock deadline (§5), and a bounded recent-evaluation ring buffer
// mirroring the teacher's evaluation-tracking pattern.
type HookService struct {
	store   store.Store
	logger  *slog.Logger
	timeout time.Duration

	mu         sync.Mutex
	recent     []HookRecord
	maxRecords int
}

// NewHookService constructs a HookService. timeout bounds the total time
// Evaluate()+commit may take for one hook call; a zero timeout disables
// the deadline.
func NewHookService(s store.Store, logger *slog.Logger, timeout time.Duration) *HookService {
	return &HookService{
		store:      s,
		logger:     logger,
		timeout:    timeout,
		maxRecords: 1000,
	}
}

// Evaluate runs one MTA hook call end to end: assigns a request ID, applies
// the configured deadline, delegates to the store, and records the outcome
// for observability.
func (s *HookService) Evaluate(ctx context.Context, in policy.HookInput, redactIP bool) (policy.Verdict, error) {
	requestID := uuid.New().String()
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := hookTracer.Start(ctx, "hook.evaluate",
		trace.WithAttributes(
			attribute.String("listgate.request_id", requestID),
			attribute.String("listgate.stage", string(in.Stage)),
		),
	)
	defer span.End()

	verdict, err := s.store.HandleHook(ctx, in, redactIP)
	latency := time.Since(start)

	if err != nil {
		span.RecordError(err)
		s.logger.Error("hook evaluation failed",
			"request_id", requestID, "stage", in.Stage, "error", err)
		return policy.Verdict{}, fmt.Errorf("hook service: %w", err)
	}

	span.SetAttributes(attribute.String("listgate.outcome", string(verdict.Outcome)))
	s.recordRecent(HookRecord{
		RequestID: requestID,
		Stage:     in.Stage,
		Outcome:   verdict.Outcome,
		LatencyMs: latency.Milliseconds(),
		CreatedAt: start,
	})

	s.logger.Debug("hook evaluation completed",
		"request_id", requestID,
		"stage", in.Stage,
		"outcome", verdict.Outcome,
		"latency_ms", latency.Milliseconds(),
	)

	return verdict, nil
}

// RecentHooks returns a snapshot of the most recent evaluations, newest first.
func (s *HookService) RecentHooks() []HookRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HookRecord, len(s.recent))
	for i, r := range s.recent {
		out[i] = s.recent[len(s.recent)-1-i]
	}
	return out
}

func (s *HookService) recordRecent(r HookRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.recent) >= s.maxRecords {
		s.recent = s.recent[1:]
	}
	s.recent = append(s.recent, r)
}

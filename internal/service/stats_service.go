package service

import (
	"sync"
	"sync/atomic"

	"github.com/solawi-gate/listgate/internal/domain/policy"
)

// StatsService tracks runtime hook counters using lock-free atomic counters,
// grounded on the same pattern as the teacher's request-outcome tallies.
type StatsService struct {
	accepted    atomic.Int64
	rejected    atomic.Int64
	quarantined atomic.Int64
	errors      atomic.Int64

	mu          sync.Mutex
	stageCounts map[policy.Stage]int64
}

// NewStatsService creates a new StatsService with all counters at zero.
func NewStatsService() *StatsService {
	return &StatsService{stageCounts: make(map[policy.Stage]int64)}
}

// RecordOutcome increments the counter matching the verdict's outcome.
func (s *StatsService) RecordOutcome(o policy.Outcome) {
	switch o {
	case policy.Accept:
		s.accepted.Add(1)
	case policy.Quarantine:
		s.quarantined.Add(1)
	case policy.Reject:
		s.rejected.Add(1)
	}
}

// RecordError increments the error counter.
func (s *StatsService) RecordError() {
	s.errors.Add(1)
}

// RecordStage increments the counter for the given hook stage.
func (s *StatsService) RecordStage(stage policy.Stage) {
	s.mu.Lock()
	s.stageCounts[stage]++
	s.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Accepted    int64
	Rejected    int64
	Quarantined int64
	Errors      int64
	ByStage     map[policy.Stage]int64
}

// Snapshot returns the current counter values.
func (s *StatsService) Snapshot() Snapshot {
	s.mu.Lock()
	byStage := make(map[policy.Stage]int64, len(s.stageCounts))
	for k, v := range s.stageCounts {
		byStage[k] = v
	}
	s.mu.Unlock()

	return Snapshot{
		Accepted:    s.accepted.Load(),
		Rejected:    s.rejected.Load(),
		Quarantined: s.quarantined.Load(),
		Errors:      s.errors.Load(),
		ByStage:     byStage,
	}
}

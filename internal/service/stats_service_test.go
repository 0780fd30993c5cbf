package service

import (
	"testing"

	"github.com/solawi-gate/listgate/internal/domain/policy"
)

func TestStatsService_RecordOutcome(t *testing.T) {
	t.Parallel()

	s := NewStatsService()
	s.RecordOutcome(policy.Accept)
	s.RecordOutcome(policy.Accept)
	s.RecordOutcome(policy.Reject)
	s.RecordOutcome(policy.Quarantine)
	s.RecordError()
	s.RecordStage(policy.StageRcpt)
	s.RecordStage(policy.StageRcpt)

	snap := s.Snapshot()
	if snap.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", snap.Accepted)
	}
	if snap.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", snap.Rejected)
	}
	if snap.Quarantined != 1 {
		t.Errorf("Quarantined = %d, want 1", snap.Quarantined)
	}
	if snap.Errors != 1 {
		t.Errorf("Errors = %d, want 1", snap.Errors)
	}
	if snap.ByStage[policy.StageRcpt] != 2 {
		t.Errorf("ByStage[rcpt] = %d, want 2", snap.ByStage[policy.StageRcpt])
	}
}

package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/solawi-gate/listgate/internal/adapter/outbound/memstore"
	"github.com/solawi-gate/listgate/internal/domain/policy"
	"github.com/solawi-gate/listgate/internal/domain/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHookService_Evaluate_Accept(t *testing.T) {
	t.Parallel()

	st := memstore.New("listgate-test")
	svc := NewHookService(st, discardLogger(), time.Second)

	in := policy.HookInput{
		Stage:  policy.StageEHLO,
		Client: policy.ClientInfo{IP: "203.0.113.5", HELO: "mail.example.org"},
	}

	verdict, err := svc.Evaluate(context.Background(), in, false)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if verdict.Outcome != policy.Accept {
		t.Errorf("Outcome = %v, want Accept", verdict.Outcome)
	}

	recent := svc.RecentHooks()
	if len(recent) != 1 {
		t.Fatalf("RecentHooks() len = %d, want 1", len(recent))
	}
	if recent[0].Outcome != policy.Accept {
		t.Errorf("recorded outcome = %v, want Accept", recent[0].Outcome)
	}
}

func TestHookService_Evaluate_BlockedIPRejected(t *testing.T) {
	t.Parallel()

	st := memstore.New("listgate-test")
	ctx := context.Background()
	admin := store.Principal{Credential: "admin-cred", IsAdmin: true}

	if err := st.BlockIP(ctx, admin, "198.51.100.9", "spam source"); err != nil {
		t.Fatalf("BlockIP() error: %v", err)
	}

	svc := NewHookService(st, discardLogger(), time.Second)
	verdict, err := svc.Evaluate(ctx, policy.HookInput{
		Stage:  policy.StageConnect,
		Client: policy.ClientInfo{IP: "198.51.100.9"},
	}, false)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if verdict.Outcome != policy.Reject {
		t.Errorf("Outcome = %v, want Reject for blocked IP", verdict.Outcome)
	}
}

func TestHookService_RecentHooks_Bounded(t *testing.T) {
	t.Parallel()

	st := memstore.New("listgate-test")
	svc := NewHookService(st, discardLogger(), time.Second)
	svc.maxRecords = 2

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.Evaluate(ctx, policy.HookInput{
			Stage:  policy.StageEHLO,
			Client: policy.ClientInfo{IP: "203.0.113.5", HELO: "mail.example.org"},
		}, false)
		if err != nil {
			t.Fatalf("Evaluate() error: %v", err)
		}
	}

	if got := len(svc.RecentHooks()); got != 2 {
		t.Errorf("RecentHooks() len = %d, want 2 (bounded)", got)
	}
}

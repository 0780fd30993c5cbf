package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/solawi-gate/listgate/internal/adapter/outbound/memstore"
	"github.com/solawi-gate/listgate/internal/domain/store"
)

func TestFeedService_AttachDeliversSnapshotThenDeltas(t *testing.T) {
	defer goleak.VerifyNone(t)

	st := memstore.New("listgate-test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := store.Principal{Credential: "admin-cred", IsAdmin: true}
	if _, err := st.AddMessageCategory(ctx, admin, "garden", "garden@example.org", "garden list"); err != nil {
		t.Fatalf("AddMessageCategory() error: %v", err)
	}

	svc := NewFeedService(st, discardLogger())
	snapshot, deltas, err := svc.Attach(ctx, store.RelationMessageCategory)
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}

	cats, ok := snapshot.([]store.MessageCategory)
	if !ok || len(cats) != 1 {
		t.Fatalf("snapshot = %#v, want one MessageCategory", snapshot)
	}

	if _, err := st.AddMessageCategory(ctx, admin, "board", "board@example.org", "board list"); err != nil {
		t.Fatalf("AddMessageCategory() error: %v", err)
	}

	select {
	case d := <-deltas:
		if d.Relation != store.RelationMessageCategory || d.Op != store.DeltaInsert {
			t.Errorf("delta = %+v, want an insert on message_category", d)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delta")
	}
}

func TestFeedService_UnknownRelation(t *testing.T) {
	t.Parallel()

	st := memstore.New("listgate-test")
	svc := NewFeedService(st, discardLogger())

	_, _, err := svc.Attach(context.Background(), store.Relation("bogus"))
	if err == nil {
		t.Error("Attach() expected error for unknown relation")
	}
}

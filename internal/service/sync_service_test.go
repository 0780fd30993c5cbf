package service

import (
	"context"
	"testing"

	"github.com/solawi-gate/listgate/internal/adapter/outbound/memstore"
	"github.com/solawi-gate/listgate/internal/domain/store"
)

func TestSyncService_UpsertThenDelete(t *testing.T) {
	t.Parallel()

	st := memstore.New("listgate-test")
	svc := NewSyncService(st, discardLogger())
	ctx := context.Background()

	name := "Jane Solawi"
	email := "jane@example.org"
	active := true

	err := svc.Sync(ctx, store.SyncUpsert, store.UserPayload{
		MembershipNumber: 42, Name: &name, Email: &email, IsActive: &active,
	})
	if err != nil {
		t.Fatalf("Sync(upsert) error: %v", err)
	}

	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Email != email {
		t.Fatalf("accounts = %+v, want one account with email %q", accounts, email)
	}

	if err := svc.Sync(ctx, store.SyncDelete, store.UserPayload{MembershipNumber: 42}); err != nil {
		t.Fatalf("Sync(delete) error: %v", err)
	}

	accounts, err = st.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("accounts after delete = %+v, want empty", accounts)
	}
}

func TestSyncService_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	st := memstore.New("listgate-test")
	svc := NewSyncService(st, discardLogger())
	ctx := context.Background()

	name := "Jane Solawi"
	payload := store.UserPayload{MembershipNumber: 7, Name: &name}

	for i := 0; i < 3; i++ {
		if err := svc.Sync(ctx, store.SyncUpsert, payload); err != nil {
			t.Fatalf("Sync() iteration %d error: %v", i, err)
		}
	}

	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 1 {
		t.Errorf("accounts = %+v, want exactly one (idempotent upsert)", accounts)
	}
}

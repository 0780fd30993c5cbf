package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// SyncService wraps store.Store.SyncUser with request logging. Upsert/delete
// are already idempotent at the store layer (P9); this layer only adds the
// observability the teacher's identity service applies to admin writes.
type SyncService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSyncService constructs a SyncService.
func NewSyncService(s store.Store, logger *slog.Logger) *SyncService {
	return &SyncService{store: s, logger: logger}
}

// Sync applies one account-sync action.
func (s *SyncService) Sync(ctx context.Context, action store.SyncAction, user store.UserPayload) error {
	if err := s.store.SyncUser(ctx, action, user); err != nil {
		s.logger.Error("user sync failed",
			"action", action, "membership_number", user.MembershipNumber, "error", err)
		return fmt.Errorf("sync service: %w", err)
	}

	s.logger.Info("user synced",
		"action", action, "membership_number", user.MembershipNumber)
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// FeedService serves the admin read-path observer contract (§4.3): a
// subscriber first receives a full snapshot of the relation, then a live
// stream of deltas. store.Store.Subscribe provides commit-order,
// drop-oldest-on-full delivery for the live half; this layer subscribes
// before taking the snapshot so no change committed in between is missed.
type FeedService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFeedService constructs a FeedService.
func NewFeedService(s store.Store, logger *slog.Logger) *FeedService {
	return &FeedService{store: s, logger: logger}
}

// Attach returns the initial snapshot for relation plus a channel of
// subsequent deltas. The channel closes when ctx is cancelled.
func (f *FeedService) Attach(ctx context.Context, relation store.Relation) (snapshot any, deltas <-chan store.Delta, err error) {
	deltas, err = f.store.Subscribe(ctx, relation)
	if err != nil {
		return nil, nil, fmt.Errorf("feed service: subscribe: %w", err)
	}

	switch relation {
	case store.RelationAccount:
		snapshot, err = f.store.ListAccounts(ctx)
	case store.RelationMessageCategory:
		snapshot, err = f.store.ListCategories(ctx)
	case store.RelationSubscription:
		snapshot, err = f.store.ListSubscriptions(ctx)
	case store.RelationBlockedIP:
		snapshot, err = f.store.ListBlockedIPs(ctx)
	default:
		return nil, nil, fmt.Errorf("feed service: unknown relation %q", relation)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("feed service: snapshot: %w", err)
	}

	f.logger.Debug("admin feed attached", "relation", relation)
	return snapshot, deltas, nil
}

package store

import (
	"context"

	"github.com/solawi-gate/listgate/internal/domain/policy"
)

// Principal identifies the caller of an admin operation. IsAdmin is the
// store's is_admin(principal) predicate (§4.3, §9): a configuration
// surface, not a fixed claim-inspection rule — see internal/domain/principal.
type Principal struct {
	Credential string
	IsAdmin    bool
}

// SyncAction is the action carried by the account-sync envelope.
type SyncAction string

const (
	SyncUpsert SyncAction = "upsert"
	SyncDelete SyncAction = "delete"
)

// UserPayload is the account-sync user envelope (§4.4, §6). Pointer fields
// distinguish "absent" from "explicit zero value".
type UserPayload struct {
	MembershipNumber uint64
	Name             *string
	Email            *string
	IsActive         *bool
	UpdatedAt        *int64
}

// Store is the authoritative store's port: the named operations table
// from §4.3 plus the read lookups the policy engine needs (via Snapshot)
// and the subscription feed. Every mutating method is atomic and
// serialized against others touching overlapping keys (§4.3, §5).
type Store interface {
	policy.Snapshot

	// HandleHook parses-free entry point: the caller has already decoded
	// the wire envelope into a policy.HookInput; HandleHook evaluates it
	// against a consistent snapshot, appends exactly one audit row whose
	// action equals the returned verdict (I7), and returns the verdict.
	HandleHook(ctx context.Context, in policy.HookInput, redactIP bool) (policy.Verdict, error)

	// SyncUser upserts or deletes one Account (§4.4). Idempotent (P9).
	SyncUser(ctx context.Context, action SyncAction, user UserPayload) error

	// AddMessageCategory inserts an active category with the next id.
	// Returns ErrInvariantViolation if an active category already holds
	// emailAddress (case-insensitive, I3).
	AddMessageCategory(ctx context.Context, principal Principal, name, emailAddress, description string) (MessageCategory, error)
	// SetCategoryActive toggles a category's activity.
	SetCategoryActive(ctx context.Context, principal Principal, id uint64, active bool) error
	// AddSubscription inserts an active subscription. Returns
	// ErrInvariantViolation on a duplicate active (sender, category) pair
	// (I2) and ErrNotFound on a missing category (I1).
	AddSubscription(ctx context.Context, accountID uint64, email string, categoryID uint64) (Subscription, error)
	// SetSubscriptionActive toggles a subscription's activity.
	SetSubscriptionActive(ctx context.Context, id uint64, active bool) error
	// BlockIP inserts or reactivates a block.
	BlockIP(ctx context.Context, principal Principal, ip, reason string) error
	// UnblockIP deactivates a block.
	UnblockIP(ctx context.Context, principal Principal, ip string) error

	// ListCategories, ListSubscriptions, ListBlockedIPs, ListAccounts
	// back the admin read surface and the feed's initial snapshot.
	ListCategories(ctx context.Context) ([]MessageCategory, error)
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
	ListBlockedIPs(ctx context.Context) ([]BlockedIP, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	ListConnectionLog(ctx context.Context, limit int) ([]MtaConnectionLog, error)
	ListMessageLog(ctx context.Context, limit int) ([]MtaMessageLog, error)

	// Subscribe registers an observer for the admin read-path feed (§4.3).
	// It is unsubscribed by cancelling ctx.
	Subscribe(ctx context.Context, relation Relation) (<-chan Delta, error)

	// Close releases the store's resources (connection pool, etc.).
	Close() error
}

package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// AddMessageCategory implements the add_message_category operation (§4.3).
func (s *Store) AddMessageCategory(ctx context.Context, p store.Principal, name, emailAddress, description string) (store.MessageCategory, error) {
	if !p.IsAdmin {
		return store.MessageCategory{}, store.ErrUnauthorized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.MessageCategory{}, fmt.Errorf("sqlstore: AddMessageCategory begin: %w", err)
	}
	defer tx.Rollback()

	var conflicts int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM message_category WHERE active = 1 AND LOWER(email_address) = LOWER(?)`,
		emailAddress,
	).Scan(&conflicts); err != nil {
		return store.MessageCategory{}, fmt.Errorf("sqlstore: AddMessageCategory check: %w", err)
	}
	if conflicts > 0 {
		return store.MessageCategory{}, fmt.Errorf("%w: active category already uses %s", store.ErrInvariantViolation, emailAddress)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO message_category (name, description, email_address, active) VALUES (?, ?, ?, 1)`,
		name, description, emailAddress,
	)
	if err != nil {
		return store.MessageCategory{}, fmt.Errorf("sqlstore: AddMessageCategory insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return store.MessageCategory{}, fmt.Errorf("sqlstore: AddMessageCategory id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return store.MessageCategory{}, fmt.Errorf("sqlstore: AddMessageCategory commit: %w", err)
	}

	cat := store.MessageCategory{ID: uint64(id), Name: name, Description: description, EmailAddress: emailAddress, Active: true}
	s.feed.publish(store.Delta{Relation: store.RelationMessageCategory, Op: store.DeltaInsert, Row: cat})
	return cat, nil
}

// SetCategoryActive implements set_category_active.
func (s *Store) SetCategoryActive(ctx context.Context, p store.Principal, id uint64, active bool) error {
	if !p.IsAdmin {
		return store.ErrUnauthorized
	}
	res, err := s.db.ExecContext(ctx, `UPDATE message_category SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("sqlstore: SetCategoryActive: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	s.feed.publish(store.Delta{Relation: store.RelationMessageCategory, Op: store.DeltaUpdate, Row: struct {
		ID     uint64
		Active bool
	}{id, active}})
	return nil
}

// AddSubscription implements add_subscription.
func (s *Store) AddSubscription(ctx context.Context, accountID uint64, email string, categoryID uint64) (store.Subscription, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Subscription{}, fmt.Errorf("sqlstore: AddSubscription begin: %w", err)
	}
	defer tx.Rollback()

	var categoryExists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM message_category WHERE id = ?`, categoryID).Scan(&categoryExists); err != nil {
		return store.Subscription{}, fmt.Errorf("sqlstore: AddSubscription category check: %w", err)
	}
	if categoryExists == 0 {
		return store.Subscription{}, store.ErrNotFound
	}

	var conflicts int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM subscription WHERE active = 1 AND category_id = ? AND LOWER(subscriber_email) = LOWER(?)`,
		categoryID, email,
	).Scan(&conflicts); err != nil {
		return store.Subscription{}, fmt.Errorf("sqlstore: AddSubscription check: %w", err)
	}
	if conflicts > 0 {
		return store.Subscription{}, fmt.Errorf("%w: %s already has an active subscription to category %d", store.ErrInvariantViolation, email, categoryID)
	}

	now := time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO subscription (category_id, subscriber_account_id, subscriber_email, subscribed_at, active) VALUES (?, ?, ?, ?, 1)`,
		categoryID, accountID, email, now,
	)
	if err != nil {
		return store.Subscription{}, fmt.Errorf("sqlstore: AddSubscription insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return store.Subscription{}, fmt.Errorf("sqlstore: AddSubscription id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return store.Subscription{}, fmt.Errorf("sqlstore: AddSubscription commit: %w", err)
	}

	sub := store.Subscription{
		ID: uint64(id), CategoryID: categoryID, SubscriberAccountID: accountID,
		SubscriberEmail: email, SubscribedAt: now, Active: true,
	}
	s.feed.publish(store.Delta{Relation: store.RelationSubscription, Op: store.DeltaInsert, Row: sub})
	return sub, nil
}

// SetSubscriptionActive implements set_subscription_active.
func (s *Store) SetSubscriptionActive(ctx context.Context, id uint64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subscription SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("sqlstore: SetSubscriptionActive: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	s.feed.publish(store.Delta{Relation: store.RelationSubscription, Op: store.DeltaUpdate, Row: struct {
		ID     uint64
		Active bool
	}{id, active}})
	return nil
}

// BlockIP implements block_ip: inserts or reactivates a block.
func (s *Store) BlockIP(ctx context.Context, p store.Principal, ip, reason string) error {
	if !p.IsAdmin {
		return store.ErrUnauthorized
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blocked_ip (ip, reason, blocked_at, active) VALUES (?, ?, ?, 1)
		 ON CONFLICT(ip) DO UPDATE SET reason = excluded.reason, blocked_at = excluded.blocked_at, active = 1`,
		ip, reason, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlstore: BlockIP: %w", err)
	}
	s.feed.publish(store.Delta{Relation: store.RelationBlockedIP, Op: store.DeltaInsert, Row: store.BlockedIP{
		IP: ip, Reason: reason, Active: true,
	}})
	return nil
}

// UnblockIP implements unblock_ip.
func (s *Store) UnblockIP(ctx context.Context, p store.Principal, ip string) error {
	if !p.IsAdmin {
		return store.ErrUnauthorized
	}
	res, err := s.db.ExecContext(ctx, `UPDATE blocked_ip SET active = 0 WHERE ip = ?`, ip)
	if err != nil {
		return fmt.Errorf("sqlstore: UnblockIP: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	s.feed.publish(store.Delta{Relation: store.RelationBlockedIP, Op: store.DeltaUpdate, Row: struct {
		IP     string
		Active bool
	}{ip, false}})
	return nil
}

// SyncUser implements sync_user (§4.4). Idempotent: applying the same
// upsert twice yields state-equivalent rows (P9); identity is preserved
// across upserts when already bound.
func (s *Store) SyncUser(ctx context.Context, action store.SyncAction, user store.UserPayload) error {
	switch action {
	case store.SyncUpsert:
		return s.upsertAccount(ctx, user)
	case store.SyncDelete:
		return s.deleteAccount(ctx, user.MembershipNumber)
	default:
		return fmt.Errorf("sqlstore: SyncUser: unknown action %q", action)
	}
}

func (s *Store) upsertAccount(ctx context.Context, user store.UserPayload) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: upsertAccount begin: %w", err)
	}
	defer tx.Rollback()

	var existingIdentity string
	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT identity FROM account WHERE id = ?`, user.MembershipNumber).Scan(&existingIdentity)
	switch {
	case err == nil:
		exists = true
	case err == sql.ErrNoRows:
		exists = false
	default:
		return fmt.Errorf("sqlstore: upsertAccount lookup: %w", err)
	}

	name, email := "", ""
	if user.Name != nil {
		name = *user.Name
	}
	if user.Email != nil {
		email = *user.Email
	}
	isActive := true
	if user.IsActive != nil {
		isActive = *user.IsActive
	}
	now := time.Now().Unix()

	if exists {
		_, err = tx.ExecContext(ctx,
			`UPDATE account SET name = ?, email = ?, is_active = ?, last_synced = ? WHERE id = ?`,
			name, email, boolToInt(isActive), now, user.MembershipNumber,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO account (id, identity, name, email, is_active, last_synced) VALUES (?, '', ?, ?, ?, ?)`,
			user.MembershipNumber, name, email, boolToInt(isActive), now,
		)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: upsertAccount write: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: upsertAccount commit: %w", err)
	}

	s.feed.publish(store.Delta{Relation: store.RelationAccount, Op: store.DeltaInsert, Row: store.Account{
		ID: user.MembershipNumber, Identity: existingIdentity, Name: name, Email: email, IsActive: isActive, LastSynced: now,
	}})
	return nil
}

func (s *Store) deleteAccount(ctx context.Context, membershipNumber uint64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, membershipNumber)
	if err != nil {
		return fmt.Errorf("sqlstore: deleteAccount: %w", err)
	}
	s.feed.publish(store.Delta{Relation: store.RelationAccount, Op: store.DeltaDelete, Row: store.Account{ID: membershipNumber}})
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

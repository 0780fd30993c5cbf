package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// ListCategories backs the admin read surface and the feed's initial
// snapshot for RelationMessageCategory.
func (s *Store) ListCategories(ctx context.Context) ([]store.MessageCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, email_address, active FROM message_category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: ListCategories: %w", err)
	}
	defer rows.Close()

	var out []store.MessageCategory
	for rows.Next() {
		var c store.MessageCategory
		var active int
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.EmailAddress, &active); err != nil {
			return nil, fmt.Errorf("sqlstore: ListCategories scan: %w", err)
		}
		c.Active = active == 1
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListSubscriptions backs the admin read surface and the feed's initial
// snapshot for RelationSubscription.
func (s *Store) ListSubscriptions(ctx context.Context) ([]store.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category_id, subscriber_account_id, subscriber_email, subscribed_at, active FROM subscription ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: ListSubscriptions: %w", err)
	}
	defer rows.Close()

	var out []store.Subscription
	for rows.Next() {
		var sub store.Subscription
		var active int
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.SubscriberAccountID, &sub.SubscriberEmail, &sub.SubscribedAt, &active); err != nil {
			return nil, fmt.Errorf("sqlstore: ListSubscriptions scan: %w", err)
		}
		sub.Active = active == 1
		out = append(out, sub)
	}
	return out, rows.Err()
}

// ListBlockedIPs backs the admin read surface and the feed's initial
// snapshot for RelationBlockedIP.
func (s *Store) ListBlockedIPs(ctx context.Context) ([]store.BlockedIP, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ip, reason, blocked_at, active FROM blocked_ip ORDER BY ip`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: ListBlockedIPs: %w", err)
	}
	defer rows.Close()

	var out []store.BlockedIP
	for rows.Next() {
		var b store.BlockedIP
		var active int
		if err := rows.Scan(&b.IP, &b.Reason, &b.BlockedAt, &active); err != nil {
			return nil, fmt.Errorf("sqlstore: ListBlockedIPs scan: %w", err)
		}
		b.Active = active == 1
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAccounts backs the admin read surface and the feed's initial
// snapshot for RelationAccount.
func (s *Store) ListAccounts(ctx context.Context) ([]store.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, identity, name, email, is_active, last_synced FROM account ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: ListAccounts: %w", err)
	}
	defer rows.Close()

	var out []store.Account
	for rows.Next() {
		var a store.Account
		var active int
		if err := rows.Scan(&a.ID, &a.Identity, &a.Name, &a.Email, &active, &a.LastSynced); err != nil {
			return nil, fmt.Errorf("sqlstore: ListAccounts scan: %w", err)
		}
		a.IsActive = active == 1
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListConnectionLog and ListMessageLog back admin log inspection; they are
// read-only windows onto the append-only tables (I6 — never written to by
// this adapter outside appendConnectionLog/appendMessageLog).
func (s *Store) ListConnectionLog(ctx context.Context, limit int) ([]store.MtaConnectionLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_ip, stage, action, timestamp, details FROM mta_connection_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: ListConnectionLog: %w", err)
	}
	defer rows.Close()

	var out []store.MtaConnectionLog
	for rows.Next() {
		var row store.MtaConnectionLog
		if err := rows.Scan(&row.ID, &row.ClientIP, &row.Stage, &row.Action, &row.Timestamp, &row.Details); err != nil {
			return nil, fmt.Errorf("sqlstore: ListConnectionLog scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) ListMessageLog(ctx context.Context, limit int) ([]store.MtaMessageLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_address, to_addresses, subject, message_size, stage, action, timestamp, queue_id FROM mta_message_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: ListMessageLog: %w", err)
	}
	defer rows.Close()

	var out []store.MtaMessageLog
	for rows.Next() {
		var row store.MtaMessageLog
		var toJSON string
		if err := rows.Scan(&row.ID, &row.FromAddress, &toJSON, &row.Subject, &row.MessageSize, &row.Stage, &row.Action, &row.Timestamp, &row.QueueID); err != nil {
			return nil, fmt.Errorf("sqlstore: ListMessageLog scan: %w", err)
		}
		if err := json.Unmarshal([]byte(toJSON), &row.ToAddresses); err != nil {
			return nil, fmt.Errorf("sqlstore: ListMessageLog unmarshal recipients: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

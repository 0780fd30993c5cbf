package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/audit"
	"github.com/solawi-gate/listgate/internal/domain/policy"
)

// HandleHook evaluates in against a consistent snapshot (a single
// transaction's reads, since SQLite's default isolation gives one a
// point-in-time view) and appends exactly one audit row whose action
// equals the returned verdict (I7).
func (s *Store) HandleHook(ctx context.Context, in policy.HookInput, redactIP bool) (policy.Verdict, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return policy.Verdict{}, fmt.Errorf("sqlstore: HandleHook begin: %w", err)
	}
	defer tx.Rollback()

	txStore := &txSnapshot{tx: tx}
	verdict, details, err := s.engine.Evaluate(ctx, txStore, in)
	if err != nil {
		return policy.Verdict{}, fmt.Errorf("sqlstore: HandleHook evaluate: %w", err)
	}

	if in.Stage == policy.StageData {
		if err := appendMessageLog(ctx, tx, in, verdict, details, redactIP); err != nil {
			return policy.Verdict{}, err
		}
	} else {
		if err := appendConnectionLog(ctx, tx, in, verdict, details, redactIP); err != nil {
			return policy.Verdict{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return policy.Verdict{}, fmt.Errorf("sqlstore: HandleHook commit: %w", err)
	}
	return verdict, nil
}

func appendConnectionLog(ctx context.Context, tx *sql.Tx, in policy.HookInput, v policy.Verdict, details policy.AuditDetails, redactIP bool) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO mta_connection_log (client_ip, stage, action, timestamp, details) VALUES (?, ?, ?, ?, ?)`,
		audit.RedactIP(in.Client.IP, redactIP), string(in.Stage), string(v.Outcome), time.Now().Unix(), details.Details,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: append connection log: %w", err)
	}
	return nil
}

func appendMessageLog(ctx context.Context, tx *sql.Tx, in policy.HookInput, v policy.Verdict, details policy.AuditDetails, redactIP bool) error {
	to := make([]string, 0, len(in.Envelope.To))
	for _, addr := range in.Envelope.To {
		to = append(to, addr.Address)
	}
	toJSON, err := json.Marshal(to)
	if err != nil {
		return fmt.Errorf("sqlstore: append message log: marshal recipients: %w", err)
	}
	headers := make([][2]string, 0, len(in.Message.Headers))
	for _, h := range in.Message.Headers {
		headers = append(headers, [2]string{h.Name, h.Value})
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mta_message_log (from_address, to_addresses, subject, message_size, stage, action, timestamp, queue_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Envelope.From.Address, string(toJSON), audit.ExtractSubject(headers), in.Message.Size,
		string(in.Stage), string(v.Outcome), time.Now().Unix(), in.Message.QueueID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: append message log: %w", err)
	}
	return nil
}

// txSnapshot adapts an in-flight transaction to policy.Snapshot so the
// engine reads a consistent view alongside the eventual audit write.
type txSnapshot struct {
	tx *sql.Tx
}

func (t *txSnapshot) IsBlockedIP(ctx context.Context, ip string) (bool, error) {
	var active int
	err := t.tx.QueryRowContext(ctx, `SELECT active FROM blocked_ip WHERE ip = ?`, ip).Scan(&active)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlstore: IsBlockedIP: %w", err)
	}
	return active == 1, nil
}

func (t *txSnapshot) ResolveCategory(ctx context.Context, recipient string) (uint64, bool, bool, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id FROM message_category WHERE active = 1 AND LOWER(email_address) = LOWER(?) ORDER BY id ASC`,
		recipient,
	)
	if err != nil {
		return 0, false, false, fmt.Errorf("sqlstore: ResolveCategory: %w", err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return 0, false, false, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0, false, false, nil
	}
	return ids[0], true, len(ids) > 1, nil
}

func (t *txSnapshot) HasActiveSubscription(ctx context.Context, sender string, categoryID uint64) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM subscription WHERE active = 1 AND category_id = ? AND LOWER(subscriber_email) = LOWER(?)`,
		categoryID, sender,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlstore: HasActiveSubscription: %w", err)
	}
	return count > 0, nil
}

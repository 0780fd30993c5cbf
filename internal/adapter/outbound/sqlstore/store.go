// Package sqlstore implements the domain/store.Store port on SQLite via
// modernc.org/sqlite (pure Go, no cgo). Multi-statement operations run
// inside one database/sql transaction (SQLite's default deferred BEGIN);
// single-statement operations run as one autocommit statement. The pool is
// capped at one connection, so all operations are serialized, matching the
// spec's "serialized against all others touching overlapping keys."
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/solawi-gate/listgate/internal/domain/policy"
	"github.com/solawi-gate/listgate/internal/domain/store"
)

// Store is the SQLite-backed authoritative store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	feed   *broadcaster
	engine *policy.Engine
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithGatewayIdentity sets the X-Processed-By header value the policy
// engine emits on accept. Defaults to "listgate".
func WithGatewayIdentity(identity string) Option {
	return func(s *Store) {
		s.engine = policy.NewEngine(identity, func() int64 { return time.Now().Unix() })
	}
}

// Open connects to (and, if needed, creates) the SQLite database at dsn
// and applies the schema. dsn is STORE_URI's value, a modernc.org/sqlite
// data source name (e.g. "file:/var/lib/listgate/store.db?_pragma=...").
func Open(dsn string, logger *slog.Logger, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	// SQLite serializes writers regardless; cap the pool so concurrent
	// operations queue for the single connection rather than hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		db:     db,
		logger: logger,
		feed:   newBroadcaster(),
		engine: policy.NewEngine("listgate", func() int64 { return time.Now().Unix() }),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	s.feed.closeAll()
	return s.db.Close()
}

// IsBlockedIP implements policy.Snapshot.
func (s *Store) IsBlockedIP(ctx context.Context, ip string) (bool, error) {
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT active FROM blocked_ip WHERE ip = ?`, ip,
	).Scan(&active)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlstore: IsBlockedIP: %w", err)
	}
	return active == 1, nil
}

// ResolveCategory implements policy.Snapshot. Invariant I3 should prevent
// more than one active row sharing email_address; this query defends
// against it anyway by picking the smallest id and reporting ambiguous.
func (s *Store) ResolveCategory(ctx context.Context, recipient string) (uint64, bool, bool, error) {
	rows, err := s.db.QueryContext(ctx,
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
			return 0, false, false, fmt.Errorf("sqlstore: ResolveCategory scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, false, false, err
	}
	if len(ids) == 0 {
		return 0, false, false, nil
	}
	return ids[0], true, len(ids) > 1, nil
}

// HasActiveSubscription implements policy.Snapshot.
func (s *Store) HasActiveSubscription(ctx context.Context, sender string, categoryID uint64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM subscription WHERE active = 1 AND category_id = ? AND LOWER(subscriber_email) = LOWER(?)`,
		categoryID, sender,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlstore: HasActiveSubscription: %w", err)
	}
	return count > 0, nil
}

// compile-time interface checks
var (
	_ policy.Snapshot = (*Store)(nil)
	_ store.Store     = (*Store)(nil)
)

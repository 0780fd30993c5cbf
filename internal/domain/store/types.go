// Package store defines the authoritative data model: the six relations,
// their invariants, and the named operations that mutate them. The
// interface here is a port; internal/adapter/outbound/sqlstore and
// internal/adapter/outbound/memstore are its implementations.
package store

import "errors"

// Sentinel errors for the taxonomy in the error handling design: handlers
// map these to HTTP status codes in one place.
var (
	// ErrNotFound is returned when an operation references a row that
	// does not exist (missing id, missing category, missing ip).
	ErrNotFound = errors.New("store: not found")
	// ErrInvariantViolation is returned when an operation would break one
	// of I1-I6 (e.g. a duplicate active category email_address).
	ErrInvariantViolation = errors.New("store: invariant violation")
	// ErrUnauthorized is returned when an admin operation is attempted by
	// a non-admin principal.
	ErrUnauthorized = errors.New("store: unauthorized")
	// ErrUnavailable names a store that cannot be reached or times out;
	// the admin API maps it to 503 (§7). Neither adapter in this
	// repository returns it: their failures surface as wrapped driver or
	// context errors.
	ErrUnavailable = errors.New("store: unavailable")
)

// Account is a known member of the community. Created/updated exclusively
// by the account-sync operation; never mutated by the hook path (I5).
type Account struct {
	ID         uint64
	Identity   string // opaque token; empty when unbound
	Name       string
	Email      string
	IsActive   bool
	LastSynced int64
}

// MessageCategory is one mailing list.
type MessageCategory struct {
	ID           uint64
	Name         string
	Description  string
	EmailAddress string
	Active       bool
}

// Subscription is a directed membership: one subscriber may post to one
// category.
type Subscription struct {
	ID                   uint64
	CategoryID           uint64
	SubscriberAccountID  uint64
	SubscriberEmail      string
	SubscribedAt         int64
	Active               bool
}

// BlockedIP forbids a client IP from opening a connection.
type BlockedIP struct {
	IP        string
	Reason    string
	BlockedAt int64
	Active    bool
}

// MtaConnectionLog is an append-only row for stages connect, ehlo, mail,
// rcpt, auth (I6).
type MtaConnectionLog struct {
	ID        uint64
	ClientIP  string
	Stage     string
	Action    string
	Timestamp int64
	Details   string
}

// MtaMessageLog is an append-only row for stage data (I6).
type MtaMessageLog struct {
	ID           uint64
	FromAddress  string
	ToAddresses  []string
	Subject      string
	MessageSize  int
	Stage        string
	Action       string
	Timestamp    int64
	QueueID      string
}

// Package memstore implements the domain/store.Store port entirely
// in-memory, grounded on the mutex-guarded map pattern used throughout the
// teacher's adapter/outbound/memory package. It backs fast unit tests;
// production wiring always uses sqlstore.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/audit"
	"github.com/solawi-gate/listgate/internal/domain/policy"
	"github.com/solawi-gate/listgate/internal/domain/store"
)

// Store is a single mutex-guarded in-memory implementation of store.Store.
// Serializing every operation behind one lock trivially satisfies the
// spec's "serialized against all others touching overlapping keys" (P7);
// it is not how a production store would scale, which is exactly why
// sqlstore exists.
type Store struct {
	mu sync.Mutex

	accounts      map[uint64]store.Account
	categories    map[uint64]store.MessageCategory
	nextCategory  uint64
	subscriptions map[uint64]store.Subscription
	nextSub       uint64
	blockedIPs    map[string]store.BlockedIP
	connLog       []store.MtaConnectionLog
	msgLog        []store.MtaMessageLog

	engine *policy.Engine
	feed   *broadcaster
}

// New constructs an empty Store.
func New(gatewayIdentity string) *Store {
	return &Store{
		accounts:      make(map[uint64]store.Account),
		categories:    make(map[uint64]store.MessageCategory),
		nextCategory:  1,
		subscriptions: make(map[uint64]store.Subscription),
		nextSub:       1,
		blockedIPs:    make(map[string]store.BlockedIP),
		engine:        policy.NewEngine(gatewayIdentity, func() int64 { return time.Now().Unix() }),
		feed:          newBroadcaster(),
	}
}

func (s *Store) Close() error {
	s.feed.closeAll()
	return nil
}

// IsBlockedIP implements policy.Snapshot. Must be called with s.mu held.
func (s *Store) IsBlockedIP(ctx context.Context, ip string) (bool, error) {
	b, ok := s.blockedIPs[ip]
	return ok && b.Active, nil
}

// ResolveCategory implements policy.Snapshot. Must be called with s.mu held.
func (s *Store) ResolveCategory(ctx context.Context, recipient string) (uint64, bool, bool, error) {
	var ids []uint64
	for id, c := range s.categories {
		if c.Active && strings.EqualFold(c.EmailAddress, recipient) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, false, false, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true, len(ids) > 1, nil
}

// HasActiveSubscription implements policy.Snapshot. Must be called with s.mu held.
func (s *Store) HasActiveSubscription(ctx context.Context, sender string, categoryID uint64) (bool, error) {
	for _, sub := range s.subscriptions {
		if sub.Active && sub.CategoryID == categoryID && strings.EqualFold(sub.SubscriberEmail, sender) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) HandleHook(ctx context.Context, in policy.HookInput, redactIP bool) (policy.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verdict, details, err := s.engine.Evaluate(ctx, s, in)
	if err != nil {
		return policy.Verdict{}, fmt.Errorf("memstore: HandleHook evaluate: %w", err)
	}

	if in.Stage == policy.StageData {
		to := make([]string, 0, len(in.Envelope.To))
		for _, a := range in.Envelope.To {
			to = append(to, a.Address)
		}
		headers := make([][2]string, 0, len(in.Message.Headers))
		for _, h := range in.Message.Headers {
			headers = append(headers, [2]string{h.Name, h.Value})
		}
		s.msgLog = append(s.msgLog, store.MtaMessageLog{
			ID:          uint64(len(s.msgLog) + 1),
			FromAddress: in.Envelope.From.Address,
			ToAddresses: to,
			Subject:     audit.ExtractSubject(headers),
			MessageSize: in.Message.Size,
			Stage:       string(in.Stage),
			Action:      string(verdict.Outcome),
			Timestamp:   time.Now().Unix(),
			QueueID:     in.Message.QueueID,
		})
	} else {
		s.connLog = append(s.connLog, store.MtaConnectionLog{
			ID:        uint64(len(s.connLog) + 1),
			ClientIP:  audit.RedactIP(in.Client.IP, redactIP),
			Stage:     string(in.Stage),
			Action:    string(verdict.Outcome),
			Timestamp: time.Now().Unix(),
			Details:   details.Details,
		})
	}

	return verdict, nil
}

var (
	_ policy.Snapshot = (*Store)(nil)
	_ store.Store     = (*Store)(nil)
)

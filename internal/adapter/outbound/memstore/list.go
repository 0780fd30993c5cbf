package memstore

import (
	"context"
	"sort"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

func (s *Store) ListCategories(ctx context.Context) ([]store.MessageCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.MessageCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]store.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListBlockedIPs(ctx context.Context) ([]store.BlockedIP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.BlockedIP, 0, len(s.blockedIPs))
	for _, b := range s.blockedIPs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IP < out[j].IP })
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListConnectionLog(ctx context.Context, limit int) ([]store.MtaConnectionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.connLog)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]store.MtaConnectionLog, n)
	for i := 0; i < n; i++ {
		out[i] = s.connLog[len(s.connLog)-1-i]
	}
	return out, nil
}

func (s *Store) ListMessageLog(ctx context.Context, limit int) ([]store.MtaMessageLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.msgLog)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]store.MtaMessageLog, n)
	for i := 0; i < n; i++ {
		out[i] = s.msgLog[len(s.msgLog)-1-i]
	}
	return out, nil
}

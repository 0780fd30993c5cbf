package memstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

func (s *Store) AddMessageCategory(ctx context.Context, p store.Principal, name, emailAddress, description string) (store.MessageCategory, error) {
	if !p.IsAdmin {
		return store.MessageCategory{}, store.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Active && strings.EqualFold(c.EmailAddress, emailAddress) {
			return store.MessageCategory{}, fmt.Errorf("%w: active category already uses %s", store.ErrInvariantViolation, emailAddress)
		}
	}

	id := s.nextCategory
	s.nextCategory++
	cat := store.MessageCategory{ID: id, Name: name, Description: description, EmailAddress: emailAddress, Active: true}
	s.categories[id] = cat
	s.feed.publish(store.Delta{Relation: store.RelationMessageCategory, Op: store.DeltaInsert, Row: cat})
	return cat, nil
}

func (s *Store) SetCategoryActive(ctx context.Context, p store.Principal, id uint64, active bool) error {
	if !p.IsAdmin {
		return store.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Active = active
	s.categories[id] = c
	s.feed.publish(store.Delta{Relation: store.RelationMessageCategory, Op: store.DeltaUpdate, Row: c})
	return nil
}

func (s *Store) AddSubscription(ctx context.Context, accountID uint64, email string, categoryID uint64) (store.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[categoryID]; !ok {
		return store.Subscription{}, store.ErrNotFound
	}
	for _, sub := range s.subscriptions {
		if sub.Active && sub.CategoryID == categoryID && strings.EqualFold(sub.SubscriberEmail, email) {
			return store.Subscription{}, fmt.Errorf("%w: %s already has an active subscription to category %d", store.ErrInvariantViolation, email, categoryID)
		}
	}

	id := s.nextSub
	s.nextSub++
	sub := store.Subscription{
		ID: id, CategoryID: categoryID, SubscriberAccountID: accountID,
		SubscriberEmail: email, SubscribedAt: time.Now().Unix(), Active: true,
	}
	s.subscriptions[id] = sub
	s.feed.publish(store.Delta{Relation: store.RelationSubscription, Op: store.DeltaInsert, Row: sub})
	return sub, nil
}

func (s *Store) SetSubscriptionActive(ctx context.Context, id uint64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return store.ErrNotFound
	}
	sub.Active = active
	s.subscriptions[id] = sub
	s.feed.publish(store.Delta{Relation: store.RelationSubscription, Op: store.DeltaUpdate, Row: sub})
	return nil
}

func (s *Store) BlockIP(ctx context.Context, p store.Principal, ip, reason string) error {
	if !p.IsAdmin {
		return store.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := store.BlockedIP{IP: ip, Reason: reason, BlockedAt: time.Now().Unix(), Active: true}
	s.blockedIPs[ip] = b
	s.feed.publish(store.Delta{Relation: store.RelationBlockedIP, Op: store.DeltaInsert, Row: b})
	return nil
}

func (s *Store) UnblockIP(ctx context.Context, p store.Principal, ip string) error {
	if !p.IsAdmin {
		return store.ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blockedIPs[ip]
	if !ok {
		return store.ErrNotFound
	}
	b.Active = false
	s.blockedIPs[ip] = b
	s.feed.publish(store.Delta{Relation: store.RelationBlockedIP, Op: store.DeltaUpdate, Row: b})
	return nil
}

func (s *Store) SyncUser(ctx context.Context, action store.SyncAction, user store.UserPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case store.SyncUpsert:
		existing, exists := s.accounts[user.MembershipNumber]
		name, email, identity := "", "", ""
		if exists {
			identity = existing.Identity
		}
		if user.Name != nil {
			name = *user.Name
		} else if exists {
			name = existing.Name
		}
		if user.Email != nil {
			email = *user.Email
		} else if exists {
			email = existing.Email
		}
		isActive := true
		if user.IsActive != nil {
			isActive = *user.IsActive
		} else if exists {
			isActive = existing.IsActive
		}
		acc := store.Account{
			ID: user.MembershipNumber, Identity: identity, Name: name, Email: email,
			IsActive: isActive, LastSynced: time.Now().Unix(),
		}
		s.accounts[user.MembershipNumber] = acc
		s.feed.publish(store.Delta{Relation: store.RelationAccount, Op: store.DeltaInsert, Row: acc})
		return nil
	case store.SyncDelete:
		delete(s.accounts, user.MembershipNumber)
		s.feed.publish(store.Delta{Relation: store.RelationAccount, Op: store.DeltaDelete, Row: store.Account{ID: user.MembershipNumber}})
		return nil
	default:
		return fmt.Errorf("memstore: SyncUser: unknown action %q", action)
	}
}

package in_mem

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
)

// InMemStorer keeps subscribers in a map keyed by email. Used in tests and
// local runs where nothing should touch disk.
type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[string]domain.Subscriber
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[string]domain.Subscriber),
	}
}

func (s *InMemStorer) Backend() domain.Backend {
	return domain.BackendInMem
}

func (s *InMemStorer) Subscribe(ctx context.Context, sub domain.Subscriber) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	existing, ok := s.storage[sub.Email]
	if ok && existing.Status == domain.SubscriberActive {
		return apperr.NewConflict("Email already subscribed")
	}
	if ok {
		// Reactivate in place, keeping the original ID.
		existing.Status = domain.SubscriberActive
		existing.SubscribedAt = sub.SubscribedAt
		existing.IPHash = sub.IPHash
		s.storage[sub.Email] = existing
		return nil
	}

	s.storage[sub.Email] = sub
	return nil
}

func (s *InMemStorer) CountActive(ctx context.Context) (int64, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var count int64
	for _, sub := range s.storage {
		if sub.Status == domain.SubscriberActive {
			count++
		}
	}
	return count, nil
}

func (s *InMemStorer) List(ctx context.Context, after *dto.Cursor, limit int) ([]domain.Subscriber, error) {
	s.storageLock.RLock()
	subs := make([]domain.Subscriber, 0, len(s.storage))
	for _, sub := range s.storage {
		subs = append(subs, sub)
	}
	s.storageLock.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].SubscribedAt.Equal(subs[j].SubscribedAt) {
			return subs[i].SubscribedAt.After(subs[j].SubscribedAt)
		}
		return strings.Compare(subs[i].ID.String(), subs[j].ID.String()) > 0
	})

	if after != nil {
		cut := 0
		for i, sub := range subs {
			if beforeCursor(sub, after) {
				cut = i
				break
			}
			cut = i + 1
		}
		subs = subs[cut:]
	}

	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

// beforeCursor reports whether sub sorts strictly after the cursor position
// in the newest-first ordering.
func beforeCursor(sub domain.Subscriber, after *dto.Cursor) bool {
	if sub.SubscribedAt.Before(after.SubscribedAt) {
		return true
	}
	if !sub.SubscribedAt.Equal(after.SubscribedAt) {
		return false
	}
	return strings.Compare(sub.ID.String(), after.ID.String()) < 0
}

func (s *InMemStorer) Healthy(ctx context.Context) bool {
	return true
}

func (s *InMemStorer) Close() {}

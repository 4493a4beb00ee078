package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
)

func newSubscriber(email string, at time.Time) domain.Subscriber {
	return domain.Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Domain:       "example.com",
		Status:       domain.SubscriberActive,
		SubscribedAt: at,
		IPHash:       "abcd1234abcd1234",
	}
}

func TestInMemStorer_Subscribe(t *testing.T) {
	s := NewInMemStorer()
	ctx := context.Background()

	err := s.Subscribe(ctx, newSubscriber("reader@example.com", time.Now().UTC()))
	require.NoError(t, err)

	count, err := s.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInMemStorer_DuplicateActive(t *testing.T) {
	s := NewInMemStorer()
	ctx := context.Background()

	require.NoError(t, s.Subscribe(ctx, newSubscriber("reader@example.com", time.Now().UTC())))
	err := s.Subscribe(ctx, newSubscriber("reader@example.com", time.Now().UTC()))

	var cerr *apperr.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestInMemStorer_ReactivatesInactive(t *testing.T) {
	s := NewInMemStorer()
	ctx := context.Background()

	original := newSubscriber("reader@example.com", time.Now().UTC().Add(-24*time.Hour))
	original.Status = domain.SubscriberInactive
	s.storage[original.Email] = original

	count, err := s.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	renewed := newSubscriber("reader@example.com", time.Now().UTC())
	require.NoError(t, s.Subscribe(ctx, renewed))

	stored := s.storage["reader@example.com"]
	assert.Equal(t, original.ID, stored.ID, "reactivation keeps the original ID")
	assert.Equal(t, domain.SubscriberActive, stored.Status)
	assert.Equal(t, renewed.SubscribedAt, stored.SubscribedAt)

	count, err = s.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInMemStorer_ListNewestFirst(t *testing.T) {
	s := NewInMemStorer()
	ctx := context.Background()
	now := time.Now().UTC()

	oldest := newSubscriber("a@example.com", now.Add(-3*time.Hour))
	middle := newSubscriber("b@example.com", now.Add(-2*time.Hour))
	newest := newSubscriber("c@example.com", now.Add(-1*time.Hour))
	for _, sub := range []domain.Subscriber{oldest, newest, middle} {
		require.NoError(t, s.Subscribe(ctx, sub))
	}

	page, err := s.List(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c@example.com", page[0].Email)
	assert.Equal(t, "b@example.com", page[1].Email)

	after := &dto.Cursor{SubscribedAt: page[1].SubscribedAt, ID: page[1].ID}
	rest, err := s.List(ctx, after, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "a@example.com", rest[0].Email)
}

func TestInMemStorer_Healthy(t *testing.T) {
	s := NewInMemStorer()
	assert.True(t, s.Healthy(context.Background()))
}

package subscribers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

// stubStorer lets each test script the primary store's behavior.
type stubStorer struct {
	backend      domain.Backend
	subscribeErr error
	countErr     error
	listErr      error

	subscribed []domain.Subscriber
	count      int64
	items      []domain.Subscriber
}

func (s *stubStorer) Backend() domain.Backend { return s.backend }

func (s *stubStorer) Subscribe(ctx context.Context, sub domain.Subscriber) error {
	if s.subscribeErr != nil {
		return s.subscribeErr
	}
	s.subscribed = append(s.subscribed, sub)
	return nil
}

func (s *stubStorer) CountActive(ctx context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.count, nil
}

func (s *stubStorer) List(ctx context.Context, after *dto.Cursor, limit int) ([]domain.Subscriber, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

func (s *stubStorer) Healthy(ctx context.Context) bool { return s.subscribeErr == nil }

func (s *stubStorer) Close() {}

func TestService_Subscribe(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendInMem}
	svc := NewService(primary, nil)

	result, err := svc.Subscribe(context.Background(), " Reader@Example.com ", "203.0.113.7")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Successfully subscribed!", result.Message)
	assert.Equal(t, domain.BackendInMem, result.Backend)

	require.Len(t, primary.subscribed, 1)
	stored := primary.subscribed[0]
	assert.Equal(t, "reader@example.com", stored.Email)
	assert.Equal(t, "example.com", stored.Domain)
	assert.Equal(t, domain.SubscriberActive, stored.Status)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Len(t, stored.IPHash, 16)
	assert.WithinDuration(t, time.Now().UTC(), stored.SubscribedAt, time.Minute)
}

func TestService_Subscribe_InvalidEmail(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendInMem}
	svc := NewService(primary, nil)

	_, err := svc.Subscribe(context.Background(), "not-an-email", "")

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid email format", verr.Message)
	assert.Empty(t, primary.subscribed, "invalid input must not reach the store")
}

func TestService_Subscribe_ConflictSkipsFallback(t *testing.T) {
	primary := &stubStorer{
		backend:      domain.BackendPostgres,
		subscribeErr: apperr.NewConflict("Email already subscribed"),
	}
	fallback := &stubStorer{backend: domain.BackendSQLite}
	svc := NewService(primary, fallback)

	_, err := svc.Subscribe(context.Background(), "reader@example.com", "")

	var cerr *apperr.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Empty(t, fallback.subscribed, "duplicates must not be retried on the fallback")
}

func TestService_Subscribe_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := &stubStorer{
		backend:      domain.BackendPostgres,
		subscribeErr: errors.New("connection refused"),
	}
	fallback := &stubStorer{backend: domain.BackendSQLite}
	svc := NewService(primary, fallback)

	result, err := svc.Subscribe(context.Background(), "reader@example.com", "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, domain.BackendSQLite, result.Backend)
	assert.Equal(t, "Successfully subscribed!", result.Message)
	require.Len(t, fallback.subscribed, 1)
	assert.Equal(t, "reader@example.com", fallback.subscribed[0].Email)
}

func TestService_Subscribe_NoFallbackPropagatesError(t *testing.T) {
	primary := &stubStorer{
		backend:      domain.BackendPostgres,
		subscribeErr: errors.New("connection refused"),
	}
	svc := NewService(primary, nil)

	_, err := svc.Subscribe(context.Background(), "reader@example.com", "")
	require.Error(t, err)
}

func TestService_Count_PrefersPrimary(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendPostgres, count: 42}
	fallback := &stubStorer{backend: domain.BackendSQLite, count: 7}
	svc := NewService(primary, fallback)

	count, backend, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.Equal(t, domain.BackendPostgres, backend)
}

func TestService_Count_FallsBack(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendPostgres, countErr: errors.New("down")}
	fallback := &stubStorer{backend: domain.BackendSQLite, count: 7}
	svc := NewService(primary, fallback)

	count, backend, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Equal(t, domain.BackendSQLite, backend)
}

func TestService_List_PagesWithCursor(t *testing.T) {
	now := time.Now().UTC()
	items := make([]domain.Subscriber, 5)
	for i := range items {
		items[i] = domain.Subscriber{
			ID:           uuid.New(),
			Email:        fmt.Sprintf("reader%d@example.com", i),
			Status:       domain.SubscriberActive,
			SubscribedAt: now.Add(-time.Duration(i) * time.Hour),
		}
	}
	primary := &stubStorer{backend: domain.BackendInMem, items: items}
	svc := NewService(primary, nil)

	page, err := svc.List(context.Background(), pagination.CursorRequest{Size: 2})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)

	cursor, err := dto.DecodeCursor(*page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, items[1].ID, cursor.ID)
	assert.WithinDuration(t, items[1].SubscribedAt, cursor.SubscribedAt, time.Second)
}

func TestService_List_LastPage(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendInMem, items: []domain.Subscriber{
		{ID: uuid.New(), Email: "only@example.com", SubscribedAt: time.Now().UTC()},
	}}
	svc := NewService(primary, nil)

	page, err := svc.List(context.Background(), pagination.CursorRequest{Size: 20})
	require.NoError(t, err)

	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestService_List_RejectsBadCursor(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendInMem}
	svc := NewService(primary, nil)

	bad := "!!!not-base64!!!"
	_, err := svc.List(context.Background(), pagination.CursorRequest{Cursor: &bad, Size: 10})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestService_Healthy(t *testing.T) {
	primary := &stubStorer{backend: domain.BackendPostgres, subscribeErr: errors.New("down")}
	fallback := &stubStorer{backend: domain.BackendSQLite}

	assert.False(t, NewService(primary, nil).Healthy(context.Background()))
	assert.True(t, NewService(primary, fallback).Healthy(context.Background()))
}

package pg

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
	pkgtesting "github.com/torqlabs/torq-news/pkg/testing"
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

// TestStorer_Postgres runs the full subscriber lifecycle against a throwaway
// postgres container. Needs docker, skipped in short mode.
func TestStorer_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)

	storer, err := NewStorer(pool)
	require.NoError(t, err)
	t.Cleanup(storer.Close)

	require.NoError(t, storer.EnsureSchema(ctx), "schema setup must be idempotent")

	t.Run("subscribe and count", func(t *testing.T) {
		require.NoError(t, storer.Subscribe(ctx, newSubscriber("reader@example.com", time.Now().UTC())))

		count, err := storer.CountActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("duplicate active conflicts", func(t *testing.T) {
		err := storer.Subscribe(ctx, newSubscriber("reader@example.com", time.Now().UTC()))

		var cerr *apperr.ConflictError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("inactive reactivates in place", func(t *testing.T) {
		_, err := storer.db.Exec(ctx,
			`UPDATE subscribers SET status = $1 WHERE email = $2`,
			string(domain.SubscriberInactive), "reader@example.com")
		require.NoError(t, err)

		renewed := newSubscriber("reader@example.com", time.Now().UTC())
		require.NoError(t, storer.Subscribe(ctx, renewed))

		rows, err := storer.List(ctx, nil, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NotEqual(t, renewed.ID, rows[0].ID, "reactivation keeps the original row")
		assert.Equal(t, domain.SubscriberActive, rows[0].Status)
	})

	t.Run("list pages newest first", func(t *testing.T) {
		now := time.Now().UTC()
		for i, email := range []string{"b@example.com", "c@example.com", "d@example.com"} {
			sub := newSubscriber(email, now.Add(time.Duration(i+1)*time.Hour))
			require.NoError(t, storer.Subscribe(ctx, sub))
		}

		first, err := storer.List(ctx, nil, 2)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "d@example.com", first[0].Email)
		assert.Equal(t, "c@example.com", first[1].Email)

		after := &dto.Cursor{SubscribedAt: first[1].SubscribedAt, ID: first[1].ID}
		rest, err := storer.List(ctx, after, 10)
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, "b@example.com", rest[0].Email)
		assert.Equal(t, "reader@example.com", rest[1].Email)
	})
}

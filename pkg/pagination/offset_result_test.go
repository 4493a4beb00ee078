package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

func TestNewOffsetResult(t *testing.T) {
	t.Run("first page with more results", func(t *testing.T) {
		items := []string{"a", "b", "c"}
		result := pagination.NewOffsetResult(items, 10, 1, 3)

		assert.Equal(t, items, result.Items)
		assert.Equal(t, int64(10), result.Total)
		assert.True(t, result.HasMore)
	})

	t.Run("last page", func(t *testing.T) {
		items := []string{"x"}
		result := pagination.NewOffsetResult(items, 7, 3, 3)

		assert.False(t, result.HasMore)
	})

	t.Run("empty result", func(t *testing.T) {
		result := pagination.NewOffsetResult([]string{}, 0, 1, 10)

		assert.Empty(t, result.Items)
		assert.False(t, result.HasMore)
	})
}

func TestOffsetRequest_Validate(t *testing.T) {
	r := &pagination.OffsetRequest{Page: 0, Size: -5}
	require.NoError(t, r.Validate())
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, pagination.PageDefaultSize, r.Size)

	r = &pagination.OffsetRequest{Page: 2, Size: pagination.PageMaxSize + 1}
	require.NoError(t, r.Validate())
	assert.Equal(t, pagination.PageMaxSize, r.Size)
}

func TestNewCursorResult(t *testing.T) {
	cursorFn := func(s string) (string, error) { return "cur-" + s, nil }

	t.Run("trims extra item and sets cursor", func(t *testing.T) {
		result, err := pagination.NewCursorResult([]string{"a", "b", "c"}, 2, cursorFn)
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, result.Items)
		assert.True(t, result.HasMore)
		require.NotNil(t, result.NextCursor)
		assert.Equal(t, "cur-b", *result.NextCursor)
	})

	t.Run("no more results", func(t *testing.T) {
		result, err := pagination.NewCursorResult([]string{"a"}, 2, cursorFn)
		require.NoError(t, err)

		assert.False(t, result.HasMore)
		assert.Nil(t, result.NextCursor)
	})
}

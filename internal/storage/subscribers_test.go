package storage

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoSubscribers(t *testing.T) {
	// No disk I/O: the store runs on an in-memory filesystem.
	memFs := afero.NewMemMapFs()
	store := NewAferoSubscribers(memFs, "data/newsletter/subscribers.txt")
	ctx := context.Background()

	t.Run("empty list before first add", func(t *testing.T) {
		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("add creates the file", func(t *testing.T) {
		added, err := store.Add(ctx, " Ada@Example.com ")
		require.NoError(t, err)
		assert.True(t, added)

		data, err := afero.ReadFile(memFs, "data/newsletter/subscribers.txt")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com\n", string(data))
	})

	t.Run("duplicates are ignored", func(t *testing.T) {
		added, err := store.Add(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("list keeps order", func(t *testing.T) {
		_, err := store.Add(ctx, "grace@example.com")
		require.NoError(t, err)

		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"ada@example.com", "grace@example.com"}, list)
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := store.Add(ctx, "   ")
		assert.Error(t, err)
	})
}

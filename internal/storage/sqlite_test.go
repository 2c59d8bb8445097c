package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err, "Failed to create storage")

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx), "Failed to migrate")

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStorage, id string) {
	t.Helper()
	require.NoError(t, store.SaveUser(context.Background(), &model.User{ID: id}))
}

func createTestTransactions(userID string, count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	baseTime := time.Now().Add(-24 * time.Hour)

	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			ID:           fmt.Sprintf("%s-txn-%d", userID, i+1),
			UserID:       userID,
			MerchantName: fmt.Sprintf("Merchant %d", (i%3)+1),
			Amount:       float64(i+1) * 10.50,
			Date:         baseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	return txns
}

func TestSQLiteStorage_GetOrCreateCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	owner := "user1"

	t.Run("creates then returns the same row", func(t *testing.T) {
		first, err := store.GetOrCreateCategory(ctx, "Groceries", nil)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", first.Name)
		assert.True(t, first.IsShared())

		second, err := store.GetOrCreateCategory(ctx, "Groceries", nil)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("same name different owner is a different row", func(t *testing.T) {
		shared, err := store.GetOrCreateCategory(ctx, "Dining", nil)
		require.NoError(t, err)

		owned, err := store.GetOrCreateCategory(ctx, "Dining", &owner)
		require.NoError(t, err)

		assert.NotEqual(t, shared.ID, owned.ID)
		assert.False(t, owned.IsShared())
		require.NotNil(t, owned.OwnerUserID)
		assert.Equal(t, owner, *owned.OwnerUserID)
	})

	t.Run("concurrent creators converge on one row", func(t *testing.T) {
		const workers = 8
		ids := make([]int, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				cat, err := store.GetOrCreateCategory(ctx, "Transport", nil)
				if assert.NoError(t, err) {
					ids[i] = cat.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 1; i < workers; i++ {
			assert.Equal(t, ids[0], ids[i])
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := store.GetOrCreateCategory(ctx, "  ", nil)
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestSQLiteStorage_GetCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, name := range []string{"Zoo", "Apparel", "Mid"} {
		_, err := store.GetOrCreateCategory(ctx, name, nil)
		require.NoError(t, err)
	}

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)

	assert.Equal(t, "Apparel", categories[0].Name)
	assert.Equal(t, "Mid", categories[1].Name)
	assert.Equal(t, "Zoo", categories[2].Name)
}

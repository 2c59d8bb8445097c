package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/common"
)

func TestSQLiteStorage_RecordAlias(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	groceries, err := store.GetOrCreateCategory(ctx, "Groceries", nil)
	require.NoError(t, err)
	dining, err := store.GetOrCreateCategory(ctx, "Dining", nil)
	require.NoError(t, err)

	t.Run("creates a new alias", func(t *testing.T) {
		alias, err := store.RecordAlias(ctx, "Trader Joe's #412", groceries.ID, 85)
		require.NoError(t, err)

		assert.Equal(t, "Trader Joe's #412", alias.MerchantName)
		assert.Equal(t, "traderjoes412", alias.Normalized)
		assert.Equal(t, groceries.ID, alias.CategoryID)
		assert.Equal(t, "Groceries", alias.CategoryName)
		assert.InDelta(t, 85, alias.Confidence, 0.001)
	})

	t.Run("higher confidence replaces the assignment", func(t *testing.T) {
		_, err := store.RecordAlias(ctx, "Corner Cafe", dining.ID, 40)
		require.NoError(t, err)

		alias, err := store.RecordAlias(ctx, "Corner Cafe", groceries.ID, 75)
		require.NoError(t, err)

		assert.Equal(t, groceries.ID, alias.CategoryID)
		assert.InDelta(t, 75, alias.Confidence, 0.001)
	})

	t.Run("lower confidence never downgrades", func(t *testing.T) {
		_, err := store.RecordAlias(ctx, "Blue Bottle", dining.ID, 90)
		require.NoError(t, err)

		alias, err := store.RecordAlias(ctx, "Blue Bottle", groceries.ID, 30)
		require.NoError(t, err)

		assert.Equal(t, dining.ID, alias.CategoryID)
		assert.InDelta(t, 90, alias.Confidence, 0.001)
	})

	t.Run("equal confidence takes the newer assignment", func(t *testing.T) {
		_, err := store.RecordAlias(ctx, "Midtown Deli", dining.ID, 50)
		require.NoError(t, err)

		alias, err := store.RecordAlias(ctx, "Midtown Deli", groceries.ID, 50)
		require.NoError(t, err)

		assert.Equal(t, groceries.ID, alias.CategoryID)
	})

	t.Run("rejects out-of-range confidence", func(t *testing.T) {
		_, err := store.RecordAlias(ctx, "Bad Conf", groceries.ID, 101)
		assert.ErrorIs(t, err, ErrInvalidConfidence)

		_, err = store.RecordAlias(ctx, "Bad Conf", groceries.ID, -1)
		assert.ErrorIs(t, err, ErrInvalidConfidence)
	})

	t.Run("rejects names that normalize to empty", func(t *testing.T) {
		_, err := store.RecordAlias(ctx, "***", groceries.ID, 10)
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestSQLiteStorage_LookupAlias(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	groceries, err := store.GetOrCreateCategory(ctx, "Groceries", nil)
	require.NoError(t, err)

	_, err = store.RecordAlias(ctx, "Trader Joe's #412", groceries.ID, 85)
	require.NoError(t, err)

	t.Run("exact and decorated spellings hit the same alias", func(t *testing.T) {
		for _, spelling := range []string{
			"Trader Joe's #412",
			"TRADER JOES 412",
			"trader-joes-412",
		} {
			alias, err := store.LookupAlias(ctx, spelling)
			require.NoError(t, err, "spelling %q", spelling)
			assert.Equal(t, "traderjoes412", alias.Normalized)
			assert.Equal(t, "Groceries", alias.CategoryName)
		}
	})

	t.Run("miss returns ErrNotFound", func(t *testing.T) {
		_, err := store.LookupAlias(ctx, "Unknown Merchant")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("input normalizing to empty returns ErrNotFound", func(t *testing.T) {
		_, err := store.LookupAlias(ctx, "###")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("cached lookup returns the same alias", func(t *testing.T) {
		first, err := store.LookupAlias(ctx, "Trader Joe's #412")
		require.NoError(t, err)

		// Second call is served from the in-memory cache.
		second, err := store.LookupAlias(ctx, "Trader Joe's #412")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.CategoryID, second.CategoryID)
	})
}

func TestSQLiteStorage_TouchAlias(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	groceries, err := store.GetOrCreateCategory(ctx, "Groceries", nil)
	require.NoError(t, err)

	alias, err := store.RecordAlias(ctx, "Trader Joe's", groceries.ID, 85)
	require.NoError(t, err)

	assert.NoError(t, store.TouchAlias(ctx, alias.ID))
	assert.ErrorIs(t, store.TouchAlias(ctx, alias.ID+999), common.ErrNotFound)
}

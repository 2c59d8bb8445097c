package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

func TestSQLiteStorage_SaveTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	createTestUser(t, store, "user1")

	t.Run("saves and rereads", func(t *testing.T) {
		txns := createTestTransactions("user1", 3)
		require.NoError(t, store.SaveTransactions(ctx, txns))

		got, err := store.GetTransactions(ctx, "user1",
			time.Now().Add(-48*time.Hour), time.Now())
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("duplicate IDs are ignored", func(t *testing.T) {
		txns := createTestTransactions("user1", 3)
		require.NoError(t, store.SaveTransactions(ctx, txns))

		got, err := store.GetTransactions(ctx, "user1",
			time.Now().Add(-48*time.Hour), time.Now())
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("rejects empty slice", func(t *testing.T) {
		err := store.SaveTransactions(ctx, []model.Transaction{})
		assert.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("rejects transaction without merchant", func(t *testing.T) {
		err := store.SaveTransactions(ctx, []model.Transaction{
			{ID: "bad-1", UserID: "user1", Date: time.Now()},
		})
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})
}

func TestSQLiteStorage_GetTransactions_Window(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	createTestUser(t, store, "user1")

	now := time.Now()
	txns := []model.Transaction{
		{ID: "t1", UserID: "user1", MerchantName: "Old", Date: now.AddDate(0, -2, 0)},
		{ID: "t2", UserID: "user1", MerchantName: "Recent", Date: now.AddDate(0, 0, -2)},
		{ID: "t3", UserID: "user1", MerchantName: "Today", Date: now.Add(-time.Hour)},
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.GetTransactions(ctx, "user1", now.AddDate(0, 0, -7), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Recent", got[0].MerchantName)
	assert.Equal(t, "Today", got[1].MerchantName)

	_, err = store.GetTransactions(ctx, "user1", now, now.AddDate(0, 0, -7))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestSQLiteStorage_UpdateTransactionCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	createTestUser(t, store, "user1")

	require.NoError(t, store.SaveTransactions(ctx, createTestTransactions("user1", 2)))

	uncategorized, err := store.GetUncategorizedTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, uncategorized, 2)

	require.NoError(t, store.UpdateTransactionCategory(ctx, uncategorized[0].ID, "Groceries"))

	remaining, err := store.GetUncategorizedTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	// Engine assignments are not user overrides.
	overrides, err := store.GetUserOverrides(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, overrides)

	err = store.UpdateTransactionCategory(ctx, "missing", "Groceries")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_RecordOverride(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	createTestUser(t, store, "user1")

	txn := model.Transaction{
		ID: "t1", UserID: "user1", MerchantName: "Corner Store", Date: time.Now(),
	}
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))
	require.NoError(t, store.UpdateTransactionCategory(ctx, "t1", "Shops"))

	t.Run("first override captures the original category", func(t *testing.T) {
		require.NoError(t, store.RecordOverride(ctx, "t1", "Groceries"))

		overrides, err := store.GetUserOverrides(ctx, "user1")
		require.NoError(t, err)
		require.Len(t, overrides, 1)

		assert.Equal(t, "Groceries", overrides[0].Category)
		assert.True(t, overrides[0].UserOverridden)
		require.NotNil(t, overrides[0].OriginalCategory)
		assert.Equal(t, "Shops", *overrides[0].OriginalCategory)
	})

	t.Run("second override preserves the original category", func(t *testing.T) {
		require.NoError(t, store.RecordOverride(ctx, "t1", "Dining"))

		overrides, err := store.GetUserOverrides(ctx, "user1")
		require.NoError(t, err)
		require.Len(t, overrides, 1)

		assert.Equal(t, "Dining", overrides[0].Category)
		require.NotNil(t, overrides[0].OriginalCategory)
		assert.Equal(t, "Shops", *overrides[0].OriginalCategory)
	})

	t.Run("unknown transaction returns ErrNotFound", func(t *testing.T) {
		assert.ErrorIs(t, store.RecordOverride(ctx, "missing", "Dining"), common.ErrNotFound)
	})
}

func TestSQLiteStorage_OverrideQueries(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	createTestUser(t, store, "alice")
	createTestUser(t, store, "bob")

	seed := []struct {
		id, user, from, to string
	}{
		{"a1", "alice", "Shops", "Groceries"},
		{"a2", "alice", "Shops", "Groceries"},
		{"a3", "alice", "Travel", "Transportation"},
		{"b1", "bob", "Shops", "Dining"},
	}
	for _, s := range seed {
		txn := model.Transaction{
			ID: s.id, UserID: s.user, MerchantName: "M-" + s.id, Date: time.Now(),
		}
		require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))
		require.NoError(t, store.UpdateTransactionCategory(ctx, s.id, s.from))
		require.NoError(t, store.RecordOverride(ctx, s.id, s.to))
	}

	userShops, err := store.GetUserOverridesOfCategory(ctx, "alice", "Shops")
	require.NoError(t, err)
	assert.Len(t, userShops, 2)
	for _, txn := range userShops {
		assert.Equal(t, "alice", txn.UserID)
		assert.Equal(t, "Groceries", txn.Category)
	}

	allShops, err := store.GetOverridesOfCategory(ctx, "Shops")
	require.NoError(t, err)
	assert.Len(t, allShops, 3)

	allAlice, err := store.GetUserOverrides(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, allAlice, 3)
}

func TestSQLiteStorage_Users(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nobody")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("save and read back", func(t *testing.T) {
		require.NoError(t, store.SaveUser(ctx, &model.User{
			ID:               "alice",
			PlaidAccessToken: "access-token-1",
		}))

		user, err := store.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "access-token-1", user.PlaidAccessToken)
	})

	t.Run("save updates the token", func(t *testing.T) {
		require.NoError(t, store.SaveUser(ctx, &model.User{
			ID:               "alice",
			PlaidAccessToken: "access-token-2",
		}))

		user, err := store.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "access-token-2", user.PlaidAccessToken)
	})

	t.Run("users are ordered by ID", func(t *testing.T) {
		require.NoError(t, store.SaveUser(ctx, &model.User{ID: "zed"}))
		require.NoError(t, store.SaveUser(ctx, &model.User{ID: "bob"}))

		users, err := store.GetUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "alice", users[0].ID)
		assert.Equal(t, "bob", users[1].ID)
		assert.Equal(t, "zed", users[2].ID)
	})
}

package plaid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

func TestMockSource_GetTransactions(t *testing.T) {
	now := time.Now()
	source := NewMockSource(map[string][]model.Transaction{
		"alice": {
			{ID: "t1", UserID: "alice", MerchantName: "Old", Date: now.AddDate(0, -2, 0)},
			{ID: "t2", UserID: "alice", MerchantName: "Recent", Date: now.AddDate(0, 0, -1)},
		},
	})

	t.Run("filters by window", func(t *testing.T) {
		txns, err := source.GetTransactions(context.Background(), "alice",
			now.AddDate(0, 0, -7), now)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "t2", txns[0].ID)
	})

	t.Run("unknown user behaves like an unlinked feed", func(t *testing.T) {
		_, err := source.GetTransactions(context.Background(), "nobody",
			now.AddDate(0, 0, -7), now)
		assert.ErrorIs(t, err, common.ErrNoAccessToken)
	})

	t.Run("records calls", func(t *testing.T) {
		assert.Len(t, source.Calls, 2)
		assert.Equal(t, "alice", source.Calls[0].UserID)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{ClientID: "id", Secret: "secret", Environment: "sandbox"}
	assert.NoError(t, valid.Validate())

	for _, cfg := range []Config{
		{Secret: "secret", Environment: "sandbox"},
		{ClientID: "id", Environment: "sandbox"},
		{ClientID: "id", Secret: "secret", Environment: "staging"},
	} {
		assert.Error(t, cfg.Validate())
	}
}

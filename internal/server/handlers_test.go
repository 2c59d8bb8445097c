package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/engine"
	"github.com/centavo-app/centavo/internal/lexical"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/plaid"
	"github.com/centavo-app/centavo/internal/recommend"
	"github.com/centavo-app/centavo/internal/storage"
	"github.com/centavo-app/centavo/internal/taxonomy"
)

func newTestServer(t *testing.T, matches map[string]*model.BusinessMatch) (*Server, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	categorizer := engine.New(store, taxonomy.NewMockLookup(matches),
		lexical.NewExpander(lexical.NewStaticLexicon()))

	similarity := recommend.NewSimilarityEngine(store, plaid.NewMockSource(nil))
	recommender := recommend.NewEngine(store, similarity, recommend.DefaultWeights())

	return New(":0", categorizer, recommender, store), store
}

func doJSON(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_Categorize(t *testing.T) {
	srv, _ := newTestServer(t, map[string]*model.BusinessMatch{
		"Blue Bottle Coffee": {
			Name:       "Blue Bottle Coffee",
			Categories: []string{"Coffee & Tea"},
		},
	})

	rec := doJSON(srv, http.MethodPost, "/categorize",
		`{"merchantName": "Blue Bottle Coffee", "userId": "user1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp categorizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Coffee & Tea", resp.Category)
	assert.InDelta(t, 100, resp.ConfidenceScore, 0.001)
}

func TestServer_Categorize_PunctuationOnlyMerchant(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(srv, http.MethodPost, "/categorize",
		`{"merchantName": "***", "userId": "user1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp categorizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.UncategorizedName, resp.Category)
	assert.Zero(t, resp.ConfidenceScore)
}

func TestServer_Categorize_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing merchant name", `{"userId": "user1"}`},
		{"missing user ID", `{"merchantName": "Shell"}`},
		{"malformed JSON", `{"merchantName": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(srv, http.MethodPost, "/categorize", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_Recommend_FallsBackWithoutSignal(t *testing.T) {
	srv, store := newTestServer(t, nil)
	require.NoError(t, store.SaveUser(context.Background(), &model.User{ID: "user1"}))

	rec := doJSON(srv, http.MethodPost, "/recommend-category",
		`{"userId": "user1", "categoryToOverwrite": "Food and Drink"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Groceries", resp.RecommendedCategory)
	assert.Empty(t, resp.SimilarUser)
	assert.InDelta(t, recommend.FallbackConfidence, resp.ConfidenceScore, 0.001)
	assert.Zero(t, resp.SimilarityScore)
}

func TestServer_Recommend_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing user ID", `{"categoryToOverwrite": "Shops"}`},
		{"missing category", `{"userId": "user1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(srv, http.MethodPost, "/recommend-category", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_MerchantConfidence(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()

	groceries, err := store.GetOrCreateCategory(ctx, "Groceries", nil)
	require.NoError(t, err)
	_, err = store.RecordAlias(ctx, "TraderJoes", groceries.ID, 85)
	require.NoError(t, err)

	t.Run("known merchant", func(t *testing.T) {
		rec := doJSON(srv, http.MethodGet, "/merchants/TraderJoes/confidence", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp merchantConfidenceResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Groceries", resp.Category)
		assert.InDelta(t, 85, resp.ConfidenceScore, 0.001)
	})

	t.Run("unknown merchant", func(t *testing.T) {
		rec := doJSON(srv, http.MethodGet, "/merchants/Nobody/confidence", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

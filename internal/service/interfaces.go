// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/centavo-app/centavo/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations
	GetOrCreateCategory(ctx context.Context, name string, ownerUserID *string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)

	// Merchant alias operations
	LookupAlias(ctx context.Context, nameOrSynonym string) (*model.MerchantAlias, error)
	RecordAlias(ctx context.Context, merchantName string, categoryID int, confidence float64) (*model.MerchantAlias, error)
	TouchAlias(ctx context.Context, id int64) error

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error)
	GetUncategorizedTransactions(ctx context.Context) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, transactionID, category string) error
	RecordOverride(ctx context.Context, transactionID, category string) error

	// Override history reads for the recommendation engine
	GetUserOverrides(ctx context.Context, userID string) ([]model.Transaction, error)
	GetUserOverridesOfCategory(ctx context.Context, userID, originalCategory string) ([]model.Transaction, error)
	GetOverridesOfCategory(ctx context.Context, originalCategory string) ([]model.Transaction, error)

	// User operations
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// TransactionSource provides a user's transactions over a time window. The
// SQLite store satisfies this directly; the plaid client provides a
// bank-feed-backed implementation.
type TransactionSource interface {
	GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error)
}

// TaxonomyLookup is the external business-category collaborator. A nil match
// with a nil error means "not found"; callers treat errors as "not found"
// too and degrade gracefully.
type TaxonomyLookup interface {
	Lookup(ctx context.Context, businessName, locationHint string) (*model.BusinessMatch, error)
}

// PartOfSpeech selects a grammatical category for a synonym query.
type PartOfSpeech string

// Grammatical categories queried during synonym expansion.
const (
	Noun      PartOfSpeech = "noun"
	Verb      PartOfSpeech = "verb"
	Adjective PartOfSpeech = "adjective"
	Adverb    PartOfSpeech = "adverb"
)

// PartsOfSpeech lists every grammatical category in query order.
var PartsOfSpeech = []PartOfSpeech{Noun, Verb, Adjective, Adverb}

// SynonymSource returns lexical synonyms of a word for one part of speech.
// An unknown word yields an empty slice, never an error.
type SynonymSource interface {
	Synonyms(word string, pos PartOfSpeech) []string
}

// RetryOptions configures retry behavior for transient failures.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

package taxonomy

import (
	"context"
	"sync"

	"github.com/centavo-app/centavo/internal/model"
)

// MockLookup is a test double for the TaxonomyLookup interface. It records
// call counts so tests can assert that cached paths skip the external
// service.
type MockLookup struct {
	mu      sync.Mutex
	Matches map[string]*model.BusinessMatch
	Err     error
	Calls   int
}

// NewMockLookup creates a mock with the given canned matches.
func NewMockLookup(matches map[string]*model.BusinessMatch) *MockLookup {
	if matches == nil {
		matches = make(map[string]*model.BusinessMatch)
	}
	return &MockLookup{Matches: matches}
}

// Lookup returns the canned match for businessName, or (nil, nil).
func (m *MockLookup) Lookup(_ context.Context, businessName, _ string) (*model.BusinessMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Matches[businessName], nil
}

// CallCount returns how many lookups have been issued.
func (m *MockLookup) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

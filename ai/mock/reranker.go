package mock

import (
	"context"
	"strings"
	"sync"
)

// MockReranker is a test double for ai.RerankScorer.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// ScorePairFunc is called by ScorePair if set.
	// If nil, uses default word-overlap scoring.
	ScorePairFunc func(ctx context.Context, query, document string) (float64, error)

	mu        sync.Mutex
	callCount int
}

// NewMockReranker creates a mock cross-encoder with default overlap scoring.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// ScorePair scores a pair deterministically by query-word overlap.
// The same (query, document) pair always produces the same score.
func (m *MockReranker) ScorePair(ctx context.Context, query, document string) (float64, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ScorePairFunc != nil {
		return m.ScorePairFunc(ctx, query, document)
	}

	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0, nil
	}

	doc := strings.ToLower(document)
	matched := 0
	for _, word := range queryWords {
		if strings.Contains(doc, word) {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords)), nil
}

// CallCount returns the number of times ScorePair was called.
func (m *MockReranker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockReranker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ScorePairFunc = nil
}

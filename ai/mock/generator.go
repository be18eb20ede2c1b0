package mock

import (
	"context"
	"sync"
)

// MockGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields and tracks
// concurrency so tests can assert on worker-pool bounds.
type MockGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, returns an empty JSON object.
	GenerateTextFunc func(ctx context.Context, system, prompt string) (string, error)

	mu          sync.Mutex
	callCount   int
	inFlight    int
	maxInFlight int
}

// NewMockGenerator creates a mock generator that replies with "{}" by default.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateText returns the injected reply, or "{}" if no function is set.
func (m *MockGenerator) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, system, prompt)
	}
	return "{}", nil
}

// CallCount returns the number of times GenerateText was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MaxInFlight returns the highest number of concurrent GenerateText calls
// observed.
func (m *MockGenerator) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// Reset clears the counters and custom function.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.inFlight = 0
	m.maxInFlight = 0
	m.GenerateTextFunc = nil
}

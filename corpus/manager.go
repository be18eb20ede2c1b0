// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/bioscout/store"
)

// Manager performs exactly-once construction of the corpus index. Any number
// of concurrent first callers may race on Ensure; the load sequence (fetch
// stale corpus files, parse records, build the kind partition, map the
// embedding matrix) executes once, and its outcome, success or failure, is
// surfaced to every caller.
type Manager struct {
	recordsPath string
	matrixPath  string
	recordsKey  string
	matrixKey   string
	source      store.CorpusSource
	logger      *slog.Logger

	ready atomic.Bool
	mu    sync.Mutex
	index *Index
	err   error
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSource sets the backing store the corpus files are fetched from when
// the local copies are missing or stale. Without a source only the local
// files are used.
func WithSource(source store.CorpusSource, recordsKey, matrixKey string) ManagerOption {
	return func(m *Manager) {
		m.source = source
		m.recordsKey = recordsKey
		m.matrixKey = matrixKey
	}
}

// WithManagerLogger sets a custom logger.
// Default is slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewManager creates a manager for the corpus files at the given local paths.
func NewManager(recordsPath, matrixPath string, opts ...ManagerOption) *Manager {
	m := &Manager{
		recordsPath: recordsPath,
		matrixPath:  matrixPath,
		logger:      slog.Default().With("component", "corpus-manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure returns the corpus index, loading it on first use. Callers that
// find initialization already complete skip the critical section. A load
// failure is sticky: every subsequent caller receives the same error.
func (m *Manager) Ensure(ctx context.Context) (*Index, error) {
	if m.ready.Load() {
		return m.index, m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready.Load() {
		return m.index, m.err
	}

	m.index, m.err = m.load(ctx)
	m.ready.Store(true)
	return m.index, m.err
}

func (m *Manager) load(ctx context.Context) (*Index, error) {
	if m.source != nil {
		if err := m.source.FetchIfStale(ctx, m.recordsKey, m.recordsPath); err != nil {
			return nil, fmt.Errorf("corpus: fetching records: %w", err)
		}
		if err := m.source.FetchIfStale(ctx, m.matrixKey, m.matrixPath); err != nil {
			return nil, fmt.Errorf("corpus: fetching matrix: %w", err)
		}
	}

	records, err := LoadRecords(m.recordsPath)
	if err != nil {
		return nil, err
	}

	matrix, err := OpenMatrix(m.matrixPath)
	if err != nil {
		return nil, err
	}

	index, err := NewIndex(records, matrix)
	if err != nil {
		matrix.Close()
		return nil, err
	}

	m.logger.Info("corpus loaded",
		"records", index.Len(),
		"dims", index.Dims())
	return index, nil
}

// Close releases the index if it was loaded.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index == nil {
		return nil
	}
	err := m.index.Close()
	m.index = nil
	return err
}

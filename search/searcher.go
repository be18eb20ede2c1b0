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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/bioscout/ai"
	"github.com/poiesic/bioscout/core"
	"github.com/poiesic/bioscout/corpus"
)

// Searcher ranks corpus records against a free-text query with a two-signal
// hybrid score: dense-vector similarity blended with BM25-style lexical
// relevance.
type Searcher struct {
	manager  *corpus.Manager
	embedder ai.Embedder
	params   Params
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithParams overrides the retrieval tuning constants.
func WithParams(params Params) Option {
	return func(s *Searcher) error {
		s.params = params
		return nil
	}
}

// NewSearcher creates a new searcher over the managed corpus.
func NewSearcher(manager *corpus.Manager, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		manager:  manager,
		embedder: embedder,
		params:   DefaultParams(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Params returns the searcher's tuning constants.
func (s *Searcher) Params() Params {
	return s.params
}

// Search returns candidates of the requested kinds ranked by combined
// semantic and lexical score, truncated to TopK. An empty result is not an
// error. Ordering is deterministic for fixed inputs; ties keep original row
// order.
func (s *Searcher) Search(ctx context.Context, query string, kinds []core.Kind) ([]core.Candidate, error) {
	return s.SearchWithMonitor(ctx, query, kinds, nil)
}

// SearchWithMonitor is Search with stage callbacks for observability.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, kinds []core.Kind, monitor Monitor) ([]core.Candidate, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query, kinds)

	index, err := s.manager.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	// Row gather, not a full-corpus scan: only rows of the requested kinds
	// are scored.
	rows := index.RowsFor(kinds)
	if len(rows) == 0 {
		s.logger.Debug("no indexed rows for requested kinds", "kinds", len(kinds))
		monitor.Finish(nil)
		return []core.Candidate{}, nil
	}

	queryVec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrQueryEmbedding, err)
	}

	semantic := make([]float64, len(rows))
	for i, row := range rows {
		score, err := index.Dot(row, queryVec)
		if err != nil {
			return nil, fmt.Errorf("search: scoring row %d: %w", row, err)
		}
		semantic[i] = score
	}
	semNorm := minMaxNormalize(semantic)
	monitor.AfterSemantic(rows, semNorm)

	// Bound the lexical stage to the semantic head.
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return semNorm[order[a]] > semNorm[order[b]]
	})
	if len(order) > s.params.SemTopK {
		order = order[:s.params.SemTopK]
	}

	headRows := make([]int, len(order))
	headSem := make([]float64, len(order))
	texts := make([]string, len(order))
	for i, idx := range order {
		headRows[i] = rows[idx]
		headSem[i] = semNorm[idx]
		texts[i] = index.Record(rows[idx]).CombinedText()
	}

	lexical, err := lexicalScores(ctx, query, texts)
	if err != nil {
		return nil, fmt.Errorf("search: lexical scoring: %w", err)
	}
	lexNorm := minMaxNormalize(lexical)
	monitor.AfterLexical(headRows, lexNorm)

	candidates := make([]core.Candidate, len(headRows))
	for i, row := range headRows {
		candidates[i] = core.Candidate{
			Row:    row,
			Record: index.Record(row),
			Score:  s.params.Alpha*headSem[i] + (1-s.params.Alpha)*lexNorm[i],
		}
	}
	// The head arrives ordered by semantic score, so stability alone would
	// break combined-score ties semantically; ties must fall back to row
	// order.
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score == candidates[b].Score {
			return candidates[a].Row < candidates[b].Row
		}
		return candidates[a].Score > candidates[b].Score
	})
	if len(candidates) > s.params.TopK {
		candidates = candidates[:s.params.TopK]
	}
	monitor.AfterCombine(candidates)

	s.logger.Debug("hybrid retrieval complete",
		"gathered", len(rows),
		"candidates", len(candidates))
	monitor.Finish(candidates)
	return candidates, nil
}

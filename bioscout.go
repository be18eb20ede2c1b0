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


package bioscout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/bioscout/ai"
	"github.com/poiesic/bioscout/core"
	"github.com/poiesic/bioscout/corpus"
	"github.com/poiesic/bioscout/enrich"
	"github.com/poiesic/bioscout/report"
	"github.com/poiesic/bioscout/search"
	"github.com/poiesic/bioscout/store"
)

// Service runs end-to-end research jobs: hybrid retrieval over the corpus,
// cross-encoder reranking, per-kind selection, concurrent enrichment, and
// artifact assembly.
type Service struct {
	manager      *corpus.Manager
	provider     ai.Provider
	artifacts    store.ArtifactStore
	searcher     *search.Searcher
	orchestrator *enrich.Orchestrator
	params       search.Params
	logger       *slog.Logger
}

// Result identifies a finished job's artifact.
type Result struct {
	// Key is the artifact's store key.
	Key string
	// Filename is the suggested download filename.
	Filename string
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	params       search.Params
	enrichConfig enrich.Config
	logger       *slog.Logger
}

// WithSearchParams overrides the default retrieval tuning.
func WithSearchParams(params search.Params) ServiceOption {
	return func(o *serviceOptions) {
		o.params = params
	}
}

// WithEnrichConfig overrides the default enrichment tuning.
func WithEnrichConfig(config enrich.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.enrichConfig = config
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a research service over the given corpus, model provider, and
// artifact store.
func New(manager *corpus.Manager, provider ai.Provider, artifacts store.ArtifactStore, opts ...ServiceOption) (*Service, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if artifacts == nil {
		return nil, ErrArtifactStoreRequired
	}

	options := &serviceOptions{
		params:       search.DefaultParams(),
		enrichConfig: enrich.DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	searcher, err := search.NewSearcher(manager, provider.Embedder(),
		search.WithParams(options.params),
		search.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	orchestrator, err := enrich.NewOrchestrator(provider.Generator(),
		enrich.WithConfig(options.enrichConfig),
		enrich.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	return &Service{
		manager:      manager,
		provider:     provider,
		artifacts:    artifacts,
		searcher:     searcher,
		orchestrator: orchestrator,
		params:       options.params,
		logger:       options.logger,
	}, nil
}

// Run executes one research job and persists its artifact. Empty kinds means
// all kinds. Enrichment failures degrade individual records but never fail
// the job; retrieval and artifact persistence failures do.
func (s *Service) Run(ctx context.Context, jobID, query string, kinds []core.Kind, progress core.ProgressFunc) (*Result, error) {
	if len(kinds) == 0 {
		kinds = core.AllKinds
	}

	candidates, err := s.searcher.Search(ctx, query, kinds)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidates: %w", err)
	}
	s.logger.Info("retrieval complete", "job", jobID, "candidates", len(candidates))

	ranked := search.Rerank(ctx, s.provider.Reranker(), query, candidates, s.params.RerankTopN)

	selected := make(map[core.Kind][]core.Candidate, len(kinds))
	for _, kind := range kinds {
		selected[kind] = search.SelectKind(ranked, kind, s.params.CapFor(kind), s.params.ScoreFloor)
	}

	enriched, err := s.orchestrator.Enrich(ctx, selected, progress)
	if err != nil {
		return nil, fmt.Errorf("enriching records: %w", err)
	}

	data, err := report.BuildWorkbook(kinds, enriched)
	if err != nil {
		return nil, fmt.Errorf("assembling artifact: %w", err)
	}

	key := report.Key(query, jobID)
	filename := report.Filename(query, jobID)
	if err := s.artifacts.Put(ctx, key, data, report.ContentType); err != nil {
		return nil, fmt.Errorf("persisting artifact: %w", err)
	}

	s.logger.Info("job complete", "job", jobID, "key", key)
	return &Result{Key: key, Filename: filename}, nil
}

// DownloadURL returns a time-limited download URL for a finished job's
// artifact.
func (s *Service) DownloadURL(ctx context.Context, result *Result, ttl time.Duration) (string, error) {
	return s.artifacts.PresignedGet(ctx, result.Key, result.Filename, ttl)
}

// Close releases the service's resources.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	return s.manager.Close()
}

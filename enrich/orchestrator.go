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


package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bioscout/ai"
	"github.com/poiesic/bioscout/core"
)

// Config holds the orchestrator's tuning knobs.
type Config struct {
	// MaxWorkers bounds the number of concurrent enrichment calls.
	MaxWorkers int
	// MaxAttempts is the number of tries per record before degrading.
	MaxAttempts int
	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:  5,
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
	}
}

// Orchestrator fans candidate records out to the generative enrichment
// service on a bounded worker pool. Company and deal records are enriched;
// trial, award, and asset records pass through with their ingested fields.
type Orchestrator struct {
	generator ai.TextGenerator
	config    Config
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithConfig overrides the default tuning configuration.
func WithConfig(config Config) Option {
	return func(o *Orchestrator) error {
		if config.MaxWorkers < 1 {
			config.MaxWorkers = 1
		}
		if config.MaxAttempts < 1 {
			config.MaxAttempts = 1
		}
		o.config = config
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an enrichment orchestrator.
func NewOrchestrator(generator ai.TextGenerator, opts ...Option) (*Orchestrator, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	o := &Orchestrator{
		generator: generator,
		config:    DefaultConfig(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// unitResult carries one finished enrichment unit back to the aggregator.
type unitResult struct {
	kind     core.Kind
	pos      int
	enriched *core.EnrichedRecord
	err      error
}

// Enrich processes the selected candidates and returns enriched records per
// kind, preserving each kind's selection order. Pass-through kinds are
// returned immediately with their ingested fields and do not count toward
// progress. Individual failures never fail the batch: a record whose
// attempts are exhausted comes back as an all-null degraded enrichment. The
// only fatal condition is context cancellation.
//
// If progress is non-nil it receives one update with Current=0 before any
// unit runs, then one per completed unit. Updates are delivered from a
// single goroutine.
func (o *Orchestrator) Enrich(ctx context.Context, selected map[core.Kind][]core.Candidate, progress core.ProgressFunc) (map[core.Kind][]*core.EnrichedRecord, error) {
	out := make(map[core.Kind][]*core.EnrichedRecord, len(selected))

	total := 0
	for kind, candidates := range selected {
		out[kind] = make([]*core.EnrichedRecord, len(candidates))
		if kind.PassThrough() {
			for i, cand := range candidates {
				out[kind][i] = passThroughRecord(cand.Record)
			}
			continue
		}
		total += len(candidates)
	}

	report := func(completed int) {
		if progress == nil {
			return
		}
		percent := 0
		if total > 0 {
			percent = completed * 100 / total
		}
		progress(core.Progress{
			State:   core.JobProgress,
			Status:  "Enriching records",
			Current: completed,
			Total:   total,
			Percent: percent,
		})
	}
	report(0)

	if total == 0 {
		return out, nil
	}

	pool, err := ants.NewPool(o.config.MaxWorkers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	// Buffered to total so workers never block on a departed aggregator.
	results := make(chan unitResult, total)
	for kind, candidates := range selected {
		if kind.PassThrough() {
			continue
		}
		for i, cand := range candidates {
			kind, i, record := kind, i, cand.Record
			submitErr := pool.Submit(func() {
				enriched, unitErr := o.enrichOne(ctx, record)
				results <- unitResult{kind: kind, pos: i, enriched: enriched, err: unitErr}
			})
			if submitErr != nil {
				results <- unitResult{kind: kind, pos: i, enriched: core.NewDegradedEnrichment(record)}
			}
		}
	}

	completed := 0
	for completed < total {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil {
				return nil, result.err
			}
			out[result.kind][result.pos] = result.enriched
			completed++
			report(completed)
		}
	}

	return out, nil
}

// enrichOne runs the attempt loop for a single record. It returns an error
// only when the context is cancelled; exhausted attempts yield a degraded
// record instead.
func (o *Orchestrator) enrichOne(ctx context.Context, record core.Record) (*core.EnrichedRecord, error) {
	prompt := buildPrompt(record)
	keys := core.EnrichmentKeys(record.Kind())

	var lastErr error
	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		response, err := o.generator.GenerateText(ctx, systemPrompt, prompt)
		if err == nil {
			fields, parseErr := parseFields(response, keys)
			if parseErr == nil {
				return &core.EnrichedRecord{Record: record, Fields: fields}, nil
			}
			err = parseErr
		}
		lastErr = err
		o.logger.Warn("enrichment attempt failed",
			"kind", record.Kind().String(),
			"attempt", attempt,
			"err", err)

		if attempt == o.config.MaxAttempts {
			break
		}

		timer := time.NewTimer(o.config.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	o.logger.Error("enrichment attempts exhausted, emitting degraded record",
		"kind", record.Kind().String(),
		"err", lastErr)
	return core.NewDegradedEnrichment(record), nil
}

// passThroughRecord wraps a pass-through record's ingested fields in the
// enriched form the assembler consumes.
func passThroughRecord(record core.Record) *core.EnrichedRecord {
	src := core.PassFields(record)
	fields := make(map[string]*string, len(src))
	for key, value := range src {
		v := value
		fields[key] = &v
	}
	return &core.EnrichedRecord{Record: record, Fields: fields}
}

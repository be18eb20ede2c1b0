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
	"time"

	"github.com/poiesic/bioscout/ai"
	"github.com/poiesic/bioscout/core"
)

// EmbedConfig tunes matrix building.
type EmbedConfig struct {
	// BatchSize is the number of texts sent per embedding call.
	BatchSize int
	// MaxRetries is the number of attempts per batch.
	MaxRetries int
	// RetryDelay is the base delay between attempts, doubled each retry.
	RetryDelay time.Duration
}

// DefaultEmbedConfig returns the defaults used by the seed tooling.
func DefaultEmbedConfig() EmbedConfig {
	return EmbedConfig{
		BatchSize:  100,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// BuildMatrix embeds every record's combined text, in row order, and writes
// the embedding matrix to path. Row i of the matrix corresponds to
// records[i].
func BuildMatrix(ctx context.Context, embedder ai.Embedder, records []core.Record, path string, config EmbedConfig) error {
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}

	vectors := make([][]float32, 0, len(records))
	for start := 0; start < len(records); start += config.BatchSize {
		end := start + config.BatchSize
		if end > len(records) {
			end = len(records)
		}

		texts := make([]string, end-start)
		for i, rec := range records[start:end] {
			texts[i] = rec.CombinedText()
		}

		batch, err := embedBatch(ctx, embedder, texts, config)
		if err != nil {
			return fmt.Errorf("embedding rows %d-%d: %w", start, end-1, err)
		}
		vectors = append(vectors, batch...)

		slog.Debug("embedded corpus batch", "rows", end, "total", len(records))
	}

	return WriteMatrix(path, vectors)
}

// embedBatch retries a single batch with exponential backoff.
func embedBatch(ctx context.Context, embedder ai.Embedder, texts []string, config EmbedConfig) ([][]float32, error) {
	var lastErr error
	delay := config.RetryDelay
	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vectors, err := embedder.EmbedTexts(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		slog.Debug("embedding batch failed, will retry", "attempt", attempt, "err", err)

		if attempt == config.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return nil, lastErr
}

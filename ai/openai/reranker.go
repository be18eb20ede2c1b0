package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/bioscout/ai"
)

// Reranker implements ai.RerankScorer against a TEI-style /rerank endpoint,
// as exposed by text-embeddings-inference and compatible cross-encoder
// servers.
type Reranker struct {
	host   string
	model  string
	client *http.Client
	logger *slog.Logger
}

type rerankRequest struct {
	Model string   `json:"model,omitempty"`
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// newReranker is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newReranker(config *ai.Config) (*Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Reranker{
		host:  config.RerankerHost,
		model: config.RerankerModel,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default().With("component", "openai-reranker"),
	}, nil
}

// NewReranker creates a new cross-encoder scorer using the provided
// configuration.
//
// Returns ai.RerankScorer interface to enforce abstraction.
func NewReranker(config *ai.Config) (ai.RerankScorer, error) {
	return newReranker(config)
}

// ScorePair scores one (query, document) pair.
func (r *Reranker) ScorePair(ctx context.Context, query, document string) (float64, error) {
	payload, err := json.Marshal(rerankRequest{
		Model: r.model,
		Query: query,
		Texts: []string{document},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.host+"/rerank", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("rerank request failed", "err", err)
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("rerank service returned error", "status", resp.StatusCode)
		return 0, fmt.Errorf("rerank service: status %d", resp.StatusCode)
	}

	var entries []rerankEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return 0, fmt.Errorf("rerank service: decoding reply: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("rerank service: empty reply")
	}

	return entries[0].Score, nil
}

package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// scoring. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice is in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// RerankScorer scores a (query, document) pair with a cross-encoder
// relevance model. Cross-encoder scoring is far more expensive per item than
// embedding similarity, so callers apply it only to a short head of
// candidates. Implementations must be thread-safe for concurrent use.
type RerankScorer interface {
	// ScorePair returns the relevance of document to query. Higher is more
	// relevant; the score space is model-specific and not bounded to [0,1].
	ScorePair(ctx context.Context, query, document string) (float64, error)
}

// TextGenerator calls an external generative text service with an
// instruction prompt and returns the raw text reply. No contract is assumed
// about the reply beyond it being text; callers parse it themselves.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// Provider aggregates the model services for convenient initialization and
// lifecycle management. The returned services share configuration and are
// safe for concurrent use.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Reranker returns the cross-encoder scoring service.
	Reranker() RerankScorer

	// Generator returns the generative text service used for enrichment.
	Generator() TextGenerator

	// Close releases resources held by the provider and its services.
	Close() error
}

package search

import (
	"context"
	"strconv"

	"github.com/blevesearch/bleve/v2"
)

// lexicalScores scores the query against texts using a BM25-style
// term-frequency/inverse-document-frequency index built over only those
// texts. It returns one raw score per text; texts the query does not match
// score zero. The index is in-memory and discarded after the query, so its
// statistics reflect exactly the semantic head being scored.
func lexicalScores(ctx context.Context, query string, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores, nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	defer index.Close()

	batch := index.NewBatch()
	for i, text := range texts {
		if err := batch.Index(strconv.Itoa(i), map[string]any{"text": text}); err != nil {
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, err
	}

	request := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	request.Size = len(texts)
	result, err := index.SearchInContext(ctx, request)
	if err != nil {
		return nil, err
	}

	for _, hit := range result.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(texts) {
			continue
		}
		scores[i] = hit.Score
	}
	return scores, nil
}

// minMaxNormalize rescales scores to [0,1]. A constant input normalizes to
// all zeros rather than dividing by zero.
func minMaxNormalize(scores []float64) []float64 {
	normalized := make([]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if max == min {
		return normalized
	}

	span := max - min
	for i, s := range scores {
		normalized[i] = (s - min) / span
	}
	return normalized
}

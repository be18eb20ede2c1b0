package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/bioscout/ai"
	"github.com/poiesic/bioscout/core"
)

// Rerank rescores the first topN candidates with the cross-encoder and
// re-sorts that head by the new scores. The tail keeps its stage-1 scores
// and order; tail candidates are marked Reranked=false so downstream
// consumers can tell they do not reflect the cross-encoder's judgment.
//
// Fail-open: if the scorer errors, the stage-1 ranking is returned
// unchanged rather than failing the job.
func Rerank(ctx context.Context, scorer ai.RerankScorer, query string, candidates []core.Candidate, topN int) []core.Candidate {
	if scorer == nil || topN <= 0 || len(candidates) == 0 {
		return candidates
	}
	if topN > len(candidates) {
		topN = len(candidates)
	}

	head := make([]core.Candidate, topN)
	copy(head, candidates[:topN])
	for i := range head {
		score, err := scorer.ScorePair(ctx, query, head[i].Record.CombinedText())
		if err != nil {
			slog.Warn("cross-encoder scoring failed, keeping stage-1 order", "err", err)
			return candidates
		}
		head[i].Score = score
		head[i].Reranked = true
	}

	sort.SliceStable(head, func(a, b int) bool {
		return head[a].Score > head[b].Score
	})

	out := make([]core.Candidate, 0, len(candidates))
	out = append(out, head...)
	out = append(out, candidates[topN:]...)
	return out
}

// SelectKind scans the ranked list in order, keeping records of kind until
// cap results are collected or a candidate's score falls below scoreFloor.
// The floor is a tuned cutoff, not a probability threshold; rerank scores
// may legitimately be negative.
func SelectKind(ranked []core.Candidate, kind core.Kind, cap int, scoreFloor float64) []core.Candidate {
	var out []core.Candidate
	for _, cand := range ranked {
		if len(out) >= cap {
			break
		}
		if cand.Score < scoreFloor {
			break
		}
		if cand.Record.Kind() != kind {
			continue
		}
		out = append(out, cand)
	}
	return out
}

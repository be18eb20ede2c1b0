package search

import (
	"math"

	"github.com/poiesic/bioscout/core"
)

// Params holds the retrieval tuning constants. All of these were adjusted
// repeatedly during the system's history with no documented formula; they
// are exposed as configuration rather than literals, with the last known
// values as defaults.
type Params struct {
	// TopK is the length the combined ranking is truncated to.
	TopK int

	// SemTopK bounds the lexical stage: only the SemTopK best rows by
	// normalized semantic score are scored lexically.
	SemTopK int

	// RerankTopN is the number of head candidates rescored by the
	// cross-encoder. The tail keeps its stage-1 order.
	RerankTopN int

	// Alpha weights the semantic signal in the combined score:
	// alpha*semantic + (1-alpha)*lexical.
	Alpha float64

	// KindCaps limits how many records the selector keeps per kind.
	KindCaps map[core.Kind]int

	// ScoreFloor stops selection once a candidate's score falls below it.
	// Scores are not probabilities and rerank scores may be negative, so
	// the default floor excludes nothing.
	ScoreFloor float64
}

// DefaultKindCap is the per-kind selection cap when KindCaps has no entry
// for a kind.
const DefaultKindCap = 10

// DefaultParams returns the tuning constants currently in production use.
func DefaultParams() Params {
	return Params{
		TopK:       50,
		SemTopK:    200,
		RerankTopN: 20,
		Alpha:      0.7,
		KindCaps: map[core.Kind]int{
			core.KindCompany: 10,
			core.KindDeal:    10,
			core.KindTrial:   10,
			core.KindAward:   10,
			core.KindAsset:   10,
		},
		ScoreFloor: math.Inf(-1),
	}
}

// CapFor returns the selection cap for a kind.
func (p Params) CapFor(kind core.Kind) int {
	if cap, ok := p.KindCaps[kind]; ok {
		return cap
	}
	return DefaultKindCap
}

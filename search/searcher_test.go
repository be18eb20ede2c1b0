package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/bioscout/ai/mock"
	"github.com/poiesic/bioscout/core"
	"github.com/poiesic/bioscout/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, records string, vectors [][]float32) *corpus.Manager {
	t.Helper()
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "records.json")
	matrixPath := filepath.Join(dir, "embeddings.npy")
	require.NoError(t, os.WriteFile(recordsPath, []byte(records), 0o644))
	require.NoError(t, corpus.WriteMatrix(matrixPath, vectors))

	m := corpus.NewManager(recordsPath, matrixPath)
	t.Cleanup(func() { m.Close() })
	return m
}

const oncologyCorpus = `[
	{"type": "company", "company": "Acme Biotech", "combined_text": "Acme Biotech develops an oncology antibody"},
	{"type": "deal", "acquirer": "BigPharma", "acquired": "Acme", "combined_text": "Acme acquired by BigPharma for $500M"},
	{"type": "trial", "phase": "II", "combined_text": "Phase II oncology trial"}
]`

// fixedEmbedder returns the same query vector for every text.
func fixedEmbedder(vec []float32) *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vec, nil
	}
	return e
}

func TestNewSearcher(t *testing.T) {
	manager := newTestManager(t, oncologyCorpus, [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}})

	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSearcher(manager, mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("with custom params", func(t *testing.T) {
		params := DefaultParams()
		params.TopK = 5
		s, err := NewSearcher(manager, mock.NewMockEmbedder(), WithParams(params))
		require.NoError(t, err)
		assert.Equal(t, 5, s.Params().TopK)
	})

	t.Run("nil manager", func(t *testing.T) {
		_, err := NewSearcher(nil, mock.NewMockEmbedder())
		assert.Equal(t, ErrManagerRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(manager, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSearch_RestrictedToRequestedKinds(t *testing.T) {
	manager := newTestManager(t, oncologyCorpus, [][]float32{{1, 0}, {0, 1}, {0.6, 0.4}})
	searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	candidates, err := searcher.Search(context.Background(), "oncology antibody", []core.Kind{core.KindCompany})
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, 0, candidates[0].Row)
	assert.Equal(t, core.KindCompany, candidates[0].Record.Kind())
}

func TestSearch_MultipleKinds(t *testing.T) {
	manager := newTestManager(t, oncologyCorpus, [][]float32{{1, 0}, {0, 1}, {0.6, 0.4}})
	searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	candidates, err := searcher.Search(context.Background(), "oncology antibody", []core.Kind{core.KindCompany, core.KindTrial})
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	for _, cand := range candidates {
		assert.Contains(t, []core.Kind{core.KindCompany, core.KindTrial}, cand.Record.Kind())
	}
	// Company row aligns exactly with the query vector and wins.
	assert.Equal(t, 0, candidates[0].Row)
	assert.Equal(t, 2, candidates[1].Row)
}

func TestSearch_NoRowsForKind(t *testing.T) {
	manager := newTestManager(t, oncologyCorpus, [][]float32{{1, 0}, {0, 1}, {0.6, 0.4}})
	embedder := mock.NewMockEmbedder()
	searcher, err := NewSearcher(manager, embedder)
	require.NoError(t, err)

	candidates, err := searcher.Search(context.Background(), "anything", []core.Kind{core.KindAsset})
	require.NoError(t, err)
	assert.Empty(t, candidates)
	// No query embedding is computed when there is nothing to score.
	assert.Zero(t, embedder.CallCount())
}

func TestSearch_TieBreakKeepsRowOrder(t *testing.T) {
	records := `[
		{"type": "company", "company": "Alpha", "combined_text": "identical text"},
		{"type": "company", "company": "Beta", "combined_text": "identical text"},
		{"type": "company", "company": "Gamma", "combined_text": "identical text"}
	]`
	manager := newTestManager(t, records, [][]float32{{1, 0}, {1, 0}, {1, 0}})
	searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	candidates, err := searcher.Search(context.Background(), "unrelated query", []core.Kind{core.KindCompany})
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{candidates[0].Row, candidates[1].Row, candidates[2].Row})
}

func TestSearch_MixedSignalTieKeepsRowOrder(t *testing.T) {
	// Row 0 wins lexically, row 1 semantically. With Alpha=0.5 both
	// normalized signals blend to identical combined scores, so the tie
	// must resolve to row order even though the semantic stage put row 1
	// first.
	records := `[
		{"type": "company", "company": "Lexical Co", "combined_text": "oncology antibody research"},
		{"type": "company", "company": "Semantic Co", "combined_text": "unrelated wording entirely"}
	]`
	manager := newTestManager(t, records, [][]float32{{0, 1}, {1, 0}})

	params := DefaultParams()
	params.Alpha = 0.5
	searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}), WithParams(params))
	require.NoError(t, err)

	candidates, err := searcher.Search(context.Background(), "oncology antibody", []core.Kind{core.KindCompany})
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, candidates[0].Score, candidates[1].Score)
	assert.Equal(t, 0, candidates[0].Row)
	assert.Equal(t, 1, candidates[1].Row)
}

func TestSearch_AlphaShiftsTowardSemantic(t *testing.T) {
	// Row 0 wins lexically (text matches the query); row 1 wins
	// semantically (vector aligns with the query vector).
	records := `[
		{"type": "company", "company": "Lexical Co", "combined_text": "oncology antibody research"},
		{"type": "company", "company": "Semantic Co", "combined_text": "unrelated wording entirely"}
	]`
	manager := newTestManager(t, records, [][]float32{{0, 1}, {1, 0}})

	run := func(alpha float64) []core.Candidate {
		params := DefaultParams()
		params.Alpha = alpha
		searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}), WithParams(params))
		require.NoError(t, err)
		candidates, err := searcher.Search(context.Background(), "oncology antibody", []core.Kind{core.KindCompany})
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		return candidates
	}

	lexicalHeavy := run(0.1)
	assert.Equal(t, 0, lexicalHeavy[0].Row, "low alpha favors the lexical winner")

	semanticHeavy := run(0.9)
	assert.Equal(t, 1, semanticHeavy[0].Row, "high alpha favors the semantic winner")
}

func TestSearch_TruncatesToTopK(t *testing.T) {
	records := `[
		{"type": "company", "company": "A", "combined_text": "alpha biotech one"},
		{"type": "company", "company": "B", "combined_text": "beta biotech two"},
		{"type": "company", "company": "C", "combined_text": "gamma biotech three"}
	]`
	manager := newTestManager(t, records, [][]float32{{1, 0}, {0.9, 0.1}, {0.8, 0.2}})

	params := DefaultParams()
	params.TopK = 2
	searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}), WithParams(params))
	require.NoError(t, err)

	candidates, err := searcher.Search(context.Background(), "biotech", []core.Kind{core.KindCompany})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestSearchWithMonitor(t *testing.T) {
	manager := newTestManager(t, oncologyCorpus, [][]float32{{1, 0}, {0, 1}, {0.6, 0.4}})
	searcher, err := NewSearcher(manager, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	// Create a test monitor
	monitor := &testMonitor{}

	candidates, err := searcher.SearchWithMonitor(context.Background(), "oncology antibody", []core.Kind{core.KindCompany, core.KindTrial}, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	// Verify monitor was called at each stage
	assert.True(t, monitor.startCalled)
	assert.Equal(t, "oncology antibody", monitor.query)
	assert.Equal(t, []core.Kind{core.KindCompany, core.KindTrial}, monitor.kinds)
	assert.Len(t, monitor.semanticRows, 2)
	assert.Len(t, monitor.semanticNorm, 2)
	assert.Len(t, monitor.lexicalRows, 2)
	assert.Equal(t, len(candidates), monitor.combined)
	assert.Equal(t, candidates, monitor.finished)
}

func TestSearchWithMonitor_NoRows(t *testing.T) {
	manager := newTestManager(t, oncologyCorpus, [][]float32{{1, 0}, {0, 1}, {0.6, 0.4}})
	searcher, err := NewSearcher(manager, mock.NewMockEmbedder())
	require.NoError(t, err)

	monitor := &testMonitor{}
	candidates, err := searcher.SearchWithMonitor(context.Background(), "anything", []core.Kind{core.KindAsset}, monitor)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	// Finish still fires on the empty path, but no stage callbacks do.
	assert.True(t, monitor.startCalled)
	assert.True(t, monitor.finishCalled)
	assert.Nil(t, monitor.semanticRows)
	assert.Zero(t, monitor.combined)
}

// testMonitor is a simple test implementation of Monitor
type testMonitor struct {
	startCalled  bool
	finishCalled bool
	query        string
	kinds        []core.Kind
	semanticRows []int
	semanticNorm []float64
	lexicalRows  []int
	combined     int
	finished     []core.Candidate
}

func (m *testMonitor) Start(query string, kinds []core.Kind) {
	m.startCalled = true
	m.query = query
	m.kinds = kinds
}

func (m *testMonitor) AfterSemantic(rows []int, normalized []float64) {
	m.semanticRows = rows
	m.semanticNorm = normalized
}

func (m *testMonitor) AfterLexical(rows []int, normalized []float64) {
	m.lexicalRows = rows
}

func (m *testMonitor) AfterCombine(candidates []core.Candidate) {
	m.combined = len(candidates)
}

func (m *testMonitor) Finish(candidates []core.Candidate) {
	m.finishCalled = true
	m.finished = candidates
}

func TestMinMaxNormalize(t *testing.T) {
	t.Run("rescales to unit interval", func(t *testing.T) {
		out := minMaxNormalize([]float64{2, 4, 6})
		assert.Equal(t, []float64{0, 0.5, 1}, out)
		for _, v := range out {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	})

	t.Run("constant input normalizes to zeros", func(t *testing.T) {
		assert.Equal(t, []float64{0, 0, 0}, minMaxNormalize([]float64{3, 3, 3}))
	})

	t.Run("negative scores", func(t *testing.T) {
		out := minMaxNormalize([]float64{-4, -2, 0})
		assert.Equal(t, []float64{0, 0.5, 1}, out)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, minMaxNormalize(nil))
	})
}

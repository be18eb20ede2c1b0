package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/bioscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource is a CorpusSource probe that counts fetches without moving
// any data.
type countingSource struct {
	fetches atomic.Int32
}

func (s *countingSource) FetchIfStale(ctx context.Context, key, localPath string) error {
	s.fetches.Add(1)
	return nil
}

func writeCorpus(t *testing.T, records string, vectors [][]float32) (string, string) {
	t.Helper()
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "records.json")
	matrixPath := filepath.Join(dir, "embeddings.npy")
	require.NoError(t, os.WriteFile(recordsPath, []byte(records), 0o644))
	require.NoError(t, WriteMatrix(matrixPath, vectors))
	return recordsPath, matrixPath
}

const threeRecordCorpus = `[
	{"type": "company", "company": "Acme Biotech", "combined_text": "Acme Biotech develops an oncology antibody"},
	{"type": "deal", "acquirer": "BigPharma", "acquired": "Acme", "combined_text": "Acme acquired by BigPharma for $500M"},
	{"type": "trial", "phase": "II", "combined_text": "Phase II oncology trial"}
]`

func TestManagerEnsure(t *testing.T) {
	recordsPath, matrixPath := writeCorpus(t, threeRecordCorpus, [][]float32{
		{1, 0}, {0, 1}, {0.5, 0.5},
	})

	m := NewManager(recordsPath, matrixPath)
	defer m.Close()

	index, err := m.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, index.Len())
	assert.Equal(t, 2, index.Dims())

	// Second call returns the same index.
	again, err := m.Ensure(context.Background())
	require.NoError(t, err)
	assert.Same(t, index, again)
}

func TestManagerEnsure_ConcurrentFirstCallers(t *testing.T) {
	recordsPath, matrixPath := writeCorpus(t, threeRecordCorpus, [][]float32{
		{1, 0}, {0, 1}, {0.5, 0.5},
	})

	source := &countingSource{}
	m := NewManager(recordsPath, matrixPath, WithSource(source, "corpus/records.json", "corpus/embeddings.npy"))
	defer m.Close()

	const callers = 10
	var wg sync.WaitGroup
	indexes := make([]*Index, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			indexes[i], errs[i] = m.Ensure(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, indexes[0], indexes[i])
	}
	// The load sequence ran exactly once: one fetch per corpus file.
	assert.Equal(t, int32(2), source.fetches.Load())
}

func TestManagerEnsure_RowCountMismatch(t *testing.T) {
	recordsPath, matrixPath := writeCorpus(t, threeRecordCorpus, [][]float32{
		{1, 0}, {0, 1},
	})

	m := NewManager(recordsPath, matrixPath)
	_, err := m.Ensure(context.Background())
	assert.ErrorIs(t, err, ErrRowCountMismatch)
}

func TestManagerEnsure_StickyFailure(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "missing.npy"))

	_, err := m.Ensure(context.Background())
	require.Error(t, err)

	_, again := m.Ensure(context.Background())
	assert.Equal(t, err, again)
}

func TestIndexRowsFor(t *testing.T) {
	recordsPath, matrixPath := writeCorpus(t, threeRecordCorpus, [][]float32{
		{1, 0}, {0, 1}, {0.5, 0.5},
	})

	m := NewManager(recordsPath, matrixPath)
	defer m.Close()
	index, err := m.Ensure(context.Background())
	require.NoError(t, err)

	t.Run("single kind", func(t *testing.T) {
		assert.Equal(t, []int{0}, index.RowsFor([]core.Kind{core.KindCompany}))
	})

	t.Run("multiple kinds in row order", func(t *testing.T) {
		rows := index.RowsFor([]core.Kind{core.KindTrial, core.KindCompany})
		assert.Equal(t, []int{0, 2}, rows)
	})

	t.Run("duplicate kinds ignored", func(t *testing.T) {
		rows := index.RowsFor([]core.Kind{core.KindDeal, core.KindDeal})
		assert.Equal(t, []int{1}, rows)
	})

	t.Run("kind with no rows", func(t *testing.T) {
		assert.Empty(t, index.RowsFor([]core.Kind{core.KindAsset}))
	})
}

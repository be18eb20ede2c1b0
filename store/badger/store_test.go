package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/bioscout/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open("", true)
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()
}

func TestOpen_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()
}

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	data := []byte("workbook bytes")
	err := s.Put(ctx, "results/oncology_job-1.xlsx", data, "application/octet-stream")
	require.NoError(t, err)

	got, contentType, err := s.Get(ctx, "results/oncology_job-1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "application/octet-stream", contentType)
}

func TestPut_EmptyKey(t *testing.T) {
	s := openTestStore(t)
	err := s.Put(context.Background(), "", []byte("x"), "text/plain")
	assert.Equal(t, store.ErrEmptyKey, err)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.Get(context.Background(), "results/missing.xlsx")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPresignedGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "results/deals_job-2.xlsx", []byte("x"), "application/octet-stream"))

	url, err := s.PresignedGet(ctx, "results/deals_job-2.xlsx", "deals.xlsx", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "results/deals_job-2.xlsx")
	assert.Contains(t, url, "deals.xlsx")
}

func TestPresignedGet_MissingArtifact(t *testing.T) {
	s := openTestStore(t)
	_, err := s.PresignedGet(context.Background(), "results/missing.xlsx", "m.xlsx", time.Hour)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPut_Overwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("first"), "text/plain"))
	require.NoError(t, s.Put(ctx, "k", []byte("second"), "text/plain"))

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

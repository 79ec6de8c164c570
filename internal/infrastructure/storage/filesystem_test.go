package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *FileSystemStorage {
	t.Helper()
	s, err := NewFileSystemStorage(&FileSystemStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/files/documents",
	})
	require.NoError(t, err)
	s.now = func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestFileSystemStorage_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("writes under year and month directories", func(t *testing.T) {
		s := newTestStorage(t)
		docID := uuid.New()

		result, err := s.Store(ctx, &StoreRequest{
			DocumentID: docID,
			PDFData:    []byte("%PDF-1.4 test"),
		})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("2025", "06", docID.String()+".pdf"), result.Path)
		assert.Equal(t, "/files/documents/2025/06/"+docID.String()+".pdf", result.URL)
		assert.Equal(t, int64(13), result.Size)
	})

	t.Run("rejects empty data", func(t *testing.T) {
		s := newTestStorage(t)
		_, err := s.Store(ctx, &StoreRequest{DocumentID: uuid.New()})
		assert.Error(t, err)
	})

	t.Run("rejects missing document id", func(t *testing.T) {
		s := newTestStorage(t)
		_, err := s.Store(ctx, &StoreRequest{PDFData: []byte("x")})
		assert.Error(t, err)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		s := newTestStorage(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Store(cancelled, &StoreRequest{DocumentID: uuid.New(), PDFData: []byte("x")})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileSystemStorage_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips stored content", func(t *testing.T) {
		s := newTestStorage(t)
		result, err := s.Store(ctx, &StoreRequest{
			DocumentID: uuid.New(),
			PDFData:    []byte("%PDF-1.4 round trip"),
		})
		require.NoError(t, err)

		reader, err := s.Get(ctx, result.Path)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 round trip"), data)
	})

	t.Run("missing file errors", func(t *testing.T) {
		s := newTestStorage(t)
		_, err := s.Get(ctx, "2025/06/nothing.pdf")
		assert.Error(t, err)
	})

	t.Run("blocks path traversal", func(t *testing.T) {
		s := newTestStorage(t)
		for _, path := range []string{
			"../../../etc/passwd",
			"2025/../../secrets",
			"/etc/passwd",
		} {
			_, err := s.Get(ctx, path)
			assert.ErrorIs(t, err, ErrInvalidPath, "path %q should be blocked", path)
		}
	})
}

func TestFileSystemStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	result, err := s.Store(ctx, &StoreRequest{
		DocumentID: uuid.New(),
		PDFData:    []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, result.Path))

	_, err = s.Get(ctx, result.Path)
	assert.Error(t, err)

	// Deleting an already missing file is not an error
	assert.NoError(t, s.Delete(ctx, result.Path))
}

func TestFileSystemStorage_DownloadURL(t *testing.T) {
	s := newTestStorage(t)

	url, err := s.DownloadURL(context.Background(), "2025/06/doc.pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "/files/documents/2025/06/doc.pdf", url)
}

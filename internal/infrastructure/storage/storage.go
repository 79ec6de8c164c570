// Package storage provides file storage backends for generated documents.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// StoreRequest contains the parameters for storing a generated PDF
type StoreRequest struct {
	// DocumentID names the stored file
	DocumentID uuid.UUID
	// PDFData is the raw PDF content
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// Path is the storage path (relative to the backend's root)
	Path string
	// URL is the accessible URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// FileStorage defines the interface for storing and retrieving generated
// document files. Implementations exist for the local file system and for
// S3-compatible object storage.
type FileStorage interface {
	// Store saves a PDF file and returns its path and URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a stored file by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a stored file
	Delete(ctx context.Context, path string) error
	// DownloadURL returns a URL from which the file can be fetched.
	// Object storage backends return a time-limited presigned URL.
	DownloadURL(ctx context.Context, path string, expiresIn time.Duration) (string, error)
}

package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidUploadToken = errors.New("upload token invalid or expired")
	ErrInvalidKey         = errors.New("invalid storage key")
)

// StorageInterface is the room image object store.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client can PUT the file to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a URL the file can be fetched from.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error
}

// FileServer is implemented by backends that serve their own upload and
// download endpoints instead of handing out third-party presigned URLs.
type FileServer interface {
	// ConsumeUploadToken validates a token issued for key. Tokens are single use.
	ConsumeUploadToken(token, key string) error
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}

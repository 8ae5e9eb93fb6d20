package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hotel-backend/internal/logger"

	"github.com/google/uuid"
)

type uploadGrant struct {
	key       string
	expiresAt time.Time
}

// LocalStorage keeps room images on the local filesystem and serves them
// through the API server's own upload and download endpoints.
type LocalStorage struct {
	baseURL   string
	imagesDir string

	mu     sync.Mutex
	grants map[string]uploadGrant
	now    func() time.Time
}

func NewLocalStorage(baseURL, uploadsDir string) (*LocalStorage, error) {
	imagesDir := filepath.Join(uploadsDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &LocalStorage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		imagesDir: imagesDir,
		grants:    make(map[string]uploadGrant),
		now:       time.Now,
	}, nil
}

func (s *LocalStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	token := uuid.NewString()

	s.mu.Lock()
	s.pruneLocked()
	s.grants[token] = uploadGrant{key: key, expiresAt: s.now().Add(expiresIn)}
	s.mu.Unlock()

	return fmt.Sprintf("%s/api/v1/upload/%s?key=%s", s.baseURL, token, url.QueryEscape(key)), nil
}

func (s *LocalStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/download?key=%s", s.baseURL, url.QueryEscape(key)), nil
}

func (s *LocalStorage) ConsumeUploadToken(token, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.grants[token]
	if !ok || grant.key != key || s.now().After(grant.expiresAt) {
		return ErrInvalidUploadToken
	}
	delete(s.grants, token)
	return nil
}

// pruneLocked drops expired grants. Callers hold mu.
func (s *LocalStorage) pruneLocked() {
	now := s.now()
	for token, g := range s.grants {
		if now.After(g.expiresAt) {
			delete(s.grants, token)
		}
	}
}

func (s *LocalStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Storage object missing", "key", key)
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) SaveFile(key string, reader io.Reader) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStorage) ReadFile(key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// path resolves key inside the images directory, rejecting traversal.
func (s *LocalStorage) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.imagesDir, filepath.FromSlash(key)), nil
}

package storage

import (
	"fmt"

	"hotel-backend/internal/config"
)

// New builds the storage backend selected by cfg.Type.
func New(cfg config.StorageConfig, fallbackBaseURL string) (*LocalStorage, error) {
	switch cfg.Type {
	case "", "local":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = fallbackBaseURL
		}
		return NewLocalStorage(baseURL, cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

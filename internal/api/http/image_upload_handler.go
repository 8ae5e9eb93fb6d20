package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"hotel-backend/internal/logger"
	"hotel-backend/internal/storage"

	"github.com/gorilla/mux"
)

// ImageUploadHandler serves the upload and download URLs issued by a
// storage backend that has no external endpoint of its own.
type ImageUploadHandler struct {
	files       storage.FileServer
	maxFileSize int64
}

func NewImageUploadHandler(files storage.FileServer, maxFileSize int64) *ImageUploadHandler {
	return &ImageUploadHandler{files: files, maxFileSize: maxFileSize}
}

// HandleUpload accepts PUT /api/v1/upload/{token}?key=...
func (h *ImageUploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing key parameter", Field: "key"})
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid content type", Field: "content_type"})
		return
	}

	if err := h.files.ConsumeUploadToken(mux.Vars(r)["token"], key); err != nil {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
		return
	}

	// Oversize uploads are rejected again when the image is confirmed.
	body := io.Reader(r.Body)
	if h.maxFileSize > 0 {
		body = io.LimitReader(r.Body, h.maxFileSize+1)
	}
	if err := h.files.SaveFile(key, body); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "key"})
			return
		}
		logger.Error("Failed to save uploaded file", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save file"})
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleDownload serves GET /api/v1/download?key=...
func (h *ImageUploadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing key parameter", Field: "key"})
		return
	}

	file, err := h.files.ReadFile(key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream file", "key", key, "error", err)
	}
}

package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/linwei/smartliving/pkg/errors"
)

const maxImageBytes = 5 * 1024 * 1024

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectStore persists raw objects under a key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}

// Service stores user images and hands back public URLs.
type Service interface {
	UploadImage(ctx context.Context, userID, mimeType string, data []byte) (string, error)
}

type service struct {
	store     ObjectStore
	publicURL string
	logger    *slog.Logger
}

// NewService wires up image uploads. store may be nil when no bucket is
// configured; uploads then fail with upload_disabled.
func NewService(store ObjectStore, publicURL string, logger *slog.Logger) Service {
	return &service{
		store:     store,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger.With("component", "uploads.service"),
	}
}

func (s *service) UploadImage(ctx context.Context, userID, mimeType string, data []byte) (string, error) {
	if s.store == nil {
		return "", apperrors.Wrap("upload_disabled", "image storage is not configured", nil)
	}
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(mimeType))]
	if !ok {
		return "", apperrors.Wrap("invalid_input", "unsupported image type", nil)
	}
	if len(data) == 0 {
		return "", apperrors.Wrap("invalid_input", "image is empty", nil)
	}
	if len(data) > maxImageBytes {
		return "", apperrors.Wrap("invalid_input", "image exceeds 5MB limit", nil)
	}

	key := fmt.Sprintf("images/%s/%s%s", userID, uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, data, mimeType); err != nil {
		return "", apperrors.Wrap("storage_error", "failed to store image", err)
	}
	s.logger.Info("image stored", "key", key, "bytes", len(data))
	return s.publicURL + "/" + key, nil
}

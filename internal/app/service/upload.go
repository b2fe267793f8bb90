package service

import (
	"context"
	"fmt"
	"io"

	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/chitram/chitram-backend/pkg/logger"
)

// Upload is an image received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (u *Upload) validate(maxSize int64) error {
	if err := storage.ValidateImage(u.ContentType, u.Size, maxSize); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func saveUpload(ctx context.Context, store storage.Storage, folder storage.Folder, u *Upload) (string, error) {
	key, err := store.Save(ctx, folder, u.ContentType, u.Body)
	if err != nil {
		logger.Error("Failed to store upload", err, map[string]interface{}{
			"folder":       string(folder),
			"filename":     u.Filename,
			"content_type": u.ContentType,
		})
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return key, nil
}

// discardUpload removes a file whose row change did not commit.
func discardUpload(ctx context.Context, store storage.Storage, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		logger.Warn("Failed to remove orphaned upload", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// replaceFile deletes the previous file after its replacement committed and
// records the outcome.
func replaceFile(ctx context.Context, store storage.Storage, oldKey, newKey string, result *CascadeResult) {
	if newKey == "" {
		return
	}
	if oldKey == "" || oldKey == newKey {
		result.skipped(EffectOldFileRemoved, "no previous file")
		return
	}
	if err := store.Delete(ctx, oldKey); err != nil {
		logger.Warn("Failed to delete replaced file", map[string]interface{}{
			"key":   oldKey,
			"error": err.Error(),
		})
		result.failed(EffectOldFileRemoved, err)
		return
	}
	result.applied(EffectOldFileRemoved)
}

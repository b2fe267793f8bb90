package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Folder scopes stored objects per entity type.
type Folder string

const (
	FolderProfiles     Folder = "profiles"
	FolderArtworks     Folder = "artworks"
	FolderApplications Folder = "applications"
)

const (
	MaxApplicationPhotoSize int64 = 5 << 20
	MaxProfilePhotoSize     int64 = 5 << 20
	MaxArtworkImageSize     int64 = 10 << 20
)

var (
	ErrInvalidContentType = errors.New("only image files are allowed")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrObjectNotFound     = errors.New("stored object not found")
)

// Storage persists uploaded images. Keys have the form "<folder>/<uuid><ext>".
type Storage interface {
	Save(ctx context.Context, folder Folder, contentType string, body io.Reader) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Copy(ctx context.Context, srcKey string, dst Folder) (string, error)
	URL(key string) string
}

// imageExtensions lists the accepted image types and the extension stored
// objects of that type get.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// ValidateImage checks the sniffed content type and size of an upload.
func ValidateImage(contentType string, size, maxSize int64) error {
	if _, ok := imageExtensions[mediaType(contentType)]; !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidContentType, contentType)
	}
	if size > maxSize {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrFileTooLarge, size, maxSize)
	}
	return nil
}

// ExtensionFor returns the stored extension for an accepted image type, or ""
// when the type is not accepted.
func ExtensionFor(contentType string) string {
	return imageExtensions[mediaType(contentType)]
}

// NewKey builds a unique object key inside folder. Extensions outside the
// accepted image set are dropped.
func NewKey(folder Folder, ext string) string {
	ext = strings.ToLower(ext)
	if !knownExtension(ext) {
		ext = ""
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
}

func knownExtension(ext string) bool {
	for _, e := range imageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func validKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return false
	}
	for _, f := range []Folder{FolderProfiles, FolderArtworks, FolderApplications} {
		if strings.HasPrefix(key, string(f)+"/") {
			return true
		}
	}
	return false
}

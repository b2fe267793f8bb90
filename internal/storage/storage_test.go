package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{"jpeg within limit", "image/jpeg", 1024, nil},
		{"png at limit", "image/png", MaxApplicationPhotoSize, nil},
		{"gif with params", "image/gif; charset=binary", 1024, nil},
		{"pdf rejected", "application/pdf", 1024, ErrInvalidContentType},
		{"svg rejected", "image/svg+xml", 1024, ErrInvalidContentType},
		{"bmp rejected", "image/bmp", 1024, ErrInvalidContentType},
		{"html rejected", "text/html; charset=utf-8", 1024, ErrInvalidContentType},
		{"empty type rejected", "", 10, ErrInvalidContentType},
		{"too large", "image/webp", MaxApplicationPhotoSize + 1, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.contentType, tt.size, MaxApplicationPhotoSize)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey(FolderArtworks, ExtensionFor("image/jpeg"))
	assert.True(t, strings.HasPrefix(key, "artworks/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, NewKey(FolderArtworks, ".jpg"))

	assert.True(t, strings.HasSuffix(NewKey(FolderArtworks, ".PNG"), ".png"))
	for _, ext := range []string{".html", ".svg", ".php"} {
		key := NewKey(FolderArtworks, ext)
		assert.Equal(t, "", path.Ext(key), "extension %s must be dropped", ext)
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionFor("image/jpeg"))
	assert.Equal(t, ".png", ExtensionFor("IMAGE/PNG"))
	assert.Equal(t, ".webp", ExtensionFor("image/webp"))
	assert.Equal(t, "", ExtensionFor("image/svg+xml"))
	assert.Equal(t, "", ExtensionFor(""))
}

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)

	key, err := s.Save(ctx, FolderApplications, "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "applications/"))
	assert.Equal(t, ".png", path.Ext(key))
	assert.Equal(t, "/uploads/"+key, s.URL(key))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	copied, err := s.Copy(ctx, key, FolderProfiles)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(copied, "profiles/"))
	assert.Equal(t, ".png", path.Ext(copied))

	f, err := os.Open(filepath.Join(root, filepath.FromSlash(copied)))
	require.NoError(t, err)
	data, _ := io.ReadAll(f)
	f.Close()
	assert.Equal(t, "pixels", string(data))

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, s.Delete(ctx, key), ErrObjectNotFound)
	_, err = s.Copy(ctx, key, FolderProfiles)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, "../etc/passwd"), ErrObjectNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "other/file.png"), ErrObjectNotFound)

	exists, err := s.Exists(ctx, "profiles/../../x")
	require.NoError(t, err)
	assert.False(t, exists)
}

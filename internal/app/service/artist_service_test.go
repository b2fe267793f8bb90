package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistService_CreateValidation(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ArtistInput
	}{
		{"missing name", ArtistInput{Age: 30, Email: "a@x.com"}},
		{"missing email", ArtistInput{FullName: "Asha", Age: 30}},
		{"missing age", ArtistInput{FullName: "Asha", Email: "a@x.com"}},
		{"bad email", ArtistInput{FullName: "Asha", Age: 30, Email: "asha"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.artists.Create(ctx, tt.input, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestArtistService_DuplicateEmail(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	first := env.createArtist(t, "Asha Rai", "a@x.com")
	second := env.createArtist(t, "Hari Lal", "h@x.com")

	_, err := env.artists.Create(ctx, ArtistInput{FullName: "Other", Age: 20, Email: "A@X.COM"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// own email is fine on update, someone else's is not
	_, _, err = env.artists.Update(ctx, first.ID, ArtistInput{FullName: "Asha R.", Age: 31, Email: "a@x.com"}, nil)
	assert.NoError(t, err)
	_, _, err = env.artists.Update(ctx, second.ID, ArtistInput{FullName: "Hari", Age: 31, Email: "a@x.com"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// deleted artists keep their email
	require.NoError(t, env.artists.Delete(first.ID))
	_, err = env.artists.Create(ctx, ArtistInput{FullName: "Other", Age: 20, Email: "a@x.com"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestArtistService_PhotoReplacement(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	artist, err := env.artists.Create(ctx, ArtistInput{FullName: "Asha", Age: 30, Email: "a@x.com"}, jpeg("old.jpg"))
	require.NoError(t, err)
	oldPhoto := artist.ProfilePicture
	require.True(t, env.store.has(oldPhoto))

	updated, result, err := env.artists.Update(ctx, artist.ID, ArtistInput{FullName: "Asha", Age: 30, Email: "a@x.com"}, jpeg("new.jpg"))
	require.NoError(t, err)
	assert.NotEqual(t, oldPhoto, updated.ProfilePicture)
	assert.True(t, env.store.has(updated.ProfilePicture))
	assert.False(t, env.store.has(oldPhoto))
	assert.Equal(t, EffectApplied, result.Status(EffectOldFileRemoved))

	// failing to delete the old file keeps the update
	env.store.deleteErr = errors.New("permission denied")
	again, result, err := env.artists.Update(ctx, artist.ID, ArtistInput{FullName: "Asha", Age: 30, Email: "a@x.com"}, jpeg("newer.jpg"))
	require.NoError(t, err)
	assert.Equal(t, EffectFailed, result.Status(EffectOldFileRemoved))
	assert.True(t, env.store.has(again.ProfilePicture))
	assert.Equal(t, 2, env.store.count(storage.FolderProfiles))
}

func TestArtistService_FailedUpdateKeepsOldPhoto(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	artist, err := env.artists.Create(ctx, ArtistInput{FullName: "Asha", Age: 30, Email: "a@x.com"}, jpeg("old.jpg"))
	require.NoError(t, err)
	env.createArtist(t, "Hari", "h@x.com")

	_, _, err = env.artists.Update(ctx, artist.ID, ArtistInput{FullName: "Asha", Age: 30, Email: "h@x.com"}, jpeg("new.jpg"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.True(t, env.store.has(artist.ProfilePicture))
	assert.Equal(t, 1, env.store.count(storage.FolderProfiles))
}

func TestArtistService_DeleteAndListings(t *testing.T) {
	env := setupServiceTest(t)

	asha := env.createArtist(t, "Asha Rai", "a@x.com")
	hari := env.createArtist(t, "Hari Lal", "h@x.com")
	env.createArtwork(t, hari.ID, "River", 100)

	require.NoError(t, env.artists.Delete(asha.ID))
	assert.ErrorIs(t, env.artists.Delete(asha.ID), ErrArtistNotFound)
	assert.ErrorIs(t, env.artists.Delete("missing"), ErrArtistNotFound)

	page, err := env.artists.List(ArtistQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	deleted, err := env.artists.List(ArtistQuery{Status: "deleted"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.Total)

	_, err = env.artists.List(ArtistQuery{Status: "retired"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// historical lookups still resolve
	found, err := env.artists.Get(asha.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ArtistStatusDeleted, found.Status)

	_, err = env.artists.GetPublic(asha.ID)
	assert.ErrorIs(t, err, ErrArtistNotFound)

	profile, err := env.artists.GetPublic(hari.ID)
	require.NoError(t, err)
	require.Len(t, profile.Artworks, 1)
	assert.Equal(t, "River", profile.Artworks[0].Name)

	options, err := env.artists.Options()
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, hari.ID, options[0].ID)

	_, _, err = env.artists.Update(context.Background(), asha.ID, ArtistInput{FullName: "Asha", Age: 30, Email: "a@x.com"}, nil)
	assert.ErrorIs(t, err, ErrArtistNotFound)
}

func TestArtistService_ReconcileCounters(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	artist := env.createArtist(t, "Asha Rai", "a@x.com")
	env.createArtwork(t, artist.ID, "Lotus", 100)
	require.NoError(t, env.db.Model(&model.Artist{}).Where("id = ?", artist.ID).Update("arts_uploaded", 9).Error)

	fixed, err := env.artists.ReconcileCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fixed)
	assert.Equal(t, 1, env.artist(t, artist.ID).ArtsUploaded)
}

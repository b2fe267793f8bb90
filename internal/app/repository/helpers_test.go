package repository

import (
	"testing"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createArtist(t *testing.T, testDB *gorm.DB, name, email string) *model.Artist {
	t.Helper()
	artist := &model.Artist{FullName: name, Age: 30, Email: email}
	require.NoError(t, testDB.Create(artist).Error)
	return artist
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func createArtwork(t *testing.T, testDB *gorm.DB, artist *model.Artist, name, category string, cost float64, age time.Duration) *model.Artwork {
	t.Helper()
	artwork := &model.Artwork{
		ArtistID:   artist.ID,
		Name:       name,
		Category:   category,
		Cost:       cost,
		Image:      "artworks/" + name + ".jpg",
		UploadedAt: baseTime.Add(-age),
	}
	require.NoError(t, testDB.Create(artwork).Error)
	return artwork
}

func artworkNames(artworks []model.Artwork) []string {
	names := make([]string, len(artworks))
	for i, a := range artworks {
		names[i] = a.Name
	}
	return names
}

package db

import (
	"testing"

	"github.com/chitram/chitram-backend/config"
	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdmin(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	cfg := &config.AdminConfig{Username: "curator", Password: "s3cret-pass"}
	require.NoError(t, SeedAdmin(testDB, cfg))

	var admin model.Admin
	require.NoError(t, testDB.Where("username = ?", "curator").First(&admin).Error)
	assert.NotEmpty(t, admin.ID)
	assert.True(t, util.VerifyPassword(admin.PasswordHash, "s3cret-pass"))

	// second run is a no-op
	require.NoError(t, SeedAdmin(testDB, &config.AdminConfig{Username: "other", Password: "another-pass"}))
	var count int64
	testDB.Model(&model.Admin{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedAdmin_NoPassword(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	require.NoError(t, SeedAdmin(testDB, &config.AdminConfig{Username: "curator"}))

	var count int64
	testDB.Model(&model.Admin{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSeedAdmin_WeakPassword(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	err = SeedAdmin(testDB, &config.AdminConfig{Username: "curator", Password: "short"})
	assert.ErrorIs(t, err, util.ErrWeakPassword)
}

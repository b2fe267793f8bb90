package repository

import (
	"testing"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageViewRepository_Increment(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewPageViewRepository(testDB)

	today := baseTime
	yesterday := baseTime.Add(-24 * time.Hour)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Increment(today))
	}
	require.NoError(t, repo.Increment(yesterday))

	count, err := repo.CountFor(today)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = repo.CountFor(today.Add(48 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	total, err := repo.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	var rows int64
	require.NoError(t, testDB.Model(&model.PageView{}).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}

func TestPageViewRepository_TotalEmpty(t *testing.T) {
	repo := NewPageViewRepository(setupTestDB(t))
	total, err := repo.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

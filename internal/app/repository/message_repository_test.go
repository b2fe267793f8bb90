package repository

import (
	"testing"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createMessage(t *testing.T, repo MessageRepository, subject string, created time.Time) *model.ContactMessage {
	t.Helper()
	msg := &model.ContactMessage{
		FullName:  "Visitor",
		Email:     "visitor@example.com",
		Subject:   subject,
		Message:   "hello",
		CreatedAt: created,
	}
	require.NoError(t, repo.Create(msg))
	return msg
}

func TestMessageRepository_MarkRead(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewMessageRepository(testDB)
	msg := createMessage(t, repo, "Commission", baseTime)
	assert.Equal(t, model.MessageStatusUnread, msg.Status)

	changed, err := repo.MarkRead(msg.ID, baseTime)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkRead(msg.ID, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	found, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusRead, found.Status)
	require.NotNil(t, found.ReadAt)
	assert.True(t, found.ReadAt.Equal(baseTime))
}

func TestMessageRepository_StatusAndListing(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewMessageRepository(testDB)
	older := createMessage(t, repo, "Older", baseTime.Add(-time.Hour))
	newer := createMessage(t, repo, "Newer", baseTime)
	archived := createMessage(t, repo, "Archived", baseTime.Add(time.Hour))

	require.NoError(t, repo.UpdateStatus(archived.ID, model.MessageStatusArchived))
	assert.ErrorIs(t, repo.UpdateStatus("missing", model.MessageStatusRead), gorm.ErrRecordNotFound)

	inbox, total, err := repo.List([]model.MessageStatus{model.MessageStatusUnread, model.MessageStatusRead}, NewPage(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, newer.ID, inbox[0].ID)
	assert.Equal(t, older.ID, inbox[1].ID)

	unread, err := repo.CountByStatus(model.MessageStatusUnread)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, repo.Delete(older.ID))
	assert.ErrorIs(t, repo.Delete(older.ID), gorm.ErrRecordNotFound)
}

func TestMessageRepository_MarkUnreadClearsReadAt(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewMessageRepository(testDB)
	msg := createMessage(t, repo, "Hello", baseTime)

	_, err := repo.MarkRead(msg.ID, baseTime)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(msg.ID, model.MessageStatusUnread))

	found, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Nil(t, found.ReadAt)
}

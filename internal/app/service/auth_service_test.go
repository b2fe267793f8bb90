package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/config"
	"github.com/chitram/chitram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func (f *fakeBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = ttl
	return nil
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[token]
	return ok, nil
}

func setupAuthTest(t *testing.T, blacklist *fakeBlacklist) (AuthService, repository.AdminRepository) {
	t.Helper()
	env := setupServiceTest(t)
	require.NoError(t, db.SeedAdmin(env.db, &config.AdminConfig{Username: "curator", Password: "gallery-pass"}))
	repo := repository.NewAdminRepository(env.db)
	if blacklist == nil {
		return NewAuthService(repo, nil, testSecret, time.Hour), repo
	}
	return NewAuthService(repo, blacklist, testSecret, time.Hour), repo
}

func TestAuthService_Login(t *testing.T) {
	svc, repo := setupAuthTest(t, nil)

	result, err := svc.Login(" curator ", "gallery-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, "curator", result.Admin.Username)

	stored, err := repo.FindByUsername("curator")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	claims, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Admin.ID, claims.AdminID)

	me, err := svc.Me(claims.AdminID)
	require.NoError(t, err)
	assert.Equal(t, "curator", me.Username)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "curator", "not-the-pass"},
		{"unknown admin", "nobody", "gallery-pass"},
		{"empty username", "", "gallery-pass"},
		{"empty password", "curator", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	blacklist := &fakeBlacklist{revoked: map[string]time.Duration{}}
	svc, _ := setupAuthTest(t, blacklist)
	ctx := context.Background()

	result, err := svc.Login("curator", "gallery-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))
	ttl, ok := blacklist.revoked[result.Token]
	require.True(t, ok)
	assert.True(t, ttl > 0 && ttl <= time.Hour)

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// garbage tokens are ignored on logout
	assert.NoError(t, svc.Logout(ctx, "not-a-token"))

	blacklist.err = errors.New("redis down")
	_, err = svc.Authenticate(ctx, result.Token)
	assert.Error(t, err)
}

func TestAuthService_LogoutWithoutBlacklist(t *testing.T) {
	svc, _ := setupAuthTest(t, nil)
	ctx := context.Background()

	result, err := svc.Login("curator", "gallery-pass")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, result.Token))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, "forged")
	assert.Error(t, err)
}

func TestAuthService_MeUnknownAdmin(t *testing.T) {
	svc, _ := setupAuthTest(t, nil)
	_, err := svc.Me("missing")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

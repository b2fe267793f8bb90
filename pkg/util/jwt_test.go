package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateAdminToken(t *testing.T) {
	token, expiresAt, err := GenerateAdminToken("admin-1", "curator", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "curator", claims.Username)
	assert.Equal(t, AdminRole, claims.Role)
}

func TestGenerateAdminToken_EmptySecret(t *testing.T) {
	_, _, err := GenerateAdminToken("admin-1", "curator", "", time.Hour)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	valid, _, err := GenerateAdminToken("admin-1", "curator", testSecret, time.Hour)
	require.NoError(t, err)
	expired, _, err := GenerateAdminToken("admin-1", "curator", testSecret, -time.Minute)
	require.NoError(t, err)

	nonAdmin := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		AdminID: "x",
		Role:    "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	nonAdminToken, err := nonAdmin.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: valid, secret: testSecret},
		{name: "Wrong secret", token: valid, secret: "other", wantErr: ErrInvalidToken},
		{name: "Expired token", token: expired, secret: testSecret, wantErr: ErrExpiredToken},
		{name: "Malformed token", token: "not-a-jwt", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Non-admin role", token: nonAdminToken, secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, claims)
		})
	}
}

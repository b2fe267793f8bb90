package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/redis"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrTokenRevoked = errors.New("token has been revoked")

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     *model.Admin `json:"admin"`
}

type AuthService interface {
	Login(username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*util.AdminClaims, error)
	Me(adminID string) (*model.Admin, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	blacklist redis.TokenBlacklist
	jwtSecret string
	expiry    time.Duration
}

// NewAuthService builds the admin auth service. blacklist may be nil, in
// which case logout only clears the client cookie.
func NewAuthService(adminRepo repository.AdminRepository, blacklist redis.TokenBlacklist, jwtSecret string, expiry time.Duration) AuthService {
	return &authService{
		adminRepo: adminRepo,
		blacklist: blacklist,
		jwtSecret: jwtSecret,
		expiry:    expiry,
	}
}

func (s *authService) Login(username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.adminRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown admin", map[string]interface{}{
				"username": username,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(admin.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"username": username,
		})
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := util.GenerateAdminToken(admin.ID, admin.Username, s.jwtSecret, s.expiry)
	if err != nil {
		logger.Error("Failed to generate admin token", err, map[string]interface{}{
			"admin_id": admin.ID,
		})
		return nil, err
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(admin.ID, now); err != nil {
		// login still succeeds
		logger.Warn("Failed to record admin login time", map[string]interface{}{
			"admin_id": admin.ID,
			"error":    err.Error(),
		})
	} else {
		admin.LastLoginAt = &now
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"admin_id": admin.ID,
		"username": admin.Username,
	})
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	if s.blacklist == nil || token == "" {
		return nil
	}
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// expired or forged tokens need no revocation
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Revoke(ctx, token, ttl); err != nil {
		return err
	}
	logger.Info("Admin logged out", map[string]interface{}{
		"admin_id": claims.AdminID,
	})
	return nil
}

// Authenticate validates the token signature, expiry and revocation state.
func (s *authService) Authenticate(ctx context.Context, token string) (*util.AdminClaims, error) {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, token)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *authService) Me(adminID string) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return admin, nil
}

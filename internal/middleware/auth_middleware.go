package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated admin
const (
	AdminIDKey       = "admin_id"
	AdminUsernameKey = "admin_username"
	AdminTokenKey    = "admin_token"
)

// TokenAuthenticator validates an admin token, including revocation.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*util.AdminClaims, error)
}

// AuthMiddleware guards admin routes. revokedErr is the authenticator's
// sentinel for logged-out tokens.
type AuthMiddleware struct {
	auth       TokenAuthenticator
	cookieName string
	revokedErr error
}

func NewAuthMiddleware(auth TokenAuthenticator, cookieName string, revokedErr error) *AuthMiddleware {
	return &AuthMiddleware{
		auth:       auth,
		cookieName: cookieName,
		revokedErr: revokedErr,
	}
}

// extractToken reads the admin token from the session cookie, the
// Authorization header, or the token query parameter (websocket clients).
func (m *AuthMiddleware) extractToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie, true
	}

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", true
}

// RequireAdmin rejects the request unless it carries a valid admin token.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, wellFormed := m.extractToken(c)
		if !wellFormed {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header format")
			return
		}
		if token == "" {
			log.Warn("Missing admin token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			return
		}

		claims, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Warn("Admin token rejected", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			switch {
			case stderrors.Is(err, util.ErrExpiredToken):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired, please log in again")
			case m.revokedErr != nil && stderrors.Is(err, m.revokedErr):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Session has been logged out")
			case stderrors.Is(err, util.ErrInvalidToken):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid admin token")
			default:
				errors.InternalError(c, "")
			}
			return
		}

		c.Set(AdminIDKey, claims.AdminID)
		c.Set(AdminUsernameKey, claims.Username)
		c.Set(AdminTokenKey, token)

		log.Debug("Admin authenticated", map[string]interface{}{
			"admin_id": claims.AdminID,
		})
		c.Next()
	}
}

// GetAdminID extracts the admin id set by RequireAdmin.
func GetAdminID(c *gin.Context) (string, bool) {
	id := c.GetString(AdminIDKey)
	return id, id != ""
}

// GetAdminUsername extracts the reviewer identity set by RequireAdmin.
func GetAdminUsername(c *gin.Context) (string, bool) {
	username := c.GetString(AdminUsernameKey)
	return username, username != ""
}

// GetAdminToken returns the raw token the request was authenticated with.
func GetAdminToken(c *gin.Context) string {
	return c.GetString(AdminTokenKey)
}

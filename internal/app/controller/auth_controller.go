package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/chitram/chitram-backend/internal/app/service"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CookieSettings controls the admin session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthController struct {
	authService service.AuthService
	cookie      CookieSettings
}

func NewAuthController(authService service.AuthService, cookie CookieSettings) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.Name, value, maxAge, "/", "", ctrl.cookie.Secure, true)
}

// Login verifies admin credentials and issues a session token
// POST /api/v1/admin/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "username and password are required")
		return
	}

	result, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid username or password")
			return
		}
		log.Error("Admin login failed", err)
		apperrors.InternalError(c, "")
		return
	}

	ctrl.setCookie(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, result)
}

// Logout revokes the current token and clears the cookie
// POST /api/v1/admin/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetAdminToken(c)); err != nil {
		// the cookie is still cleared
		log.Error("Failed to revoke admin token", err)
	}
	ctrl.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the logged-in admin
// GET /api/v1/admin/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	adminID, _ := middleware.GetAdminID(c)
	admin, err := ctrl.authService.Me(adminID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.Unauthorized(c, "")
			return
		}
		respondError(c, err, "fetch admin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

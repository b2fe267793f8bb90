package controller

import (
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

type LiveController struct {
	hub      *websocket.Hub
	upgrader *gorilla.Upgrader
}

// NewLiveController only upgrades requests whose Origin is in allowedOrigins.
func NewLiveController(hub *websocket.Hub, allowedOrigins []string) *LiveController {
	return &LiveController{hub: hub, upgrader: websocket.NewUpgrader(allowedOrigins)}
}

// Connect upgrades the request to the admin live feed
// GET /api/v1/admin/live
func (ctrl *LiveController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	adminID, _ := middleware.GetAdminID(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"admin_id": adminID,
			"error":    err.Error(),
		})
		return
	}
	ctrl.hub.Serve(conn, adminID)
}

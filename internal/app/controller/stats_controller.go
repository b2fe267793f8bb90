package controller

import (
	"net/http"

	"github.com/chitram/chitram-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

// LiveSessions reports how many admins are on the live feed.
type LiveSessions interface {
	ConnectedAdmins() int
}

type StatsController struct {
	statsService service.StatsService
	live         LiveSessions
}

func NewStatsController(statsService service.StatsService, live LiveSessions) *StatsController {
	return &StatsController{
		statsService: statsService,
		live:         live,
	}
}

// SiteStats returns the public counters
// GET /api/v1/stats
func (ctrl *StatsController) SiteStats(c *gin.Context) {
	stats, err := ctrl.statsService.SiteStats()
	if err != nil {
		respondError(c, err, "load site stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Dashboard returns the admin overview
// GET /api/v1/admin/dashboard
func (ctrl *StatsController) Dashboard(c *gin.Context) {
	dashboard, err := ctrl.statsService.Dashboard()
	if err != nil {
		respondError(c, err, "load dashboard")
		return
	}
	resp := gin.H{"dashboard": dashboard}
	if ctrl.live != nil {
		resp["live_admins"] = ctrl.live.ConnectedAdmins()
	}
	c.JSON(http.StatusOK, resp)
}

package router

import (
	"net/http"
	"time"

	"github.com/chitram/chitram-backend/config"
	"github.com/chitram/chitram-backend/internal/app/controller"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP handler set.
type Controllers struct {
	Auth        *controller.AuthController
	Application *controller.ApplicationController
	Artist      *controller.ArtistController
	Artwork     *controller.ArtworkController
	Order       *controller.OrderController
	Message     *controller.MessageController
	Stats       *controller.StatsController
	Live        *controller.LiveController
}

// Middlewares groups the cross-cutting handlers.
type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimiter
	Metrics   *middleware.Metrics
	PageViews middleware.ViewRecorder
}

type Router struct {
	controllers Controllers
	middlewares Middlewares
	config      *config.Config
	// uploadDir is served under /uploads when files live on local disk.
	uploadDir string
}

func NewRouter(controllers Controllers, middlewares Middlewares, cfg *config.Config, uploadDir string) *Router {
	return &Router{
		controllers: controllers,
		middlewares: middlewares,
		config:      cfg,
		uploadDir:   uploadDir,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	if r.middlewares.Metrics != nil {
		router.Use(r.middlewares.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(r.middlewares.Metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Chitram API is running",
		})
	})

	if r.uploadDir != "" {
		router.Static("/uploads", r.uploadDir)
	}

	ctl := r.controllers
	limited := r.rateLimit()
	counted := r.pageView()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/applications", limited, ctl.Application.Submit)
		v1.POST("/contact", limited, ctl.Message.Submit)
		v1.POST("/orders", limited, ctl.Order.Place)
		v1.GET("/orders/track", limited, ctl.Order.Track)
		v1.GET("/stats", ctl.Stats.SiteStats)

		artworks := v1.Group("/artworks")
		{
			artworks.GET("", counted, ctl.Artwork.Catalog)
			artworks.GET("/search", ctl.Artwork.QuickSearch)
			artworks.GET("/latest", ctl.Artwork.Latest)
			artworks.GET("/categories", ctl.Artwork.Categories)
			artworks.GET("/:id", counted, ctl.Artwork.GetPublic)
		}

		artists := v1.Group("/artists")
		{
			artists.GET("", counted, ctl.Artist.ListPublic)
			artists.GET("/:id", counted, ctl.Artist.GetPublic)
		}

		v1.POST("/admin/auth/login", limited, ctl.Auth.Login)

		admin := v1.Group("/admin", r.middlewares.Auth.RequireAdmin())
		{
			admin.POST("/auth/logout", ctl.Auth.Logout)
			admin.GET("/auth/me", ctl.Auth.Me)
			admin.GET("/dashboard", ctl.Stats.Dashboard)
			if ctl.Live != nil {
				admin.GET("/live", ctl.Live.Connect)
			}

			applications := admin.Group("/applications")
			{
				applications.GET("", ctl.Application.List)
				applications.GET("/:id", ctl.Application.Get)
				applications.PATCH("/:id/status", ctl.Application.UpdateStatus)
				applications.DELETE("/:id", ctl.Application.Delete)
			}

			adminArtists := admin.Group("/artists")
			{
				adminArtists.GET("", ctl.Artist.List)
				adminArtists.GET("/options", ctl.Artist.Options)
				adminArtists.POST("", ctl.Artist.Create)
				adminArtists.POST("/reconcile", ctl.Artist.Reconcile)
				adminArtists.GET("/:id", ctl.Artist.Get)
				adminArtists.PUT("/:id", ctl.Artist.Update)
				adminArtists.DELETE("/:id", ctl.Artist.Delete)
			}

			adminArtworks := admin.Group("/artworks")
			{
				adminArtworks.GET("", ctl.Artwork.List)
				adminArtworks.POST("", ctl.Artwork.Create)
				adminArtworks.GET("/:id", ctl.Artwork.Get)
				adminArtworks.PUT("/:id", ctl.Artwork.Update)
				adminArtworks.DELETE("/:id", ctl.Artwork.Delete)
			}

			orders := admin.Group("/orders")
			{
				orders.GET("", ctl.Order.List)
				orders.GET("/export", ctl.Order.Export)
				orders.GET("/:id", ctl.Order.Get)
				orders.PATCH("/:id/status", ctl.Order.UpdateStatus)
				orders.DELETE("/:id", ctl.Order.Delete)
			}

			messages := admin.Group("/messages")
			{
				messages.GET("", ctl.Message.Inbox)
				messages.GET("/archive", ctl.Message.Archive)
				messages.GET("/:id", ctl.Message.Get)
				messages.POST("/:id/open", ctl.Message.Open)
				messages.PATCH("/:id/status", ctl.Message.UpdateStatus)
				messages.DELETE("/:id", ctl.Message.Delete)
			}
		}
	}

	return router
}

func passThrough(c *gin.Context) { c.Next() }

func (r *Router) rateLimit() gin.HandlerFunc {
	if r.middlewares.RateLimit == nil {
		return passThrough
	}
	return r.middlewares.RateLimit.Handler()
}

func (r *Router) pageView() gin.HandlerFunc {
	if r.middlewares.PageViews == nil {
		return passThrough
	}
	return middleware.PageViewMiddleware(r.middlewares.PageViews)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
			break
		}
	}
	if wildcard || len(allowedOrigins) == 0 {
		// credentials require the origin to be echoed back, not "*"
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}

package controller

import (
	"net/http"
	"strings"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/service"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type ApplicationController struct {
	applicationService service.ApplicationService
	media              media
}

func NewApplicationController(applicationService service.ApplicationService, store storage.Storage) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		media:              media{store: store},
	}
}

type UpdateApplicationStatusRequest struct {
	Status          model.ApplicationStatus `json:"status" binding:"required"`
	RejectionReason *string                 `json:"rejection_reason"`
}

// Submit handles a public artist application
// POST /api/v1/applications
func (ctrl *ApplicationController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	age, err := formInt(c, "age")
	if err != nil {
		respondError(c, err, "read application")
		return
	}
	photo, closePhoto, err := formUpload(c, "profile_picture")
	if err != nil {
		respondError(c, err, "read application photo")
		return
	}
	defer closePhoto()

	input := service.ApplicationInput{
		FullName:      c.PostForm("full_name"),
		Age:           age,
		StartedArtAt:  c.PostForm("started_art_at"),
		SchoolCollege: c.PostForm("school_college"),
		City:          c.PostForm("city"),
		District:      c.PostForm("district"),
		Email:         c.PostForm("email"),
		Phone:         c.PostForm("phone"),
		Socials:       formSocials(c),
		Message:       c.PostForm("message"),
		Bio:           c.PostForm("bio"),
	}

	application, err := ctrl.applicationService.Submit(c.Request.Context(), input, photo)
	if err != nil {
		log.Warn("Application rejected", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(c, err, "submit application")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Application submitted",
		"application_id": application.ID,
	})
}

// List returns applications, newest first
// GET /api/v1/admin/applications
func (ctrl *ApplicationController) List(c *gin.Context) {
	result, err := ctrl.applicationService.List(c.Query("status"), pageParam(c))
	if err != nil {
		respondError(c, err, "list applications")
		return
	}
	ctrl.media.applications(result.Items)
	c.JSON(http.StatusOK, result)
}

// Get returns one application
// GET /api/v1/admin/applications/:id
func (ctrl *ApplicationController) Get(c *gin.Context) {
	application, err := ctrl.applicationService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch application")
		return
	}
	ctrl.media.application(application)
	c.JSON(http.StatusOK, gin.H{"application": application})
}

// UpdateStatus reviews an application; approval promotes it to an artist
// PATCH /api/v1/admin/applications/:id/status
func (ctrl *ApplicationController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}
	if req.RejectionReason != nil {
		reason := strings.TrimSpace(*req.RejectionReason)
		req.RejectionReason = &reason
	}

	reviewer, _ := middleware.GetAdminUsername(c)
	result, err := ctrl.applicationService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.RejectionReason, reviewer)
	if err != nil {
		respondError(c, err, "update application status")
		return
	}

	if !result.Cascade.Complete() {
		log.Warn("Application review finished with failed side effects", map[string]interface{}{
			"application_id": result.Application.ID,
			"effects":        result.Cascade.Effects,
		})
	}
	ctrl.media.application(result.Application)
	ctrl.media.artist(result.Artist)
	resp := gin.H{
		"message":        reviewMessage(result),
		"application":    result.Application,
		"artist_created": result.ArtistCreated,
		"cascade":        result.Cascade,
	}
	if result.Artist != nil {
		resp["artist"] = result.Artist
	}
	c.JSON(http.StatusOK, resp)
}

func reviewMessage(result *service.ReviewResult) string {
	if result.Application.Status != model.ApplicationStatusApproved {
		return "Application status updated"
	}
	switch {
	case result.ArtistCreated:
		return "Application approved and artist account created"
	case result.Cascade.Status(service.EffectArtistCreated) == service.EffectFailed:
		return "Application approved but the artist account could not be created"
	default:
		return "Application approved; an artist with this email already exists"
	}
}

// Delete removes an application and its photo
// DELETE /api/v1/admin/applications/:id
func (ctrl *ApplicationController) Delete(c *gin.Context) {
	cascade, err := ctrl.applicationService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "delete application")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Application deleted",
		"cascade": cascade,
	})
}

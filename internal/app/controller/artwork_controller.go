package controller

import (
	"net/http"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/service"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type ArtworkController struct {
	artworkService service.ArtworkService
	media          media
}

func NewArtworkController(artworkService service.ArtworkService, store storage.Storage) *ArtworkController {
	return &ArtworkController{
		artworkService: artworkService,
		media:          media{store: store},
	}
}

func artworkQuery(c *gin.Context) service.ArtworkQuery {
	return service.ArtworkQuery{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		ArtistID: c.Query("artist_id"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Page:     pageParam(c),
	}
}

func artworkForm(c *gin.Context) (service.ArtworkInput, *service.Upload, func(), error) {
	cost, err := formFloat(c, "cost")
	if err != nil {
		return service.ArtworkInput{}, nil, func() {}, err
	}
	hours, err := formInt(c, "work_hours")
	if err != nil {
		return service.ArtworkInput{}, nil, func() {}, err
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return service.ArtworkInput{}, nil, closeImage, err
	}
	return service.ArtworkInput{
		ArtistID:    c.PostForm("artist_id"),
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Cost:        cost,
		Description: c.PostForm("description"),
		WorkHours:   hours,
		Size:        c.PostForm("size"),
		ColorType:   model.ColorType(c.PostForm("color_type")),
		Status:      model.ArtworkStatus(c.PostForm("status")),
	}, image, closeImage, nil
}

// Catalog returns listed artworks of active artists
// GET /api/v1/artworks
func (ctrl *ArtworkController) Catalog(c *gin.Context) {
	result, err := ctrl.artworkService.Catalog(artworkQuery(c))
	if err != nil {
		respondError(c, err, "list catalog")
		return
	}
	ctrl.media.artworks(result.Items)
	c.JSON(http.StatusOK, result)
}

// QuickSearch powers the search-as-you-type box
// GET /api/v1/artworks/search
func (ctrl *ArtworkController) QuickSearch(c *gin.Context) {
	artworks, err := ctrl.artworkService.QuickSearch(c.Query("q"))
	if err != nil {
		respondError(c, err, "search artworks")
		return
	}
	ctrl.media.artworks(artworks)
	c.JSON(http.StatusOK, gin.H{"artworks": artworks})
}

// Latest returns the newest listed artworks
// GET /api/v1/artworks/latest
func (ctrl *ArtworkController) Latest(c *gin.Context) {
	artworks, err := ctrl.artworkService.Latest()
	if err != nil {
		respondError(c, err, "list latest artworks")
		return
	}
	ctrl.media.artworks(artworks)
	c.JSON(http.StatusOK, gin.H{"artworks": artworks})
}

// Categories lists categories that have listed artworks
// GET /api/v1/artworks/categories
func (ctrl *ArtworkController) Categories(c *gin.Context) {
	categories, err := ctrl.artworkService.Categories()
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetPublic returns a listed artwork with related works by the same artist
// GET /api/v1/artworks/:id
func (ctrl *ArtworkController) GetPublic(c *gin.Context) {
	detail, err := ctrl.artworkService.GetPublic(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch artwork")
		return
	}
	ctrl.media.artwork(detail.Artwork)
	ctrl.media.artworks(detail.Related)
	c.JSON(http.StatusOK, detail)
}

// List returns artworks for the admin table
// GET /api/v1/admin/artworks
func (ctrl *ArtworkController) List(c *gin.Context) {
	result, err := ctrl.artworkService.List(artworkQuery(c))
	if err != nil {
		respondError(c, err, "list artworks")
		return
	}
	ctrl.media.artworks(result.Items)
	c.JSON(http.StatusOK, result)
}

// Get returns any non-deleted artwork
// GET /api/v1/admin/artworks/:id
func (ctrl *ArtworkController) Get(c *gin.Context) {
	artwork, err := ctrl.artworkService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch artwork")
		return
	}
	ctrl.media.artwork(artwork)
	c.JSON(http.StatusOK, gin.H{"artwork": artwork})
}

// Create uploads an artwork for an active artist
// POST /api/v1/admin/artworks
func (ctrl *ArtworkController) Create(c *gin.Context) {
	input, image, closeImage, err := artworkForm(c)
	defer closeImage()
	if err != nil {
		respondError(c, err, "read artwork form")
		return
	}

	artwork, err := ctrl.artworkService.Create(c.Request.Context(), input, image)
	if err != nil {
		respondError(c, err, "create artwork")
		return
	}
	ctrl.media.artwork(artwork)
	c.JSON(http.StatusCreated, gin.H{"artwork": artwork})
}

// Update edits an artwork, optionally replacing its image
// PUT /api/v1/admin/artworks/:id
func (ctrl *ArtworkController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input, image, closeImage, err := artworkForm(c)
	defer closeImage()
	if err != nil {
		respondError(c, err, "read artwork form")
		return
	}

	artwork, cascade, err := ctrl.artworkService.Update(c.Request.Context(), c.Param("id"), input, image)
	if err != nil {
		respondError(c, err, "update artwork")
		return
	}
	if !cascade.Complete() {
		log.Warn("Artwork updated but the old image was not removed", map[string]interface{}{
			"artwork_id": artwork.ID,
		})
	}
	ctrl.media.artwork(artwork)
	c.JSON(http.StatusOK, gin.H{
		"artwork": artwork,
		"cascade": cascade,
	})
}

// Delete soft-deletes an artwork
// DELETE /api/v1/admin/artworks/:id
func (ctrl *ArtworkController) Delete(c *gin.Context) {
	if err := ctrl.artworkService.Delete(c.Param("id")); err != nil {
		respondError(c, err, "delete artwork")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}

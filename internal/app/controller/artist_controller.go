package controller

import (
	"net/http"

	"github.com/chitram/chitram-backend/internal/app/service"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type ArtistController struct {
	artistService service.ArtistService
	media         media
}

func NewArtistController(artistService service.ArtistService, store storage.Storage) *ArtistController {
	return &ArtistController{
		artistService: artistService,
		media:         media{store: store},
	}
}

func artistQuery(c *gin.Context) service.ArtistQuery {
	return service.ArtistQuery{
		Search: c.Query("q"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Page:   pageParam(c),
	}
}

// artistForm reads the multipart artist form and the optional photo.
func artistForm(c *gin.Context) (service.ArtistInput, *service.Upload, func(), error) {
	age, err := formInt(c, "age")
	if err != nil {
		return service.ArtistInput{}, nil, func() {}, err
	}
	photo, closePhoto, err := formUpload(c, "profile_picture")
	if err != nil {
		return service.ArtistInput{}, nil, closePhoto, err
	}
	return service.ArtistInput{
		FullName:        c.PostForm("full_name"),
		Age:             age,
		StartedArtSince: c.PostForm("started_art_since"),
		CollegeSchool:   c.PostForm("college_school"),
		City:            c.PostForm("city"),
		District:        c.PostForm("district"),
		Email:           c.PostForm("email"),
		Phone:           c.PostForm("phone"),
		Socials:         formSocials(c),
		Bio:             c.PostForm("bio"),
	}, photo, closePhoto, nil
}

// ListPublic returns active artists
// GET /api/v1/artists
func (ctrl *ArtistController) ListPublic(c *gin.Context) {
	result, err := ctrl.artistService.ListPublic(artistQuery(c))
	if err != nil {
		respondError(c, err, "list artists")
		return
	}
	ctrl.media.artists(result.Items)
	c.JSON(http.StatusOK, result)
}

// GetPublic returns an active artist with their listed artworks
// GET /api/v1/artists/:id
func (ctrl *ArtistController) GetPublic(c *gin.Context) {
	profile, err := ctrl.artistService.GetPublic(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch artist")
		return
	}
	ctrl.media.artist(profile.Artist)
	ctrl.media.artworks(profile.Artworks)
	c.JSON(http.StatusOK, profile)
}

// List returns artists for the admin table
// GET /api/v1/admin/artists
func (ctrl *ArtistController) List(c *gin.Context) {
	result, err := ctrl.artistService.List(artistQuery(c))
	if err != nil {
		respondError(c, err, "list artists")
		return
	}
	ctrl.media.artists(result.Items)
	c.JSON(http.StatusOK, result)
}

// Options returns active artists for select inputs
// GET /api/v1/admin/artists/options
func (ctrl *ArtistController) Options(c *gin.Context) {
	options, err := ctrl.artistService.Options()
	if err != nil {
		respondError(c, err, "list artist options")
		return
	}
	c.JSON(http.StatusOK, gin.H{"artists": options})
}

// Get returns an artist in any status
// GET /api/v1/admin/artists/:id
func (ctrl *ArtistController) Get(c *gin.Context) {
	artist, err := ctrl.artistService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch artist")
		return
	}
	ctrl.media.artist(artist)
	c.JSON(http.StatusOK, gin.H{"artist": artist})
}

// Create adds an artist directly
// POST /api/v1/admin/artists
func (ctrl *ArtistController) Create(c *gin.Context) {
	input, photo, closePhoto, err := artistForm(c)
	defer closePhoto()
	if err != nil {
		respondError(c, err, "read artist form")
		return
	}

	artist, err := ctrl.artistService.Create(c.Request.Context(), input, photo)
	if err != nil {
		respondError(c, err, "create artist")
		return
	}
	ctrl.media.artist(artist)
	c.JSON(http.StatusCreated, gin.H{"artist": artist})
}

// Update edits an active artist, optionally replacing the photo
// PUT /api/v1/admin/artists/:id
func (ctrl *ArtistController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input, photo, closePhoto, err := artistForm(c)
	defer closePhoto()
	if err != nil {
		respondError(c, err, "read artist form")
		return
	}

	artist, cascade, err := ctrl.artistService.Update(c.Request.Context(), c.Param("id"), input, photo)
	if err != nil {
		respondError(c, err, "update artist")
		return
	}
	if !cascade.Complete() {
		log.Warn("Artist updated but the old photo was not removed", map[string]interface{}{
			"artist_id": artist.ID,
		})
	}
	ctrl.media.artist(artist)
	c.JSON(http.StatusOK, gin.H{
		"artist":  artist,
		"cascade": cascade,
	})
}

// Delete soft-deletes an artist
// DELETE /api/v1/admin/artists/:id
func (ctrl *ArtistController) Delete(c *gin.Context) {
	if err := ctrl.artistService.Delete(c.Param("id")); err != nil {
		respondError(c, err, "delete artist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted"})
}

// Reconcile recomputes every artist's counters on demand
// POST /api/v1/admin/artists/reconcile
func (ctrl *ArtistController) Reconcile(c *gin.Context) {
	fixed, err := ctrl.artistService.ReconcileCounters(c.Request.Context())
	if err != nil {
		respondError(c, err, "reconcile artist counters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fixed": fixed})
}

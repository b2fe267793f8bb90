package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/internal/app/service"
	"github.com/chitram/chitram-backend/internal/db"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR fake png body")

type controllerEnv struct {
	db     *gorm.DB
	store  *storage.LocalStorage
	router *gin.Engine

	artists  service.ArtistService
	artworks service.ArtworkService
	orders   service.OrderService
	messages service.MessageService
}

// asAdmin stands in for the auth guard.
func asAdmin(c *gin.Context) {
	c.Set(middleware.AdminIDKey, "admin-1")
	c.Set(middleware.AdminUsernameKey, "curator")
	c.Next()
}

func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	applicationRepo := repository.NewApplicationRepository(testDB)
	artistRepo := repository.NewArtistRepository(testDB)
	artworkRepo := repository.NewArtworkRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	messageRepo := repository.NewMessageRepository(testDB)
	pageViewRepo := repository.NewPageViewRepository(testDB)
	publisher := events.Noop()

	env := &controllerEnv{
		db:       testDB,
		store:    store,
		artists:  service.NewArtistService(artistRepo, artworkRepo, store, publisher),
		artworks: service.NewArtworkService(artworkRepo, artistRepo, store, publisher, testDB),
		orders:   service.NewOrderService(orderRepo, artworkRepo, publisher),
		messages: service.NewMessageService(messageRepo, publisher),
	}
	applications := service.NewApplicationService(applicationRepo, artistRepo, store, publisher)
	stats := service.NewStatsService(pageViewRepo, artistRepo, artworkRepo, orderRepo, messageRepo, applicationRepo)

	applicationCtrl := NewApplicationController(applications, store)
	artistCtrl := NewArtistController(env.artists, store)
	artworkCtrl := NewArtworkController(env.artworks, store)
	orderCtrl := NewOrderController(env.orders)
	messageCtrl := NewMessageController(env.messages)
	statsCtrl := NewStatsController(stats, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/applications", applicationCtrl.Submit)
	r.GET("/artists", artistCtrl.ListPublic)
	r.GET("/artists/:id", artistCtrl.GetPublic)
	r.GET("/artworks", artworkCtrl.Catalog)
	r.GET("/artworks/search", artworkCtrl.QuickSearch)
	r.GET("/artworks/latest", artworkCtrl.Latest)
	r.GET("/artworks/categories", artworkCtrl.Categories)
	r.GET("/artworks/:id", artworkCtrl.GetPublic)
	r.GET("/stats", statsCtrl.SiteStats)
	r.POST("/contact", messageCtrl.Submit)
	r.POST("/orders", orderCtrl.Place)
	r.GET("/orders/track", orderCtrl.Track)

	admin := r.Group("/admin", asAdmin)
	admin.GET("/dashboard", statsCtrl.Dashboard)
	admin.GET("/applications", applicationCtrl.List)
	admin.GET("/applications/:id", applicationCtrl.Get)
	admin.PATCH("/applications/:id/status", applicationCtrl.UpdateStatus)
	admin.DELETE("/applications/:id", applicationCtrl.Delete)
	admin.GET("/artists", artistCtrl.List)
	admin.GET("/artists/options", artistCtrl.Options)
	admin.POST("/artists", artistCtrl.Create)
	admin.POST("/artists/reconcile", artistCtrl.Reconcile)
	admin.GET("/artists/:id", artistCtrl.Get)
	admin.PUT("/artists/:id", artistCtrl.Update)
	admin.DELETE("/artists/:id", artistCtrl.Delete)
	admin.GET("/artworks", artworkCtrl.List)
	admin.POST("/artworks", artworkCtrl.Create)
	admin.GET("/artworks/:id", artworkCtrl.Get)
	admin.PUT("/artworks/:id", artworkCtrl.Update)
	admin.DELETE("/artworks/:id", artworkCtrl.Delete)
	admin.GET("/orders", orderCtrl.List)
	admin.GET("/orders/export", orderCtrl.Export)
	admin.GET("/orders/:id", orderCtrl.Get)
	admin.PATCH("/orders/:id/status", orderCtrl.UpdateStatus)
	admin.DELETE("/orders/:id", orderCtrl.Delete)
	admin.GET("/messages", messageCtrl.Inbox)
	admin.GET("/messages/archive", messageCtrl.Archive)
	admin.GET("/messages/:id", messageCtrl.Get)
	admin.POST("/messages/:id/open", messageCtrl.Open)
	admin.PATCH("/messages/:id/status", messageCtrl.UpdateStatus)
	admin.DELETE("/messages/:id", messageCtrl.Delete)

	env.router = r
	return env
}

type formFile struct {
	field       string
	filename    string
	contentType string
	body        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (env *controllerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *controllerEnv) sendMultipart(t *testing.T, method, path string, fields map[string]string, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files...)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	return env.do(req)
}

func (env *controllerEnv) sendJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return env.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// seedArtwork creates an active artist with one listed artwork.
func (env *controllerEnv) seedArtwork(t *testing.T, name string, cost float64) (artistID, artworkID string) {
	t.Helper()
	w := env.sendMultipart(t, http.MethodPost, "/admin/artists", map[string]string{
		"full_name": "Asha Rai",
		"age":       "30",
		"email":     fmt.Sprintf("%s@artists.test", name),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	artistID = decode(t, w)["artist"].(map[string]interface{})["id"].(string)

	w = env.sendMultipart(t, http.MethodPost, "/admin/artworks", map[string]string{
		"artist_id": artistID,
		"name":      name,
		"category":  "Painting",
		"cost":      fmt.Sprintf("%.2f", cost),
	}, formFile{field: "image", filename: name + ".png", body: pngBytes})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	artworkID = decode(t, w)["artwork"].(map[string]interface{})["id"].(string)
	return artistID, artworkID
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

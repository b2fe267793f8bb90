package controller

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtworkController_CreateAndCatalog(t *testing.T) {
	env := setupControllerTest(t)
	artistID, artworkID := env.seedArtwork(t, "Lotus", 450)

	w := env.do(newRequest(http.MethodGet, "/admin/artists/"+artistID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["artist"].(map[string]interface{})["arts_uploaded"])

	w = env.do(newRequest(http.MethodGet, "/artworks?category=painting"))
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(20), page["page_size"])
	item := page["items"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, item["image_url"], "/uploads/artworks/")

	w = env.do(newRequest(http.MethodGet, "/artworks/"+artworkID))
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)
	assert.Equal(t, "Lotus", detail["artwork"].(map[string]interface{})["name"])
	assert.Empty(t, detail["related"])

	w = env.do(newRequest(http.MethodGet, "/artworks/search?q=l"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["artworks"])

	w = env.do(newRequest(http.MethodGet, "/artworks/search?q=lot"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["artworks"], 1)

	w = env.do(newRequest(http.MethodGet, "/artworks/categories"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"painting"}, decode(t, w)["categories"])

	w = env.do(newRequest(http.MethodGet, "/artworks/latest"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["artworks"], 1)
}

func TestArtworkController_CreateRejections(t *testing.T) {
	env := setupControllerTest(t)
	artistID, _ := env.seedArtwork(t, "Lotus", 450)

	fields := map[string]string{"artist_id": artistID, "name": "River", "category": "painting", "cost": "100"}

	w := env.sendMultipart(t, http.MethodPost, "/admin/artworks", fields)
	assert.Equal(t, http.StatusBadRequest, w.Code, "image is required")

	big := bytes.Repeat([]byte{0}, 10<<20+1)
	copy(big, pngBytes)
	w = env.sendMultipart(t, http.MethodPost, "/admin/artworks", fields,
		formFile{field: "image", filename: "huge.png", contentType: "image/png", body: big})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UPLOAD_FILE_TOO_LARGE", decode(t, w)["error"])

	fields["cost"] = "free"
	w = env.sendMultipart(t, http.MethodPost, "/admin/artworks", fields,
		formFile{field: "image", filename: "river.png", body: pngBytes})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	fields["cost"] = "100"
	fields["artist_id"] = "missing"
	w = env.sendMultipart(t, http.MethodPost, "/admin/artworks", fields,
		formFile{field: "image", filename: "river.png", body: pngBytes})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ARTIST_NOT_FOUND", decode(t, w)["error"])
}

func TestArtworkController_UpdateAndDelete(t *testing.T) {
	env := setupControllerTest(t)
	artistID, artworkID := env.seedArtwork(t, "Lotus", 450)

	w := env.sendMultipart(t, http.MethodPut, "/admin/artworks/"+artworkID, map[string]string{
		"artist_id": artistID,
		"name":      "Lotus",
		"category":  "painting",
		"cost":      "500",
		"status":    "sold",
	}, formFile{field: "image", filename: "lotus-v2.png", body: pngBytes})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "sold", body["artwork"].(map[string]interface{})["status"])
	effects := body["cascade"].(map[string]interface{})["effects"].([]interface{})
	assert.Equal(t, "old_file_removed", effects[0].(map[string]interface{})["name"])

	w = env.sendMultipart(t, http.MethodPut, "/admin/artworks/"+artworkID, map[string]string{
		"artist_id": artistID,
		"name":      "Lotus",
		"category":  "painting",
		"cost":      "500",
		"status":    "deleted",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_STATUS", decode(t, w)["error"])

	w = env.do(newRequest(http.MethodGet, "/artworks/"+artworkID))
	assert.Equal(t, http.StatusNotFound, w.Code, "sold artworks leave the public catalog")

	w = env.do(newRequest(http.MethodDelete, "/admin/artworks/"+artworkID))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(newRequest(http.MethodGet, "/admin/artists/"+artistID))
	require.Equal(t, http.StatusOK, w.Code)
	artist := decode(t, w)["artist"].(map[string]interface{})
	assert.Equal(t, float64(0), artist["arts_uploaded"])
	assert.Equal(t, float64(0), artist["arts_sold"])

	w = env.do(newRequest(http.MethodPost, "/admin/artists/reconcile"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["fixed"])
}

package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistController_PublicAndAdminViews(t *testing.T) {
	env := setupControllerTest(t)
	artistID, _ := env.seedArtwork(t, "Lotus", 450)

	w := env.do(newRequest(http.MethodGet, "/artists"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = env.do(newRequest(http.MethodGet, "/artists/"+artistID))
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "Asha Rai", profile["artist"].(map[string]interface{})["full_name"])
	assert.Len(t, profile["artworks"], 1)

	w = env.do(newRequest(http.MethodDelete, "/admin/artists/"+artistID))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(newRequest(http.MethodGet, "/artists/"+artistID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(newRequest(http.MethodGet, "/admin/artists/"+artistID))
	require.Equal(t, http.StatusOK, w.Code, "deleted artists stay resolvable by id")
	assert.Equal(t, "deleted", decode(t, w)["artist"].(map[string]interface{})["status"])

	w = env.do(newRequest(http.MethodGet, "/admin/artists?status=deleted"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func TestArtistController_CreateAndUpdate(t *testing.T) {
	env := setupControllerTest(t)

	w := env.sendMultipart(t, http.MethodPost, "/admin/artists", map[string]string{
		"full_name": "Hari Lal",
		"age":       "40",
		"email":     "hari@example.com",
		"instagram": "@hari",
	}, formFile{field: "profile_picture", filename: "hari.png", body: pngBytes})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	artist := decode(t, w)["artist"].(map[string]interface{})
	id := artist["id"].(string)
	assert.Contains(t, artist["profile_picture_url"], "/uploads/profiles/")

	w = env.sendMultipart(t, http.MethodPost, "/admin/artists", map[string]string{
		"full_name": "Hari Again",
		"age":       "41",
		"email":     "HARI@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decode(t, w)["error"])

	w = env.sendMultipart(t, http.MethodPut, "/admin/artists/"+id, map[string]string{
		"full_name": "Hari Lal Shrestha",
		"age":       "40",
		"email":     "hari@example.com",
	}, formFile{field: "profile_picture", filename: "hari2.png", body: pngBytes})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Hari Lal Shrestha", body["artist"].(map[string]interface{})["full_name"])
	effects := body["cascade"].(map[string]interface{})["effects"].([]interface{})
	assert.Equal(t, "applied", effects[0].(map[string]interface{})["status"])

	w = env.sendMultipart(t, http.MethodPost, "/admin/artists", map[string]string{
		"full_name": "No Age",
		"email":     "noage@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

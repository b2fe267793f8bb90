package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageController_Flow(t *testing.T) {
	env := setupControllerTest(t)

	w := env.sendJSON(t, http.MethodPost, "/contact", map[string]string{
		"full_name": "Visitor",
		"email":     "visitor@example.com",
		"subject":   "Commission",
		"message":   "Do you take commissions?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["message_id"].(string)

	w = env.sendJSON(t, http.MethodPost, "/contact", map[string]string{"full_name": "Visitor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(newRequest(http.MethodGet, "/admin/messages/"+id))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unread", decode(t, w)["message"].(map[string]interface{})["status"])

	w = env.do(newRequest(http.MethodPost, "/admin/messages/"+id+"/open"))
	require.Equal(t, http.StatusOK, w.Code)
	opened := decode(t, w)
	assert.Equal(t, true, opened["marked_read"])
	assert.Equal(t, "read", opened["message"].(map[string]interface{})["status"])

	w = env.do(newRequest(http.MethodPost, "/admin/messages/"+id+"/open"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["marked_read"])

	w = env.sendJSON(t, http.MethodPatch, "/admin/messages/"+id+"/status", map[string]string{"status": "archived"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(newRequest(http.MethodGet, "/admin/messages"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total"])

	w = env.do(newRequest(http.MethodGet, "/admin/messages/archive"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = env.do(newRequest(http.MethodDelete, "/admin/messages/"+id))
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(newRequest(http.MethodPost, "/admin/messages/"+id+"/open"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MESSAGE_NOT_FOUND", decode(t, w)["error"])
}

func TestStatsController(t *testing.T) {
	env := setupControllerTest(t)
	env.seedArtwork(t, "Lotus", 450)

	w := env.do(newRequest(http.MethodGet, "/stats"))
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.Equal(t, float64(1), stats["artworks"])
	assert.Equal(t, float64(1), stats["artists"])

	w = env.do(newRequest(http.MethodGet, "/admin/dashboard"))
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := decode(t, w)["dashboard"].(map[string]interface{})
	assert.Equal(t, float64(1), dashboard["artworks"])
	assert.NotContains(t, decode(t, w), "live_admins")
}

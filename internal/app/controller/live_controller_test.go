package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveController_ForwardsEvents(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/live", asAdmin, NewLiveController(hub, []string{"http://gallery.test"}).Connect)
	server := httptest.NewServer(r)
	defer server.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/admin/live", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectedAdmins() == 1 }, time.Second, 5*time.Millisecond)

	publisher := events.NewHubPublisher(hub)
	require.NoError(t, publisher.Publish(context.Background(), events.New(events.OrderPlaced, map[string]string{"order_id": "CHT-1-ABCDE"})))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "order.placed", event["type"])
	assert.Equal(t, "CHT-1-ABCDE", event["data"].(map[string]interface{})["order_id"])
}

func TestLiveController_RejectsPlainHTTP(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/live", asAdmin, NewLiveController(hub, []string{"http://gallery.test"}).Connect)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/live", nil))
	assert.Equal(t, 400, w.Code)
	assert.Zero(t, hub.ConnectedAdmins())
}

func TestLiveController_OriginCheck(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/live", asAdmin, NewLiveController(hub, []string{"http://gallery.test"}).Connect)
	server := httptest.NewServer(r)
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/admin/live"

	_, resp, err := gorilla.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hub.ConnectedAdmins())

	conn, _, err := gorilla.DefaultDialer.Dial(url, http.Header{"Origin": {"http://gallery.test"}})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectedAdmins() == 1 }, time.Second, 5*time.Millisecond)
}

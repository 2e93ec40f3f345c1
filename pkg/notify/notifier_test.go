package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"events-api/websocket"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierPostsConfirmation(t *testing.T) {
	var got Confirmation
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	err := n.NotifyConfirmation(context.Background(), Confirmation{
		EventID:    "event-1a2b3c4d",
		EventTitle: "Tax Workshop",
		Date:       "2025-01-05",
		Time:       "14:30",
		Location:   "12 Hillel St, Floor 3",
		Name:       "Dana Levi",
		Email:      "dana@example.com",
		Phone:      "+972-50-000-0000",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "event-1a2b3c4d", got.EventID)
	assert.Equal(t, "12 Hillel St, Floor 3", got.Location)
	assert.Equal(t, "dana@example.com", got.Email)
}

func TestWebhookNotifierErrorsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	err := n.NotifyConfirmation(context.Background(), Confirmation{EventID: "event-1a2b3c4d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWebhookNotifierErrorsOnUnreachableHost(t *testing.T) {
	n := NewWebhookNotifier("http://127.0.0.1:1/confirm", 100*time.Millisecond)
	err := n.NotifyConfirmation(context.Background(), Confirmation{EventID: "event-1a2b3c4d"})
	assert.Error(t, err)
}

func TestWebhookNotifierWithoutURLIsNoop(t *testing.T) {
	n := NewWebhookNotifier("", time.Second)
	assert.NoError(t, n.NotifyConfirmation(context.Background(), Confirmation{}))
}

func TestWSNotifierDeliversStatusToConnectedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := websocket.NewHub()
	r := gin.New()
	r.GET("/ws", websocket.ServeWS(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	time.Sleep(50 * time.Millisecond)

	notifier := &WSNotifier{Hub: hub}
	notifier.NotifyStatus(map[string]interface{}{"type": "eventStatus", "events": []string{}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"eventStatus","events":[]}`, string(msg))
}

func TestWSNotifierNilSafety(t *testing.T) {
	var n *WSNotifier
	assert.NotPanics(t, func() { n.NotifyStatus("ignored") })
	assert.NotPanics(t, func() { (&WSNotifier{}).NotifyStatus("ignored") })
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"events-api/middleware"
	"events-api/models"
	"events-api/pkg/notify"
	"events-api/pkg/sheets"
	"events-api/repository"

	"github.com/gin-gonic/gin"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// testEnv wires the full route table against in-memory stores, mirroring the
// wiring in main.go.
type testEnv struct {
	router        *gin.Engine
	events        *repository.MemoryEventsStore
	registrations *repository.MemoryRegistrationStore
	attendees     *repository.MemoryAttendeeStore
	source        *sheets.StaticSource
	confirmations *recordingNotifier
	statuses      *recordingStatusNotifier
}

// recordingNotifier captures confirmation payloads instead of POSTing them.
type recordingNotifier struct {
	sent []notify.Confirmation
	err  error
}

func (n *recordingNotifier) NotifyConfirmation(ctx context.Context, payload notify.Confirmation) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, payload)
	return nil
}

// recordingStatusNotifier captures status snapshots instead of broadcasting
// them over the websocket hub.
type recordingStatusNotifier struct {
	broadcasts []interface{}
}

func (n *recordingStatusNotifier) NotifyStatus(event interface{}) {
	n.broadcasts = append(n.broadcasts, event)
}

func newTestEnv(passwordHash string) *testEnv {
	env := &testEnv{
		events:        repository.NewMemoryEventsStore(),
		registrations: repository.NewMemoryRegistrationStore(),
		attendees:     repository.NewMemoryAttendeeStore(),
		source:        &sheets.StaticSource{},
		confirmations: &recordingNotifier{},
		statuses:      &recordingStatusNotifier{},
	}

	authHandler := NewAuthHandler(testJWTSecret, passwordHash)
	eventsHandler := NewEventsHandler(env.events, env.attendees)
	registrationsHandler := NewRegistrationsHandler(env.events, env.registrations, env.attendees).
		WithConfirmationNotifier(env.confirmations).
		WithStatusNotifier(env.statuses)
	syncHandler := NewSyncHandler(env.source, env.events).
		WithAfterSync(registrationsHandler.BroadcastStatus)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/health", HealthCheck)
	r.GET("/api/events", eventsHandler.GetPublicEvents)
	r.GET("/api/events/status", registrationsHandler.GetEventStatus)
	r.POST("/api/register", registrationsHandler.Register)
	r.POST("/auth/token", authHandler.IssueToken)

	auth := r.Group("/", AuthMiddleware(testJWTSecret))
	{
		auth.POST("/api/sync", syncHandler.Sync)
		auth.GET("/api/events/:id", eventsHandler.GetEventDetails)
		auth.GET("/api/events/:id/attendees", eventsHandler.GetEventAttendees)
	}

	env.router = r
	return env
}

func (env *testEnv) seed(events ...models.Event) {
	_ = env.events.ReplaceBatch(context.Background(), events)
}

func (env *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func sampleEvent() models.Event {
	return models.Event{
		ID:               "event-1a2b3c4d",
		Title:            "Tax Workshop",
		Description:      "Cross-border basics",
		Date:             "2025-01-05",
		Time:             "14:30",
		City:             "Jerusalem",
		ExactAddress:     "12 Hillel St, Floor 3",
		Capacity:         2,
		RegistrationOpen: true,
	}
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"events-api/models"
	"events-api/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration(eventID string) map[string]string {
	return map[string]string{
		"eventId":    eventID,
		"eventTitle": "Tax Workshop",
		"name":       "Dana Levi",
		"email":      "dana@example.com",
		"phone":      "+972-50-000-0000",
	}
}

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent()
	env.seed(event)

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["message"], "Registration successful")

	count, err := env.registrations.Count(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterMissingEmailIsRejectedWithoutCounterMutation(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent()
	env.seed(event)

	req := registration(event.ID)
	delete(req, "email")
	w := env.do(http.MethodPost, "/api/register", req, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Contains(t, errObj["message"], "Missing required fields")

	count, err := env.registrations.Count(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, env.confirmations.sent)
}

func TestRegisterUnknownEvent(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	w := env.do(http.MethodPost, "/api/register", registration("event-ffffffff"), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestRegisterClosedEvent(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent()
	event.RegistrationOpen = false
	env.seed(event)

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "REGISTRATION_CLOSED", errObj["code"])
}

func TestRegisterCapacityGate(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent() // capacity 2
	env.seed(event)

	for i := 0; i < 2; i++ {
		w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
		require.Equal(t, http.StatusOK, w.Code, "registration %d should be accepted", i+1)
	}

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "EVENT_FULL", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, float64(0), details["available"])

	count, err := env.registrations.Count(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRegisterSendsConfirmationWithExactAddress(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent()
	env.seed(event)

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, env.confirmations.sent, 1)
	sent := env.confirmations.sent[0]
	assert.Equal(t, event.ExactAddress, sent.Location)
	assert.Equal(t, "dana@example.com", sent.Email)
	assert.Equal(t, event.ID, sent.EventID)
}

func TestRegisterSucceedsEvenIfConfirmationWebhookFails(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	env.confirmations.err = assert.AnError
	event := sampleEvent()
	env.seed(event)

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	count, err := env.registrations.Count(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterBroadcastsStatusSnapshot(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent()
	env.seed(event)

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, env.statuses.broadcasts, 1)
	frame, ok := env.statuses.broadcasts[0].(types.StatusBroadcast)
	require.True(t, ok, "broadcast payload should be a StatusBroadcast")
	assert.Equal(t, "eventStatus", frame.Type)
	require.Len(t, frame.Events, 1)
	assert.Equal(t, event.ID, frame.Events[0].ID)
	assert.Equal(t, 1, frame.Events[0].Registered)
	assert.Equal(t, 1, frame.Events[0].Available)
}

func TestRejectedRegistrationDoesNotBroadcast(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	event := sampleEvent()
	event.RegistrationOpen = false
	env.seed(event)

	w := env.do(http.MethodPost, "/api/register", registration(event.ID), "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, env.statuses.broadcasts)
}

func TestEventStatusSnapshot(t *testing.T) {
	env := newTestEnv(testPasswordHash(t, "pw"))
	full := sampleEvent()
	open := models.Event{
		ID: "event-5e6f7a8b", Title: "Pension Seminar", Date: "2025-02-10",
		Time: "18:00", City: "Tel Aviv", ExactAddress: "45 Rothschild Blvd",
		Capacity: 40, RegistrationOpen: true,
	}
	env.seed(full, open)

	for i := 0; i < 2; i++ {
		w := env.do(http.MethodPost, "/api/register", registration(full.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.do(http.MethodGet, "/api/events/status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	events := body["events"].([]interface{})
	require.Len(t, events, 2)

	first := events[0].(map[string]interface{})
	assert.Equal(t, full.ID, first["id"])
	assert.Equal(t, float64(2), first["registered"])
	assert.Equal(t, float64(0), first["available"])
	assert.Equal(t, true, first["isFull"])

	second := events[1].(map[string]interface{})
	assert.Equal(t, open.ID, second["id"])
	assert.Equal(t, float64(0), second["registered"])
	assert.Equal(t, float64(40), second["available"])
	assert.Equal(t, false, second["isFull"])
}

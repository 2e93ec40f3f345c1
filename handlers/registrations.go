package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"events-api/pkg/notify"
	"events-api/repository"
	"events-api/types"

	"github.com/gin-gonic/gin"
)

type RegistrationsHandler struct {
	events        repository.EventsStore
	registrations repository.RegistrationStore
	attendees     repository.AttendeeStore
	confirmation  notify.ConfirmationNotifier
	status        notify.StatusNotifier
}

func NewRegistrationsHandler(
	events repository.EventsStore,
	registrations repository.RegistrationStore,
	attendees repository.AttendeeStore,
) *RegistrationsHandler {
	return &RegistrationsHandler{
		events:        events,
		registrations: registrations,
		attendees:     attendees,
		confirmation:  notify.NopConfirmationNotifier{},
	}
}

func (h *RegistrationsHandler) WithConfirmationNotifier(n notify.ConfirmationNotifier) *RegistrationsHandler {
	if n != nil {
		h.confirmation = n
	}
	return h
}

func (h *RegistrationsHandler) WithStatusNotifier(n notify.StatusNotifier) *RegistrationsHandler {
	h.status = n
	return h
}

// GetEventStatus reports per-event registration counts against the capacity
// from the public batch. Capacity lives with the event, never in the counter
// store.
func (h *RegistrationsHandler) GetEventStatus(c *gin.Context) {
	statuses, err := h.statusSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to get event status"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": statuses})
}

// Register handles a registration submission: validates the payload, checks
// the event exists and is open, takes a seat through the atomic counter, and
// records the attendee. The capacity rejection is an expected outcome with
// its own code, not an error path.
func (h *RegistrationsHandler) Register(c *gin.Context) {
	var req types.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Missing required fields"))
		return
	}

	ctx := c.Request.Context()
	event, err := h.events.PrivateEvent(ctx, req.EventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to load event"))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}
	if !event.RegistrationOpen {
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeClosed, "Registration is closed for this event"))
		return
	}

	result, err := h.registrations.TryIncrement(ctx, event.ID, event.Capacity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to register"))
		return
	}
	if !result.Accepted {
		c.JSON(http.StatusConflict, types.NewErrorResponseWithDetails(
			types.ErrorCodeEventFull,
			"This event is full",
			map[string]interface{}{"registered": result.NewCount, "available": result.Available},
		))
		return
	}

	if err := h.attendees.Record(ctx, types.Attendee{
		EventID: event.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
	}); err != nil {
		// The seat is taken but the contact record failed; surface it rather
		// than pretending the registration is complete.
		slog.Error("attendee record failed after accepted increment", "event", event.ID, "err", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Registration could not be stored"))
		return
	}

	h.notifyConfirmation(event.ID, req, event.ExactAddress, event.Date, event.Time)
	h.BroadcastStatus()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful! Check your email for confirmation.",
	})
}

// notifyConfirmation hands the accepted registration to the downstream
// confirmation webhook. Failures are logged; the registration stands.
func (h *RegistrationsHandler) notifyConfirmation(eventID string, req types.RegistrationRequest, exactAddress, date, timeOfDay string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := h.confirmation.NotifyConfirmation(ctx, notify.Confirmation{
		EventID:    eventID,
		EventTitle: req.EventTitle,
		Date:       date,
		Time:       timeOfDay,
		Location:   exactAddress,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		slog.Warn("confirmation webhook delivery failed", "event", eventID, "err", err)
	}
}

func (h *RegistrationsHandler) statusSnapshot(ctx context.Context) ([]types.EventStatus, error) {
	events, err := h.events.PublicEvents(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]types.EventStatus, 0, len(events))
	for _, e := range events {
		// Counter read failures degrade to a zero count; a stale number on
		// the site beats a broken status endpoint.
		status, err := h.registrations.Status(ctx, e.ID, e.Capacity)
		if err != nil {
			slog.Warn("counter read failed, degrading to zero", "event", e.ID, "err", err)
			status = types.EventStatus{ID: e.ID, Capacity: e.Capacity, Available: e.Capacity}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// BroadcastStatus pushes a fresh status snapshot to websocket clients. Called
// after accepted registrations and, via the sync hook, after catalog swaps.
func (h *RegistrationsHandler) BroadcastStatus() {
	if h.status == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	statuses, err := h.statusSnapshot(ctx)
	if err != nil {
		slog.Warn("status broadcast skipped", "err", err)
		return
	}
	h.status.NotifyStatus(types.StatusBroadcast{Type: "eventStatus", Events: statuses})
}

package handlers

import (
	"net/http"

	"events-api/repository"
	"events-api/types"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	events    repository.EventsStore
	attendees repository.AttendeeStore
}

func NewEventsHandler(events repository.EventsStore, attendees repository.AttendeeStore) *EventsHandler {
	return &EventsHandler{events: events, attendees: attendees}
}

// GetPublicEvents returns the public batch for the website. The response
// shape is fixed ({success, events}) because the site's browser code consumes
// it directly.
func (h *EventsHandler) GetPublicEvents(c *gin.Context) {
	events, err := h.events.PublicEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to load events"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}

// GetEventDetails returns the full-detail view, including the exact address,
// for the confirmation pipeline. Reachable only behind AuthMiddleware.
func (h *EventsHandler) GetEventDetails(c *gin.Context) {
	event, err := h.events.PrivateEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to load event details"))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

// GetEventAttendees lists stored registrations for one event. Reachable only
// behind AuthMiddleware.
func (h *EventsHandler) GetEventAttendees(c *gin.Context) {
	id := c.Param("id")
	event, err := h.events.PrivateEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to load event"))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}
	attendees, err := h.attendees.ListByEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to load attendees"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"eventId": id, "attendees": attendees}))
}

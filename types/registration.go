package types

// RegistrationRequest is the registration-submit payload. Every field is
// required; the handler rejects partial submissions before touching the
// counter.
type RegistrationRequest struct {
	EventID    string `json:"eventId" binding:"required"`
	EventTitle string `json:"eventTitle" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

// IncrementResult reports the outcome of one capacity-gated increment.
type IncrementResult struct {
	Accepted  bool `json:"accepted"`
	NewCount  int  `json:"newCount"`
	Available int  `json:"available"`
}

// EventStatus is the per-event registration snapshot exposed by the status
// endpoint and pushed over the websocket hub.
type EventStatus struct {
	ID         string `json:"id"`
	Capacity   int    `json:"capacity"`
	Registered int    `json:"registered"`
	Available  int    `json:"available"`
	IsFull     bool   `json:"isFull"`
}

// StatusBroadcast is the websocket frame wrapping a full status snapshot.
type StatusBroadcast struct {
	Type   string        `json:"type"`
	Events []EventStatus `json:"events"`
}

// Attendee is one stored registration record. Visible only through
// authenticated endpoints; it never rides along with public event data.
type Attendee struct {
	ID      int    `json:"id"`
	EventID string `json:"eventId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

package models

// Event is the canonical record produced by one sync run. It carries both the
// coarse city and the exact street address; only projections leave this
// package, never the canonical record itself.
type Event struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	City             string `json:"city"`
	ExactAddress     string `json:"exactAddress"`
	Capacity         int    `json:"capacity"`
	RegistrationOpen bool   `json:"registrationOpen"`
}

// PublicEvent is the projection safe for unauthenticated display. It has no
// field that can carry the exact address, so serializing it cannot leak one.
type PublicEvent struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	Capacity         int    `json:"capacity"`
	RegistrationOpen bool   `json:"registrationOpen"`
}

// PrivateEvent is the projection used by the confirmation pipeline. Location
// keeps the public city string; ExactAddress carries the restricted value.
type PrivateEvent struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	ExactAddress     string `json:"exactAddress"`
	Capacity         int    `json:"capacity"`
	RegistrationOpen bool   `json:"registrationOpen"`
}

// NewPublicEvent builds the public view by an explicit allow-list copy.
// Fields are named one by one on purpose: a newly added Event field stays out
// of the public view until someone deliberately adds it here.
func NewPublicEvent(e Event) PublicEvent {
	return PublicEvent{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.Date,
		Time:             e.Time,
		Location:         e.City,
		Capacity:         e.Capacity,
		RegistrationOpen: e.RegistrationOpen,
	}
}

// NewPrivateEvent builds the full-detail view for confirmation messaging.
func NewPrivateEvent(e Event) PrivateEvent {
	return PrivateEvent{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.Date,
		Time:             e.Time,
		Location:         e.City,
		ExactAddress:     e.ExactAddress,
		Capacity:         e.Capacity,
		RegistrationOpen: e.RegistrationOpen,
	}
}

// Batch is the paired output of one sync run. Public and Private share the
// same IDs in the same order as Events.
type Batch struct {
	Events  []Event
	Public  []PublicEvent
	Private []PrivateEvent
}

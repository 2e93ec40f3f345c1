package repository

import (
	"context"
	"sync"

	"events-api/models"
	"events-api/types"
)

// In-memory store implementations. Tests wire handlers against these instead
// of Postgres; they honor the same atomicity contracts under a mutex.

type MemoryEventsStore struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewMemoryEventsStore() *MemoryEventsStore {
	return &MemoryEventsStore{}
}

func (s *MemoryEventsStore) ReplaceBatch(ctx context.Context, events []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]models.Event(nil), events...)
	return nil
}

func (s *MemoryEventsStore) PublicEvents(ctx context.Context) ([]models.PublicEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.PublicEvent, 0, len(s.events))
	for _, e := range s.events {
		result = append(result, models.NewPublicEvent(e))
	}
	return result, nil
}

func (s *MemoryEventsStore) PrivateEvent(ctx context.Context, id string) (*models.PrivateEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			view := models.NewPrivateEvent(e)
			return &view, nil
		}
	}
	return nil, nil
}

type MemoryRegistrationStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryRegistrationStore() *MemoryRegistrationStore {
	return &MemoryRegistrationStore{counts: make(map[string]int)}
}

func (s *MemoryRegistrationStore) Count(ctx context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[eventID], nil
}

// TryIncrement holds the lock across the read-modify-write, matching the
// single-statement atomicity of the Postgres implementation.
func (s *MemoryRegistrationStore) TryIncrement(ctx context.Context, eventID string, capacity int) (types.IncrementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := s.counts[eventID]
	if count >= capacity || capacity <= 0 {
		return types.IncrementResult{Accepted: false, NewCount: count, Available: 0}, nil
	}
	count++
	s.counts[eventID] = count
	return types.IncrementResult{Accepted: true, NewCount: count, Available: capacity - count}, nil
}

func (s *MemoryRegistrationStore) Status(ctx context.Context, eventID string, capacity int) (types.EventStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildStatus(eventID, capacity, s.counts[eventID]), nil
}

type MemoryAttendeeStore struct {
	mu        sync.Mutex
	attendees []types.Attendee
}

func NewMemoryAttendeeStore() *MemoryAttendeeStore {
	return &MemoryAttendeeStore{}
}

func (s *MemoryAttendeeStore) Record(ctx context.Context, a types.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = len(s.attendees) + 1
	s.attendees = append(s.attendees, a)
	return nil
}

func (s *MemoryAttendeeStore) ListByEvent(ctx context.Context, eventID string) ([]types.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []types.Attendee{}
	for _, a := range s.attendees {
		if a.EventID == eventID {
			result = append(result, a)
		}
	}
	return result, nil
}

package repository

import (
	"context"
	"database/sql"

	"events-api/types"
)

// RegistrationStore tracks how many attendees registered per event and gates
// further registration against a caller-supplied capacity. Capacity is owned
// by the event catalog, not duplicated here. Counts are never decremented.
//
// TryIncrement must be atomic: two racing increments for the same event may
// never both take the last slot.
type RegistrationStore interface {
	Count(ctx context.Context, eventID string) (int, error)
	TryIncrement(ctx context.Context, eventID string, capacity int) (types.IncrementResult, error)
	Status(ctx context.Context, eventID string, capacity int) (types.EventStatus, error)
}

type RegistrationsRepository struct {
	db *sql.DB
}

func NewRegistrationsRepository(db *sql.DB) *RegistrationsRepository {
	return &RegistrationsRepository{db: db}
}

// Count returns the stored count, or 0 for an event nobody registered for yet.
func (r *RegistrationsRepository) Count(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT count FROM event_registration WHERE event_id = $1
	`, eventID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TryIncrement performs the capacity-gated increment as a single upsert, so
// the read-modify-write cannot interleave with a concurrent registration. The
// WHERE clause on the conflict branch makes a full event yield zero rows.
func (r *RegistrationsRepository) TryIncrement(ctx context.Context, eventID string, capacity int) (types.IncrementResult, error) {
	if capacity <= 0 {
		count, err := r.Count(ctx, eventID)
		if err != nil {
			return types.IncrementResult{}, err
		}
		return types.IncrementResult{Accepted: false, NewCount: count, Available: 0}, nil
	}

	var newCount int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO event_registration (event_id, count)
		VALUES ($1, 1)
		ON CONFLICT (event_id) DO UPDATE
		SET count = event_registration.count + 1
		WHERE event_registration.count < $2
		RETURNING count
	`, eventID, capacity).Scan(&newCount)
	if err == sql.ErrNoRows {
		// Conflict branch rejected the update: the event is full.
		count, cerr := r.Count(ctx, eventID)
		if cerr != nil {
			return types.IncrementResult{}, cerr
		}
		return types.IncrementResult{Accepted: false, NewCount: count, Available: 0}, nil
	}
	if err != nil {
		return types.IncrementResult{}, err
	}
	return types.IncrementResult{Accepted: true, NewCount: newCount, Available: capacity - newCount}, nil
}

// Status combines the stored count with the supplied capacity.
func (r *RegistrationsRepository) Status(ctx context.Context, eventID string, capacity int) (types.EventStatus, error) {
	count, err := r.Count(ctx, eventID)
	if err != nil {
		return types.EventStatus{}, err
	}
	return buildStatus(eventID, capacity, count), nil
}

func buildStatus(eventID string, capacity, count int) types.EventStatus {
	available := capacity - count
	if available < 0 {
		available = 0
	}
	return types.EventStatus{
		ID:         eventID,
		Capacity:   capacity,
		Registered: count,
		Available:  available,
		IsFull:     count >= capacity,
	}
}

package repository

import (
	"context"
	"database/sql"

	"events-api/types"
)

// AttendeeStore persists the contact details of accepted registrations. The
// counter remains the source of truth for the capacity gate; attendee rows
// are the payload the confirmation pipeline reads.
type AttendeeStore interface {
	Record(ctx context.Context, a types.Attendee) error
	ListByEvent(ctx context.Context, eventID string) ([]types.Attendee, error)
}

type AttendeesRepository struct {
	db *sql.DB
}

func NewAttendeesRepository(db *sql.DB) *AttendeesRepository {
	return &AttendeesRepository{db: db}
}

func (r *AttendeesRepository) Record(ctx context.Context, a types.Attendee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendee (event_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
	`, a.EventID, a.Name, a.Email, a.Phone)
	return err
}

func (r *AttendeesRepository) ListByEvent(ctx context.Context, eventID string) ([]types.Attendee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, name, email, phone
		FROM attendee
		WHERE event_id = $1
		ORDER BY id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []types.Attendee{}
	for rows.Next() {
		var a types.Attendee
		if err := rows.Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.Phone); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

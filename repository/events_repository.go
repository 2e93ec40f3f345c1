package repository

import (
	"context"
	"database/sql"

	"events-api/models"
)

// EventsStore is the persisted event catalog written by sync and read by the
// public site and the registration flow. Implementations must make
// ReplaceBatch atomic: readers see the old batch or the new one, never a mix.
type EventsStore interface {
	ReplaceBatch(ctx context.Context, events []models.Event) error
	PublicEvents(ctx context.Context) ([]models.PublicEvent, error)
	PrivateEvent(ctx context.Context, id string) (*models.PrivateEvent, error)
}

type EventsRepository struct {
	db *sql.DB
}

func NewEventsRepository(db *sql.DB) *EventsRepository {
	return &EventsRepository{db: db}
}

// ReplaceBatch swaps the whole catalog inside one transaction. Each sync run
// replaces the prior batch wholesale; registration counters live in their own
// table and survive the swap.
func (r *EventsRepository) ReplaceBatch(ctx context.Context, events []models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event`); err != nil {
		return err
	}
	for i, e := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO event (id, position, title, description, event_date, event_time, city, exact_address, capacity, registration_open)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, e.ID, i, e.Title, e.Description, e.Date, e.Time, e.City, e.ExactAddress, e.Capacity, e.RegistrationOpen)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PublicEvents returns the public batch in sync order. The exact address
// column is deliberately absent from the select list.
func (r *EventsRepository) PublicEvents(ctx context.Context) ([]models.PublicEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, event_date, event_time, city, capacity, registration_open
		FROM event
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.PublicEvent{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.City, &e.Capacity, &e.RegistrationOpen); err != nil {
			return nil, err
		}
		result = append(result, models.NewPublicEvent(e))
	}
	return result, rows.Err()
}

// PrivateEvent returns the full-detail view for one event, or nil when the id
// is unknown.
func (r *EventsRepository) PrivateEvent(ctx context.Context, id string) (*models.PrivateEvent, error) {
	var e models.Event
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, event_date, event_time, city, exact_address, capacity, registration_open
		FROM event
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.City, &e.ExactAddress, &e.Capacity, &e.RegistrationOpen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	view := models.NewPrivateEvent(e)
	return &view, nil
}

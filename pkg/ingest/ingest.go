// Package ingest turns raw spreadsheet rows into the canonical event batch:
// row parsing, date/time canonicalization, and the dual-view projection, in
// source order. The whole pipeline is deterministic, so re-running a sync
// against an unchanged sheet yields an identical batch.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"events-api/globals"
	"events-api/models"
	"events-api/pkg/canonical"
	"events-api/pkg/sheets"
)

// eventID derives a stable identifier from the row's content rather than its
// position, so reordering or inserting rows in the sheet does not silently
// reassign identities (and with them, registration counts). Exact duplicate
// rows get a positional suffix to keep IDs unique within the batch.
func eventID(title, date, timeOfDay string, seen map[string]int, position int) string {
	sum := sha256.Sum256([]byte(title + "\x1f" + date + "\x1f" + timeOfDay))
	id := globals.EventIDPrefix + hex.EncodeToString(sum[:])[:8]
	if _, dup := seen[id]; dup {
		id = fmt.Sprintf("%s-%d", id, position)
	}
	seen[id] = position
	return id
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseRow converts one raw row into a canonical Event, or reports ok=false
// for rows missing the mandatory title or date.
func parseRow(row []string, seen map[string]int, position int) (models.Event, bool) {
	if len(row) < globals.MinColumns {
		return models.Event{}, false
	}
	title := field(row, globals.ColTitle)
	rawDate := field(row, globals.ColDate)
	if title == "" || rawDate == "" {
		return models.Event{}, false
	}

	date := canonical.Date(rawDate)
	timeOfDay := canonical.Time(field(row, globals.ColTime))

	capacity := 0
	if raw := field(row, globals.ColCapacity); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			capacity = n
		}
	}

	return models.Event{
		ID:               eventID(title, date, timeOfDay, seen, position),
		Title:            title,
		Description:      field(row, globals.ColDescription),
		Date:             date,
		Time:             timeOfDay,
		City:             field(row, globals.ColCity),
		ExactAddress:     field(row, globals.ColExactAddress),
		Capacity:         capacity,
		RegistrationOpen: true,
	}, true
}

// Sync pulls all rows from source and produces the paired public/private
// batch. Unusable rows are skipped and logged, never fatal; a source failure
// is returned as-is so the caller keeps its previous output intact.
func Sync(ctx context.Context, source sheets.RowSource) (models.Batch, error) {
	rows, err := source.Rows(ctx)
	if err != nil {
		return models.Batch{}, err
	}

	batch := models.Batch{
		Events:  make([]models.Event, 0, len(rows)),
		Public:  make([]models.PublicEvent, 0, len(rows)),
		Private: make([]models.PrivateEvent, 0, len(rows)),
	}
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		event, ok := parseRow(row, seen, i)
		if !ok {
			slog.Warn("skipping unusable sheet row", "row", i, "fields", len(row))
			continue
		}
		batch.Events = append(batch.Events, event)
		batch.Public = append(batch.Public, models.NewPublicEvent(event))
		batch.Private = append(batch.Private, models.NewPrivateEvent(event))
	}
	return batch, nil
}

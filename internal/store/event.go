package store

import (
	"context"
	"database/sql"
	"fmt"
)

const eventCols = `id, created_at, title, date, COALESCE(description, ''), mandap_id`

func scanEvent(sc interface{ Scan(...any) error }) (ScheduledEvent, Handle, error) {
	var e ScheduledEvent
	err := sc.Scan(&e.ID, &e.CreatedAt, &e.Title, &e.Date, &e.Description, &e.MandapID)
	return e, Handle{ID: e.ID, CreatedAt: e.CreatedAt, Name: e.Title}, err
}

// InsertEvent stores a new scheduled event and returns its id.
func (db *DB) InsertEvent(e *ScheduledEvent) (string, error) {
	db.stamp(&e.ID, &e.CreatedAt)
	if err := db.check(Events, e); err != nil {
		return "", err
	}
	_, err := db.Exec(`
		INSERT INTO events (id, mandap_id, title, date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.MandapID, e.Title, e.Date, e.Description, e.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return e.ID, nil
}

// GetEvent returns a scheduled event by id.
func (db *DB) GetEvent(id string) (*ScheduledEvent, error) {
	row := db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, _, err := scanEvent(row)
	if err != nil {
		return nil, notFound(Events, id, err)
	}
	return &e, nil
}

// QueryEvents returns one page of a mandap's events. The name window
// applies to the event title.
func (db *DB) QueryEvents(ctx context.Context, q PageQuery) (Page[ScheduledEvent], error) {
	return queryPage(ctx, db, Events, "title", eventCols, q, func(rows *sql.Rows) (ScheduledEvent, Handle, error) {
		return scanEvent(rows)
	})
}

// DeleteEvent removes an event.
func (db *DB) DeleteEvent(id string) error {
	return deleteByID(db, Events, id)
}

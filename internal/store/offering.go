package store

import (
	"context"
	"database/sql"
	"fmt"
)

const offeringCols = `id, created_at, name, gothram, phone, address, rupees,
	COALESCE(NULLIF(submitted_by, ''), '` + AnonymousSubmitter + `'), mandap_id`

func scanOffering(sc interface{ Scan(...any) error }) (Contribution, Handle, error) {
	var c Contribution
	err := sc.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Gothram, &c.Phone, &c.Address, &c.Rupees, &c.SubmittedBy, &c.MandapID)
	return c, Handle{ID: c.ID, CreatedAt: c.CreatedAt, Name: c.Name}, err
}

// InsertOffering stores a new contribution and returns its id.
func (db *DB) InsertOffering(c *Contribution) (string, error) {
	db.stamp(&c.ID, &c.CreatedAt)
	if c.SubmittedBy == "" {
		c.SubmittedBy = AnonymousSubmitter
	}
	if err := db.check(Offerings, c); err != nil {
		return "", err
	}
	_, err := db.Exec(`
		INSERT INTO offerings (id, mandap_id, name, gothram, phone, address, rupees, submitted_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.MandapID, c.Name, c.Gothram, c.Phone, c.Address, c.Rupees, c.SubmittedBy, c.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert offering: %w", err)
	}
	return c.ID, nil
}

// GetOffering returns a contribution by id.
func (db *DB) GetOffering(id string) (*Contribution, error) {
	row := db.QueryRow(`SELECT `+offeringCols+` FROM offerings WHERE id = ?`, id)
	c, _, err := scanOffering(row)
	if err != nil {
		return nil, notFound(Offerings, id, err)
	}
	return &c, nil
}

// QueryOfferings returns one page of a mandap's contributions. The name
// window applies to the devotee name.
func (db *DB) QueryOfferings(ctx context.Context, q PageQuery) (Page[Contribution], error) {
	return queryPage(ctx, db, Offerings, "name", offeringCols, q, func(rows *sql.Rows) (Contribution, Handle, error) {
		return scanOffering(rows)
	})
}

// SumOfferings returns the total rupees collected by a mandap.
func (db *DB) SumOfferings(mandapID string) (int64, error) {
	var total int64
	err := db.QueryRow(`SELECT COALESCE(SUM(rupees), 0) FROM offerings WHERE mandap_id = ?`, mandapID).Scan(&total)
	return total, err
}

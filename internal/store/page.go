package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Order selects how a page query walks a collection.
type Order int

const (
	// NewestFirst orders by creation time descending, ties broken by id.
	NewestFirst Order = iota
	// ByName orders by the collection's name field ascending, ties broken by id.
	ByName
)

// Handle is the position of the last record of a page. Scans resume strictly
// after it in the query's order.
type Handle struct {
	ID        string
	CreatedAt int64
	Name      string
}

// PageQuery describes one bounded fetch against a collection.
type PageQuery struct {
	MandapID string
	Order    Order
	// NameFrom and NameTo bound the name field to [NameFrom, NameTo).
	// Both are ignored unless NameTo is set.
	NameFrom string
	NameTo   string
	After    *Handle
	Limit    int
}

// Page is the result of a PageQuery. Last is nil when Records is empty.
type Page[T any] struct {
	Records []T
	Last    *Handle
}

var errNoMandap = errors.New("page query without mandap id")

// where renders the query's predicates. nameCol is the collection's name field.
func (q PageQuery) where(nameCol string) (string, []any, error) {
	if q.MandapID == "" {
		return "", nil, errNoMandap
	}
	if q.Limit <= 0 {
		return "", nil, fmt.Errorf("page query limit %d must be positive", q.Limit)
	}

	conds := []string{"mandap_id = ?"}
	args := []any{q.MandapID}

	if q.NameTo != "" {
		conds = append(conds, nameCol+" >= ?", nameCol+" < ?")
		args = append(args, q.NameFrom, q.NameTo)
	}

	if q.After != nil {
		switch q.Order {
		case NewestFirst:
			conds = append(conds, "(created_at < ? OR (created_at = ? AND id < ?))")
			args = append(args, q.After.CreatedAt, q.After.CreatedAt, q.After.ID)
		case ByName:
			conds = append(conds, "("+nameCol+" > ? OR ("+nameCol+" = ? AND id > ?))")
			args = append(args, q.After.Name, q.After.Name, q.After.ID)
		}
	}
	return strings.Join(conds, " AND "), args, nil
}

func (q PageQuery) orderBy(nameCol string) string {
	if q.Order == ByName {
		return nameCol + " ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}

// queryPage runs a keyset page query. cols must start with id, created_at
// and the name column, in that order, so scan can build the handle.
func queryPage[T any](ctx context.Context, db *DB, kind Collection, nameCol, cols string, q PageQuery, scan func(*sql.Rows) (T, Handle, error)) (Page[T], error) {
	where, args, err := q.where(nameCol)
	if err != nil {
		return Page[T]{}, fmt.Errorf("query %s: %w", kind, err)
	}
	args = append(args, q.Limit)

	rows, err := db.QueryContext(ctx, `SELECT `+cols+` FROM `+string(kind)+`
		WHERE `+where+`
		ORDER BY `+q.orderBy(nameCol)+`
		LIMIT ?`, args...)
	if err != nil {
		return Page[T]{}, fmt.Errorf("query %s: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	var page Page[T]
	for rows.Next() {
		rec, h, err := scan(rows)
		if err != nil {
			return Page[T]{}, fmt.Errorf("scan %s: %w", kind, err)
		}
		if err := db.check(kind, rec); err != nil {
			return Page[T]{}, err
		}
		page.Records = append(page.Records, rec)
		page.Last = &h
	}
	return page, rows.Err()
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps the SQLite database holding every mandap collection.
type DB struct {
	*sql.DB
	validate *validator.Validate
	now      func() time.Time
}

// Open creates a new SQLite connection with WAL mode and recommended pragmas.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{DB: db, validate: validator.New(), now: time.Now}, nil
}

// stamp assigns an id and creation time to a record that has none yet.
func (db *DB) stamp(id *string, createdAt *int64) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if *createdAt == 0 {
		*createdAt = db.now().UnixMilli()
	}
}

// check validates a record against its schema tags.
func (db *DB) check(kind Collection, v any) error {
	if err := db.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid %s record: %w", kind, err)
	}
	return nil
}

func notFound(kind Collection, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return err
}

func deleteByID(db *DB, kind Collection, id string) error {
	res, err := db.Exec(`DELETE FROM `+string(kind)+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

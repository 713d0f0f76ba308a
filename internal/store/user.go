package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// InsertUser stores a new user and returns its id. Usernames are unique
// across all mandaps.
func (db *DB) InsertUser(u *User) (string, error) {
	db.stamp(&u.ID, &u.CreatedAt)
	if err := db.check(Users, u); err != nil {
		return "", err
	}
	_, err := db.Exec(`
		INSERT INTO users (id, username, password_hash, role, mandap_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.MandapID, u.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return u.ID, nil
}

// UserByUsername returns the user with the given username, or nil if none.
func (db *DB) UserByUsername(username string) (*User, error) {
	var u User
	err := db.QueryRow(`
		SELECT id, username, password_hash, role, mandap_id, created_at
		FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.MandapID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns a mandap's users in creation order.
func (db *DB) ListUsers(mandapID string) ([]User, error) {
	rows, err := db.Query(`
		SELECT id, username, password_hash, role, mandap_id, created_at
		FROM users WHERE mandap_id = ?
		ORDER BY created_at ASC`, mandapID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.MandapID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

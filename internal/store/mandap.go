package store

import "fmt"

// InsertMandap stores a new mandap and returns its id.
func (db *DB) InsertMandap(m *Mandap) (string, error) {
	db.stamp(&m.ID, &m.CreatedAt)
	if err := db.check(Mandaps, m); err != nil {
		return "", err
	}
	_, err := db.Exec(`INSERT INTO mandaps (id, name, created_by, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.CreatedBy, m.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert mandap: %w", err)
	}
	return m.ID, nil
}

// GetMandap returns a mandap by id.
func (db *DB) GetMandap(id string) (*Mandap, error) {
	var m Mandap
	err := db.QueryRow(`SELECT id, name, created_by, created_at FROM mandaps WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, notFound(Mandaps, id, err)
	}
	return &m, nil
}

// CreateMandapWithAdmin stores a mandap and its first admin in one transaction.
func (db *DB) CreateMandapWithAdmin(m *Mandap, admin *User) error {
	db.stamp(&m.ID, &m.CreatedAt)
	admin.MandapID = m.ID
	db.stamp(&admin.ID, &admin.CreatedAt)
	if err := db.check(Mandaps, m); err != nil {
		return err
	}
	if err := db.check(Users, admin); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO mandaps (id, name, created_by, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.CreatedBy, m.CreatedAt); err != nil {
		return fmt.Errorf("insert mandap: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO users (id, username, password_hash, role, mandap_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		admin.ID, admin.Username, admin.PasswordHash, admin.Role, admin.MandapID, admin.CreatedAt); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return tx.Commit()
}

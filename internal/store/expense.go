package store

import "fmt"

// InsertExpense stores a new expense and returns its id.
func (db *DB) InsertExpense(e *Expense) (string, error) {
	db.stamp(&e.ID, &e.CreatedAt)
	if err := db.check(Expenses, e); err != nil {
		return "", err
	}
	_, err := db.Exec(`
		INSERT INTO expenses (id, mandap_id, description, amount, category, date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.MandapID, e.Description, e.Amount, e.Category, e.Date, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	return e.ID, nil
}

// GetExpense returns an expense by id.
func (db *DB) GetExpense(id string) (*Expense, error) {
	var e Expense
	err := db.QueryRow(`
		SELECT id, mandap_id, description, amount, category, date, created_by, created_at
		FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.MandapID, &e.Description, &e.Amount, &e.Category, &e.Date, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, notFound(Expenses, id, err)
	}
	return &e, nil
}

// ListExpenses returns every expense of a mandap, newest date first and,
// within a date, most recently recorded first.
func (db *DB) ListExpenses(mandapID string) ([]Expense, error) {
	rows, err := db.Query(`
		SELECT id, mandap_id, description, amount, category, date, created_by, created_at
		FROM expenses
		WHERE mandap_id = ?
		ORDER BY date DESC, created_at DESC`, mandapID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.MandapID, &e.Description, &e.Amount, &e.Category, &e.Date, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SumExpenses returns the total spent by a mandap.
func (db *DB) SumExpenses(mandapID string) (int64, error) {
	var total int64
	err := db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE mandap_id = ?`, mandapID).Scan(&total)
	return total, err
}

// DeleteExpense removes an expense.
func (db *DB) DeleteExpense(id string) error {
	return deleteByID(db, Expenses, id)
}

// Package ledger records a mandap's offerings, events and expenses on
// behalf of a logged-in user.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

// Ledger is the write side of a mandap's books.
type Ledger struct {
	db          *store.DB
	validate    *validator.Validate
	countryCode string
	logger      *zap.Logger
	now         func() time.Time
}

// New creates a ledger. countryCode prefixes phone numbers in receipt links.
func New(db *store.DB, countryCode string, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		db:          db,
		validate:    newValidator(),
		countryCode: countryCode,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordOffering validates f and stores it as submitted by t's user.
func (l *Ledger) RecordOffering(t tenant.Context, f OfferingForm) (*store.Contribution, error) {
	if !t.Valid() {
		return nil, tenant.ErrNoTenant
	}
	trim(&f.Name, &f.Gothram, &f.Phone, &f.Address)
	if err := check(l.validate, f); err != nil {
		return nil, err
	}
	c := &store.Contribution{
		Name:        f.Name,
		Gothram:     f.Gothram,
		Phone:       f.Phone,
		Address:     f.Address,
		Rupees:      f.Rupees,
		SubmittedBy: t.Username(),
		MandapID:    t.MandapID(),
	}
	if _, err := l.db.InsertOffering(c); err != nil {
		return nil, err
	}
	l.logger.Info("offering recorded", zap.String("id", c.ID), zap.Int64("rupees", c.Rupees))
	return c, nil
}

// Receipt is the acknowledgement for one offering.
type Receipt struct {
	Number     string
	Offering   store.Contribution
	MandapName string
	Message    string
	ChatLink   string
	SMSLink    string
}

// ReceiptNumber derives the printed receipt number from an offering id.
func ReceiptNumber(id string) string {
	if len(id) > 6 {
		id = id[:6]
	}
	return "OFF-" + strings.ToUpper(id)
}

// ThankYou is the message sent to a devotee after their offering.
func ThankYou(c store.Contribution, mandapName string) string {
	msg := fmt.Sprintf("Thank you %s for donating ₹%d to %s.", c.Name, c.Rupees, mandapName)
	if c.Gothram != "" {
		msg += fmt.Sprintf(" (Gothram: %s)", c.Gothram)
	}
	return msg
}

// Receipt builds the receipt for offering id of t's mandap.
func (l *Ledger) Receipt(t tenant.Context, id string) (*Receipt, error) {
	c, err := l.db.GetOffering(id)
	if err != nil {
		return nil, err
	}
	if c.MandapID != t.MandapID() {
		return nil, fmt.Errorf("offering %q: %w", id, store.ErrNotFound)
	}
	msg := ThankYou(*c, t.DisplayName())
	return &Receipt{
		Number:     ReceiptNumber(c.ID),
		Offering:   *c,
		MandapName: t.DisplayName(),
		Message:    msg,
		ChatLink:   channel.Link(channel.Chat, l.countryCode+c.Phone, msg),
		SMSLink:    channel.Link(channel.SMS, c.Phone, msg),
	}, nil
}

// TotalCollections returns the rupees collected by t's mandap.
func (l *Ledger) TotalCollections(t tenant.Context) (int64, error) {
	return l.db.SumOfferings(t.MandapID())
}

// AddEvent schedules an event. Admin only.
func (l *Ledger) AddEvent(t tenant.Context, f EventForm) (*store.ScheduledEvent, error) {
	if !t.IsAdmin() {
		return nil, ErrForbidden
	}
	trim(&f.Title, &f.Date, &f.Description)
	if err := check(l.validate, f); err != nil {
		return nil, err
	}
	e := &store.ScheduledEvent{
		Title:       f.Title,
		Date:        f.Date,
		Description: f.Description,
		MandapID:    t.MandapID(),
	}
	if _, err := l.db.InsertEvent(e); err != nil {
		return nil, err
	}
	l.logger.Info("event added", zap.String("id", e.ID), zap.String("date", e.Date))
	return e, nil
}

// Event returns event id of t's mandap.
func (l *Ledger) Event(t tenant.Context, id string) (*store.ScheduledEvent, error) {
	e, err := l.db.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if e.MandapID != t.MandapID() {
		return nil, fmt.Errorf("event %q: %w", id, store.ErrNotFound)
	}
	return e, nil
}

// DeleteEvent removes an event. Admin only.
func (l *Ledger) DeleteEvent(t tenant.Context, id string) error {
	if !t.IsAdmin() {
		return ErrForbidden
	}
	if _, err := l.Event(t, id); err != nil {
		return err
	}
	return l.db.DeleteEvent(id)
}

// Upcoming reports whether an event date is today or later.
func (l *Ledger) Upcoming(date string) bool {
	d, err := time.ParseInLocation(time.DateOnly, date, time.Local)
	if err != nil {
		return false
	}
	y, m, day := l.now().Date()
	return !d.Before(time.Date(y, m, day, 0, 0, 0, 0, time.Local))
}

// AddExpense records an expense. Admin only.
func (l *Ledger) AddExpense(t tenant.Context, f ExpenseForm) (*store.Expense, error) {
	if !t.IsAdmin() {
		return nil, ErrForbidden
	}
	trim(&f.Description, &f.Category, &f.Date)
	if err := check(l.validate, f); err != nil {
		return nil, err
	}
	e := &store.Expense{
		Description: f.Description,
		Amount:      f.Amount,
		Category:    f.Category,
		Date:        f.Date,
		CreatedBy:   t.Username(),
		MandapID:    t.MandapID(),
	}
	if _, err := l.db.InsertExpense(e); err != nil {
		return nil, err
	}
	l.logger.Info("expense added", zap.String("id", e.ID), zap.Int64("amount", e.Amount))
	return e, nil
}

// DeleteExpense removes an expense. Admin only.
func (l *Ledger) DeleteExpense(t tenant.Context, id string) error {
	if !t.IsAdmin() {
		return ErrForbidden
	}
	e, err := l.db.GetExpense(id)
	if err != nil {
		return err
	}
	if e.MandapID != t.MandapID() {
		return fmt.Errorf("expense %q: %w", id, store.ErrNotFound)
	}
	return l.db.DeleteExpense(id)
}

// Expenses lists t's expenses, latest date first. Admin only.
func (l *Ledger) Expenses(t tenant.Context) ([]store.Expense, error) {
	if !t.IsAdmin() {
		return nil, ErrForbidden
	}
	return l.db.ListExpenses(t.MandapID())
}

// Summary is a mandap's balance sheet.
type Summary struct {
	Collections int64
	Expenses    int64
	Balance     int64
}

// Summary totals collections and expenses. Admin only.
func (l *Ledger) Summary(t tenant.Context) (Summary, error) {
	if !t.IsAdmin() {
		return Summary{}, ErrForbidden
	}
	in, err := l.db.SumOfferings(t.MandapID())
	if err != nil {
		return Summary{}, fmt.Errorf("sum offerings: %w", err)
	}
	out, err := l.db.SumExpenses(t.MandapID())
	if err != nil {
		return Summary{}, fmt.Errorf("sum expenses: %w", err)
	}
	return Summary{Collections: in, Expenses: out, Balance: in - out}, nil
}

package ledger

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

// Accounts registers mandaps and authenticates their users.
type Accounts struct {
	db       *store.DB
	validate *validator.Validate
	logger   *zap.Logger
	cost     int
}

// NewAccounts creates the account service.
func NewAccounts(db *store.DB, logger *zap.Logger) *Accounts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accounts{db: db, validate: newValidator(), logger: logger, cost: bcrypt.DefaultCost}
}

// Register creates a mandap with f.Username as its admin and logs them in.
func (a *Accounts) Register(f RegisterForm) (tenant.Context, error) {
	trim(&f.MandapName, &f.Username)
	if err := check(a.validate, f); err != nil {
		return tenant.Context{}, err
	}
	if err := a.available(f.Username); err != nil {
		return tenant.Context{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), a.cost)
	if err != nil {
		return tenant.Context{}, fmt.Errorf("hash password: %w", err)
	}

	m := &store.Mandap{Name: f.MandapName, CreatedBy: f.Username}
	admin := &store.User{Username: f.Username, PasswordHash: string(hash), Role: string(tenant.Admin)}
	if err := a.db.CreateMandapWithAdmin(m, admin); err != nil {
		return tenant.Context{}, uniqueUsername(err)
	}
	a.logger.Info("mandap registered", zap.String("mandap", m.ID), zap.String("admin", f.Username))
	return tenant.New(m.ID, m.Name, admin.Username, tenant.Admin)
}

// Login checks a username and password and returns the session context.
func (a *Accounts) Login(username, password string) (tenant.Context, error) {
	u, err := a.db.UserByUsername(username)
	if err != nil {
		return tenant.Context{}, fmt.Errorf("look up user: %w", err)
	}
	if u == nil {
		return tenant.Context{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return tenant.Context{}, ErrInvalidCredentials
	}

	var name string
	m, err := a.db.GetMandap(u.MandapID)
	switch {
	case err == nil:
		name = m.Name
	case errors.Is(err, store.ErrNotFound):
		a.logger.Warn("user without mandap record", zap.String("mandap", u.MandapID))
	default:
		return tenant.Context{}, err
	}
	return tenant.New(u.MandapID, name, u.Username, tenant.Role(u.Role))
}

// AddStaff creates a staff login in t's mandap.
func (a *Accounts) AddStaff(t tenant.Context, f StaffForm) (*store.User, error) {
	if !t.IsAdmin() {
		return nil, ErrForbidden
	}
	trim(&f.Username)
	if err := check(a.validate, f); err != nil {
		return nil, err
	}
	if err := a.available(f.Username); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &store.User{
		Username:     f.Username,
		PasswordHash: string(hash),
		Role:         string(tenant.Staff),
		MandapID:     t.MandapID(),
	}
	if _, err := a.db.InsertUser(u); err != nil {
		return nil, uniqueUsername(err)
	}
	a.logger.Info("staff added", zap.String("mandap", t.MandapID()), zap.String("username", u.Username))
	return u, nil
}

// ListStaff returns every login of t's mandap, admin included.
func (a *Accounts) ListStaff(t tenant.Context) ([]store.User, error) {
	if !t.IsAdmin() {
		return nil, ErrForbidden
	}
	return a.db.ListUsers(t.MandapID())
}

func (a *Accounts) available(username string) error {
	u, err := a.db.UserByUsername(username)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if u != nil {
		return ErrUsernameTaken
	}
	return nil
}

// uniqueUsername maps a unique constraint violation from a racing insert
// to ErrUsernameTaken.
func uniqueUsername(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrUsernameTaken
	}
	return err
}

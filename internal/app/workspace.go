// Package app wires a mandap profile: its store, ledger, notification
// channel and the per-tenant listings and dispatchers built on top of them.
package app

import (
	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/bus"
	"github.com/matheus3301/mandap/internal/config"
	"github.com/matheus3301/mandap/internal/notify"
	"github.com/matheus3301/mandap/internal/paging"
	"github.com/matheus3301/mandap/internal/profile"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

// Workspace hands out tenant-scoped listings and dispatchers for one profile.
type Workspace struct {
	profile   string
	cfg       *config.Config
	db        *store.DB
	bus       *bus.Bus
	messenger *Messenger
	logger    *zap.Logger
}

// NewWorkspace creates the workspace of the profile in p.
func NewWorkspace(p Params, db *store.DB, b *bus.Bus, m *Messenger, logger *zap.Logger) *Workspace {
	return &Workspace{
		profile:   p.Profile,
		cfg:       p.Config,
		db:        db,
		bus:       b,
		messenger: m,
		logger:    logger,
	}
}

// Profile returns the profile name.
func (w *Workspace) Profile() string { return w.profile }

// Config returns the profile's configuration.
func (w *Workspace) Config() *config.Config { return w.cfg }

// Bus returns the event bus listings and jobs publish on.
func (w *Workspace) Bus() *bus.Bus { return w.bus }

// Messenger returns the notification channel.
func (w *Workspace) Messenger() *Messenger { return w.messenger }

// Tenant returns the logged-in user, or tenant.ErrNoTenant.
func (w *Workspace) Tenant() (tenant.Context, error) {
	return profile.LoadLogin(w.profile)
}

// SignIn remembers t as the profile's logged-in user.
func (w *Workspace) SignIn(t tenant.Context) error {
	if err := profile.SaveLogin(w.profile, t); err != nil {
		return err
	}
	w.logger.Info("signed in", zap.String("user", t.Username()), zap.String("mandap", t.MandapID()))
	return nil
}

// SignOut forgets the logged-in user.
func (w *Workspace) SignOut() error {
	return profile.ClearLogin(w.profile)
}

// Offerings returns a pager over t's offerings.
func (w *Workspace) Offerings(t tenant.Context) *paging.Pager[store.Contribution] {
	e := paging.NewEngine[store.Contribution](t, paging.SourceFunc[store.Contribution](w.db.QueryOfferings), w.logger.Named("offerings"))
	return paging.NewPager("offerings", e, w.cfg.Paging.Offerings, w.bus)
}

// Events returns a pager over t's events.
func (w *Workspace) Events(t tenant.Context) *paging.Pager[store.ScheduledEvent] {
	e := paging.NewEngine[store.ScheduledEvent](t, paging.SourceFunc[store.ScheduledEvent](w.db.QueryEvents), w.logger.Named("events"))
	return paging.NewPager("events", e, w.cfg.Paging.Events, w.bus)
}

// Dispatcher returns a notification dispatcher for t's mandap.
func (w *Workspace) Dispatcher(t tenant.Context) *notify.Dispatcher {
	return notify.NewDispatcher(t,
		paging.SourceFunc[store.Contribution](w.db.QueryOfferings),
		w.messenger,
		notify.Config{
			ScanPageSize: w.cfg.Paging.Recipients,
			Interval:     w.cfg.Notify.Interval.Duration,
			CountryCode:  w.cfg.CountryCode,
			Platform:     w.cfg.Platform,
		},
		w.bus,
		w.logger.Named("notify"),
	)
}

package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/bus"
	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/config"
	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/lock"
	"github.com/matheus3301/mandap/internal/logging"
	"github.com/matheus3301/mandap/internal/profile"
	"github.com/matheus3301/mandap/internal/store"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile string
	Config  *config.Config
	// Console also writes logs to stderr.
	Console bool
	// Pair opens the WhatsApp device even when notifications go out as deep links.
	Pair bool
}

// Module returns the fx module for a mandap profile, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = config.Default()
	}
	return fx.Module("mandap",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStore,
			provideLedger,
			provideAccounts,
			provideMessenger,
			NewWorkspace,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile, p.Config.LogLevel, p.Console)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	dbPath := profile.DBPath(p.Profile)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Debug("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideLedger(p Params, db *store.DB, logger *zap.Logger) *ledger.Ledger {
	return ledger.New(db, p.Config.CountryCode, logger.Named("ledger"))
}

func provideAccounts(db *store.DB, logger *zap.Logger) *ledger.Accounts {
	return ledger.NewAccounts(db, logger.Named("accounts"))
}

// Messenger is the notification channel selected by the profile's config.
type Messenger struct {
	channel.Opener
	// Kind is the message kind jobs dispatch with.
	Kind channel.Kind
	// WhatsApp is nil unless the whatsapp channel is in use or pairing was requested.
	WhatsApp *channel.WhatsApp

	lock *lock.Lock
}

func provideMessenger(p Params, logger *zap.Logger) (*Messenger, error) {
	kind, err := channel.ParseKind(p.Config.Notify.Kind)
	if err != nil {
		return nil, err
	}
	m := &Messenger{
		Opener: channel.NewDeepLink(channel.SystemLauncher(""), logger.Named("deeplink")),
		Kind:   kind,
	}
	useWhatsApp := p.Config.Notify.Channel == config.ChannelWhatsApp
	if !useWhatsApp && !p.Pair {
		return m, nil
	}

	purpose := "whatsapp"
	if p.Pair {
		purpose = "pairing"
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile), zap.String("purpose", purpose))
	lk, err := lock.Acquire(profile.LockPath(p.Profile), purpose)
	if err != nil {
		return nil, err
	}
	wa, err := channel.NewWhatsApp(context.Background(), profile.DeviceDBPath(p.Profile), logger.Named("whatsapp"))
	if err != nil {
		_ = lk.Release()
		return nil, err
	}
	wa.SetSendInterval(p.Config.Notify.Interval.Duration)
	m.WhatsApp = wa
	m.lock = lk
	if useWhatsApp {
		m.Opener = wa
		m.Kind = channel.Chat
	}
	return m, nil
}

func registerLifecycle(lc fx.Lifecycle, p Params, db *store.DB, m *Messenger, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if m.WhatsApp != nil && m.WhatsApp.IsLoggedIn() && !p.Pair {
				if err := m.WhatsApp.Connect(); err != nil {
					logger.Error("whatsapp connect failed", zap.Error(err))
				}
			}
			logger.Debug("profile opened", zap.String("kind", string(m.Kind)))
			return nil
		},
		OnStop: func(_ context.Context) error {
			if m.WhatsApp != nil {
				m.WhatsApp.Disconnect()
			}
			if m.lock != nil {
				if err := m.lock.Release(); err != nil {
					logger.Warn("error releasing lock", zap.Error(err))
				}
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			logger.Debug("profile closed")
			_ = logger.Sync()
			return nil
		},
	})
}

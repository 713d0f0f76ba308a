// Package notify announces a scheduled event to every devotee who has made
// an offering, one message at a time or as a single group message.
package notify

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/bus"
	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/paging"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

// DefaultScanPageSize is the page size of the recipient scan.
const DefaultScanPageSize = 50

// Config tunes a dispatcher. Zero fields take their defaults.
type Config struct {
	ScanPageSize int
	Interval     time.Duration
	CountryCode  string
	// Platform is a GOOS value selecting the group address separator.
	Platform string
}

func (c Config) withDefaults() Config {
	if c.ScanPageSize <= 0 {
		c.ScanPageSize = DefaultScanPageSize
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.CountryCode == "" {
		c.CountryCode = DefaultCountryCode
	}
	if c.Platform == "" {
		c.Platform = runtime.GOOS
	}
	return c
}

// CollectFailure is the payload of notify.collect_failed events.
type CollectFailure struct {
	JobID     string
	Collected int
	Err       error
}

// Dispatcher creates notification jobs for one mandap.
type Dispatcher struct {
	tenant tenant.Context
	engine *paging.Engine[store.Contribution]
	opener channel.Opener
	cfg    Config
	bus    *bus.Bus
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher reading contributions from src. The
// dispatcher scans with its own engine so that it never competes with a
// listing view for the in-flight slot.
func NewDispatcher(t tenant.Context, src paging.Source[store.Contribution], opener channel.Opener, cfg Config, b *bus.Bus, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		tenant: t,
		engine: paging.NewEngine(t, src, logger.Named("recipients")),
		opener: opener,
		cfg:    cfg.withDefaults(),
		bus:    b,
		logger: logger,
	}
}

// Prepare collects the recipients and renders the message for event.
//
// If the scan fails part way, Prepare returns an error matching
// ErrRecipientCollectionFailed together with a job holding the recipients
// found so far; the job is only dispatchable if that set is non-empty.
func (d *Dispatcher) Prepare(ctx context.Context, event store.ScheduledEvent) (*Job, error) {
	if event.MandapID != d.tenant.MandapID() {
		return nil, fmt.Errorf("event %s belongs to another mandap", event.ID)
	}

	id := uuid.New().String()
	job := &Job{
		id:          id,
		event:       event,
		text:        RenderMessage(event, d.tenant.DisplayName()),
		countryCode: d.cfg.CountryCode,
		separator:   Separator(d.cfg.Platform),
		interval:    d.cfg.Interval,
		opener:      d.opener,
		bus:         d.bus,
		logger:      d.logger.With(zap.String("event", event.ID)),
		machine:     status.NewMachine(id, d.bus),
	}

	set, err := CollectRecipients(ctx, d.engine, d.cfg.ScanPageSize)
	job.recipients = set.Phones()

	if err != nil {
		d.logger.Warn("recipient scan incomplete",
			zap.String("job", id),
			zap.Int("collected", set.Len()),
			zap.Error(err),
		)
		d.bus.Emit("notify.collect_failed", CollectFailure{JobID: id, Collected: set.Len(), Err: err})
		next := status.Ready
		if set.Len() == 0 {
			next = status.Failed
		}
		if terr := job.machine.Transition(next); terr != nil {
			return job, errors.Join(err, terr)
		}
		return job, err
	}

	if err := job.machine.Transition(status.Ready); err != nil {
		return nil, err
	}
	d.logger.Info("notification prepared", zap.String("job", id), zap.Int("recipients", set.Len()))
	return job, nil
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/mandap/internal/bus"
	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
)

// ErrDispatchCancelled is returned when a job stops before every recipient
// was processed. It is a normal terminal outcome.
var ErrDispatchCancelled = errors.New("dispatch cancelled")

// Progress is the payload of notify.progress, notify.cancelled and
// notify.completed events.
type Progress struct {
	JobID     string
	Processed int
	Total     int
}

// Job is one bulk notification for one event. It can be dispatched once.
type Job struct {
	id         string
	event      store.ScheduledEvent
	recipients []string
	text       string

	countryCode string
	separator   string
	interval    time.Duration

	opener  channel.Opener
	bus     *bus.Bus
	logger  *zap.Logger
	machine *status.Machine

	processed atomic.Int64
	cancelled atomic.Bool
}

// ID returns the job id used in events.
func (j *Job) ID() string { return j.id }

// Event returns the event the job announces.
func (j *Job) Event() store.ScheduledEvent { return j.event }

// Text returns the rendered message.
func (j *Job) Text() string { return j.text }

// Recipients returns the phone numbers the job will notify.
func (j *Job) Recipients() []string {
	out := make([]string, len(j.recipients))
	copy(out, j.recipients)
	return out
}

// Total returns the number of recipients.
func (j *Job) Total() int { return len(j.recipients) }

// Processed returns how many recipients have been handed to the channel.
func (j *Job) Processed() int { return int(j.processed.Load()) }

// State returns the job's lifecycle state.
func (j *Job) State() status.State { return j.machine.Current() }

// Cancel stops the job before its next recipient. A job that has not
// started is cancelled immediately.
func (j *Job) Cancel() {
	if j.cancelled.Swap(true) {
		return
	}
	if j.machine.Current() == status.Ready {
		if err := j.machine.Transition(status.Cancelled); err != nil {
			j.logger.Warn("job state", zap.String("job", j.id), zap.Error(err))
		}
	}
	j.logger.Info("dispatch cancel requested", zap.String("job", j.id))
}

func (j *Job) progress() Progress {
	return Progress{JobID: j.id, Processed: j.Processed(), Total: j.Total()}
}

func (j *Job) start() error {
	if j.cancelled.Load() {
		return ErrDispatchCancelled
	}
	if err := j.machine.Transition(status.Dispatching); err != nil {
		return fmt.Errorf("job %s: %w", j.id, err)
	}
	return nil
}

// DispatchIndividually opens the channel once per recipient, in order, with
// the configured spacing between recipients. onProgress, if set, is called
// after each recipient.
func (j *Job) DispatchIndividually(ctx context.Context, kind channel.Kind, onProgress func(Progress)) error {
	if err := j.start(); err != nil {
		return err
	}
	j.logger.Info("dispatching individually",
		zap.String("job", j.id),
		zap.String("kind", string(kind)),
		zap.Int("recipients", j.Total()),
	)

	throttle := NewThrottle(j.interval)
	_, err := throttle.Run(ctx, len(j.recipients), j.cancelled.Load, func(i int) {
		j.opener.Open(ctx, kind, Address(j.countryCode, j.recipients[i]), j.text)
		j.processed.Add(1)
		p := j.progress()
		if onProgress != nil {
			onProgress(p)
		}
		j.bus.Emit("notify.progress", p)
	})
	if err != nil {
		return j.stop(err)
	}
	return j.complete()
}

// DispatchAsGroup opens the channel once with every recipient in a single
// address list.
func (j *Job) DispatchAsGroup(ctx context.Context, kind channel.Kind) error {
	if err := j.start(); err != nil {
		return err
	}
	if len(j.recipients) > 0 {
		addr := GroupAddress(j.recipients, j.countryCode, j.separator)
		j.logger.Info("dispatching as group",
			zap.String("job", j.id),
			zap.String("kind", string(kind)),
			zap.Int("recipients", j.Total()),
		)
		j.opener.Open(ctx, kind, addr, j.text)
		j.processed.Store(int64(len(j.recipients)))
	}
	return j.complete()
}

func (j *Job) stop(err error) error {
	if terr := j.machine.Transition(status.Cancelled); terr != nil {
		j.logger.Warn("job state", zap.String("job", j.id), zap.Error(terr))
	}
	p := j.progress()
	j.bus.Emit("notify.cancelled", p)
	j.logger.Info("dispatch cancelled", zap.String("job", j.id), zap.Int("processed", p.Processed), zap.Int("total", p.Total))
	return err
}

func (j *Job) complete() error {
	if err := j.machine.Transition(status.Completed); err != nil {
		return fmt.Errorf("job %s: %w", j.id, err)
	}
	p := j.progress()
	j.bus.Emit("notify.completed", p)
	j.logger.Info("dispatch completed", zap.String("job", j.id), zap.Int("processed", p.Processed))
	return nil
}

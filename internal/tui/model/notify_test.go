package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/notify"
	"github.com/matheus3301/mandap/internal/paging"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

var puja = store.ScheduledEvent{ID: "ev1", Title: "Ganesh Puja", Date: "2026-09-14", MandapID: "m1"}

func dispatcher(t *testing.T, opener channel.Opener, interval time.Duration, names ...string) *notify.Dispatcher {
	t.Helper()
	tc, err := tenant.New("m1", "Sri Ganesh Mandap", "ravi", tenant.Admin)
	if err != nil {
		t.Fatal(err)
	}
	db := seeded(t, names...)
	return notify.NewDispatcher(tc, paging.SourceFunc[store.Contribution](db.QueryOfferings), opener, notify.Config{Interval: interval}, nil, nil)
}

// uiLoop queues posted updates so the test decides when they run.
type uiLoop chan func()

func (u uiLoop) post(fn func()) { u <- fn }

func (u uiLoop) step(t *testing.T) {
	t.Helper()
	select {
	case fn := <-u:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("nothing posted")
	}
}

func TestNotifySessionDropsStaleScan(t *testing.T) {
	d := dispatcher(t, channel.OpenerFunc(func(context.Context, channel.Kind, string, string) {}), time.Millisecond, "Lakshmi", "Lalitha")
	loop := make(uiLoop, 4)
	s := NewNotifySession(context.Background(), loop.post)

	var delivered []*notify.Job
	done := func(job *notify.Job, _ error) { delivered = append(delivered, job) }

	release := make(chan struct{})
	jobs := make(chan *notify.Job, 1)
	s.Open(func(context.Context) (*notify.Job, error) {
		<-release
		job, err := d.Prepare(context.Background(), puja)
		jobs <- job
		return job, err
	}, done)
	s.Open(func(ctx context.Context) (*notify.Job, error) { return d.Prepare(ctx, puja) }, done)

	loop.step(t)
	if len(delivered) != 1 || s.Job() != delivered[0] {
		t.Fatalf("delivered = %v, want the second scan", delivered)
	}

	close(release)
	loop.step(t)
	if len(delivered) != 1 {
		t.Errorf("stale scan was delivered")
	}
	if s.Job() != delivered[0] {
		t.Error("stale scan replaced the current job")
	}
	if stale := <-jobs; stale.State() != status.Cancelled {
		t.Errorf("stale job state = %s, want CANCELLED", stale.State())
	}
}

func TestNotifySessionCloseCancelsScan(t *testing.T) {
	loop := make(uiLoop, 4)
	s := NewNotifySession(context.Background(), loop.post)

	scanErr := make(chan error, 1)
	called := false
	s.Open(func(ctx context.Context) (*notify.Job, error) {
		<-ctx.Done()
		scanErr <- ctx.Err()
		return nil, ctx.Err()
	}, func(*notify.Job, error) { called = true })

	if s.Close() {
		t.Error("Close reported an interrupted dispatch while scanning")
	}
	if err := <-scanErr; !errors.Is(err, context.Canceled) {
		t.Errorf("scan context err = %v", err)
	}
	loop.step(t)
	if called {
		t.Error("result of a closed session was delivered")
	}
	if s.Job() != nil {
		t.Error("closed session kept a job")
	}
}

func TestNotifySessionCloseStopsDispatch(t *testing.T) {
	opened := make(chan struct{}, 4)
	opener := channel.OpenerFunc(func(context.Context, channel.Kind, string, string) { opened <- struct{}{} })
	d := dispatcher(t, opener, time.Hour, "Lakshmi", "Lalitha", "Meena")
	loop := make(uiLoop, 4)
	s := NewNotifySession(context.Background(), loop.post)

	s.Open(func(ctx context.Context) (*notify.Job, error) { return d.Prepare(ctx, puja) }, func(*notify.Job, error) {})
	loop.step(t)
	job := s.Job()
	if job == nil || job.State() != status.Ready {
		t.Fatalf("job = %v, want a ready job", job)
	}

	result := make(chan error, 1)
	applied := false
	s.Go(func(ctx context.Context, apply func(func())) {
		err := job.DispatchIndividually(ctx, channel.Chat, nil)
		apply(func() { applied = true })
		result <- err
	})

	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not start")
	}
	if !s.Close() {
		t.Error("Close did not report the interrupted dispatch")
	}

	select {
	case err := <-result:
		if !errors.Is(err, notify.ErrDispatchCancelled) {
			t.Errorf("dispatch err = %v, want ErrDispatchCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch kept running after Close")
	}
	loop.step(t)
	if applied {
		t.Error("update from a closed session reached the UI")
	}
	if job.State() != status.Cancelled || job.Processed() != 1 {
		t.Errorf("job = %s after %d, want CANCELLED after 1", job.State(), job.Processed())
	}
}

func TestNotifySessionGoWhenClosed(t *testing.T) {
	s := NewNotifySession(context.Background(), func(fn func()) { fn() })
	ran := make(chan struct{}, 1)
	s.Go(func(context.Context, func(func())) { ran <- struct{}{} })
	select {
	case <-ran:
		t.Error("work ran on a closed session")
	case <-time.After(50 * time.Millisecond):
	}
}

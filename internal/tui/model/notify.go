package model

import (
	"context"
	"sync"

	"github.com/matheus3301/mandap/internal/notify"
	"github.com/matheus3301/mandap/internal/status"
)

// NotifySession owns what the notification page starts: the recipient scan
// and the job it prepares. Closing the session cancels both, and results
// of a closed or replaced session never reach the UI.
type NotifySession struct {
	parent context.Context
	post   func(func())

	mu     sync.Mutex
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	job    *notify.Job
}

// NewNotifySession creates a closed session. post runs UI updates on the
// UI goroutine.
func NewNotifySession(ctx context.Context, post func(func())) *NotifySession {
	return &NotifySession{parent: ctx, post: post}
}

// Open closes the current session and starts a new one. prepare runs in
// the background; done receives its result on the UI goroutine unless the
// session was closed or reopened meanwhile, in which case a prepared job
// is cancelled.
func (s *NotifySession) Open(prepare func(context.Context) (*notify.Job, error), done func(*notify.Job, error)) {
	s.Close()

	s.mu.Lock()
	gen := s.gen
	ctx, cancel := context.WithCancel(s.parent)
	s.ctx, s.cancel = ctx, cancel
	s.mu.Unlock()

	go func() {
		job, err := prepare(ctx)
		s.post(func() {
			if s.adopt(gen, job) {
				done(job, err)
			}
		})
	}()
}

func (s *NotifySession) adopt(gen uint64, job *notify.Job) bool {
	s.mu.Lock()
	current := gen == s.gen && s.ctx != nil
	if current {
		s.job = job
	}
	s.mu.Unlock()
	if !current && job != nil {
		job.Cancel()
	}
	return current
}

// Go runs work in the background with the session's context. Updates
// handed to apply reach the UI only while the session stays open. It is a
// no-op on a closed session.
func (s *NotifySession) Go(work func(ctx context.Context, apply func(func()))) {
	s.mu.Lock()
	gen, ctx := s.gen, s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}
	apply := func(fn func()) {
		s.post(func() {
			if s.current(gen) {
				fn()
			}
		})
	}
	go work(ctx, apply)
}

func (s *NotifySession) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen && s.ctx != nil
}

// Job returns the prepared job, or nil while scanning or once closed.
func (s *NotifySession) Job() *notify.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// Dispatching reports whether the session's job is sending.
func (s *NotifySession) Dispatching() bool {
	job := s.Job()
	return job != nil && job.State() == status.Dispatching
}

// Close cancels the scan and the job. It reports whether a dispatch was
// interrupted.
func (s *NotifySession) Close() bool {
	s.mu.Lock()
	s.gen++
	cancel, job := s.cancel, s.job
	s.ctx, s.cancel, s.job = nil, nil, nil
	s.mu.Unlock()

	interrupted := job != nil && job.State() == status.Dispatching
	if cancel != nil {
		cancel()
	}
	if job != nil && !job.State().Terminal() {
		job.Cancel()
	}
	return interrupted
}

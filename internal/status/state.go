package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/mandap/internal/bus"
)

// State is a dispatch job's lifecycle state.
type State string

const (
	Collecting  State = "COLLECTING"
	Ready       State = "READY"
	Dispatching State = "DISPATCHING"
	Completed   State = "COMPLETED"
	Cancelled   State = "CANCELLED"
	Failed      State = "FAILED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s State) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Collecting:  {Ready, Failed, Cancelled},
	Ready:       {Dispatching, Cancelled},
	Dispatching: {Completed, Cancelled},
	Completed:   {},
	Cancelled:   {},
	Failed:      {},
}

// Machine tracks and enforces job state transitions.
type Machine struct {
	mu      sync.RWMutex
	subject string
	current State
	bus     *bus.Bus
}

// NewMachine creates a state machine for the job identified by subject,
// starting in Collecting.
func NewMachine(subject string, b *bus.Bus) *Machine {
	return &Machine{
		subject: subject,
		current: Collecting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit("notify.status_changed", StatusChange{
		Subject: m.subject,
		From:    from,
		To:      to,
	})
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	Subject string
	From    State
	To      State
}

package lifecycle

import (
	"time"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// Machine evaluates shift transitions against the rule table.
// It is safe for concurrent use; it holds no mutable state.
type Machine struct {
	// Now is read exactly once per evaluation.
	Now func() time.Time
}

// NewMachine returns a machine backed by the wall clock.
func NewMachine() *Machine {
	return &Machine{Now: time.Now}
}

func (m *Machine) now() time.Time {
	if m == nil || m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// CanTransition reports whether from -> to has a rule whose guard passes for c.
func (m *Machine) CanTransition(from, to domain.ShiftStatus, c Context) bool {
	return allowed(from, to, c, m.now())
}

// Transition moves c.Shift to the requested status and returns the effects to dispatch.
// A rejected transition is reported in the result, never as a panic.
func (m *Machine) Transition(to domain.ShiftStatus, c Context) Result {
	now := m.now()
	from := c.Shift.Status
	if !allowed(from, to, c, now) {
		return Result{Success: false, Err: &TransitionError{From: from, To: to}}
	}
	r, _ := lookup(from, to)
	effects := []Effect{}
	if r.effects != nil {
		effects = r.effects(c, now)
	}
	return Result{Success: true, NewStatus: to, Effects: effects}
}

// AvailableTransitions lists the target statuses whose guards currently pass,
// in status declaration order.
func (m *Machine) AvailableTransitions(status domain.ShiftStatus, c Context) []domain.ShiftStatus {
	now := m.now()
	available := []domain.ShiftStatus{}
	for _, to := range domain.ShiftStatuses {
		if allowed(status, to, c, now) {
			available = append(available, to)
		}
	}
	return available
}

// IsFinalStatus reports whether a shift is no longer actively progressing.
// Completed shifts can still be reopened into a dispute.
func IsFinalStatus(status domain.ShiftStatus) bool {
	return status == domain.ShiftStatusCancelled || status == domain.ShiftStatusCompleted
}

func allowed(from, to domain.ShiftStatus, c Context, now time.Time) bool {
	r, ok := lookup(from, to)
	if !ok || r.guard == nil {
		return false
	}
	return r.guard(c, now)
}

package lifecycle

import (
	"fmt"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// Context is the immutable input to a single transition evaluation.
type Context struct {
	ActorID   string
	ActorRole domain.ActorRole
	Shift     domain.Shift
	// MatchedWorkerIDs are the workers to notify when a shift is published.
	MatchedWorkerIDs []string
	Reason           string
}

func (c Context) isOwningClient() bool {
	return c.ActorRole == domain.ActorClient && c.ActorID != "" && c.ActorID == c.Shift.ClientID
}

func (c Context) isAssignedWorker() bool {
	return c.ActorRole == domain.ActorWorker && c.Shift.HasWorker(c.ActorID)
}

// participants returns the client followed by every assigned worker.
func (c Context) participants() []string {
	return append([]string{c.Shift.ClientID}, c.Shift.WorkerIDs()...)
}

// Result is the outcome of Machine.Transition.
type Result struct {
	Success   bool
	NewStatus domain.ShiftStatus
	Effects   []Effect
	Err       error
}

// TransitionError names a rejected transition.
type TransitionError struct {
	From domain.ShiftStatus
	To   domain.ShiftStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Transition from %s to %s is not allowed", e.From, e.To)
}

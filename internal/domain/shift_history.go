package domain

import "time"

// ShiftHistory is an immutable audit trail entry for a status change.
type ShiftHistory struct {
	ID         string
	ShiftID    string
	FromStatus ShiftStatus
	ToStatus   ShiftStatus
	ActorID    string
	ActorRole  ActorRole
	Reason     string
	CreatedAt  time.Time
}

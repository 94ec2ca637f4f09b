package domain

import "time"

// ShiftStatus enumerates lifecycle states for shifts.
type ShiftStatus string

const (
	ShiftStatusDraft      ShiftStatus = "draft"
	ShiftStatusOpen       ShiftStatus = "open"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
	ShiftStatusDisputed   ShiftStatus = "disputed"
)

// ShiftStatuses lists every status in declaration order.
var ShiftStatuses = []ShiftStatus{
	ShiftStatusDraft,
	ShiftStatusOpen,
	ShiftStatusInProgress,
	ShiftStatusCompleted,
	ShiftStatusCancelled,
	ShiftStatusDisputed,
}

// Valid reports whether s is a known status.
func (s ShiftStatus) Valid() bool {
	for _, candidate := range ShiftStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// AssignedWorker is a worker booked on a shift.
type AssignedWorker struct {
	WorkerID  string
	CheckedIn bool
}

// Shift is the aggregate for a unit of paid work.
type Shift struct {
	ID              string
	ClientID        string
	Title           string
	Status          ShiftStatus
	StartTime       time.Time
	TotalAmount     int64
	AssignedWorkers []AssignedWorker
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkerIDs returns the ids of all assigned workers.
func (s Shift) WorkerIDs() []string {
	ids := make([]string, 0, len(s.AssignedWorkers))
	for _, w := range s.AssignedWorkers {
		ids = append(ids, w.WorkerID)
	}
	return ids
}

// AnyCheckedIn reports whether at least one assigned worker has checked in.
func (s Shift) AnyCheckedIn() bool {
	for _, w := range s.AssignedWorkers {
		if w.CheckedIn {
			return true
		}
	}
	return false
}

// HasWorker reports whether workerID is assigned to the shift.
func (s Shift) HasWorker(workerID string) bool {
	for _, w := range s.AssignedWorkers {
		if w.WorkerID == workerID {
			return true
		}
	}
	return false
}

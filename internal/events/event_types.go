package events

import (
	"time"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShiftStatusChanged EventType = "shift_status_changed"
	EventUsersNotified      EventType = "users_notified"
	EventTrustEventRecorded EventType = "trust_event_recorded"
)

// Actor identifies who caused an event.
type Actor struct {
	ID   string           `json:"id"`
	Role domain.ActorRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ShiftID   string      `json:"shift_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ShiftStatusChangedPayload payload.
type ShiftStatusChangedPayload struct {
	OldStatus domain.ShiftStatus `json:"old_status"`
	NewStatus domain.ShiftStatus `json:"new_status"`
	Reason    string             `json:"reason,omitempty"`
	HistoryID string             `json:"history_id"`
}

// UsersNotifiedPayload carries a notification request. Audience "admins"
// means UserIDs is empty and every administrator is addressed.
type UsersNotifiedPayload struct {
	UserIDs  []string `json:"user_ids,omitempty"`
	Audience string   `json:"audience"`
	Message  string   `json:"message"`
}

// TrustEventRecordedPayload payload.
type TrustEventRecordedPayload struct {
	TrustEventID string                `json:"trust_event_id"`
	UserID       string                `json:"user_id"`
	EventType    domain.TrustEventType `json:"event_type"`
	Severity     domain.Severity       `json:"severity"`
	Impact       int                   `json:"impact"`
}

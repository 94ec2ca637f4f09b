package dto

import (
	"time"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/lifecycle"
)

// TransitionRequest asks to move a shift to another status.
type TransitionRequest struct {
	To     string `json:"to" validate:"required,oneof=draft open in_progress completed cancelled disputed"`
	Reason string `json:"reason" validate:"max=1000"`
}

// StatusView is a status with its display label and color.
type StatusView struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Final  bool   `json:"final"`
}

// NewStatusView builds the display view of status.
func NewStatusView(status domain.ShiftStatus) StatusView {
	return StatusView{
		Status: string(status),
		Label:  lifecycle.StatusLabel(status),
		Color:  lifecycle.StatusColor(status),
		Final:  lifecycle.IsFinalStatus(status),
	}
}

// EffectView is a transition effect as reported to the caller.
type EffectView struct {
	Kind string `json:"kind"`
	Data any    `json:"data,omitempty"`
}

// NewEffectViews converts effects for JSON output.
func NewEffectViews(effects []lifecycle.Effect) []EffectView {
	views := make([]EffectView, 0, len(effects))
	for _, e := range effects {
		view := EffectView{Kind: string(e.Kind())}
		switch v := e.(type) {
		case lifecycle.RefundPayment:
			view.Data = map[string]any{"amount": v.Amount, "reason": v.Reason}
		case lifecycle.NotifyUsers:
			view.Data = map[string]any{"user_ids": v.UserIDs, "audience": v.Audience, "message": v.Message}
		case lifecycle.CreateTrustEvent:
			view.Data = map[string]any{"user_id": v.UserID, "event_type": v.EventType, "severity": v.Severity}
		case lifecycle.UpdateStatistics:
			view.Data = map[string]any{"user_id": v.UserID, "field": v.Field, "delta": v.Delta}
		}
		views = append(views, view)
	}
	return views
}

// TransitionResponse reports an applied transition.
type TransitionResponse struct {
	ShiftID       string       `json:"shift_id"`
	Status        StatusView   `json:"status"`
	HistoryID     string       `json:"history_id"`
	Effects       []EffectView `json:"effects"`
	TrustEventIDs []string     `json:"trust_event_ids"`
}

// HistoryEntry is one shift status change.
type HistoryEntry struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHistoryEntries converts history rows.
func NewHistoryEntries(rows []domain.ShiftHistory) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(rows))
	for _, h := range rows {
		entries = append(entries, HistoryEntry{
			ID:        h.ID,
			From:      string(h.FromStatus),
			To:        string(h.ToStatus),
			ActorID:   h.ActorID,
			ActorRole: string(h.ActorRole),
			Reason:    h.Reason,
			CreatedAt: h.CreatedAt,
		})
	}
	return entries
}

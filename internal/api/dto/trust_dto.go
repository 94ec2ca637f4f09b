package dto

import (
	"time"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/trust"
)

// CategoryView describes a score band.
type CategoryView struct {
	Level       string `json:"level"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ScoreResponse is a user's score with its band.
type ScoreResponse struct {
	UserID   string       `json:"user_id"`
	Score    int          `json:"score"`
	Category CategoryView `json:"category"`
}

// NewScoreResponse builds the response for score.
func NewScoreResponse(userID string, score int) ScoreResponse {
	c := trust.ScoreCategory(score)
	return ScoreResponse{
		UserID: userID,
		Score:  score,
		Category: CategoryView{
			Level:       string(c.Level),
			Label:       c.Label,
			Description: c.Description,
			Color:       c.Color,
		},
	}
}

// TrustEventResponse is one ledger entry.
type TrustEventResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	EventType   string         `json:"event_type"`
	Severity    string         `json:"severity"`
	Impact      int            `json:"impact"`
	ShiftID     *string        `json:"shift_id,omitempty"`
	Description *string        `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewTrustEventResponse converts a ledger entry.
func NewTrustEventResponse(e domain.TrustEvent) TrustEventResponse {
	return TrustEventResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		EventType:   string(e.EventType),
		Severity:    string(e.Severity),
		Impact:      e.Impact,
		ShiftID:     e.ShiftID,
		Description: e.Description,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt,
	}
}

// CreateTrustEventRequest lets moderators record an event by hand.
type CreateTrustEventRequest struct {
	UserID       string         `json:"user_id" validate:"required,uuid"`
	EventType    string         `json:"event_type" validate:"required"`
	ShiftID      *string        `json:"shift_id" validate:"omitempty,uuid"`
	Description  *string        `json:"description" validate:"omitempty,max=1000"`
	Metadata     map[string]any `json:"metadata"`
	CustomImpact *int           `json:"custom_impact" validate:"omitempty,min=-150,max=150"`
}

// DecisionResponse reports whether an action is allowed.
type DecisionResponse struct {
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// RecommendationsResponse is advice for the caller's score.
type RecommendationsResponse struct {
	ScoreResponse
	Recommendations []string `json:"recommendations"`
}

// SuspiciousUserResponse is a flagged profile for moderation.
type SuspiciousUserResponse struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsBlocked  bool      `json:"is_blocked"`
	TrustScore int       `json:"trust_score"`
	FlaggedAt  time.Time `json:"flagged_at"`
}

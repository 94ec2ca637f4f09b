// Package trust derives reputation scores from the append-only trust event
// ledger and gates sensitive actions on them.
package trust

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

const (
	BaseScore = 100
	MinScore  = 0
	MaxScore  = 150

	DefaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ErrNoProfile is returned by moderation helpers for accounts without a worker or client profile.
var ErrNoProfile = errors.New("account has no moderated profile")

// Ledger is the append-only store of trust events.
type Ledger interface {
	Append(ctx context.Context, event *domain.TrustEvent) error
	// Impacts returns every impact for userID, oldest first.
	Impacts(ctx context.Context, userID string) ([]int, error)
	// History returns up to limit events for userID, newest first.
	History(ctx context.Context, userID string, limit int) ([]domain.TrustEvent, error)
}

// ProfileStore reads and writes moderation flags. role is always
// domain.UserRoleWorker or domain.UserRoleClient.
type ProfileStore interface {
	UserRole(ctx context.Context, userID string) (domain.UserRole, error)
	ProfileFlags(ctx context.Context, role domain.UserRole, userID string) (domain.ProfileFlags, error)
	SetBlocked(ctx context.Context, role domain.UserRole, userID string, blocked bool) error
	SetSuspicious(ctx context.Context, role domain.UserRole, userID string, suspicious bool) error
	ListSuspicious(ctx context.Context) ([]domain.SuspiciousUser, error)
}

// ScoreCache memoizes derived scores.
type ScoreCache interface {
	Get(ctx context.Context, userID string) (int, bool, error)
	Set(ctx context.Context, userID string, score int) error
	Invalidate(ctx context.Context, userID string) error
}

// Engine answers score and gating queries.
type Engine struct {
	ledger   Ledger
	profiles ProfileStore
	cache    ScoreCache
	logger   *zap.Logger
	now      func() time.Time
}

// EngineDependencies bundles collaborators for the engine. Cache and Now are optional.
type EngineDependencies struct {
	Ledger   Ledger
	Profiles ProfileStore
	Cache    ScoreCache
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewEngine constructs the engine.
func NewEngine(deps EngineDependencies) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		ledger:   deps.Ledger,
		profiles: deps.Profiles,
		cache:    deps.Cache,
		logger:   logger,
		now:      now,
	}
}

// CreateEventInput describes a trust event to record.
type CreateEventInput struct {
	UserID      string
	EventType   domain.TrustEventType
	ShiftID     *string
	Description *string
	Metadata    map[string]any
	// CustomImpact replaces the catalog impact; severity always comes from the catalog.
	CustomImpact *int
}

// CreateTrustEvent appends one event to the ledger. It returns nil when the
// event could not be recorded; callers continue with degraded accuracy.
func (e *Engine) CreateTrustEvent(ctx context.Context, input CreateEventInput) *domain.TrustEvent {
	entry, ok := Lookup(input.EventType)
	if !ok {
		e.logger.Warn("unknown trust event type",
			zap.String("user_id", input.UserID),
			zap.String("event_type", string(input.EventType)))
		return nil
	}
	impact := entry.Impact
	if input.CustomImpact != nil {
		impact = *input.CustomImpact
	}
	event := &domain.TrustEvent{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		EventType:   input.EventType,
		Severity:    entry.Severity,
		Impact:      impact,
		ShiftID:     input.ShiftID,
		Description: input.Description,
		Metadata:    input.Metadata,
		CreatedAt:   e.now(),
	}
	if err := e.ledger.Append(ctx, event); err != nil {
		e.logger.Error("record trust event",
			zap.String("user_id", input.UserID),
			zap.String("event_type", string(input.EventType)),
			zap.Error(err))
		return nil
	}
	e.invalidate(ctx, input.UserID)
	return event
}

// ComputeScore folds impacts, oldest first, onto BaseScore clamping after each step.
func ComputeScore(impacts []int) int {
	score := BaseScore
	for _, impact := range impacts {
		score = clamp(score + impact)
	}
	return score
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// TrustScore returns the user's current score. Lookup failures fall back to BaseScore.
func (e *Engine) TrustScore(ctx context.Context, userID string) int {
	if e.cache != nil {
		score, ok, err := e.cache.Get(ctx, userID)
		if err != nil {
			e.logger.Warn("read cached trust score", zap.String("user_id", userID), zap.Error(err))
		} else if ok {
			return score
		}
	}
	impacts, err := e.ledger.Impacts(ctx, userID)
	if err != nil {
		e.logger.Warn("load trust impacts; using base score", zap.String("user_id", userID), zap.Error(err))
		return BaseScore
	}
	score := ComputeScore(impacts)
	if e.cache != nil {
		if err := e.cache.Set(ctx, userID, score); err != nil {
			e.logger.Warn("cache trust score", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return score
}

// EventHistory returns the most recent events for userID, newest first.
func (e *Engine) EventHistory(ctx context.Context, userID string, limit int) []domain.TrustEvent {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	events, err := e.ledger.History(ctx, userID, limit)
	if err != nil {
		e.logger.Warn("load trust history", zap.String("user_id", userID), zap.Error(err))
		return []domain.TrustEvent{}
	}
	return events
}

// IsUserBlocked reports the moderation block flag. Lookup failures report false.
func (e *Engine) IsUserBlocked(ctx context.Context, userID string) bool {
	flags, _ := e.flags(ctx, userID)
	return flags.IsBlocked
}

// IsUserSuspicious reports the suspicious flag. Lookup failures report false.
func (e *Engine) IsUserSuspicious(ctx context.Context, userID string) bool {
	flags, _ := e.flags(ctx, userID)
	return flags.IsSuspicious
}

func (e *Engine) flags(ctx context.Context, userID string) (domain.ProfileFlags, bool) {
	role, err := e.profileRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNoProfile) {
			e.logger.Warn("resolve user role", zap.String("user_id", userID), zap.Error(err))
		}
		return domain.ProfileFlags{}, false
	}
	flags, err := e.profiles.ProfileFlags(ctx, role, userID)
	if err != nil {
		e.logger.Warn("load profile flags", zap.String("user_id", userID), zap.Error(err))
		return domain.ProfileFlags{}, false
	}
	return flags, true
}

// profileRole maps an account to the profile table holding its flags.
func (e *Engine) profileRole(ctx context.Context, userID string) (domain.UserRole, error) {
	role, err := e.profiles.UserRole(ctx, userID)
	if err != nil {
		return "", err
	}
	switch role {
	case domain.UserRoleWorker, domain.UserRoleShiftLead:
		return domain.UserRoleWorker, nil
	case domain.UserRoleClient:
		return domain.UserRoleClient, nil
	default:
		return "", ErrNoProfile
	}
}

// SuspiciousUsers lists flagged profiles with their current scores.
func (e *Engine) SuspiciousUsers(ctx context.Context) ([]domain.SuspiciousUser, error) {
	users, err := e.profiles.ListSuspicious(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suspicious users: %w", err)
	}
	for i := range users {
		users[i].TrustScore = e.TrustScore(ctx, users[i].UserID)
	}
	return users, nil
}

// ClearSuspiciousFlag resets the suspicious flag after review.
func (e *Engine) ClearSuspiciousFlag(ctx context.Context, userID string) error {
	role, err := e.profileRole(ctx, userID)
	if err != nil {
		return fmt.Errorf("clear suspicious flag for %s: %w", userID, err)
	}
	if err := e.profiles.SetSuspicious(ctx, role, userID, false); err != nil {
		return fmt.Errorf("clear suspicious flag for %s: %w", userID, err)
	}
	e.logger.Info("suspicious flag cleared", zap.String("user_id", userID))
	return nil
}

// UnblockUser lifts a moderation block.
func (e *Engine) UnblockUser(ctx context.Context, userID string) error {
	role, err := e.profileRole(ctx, userID)
	if err != nil {
		return fmt.Errorf("unblock %s: %w", userID, err)
	}
	if err := e.profiles.SetBlocked(ctx, role, userID, false); err != nil {
		return fmt.Errorf("unblock %s: %w", userID, err)
	}
	e.logger.Info("user unblocked", zap.String("user_id", userID))
	return nil
}

func (e *Engine) invalidate(ctx context.Context, userID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx, userID); err != nil {
		e.logger.Warn("invalidate cached trust score", zap.String("user_id", userID), zap.Error(err))
	}
}

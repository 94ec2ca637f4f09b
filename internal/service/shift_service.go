package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/events"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/lifecycle"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/observability"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/repository"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/trust"
	apperrors "github.com/artemdali21-ship-it/shef-montazh-sub002/pkg/util"
)

const matchedWorkersLimit = 200

// TrustGate is the part of the trust engine the shift workflow depends on.
type TrustGate interface {
	CreateTrustEvent(ctx context.Context, input trust.CreateEventInput) *domain.TrustEvent
	CanPerformAction(ctx context.Context, userID string, action trust.Action) trust.Decision
}

// ShiftService runs shift transitions and dispatches their effects.
type ShiftService struct {
	shifts     repository.ShiftRepository
	machine    *lifecycle.Machine
	trust      TrustGate
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ShiftDependencies bundles collaborators for the shift service.
type ShiftDependencies struct {
	ShiftRepo  repository.ShiftRepository
	Machine    *lifecycle.Machine
	Trust      TrustGate
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewShiftService constructs the service.
func NewShiftService(deps ShiftDependencies) *ShiftService {
	machine := deps.Machine
	if machine == nil {
		machine = lifecycle.NewMachine()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{
		shifts:     deps.ShiftRepo,
		machine:    machine,
		trust:      deps.Trust,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Actor is the caller requesting a transition.
type Actor struct {
	ID   string
	Role domain.ActorRole
}

// TransitionInput describes a requested status change.
type TransitionInput struct {
	ShiftID string
	To      domain.ShiftStatus
	Reason  string
	Actor   Actor
}

// TransitionOutcome reports what a successful transition did.
type TransitionOutcome struct {
	Shift       *domain.Shift
	History     *domain.ShiftHistory
	Effects     []lifecycle.Effect
	TrustEvents []domain.TrustEvent
}

// Transition validates and applies a status change. Payment intents, statistics,
// application lock, rating requests and the history row commit with the status
// write; trust events and notifications follow the commit and never fail it.
func (s *ShiftService) Transition(ctx context.Context, input TransitionInput) (*TransitionOutcome, error) {
	if !input.To.Valid() {
		return nil, apperrors.NewValidationError("unknown target status", map[string]any{"to": input.To})
	}

	shift, err := s.loadShift(ctx, input.ShiftID)
	if err != nil {
		return nil, err
	}
	from := shift.Status

	lctx := lifecycle.Context{
		ActorID:   input.Actor.ID,
		ActorRole: input.Actor.Role,
		Shift:     *shift,
		Reason:    input.Reason,
	}
	if from == domain.ShiftStatusDraft && input.To == domain.ShiftStatusOpen {
		lctx.MatchedWorkerIDs = s.matchWorkers(ctx, shift)
	}

	result := s.machine.Transition(input.To, lctx)
	if !result.Success {
		s.metrics.RecordTransition(string(from), string(input.To), "rejected")
		return nil, apperrors.NewInvalidTransition(string(from), string(input.To), result.Err.Error())
	}

	if input.To == domain.ShiftStatusOpen {
		decision := s.trust.CanPerformAction(ctx, shift.ClientID, trust.ActionPostShift)
		if !decision.Allowed {
			s.metrics.RecordTransition(string(from), string(input.To), "rejected")
			return nil, apperrors.NewTrustDenied(string(trust.ActionPostShift), decision.Reason)
		}
	}

	write, post := splitEffects(result.Effects)
	write.History = domain.ShiftHistory{
		ShiftID:    shift.ID,
		FromStatus: from,
		ToStatus:   result.NewStatus,
		ActorID:    input.Actor.ID,
		ActorRole:  input.Actor.Role,
		Reason:     input.Reason,
	}

	history, err := s.shifts.ApplyTransition(ctx, write)
	if err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			s.metrics.RecordTransition(string(from), string(input.To), "stale")
			return nil, apperrors.NewStaleTransition(shift.ID, string(from))
		}
		s.metrics.RecordTransition(string(from), string(input.To), "failed")
		return nil, apperrors.NewInternalError(fmt.Errorf("apply transition %s -> %s: %w", from, input.To, err))
	}
	s.metrics.RecordTransition(string(from), string(input.To), "applied")
	s.logger.Info("shift transitioned",
		zap.String("shift_id", shift.ID),
		zap.String("from", string(from)),
		zap.String("to", string(result.NewStatus)),
		zap.String("actor_id", input.Actor.ID),
		zap.String("actor_role", string(input.Actor.Role)))

	shift.Status = result.NewStatus
	actor := events.Actor{ID: input.Actor.ID, Role: input.Actor.Role}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventShiftStatusChanged,
		ShiftID: shift.ID,
		Actor:   actor,
		Payload: events.ShiftStatusChangedPayload{
			OldStatus: from,
			NewStatus: result.NewStatus,
			Reason:    input.Reason,
			HistoryID: history.ID,
		},
	})

	outcome := &TransitionOutcome{
		Shift:       shift,
		History:     history,
		Effects:     result.Effects,
		TrustEvents: []domain.TrustEvent{},
	}
	for _, effect := range post {
		switch e := effect.(type) {
		case lifecycle.CreateTrustEvent:
			if recorded := s.recordTrustEvent(ctx, shift.ID, from, result.NewStatus, input.Reason, e); recorded != nil {
				outcome.TrustEvents = append(outcome.TrustEvents, *recorded)
				s.publishEvent(ctx, events.Event{
					Type:    events.EventTrustEventRecorded,
					ShiftID: shift.ID,
					Actor:   actor,
					Payload: events.TrustEventRecordedPayload{
						TrustEventID: recorded.ID,
						UserID:       recorded.UserID,
						EventType:    recorded.EventType,
						Severity:     recorded.Severity,
						Impact:       recorded.Impact,
					},
				})
			}
		case lifecycle.NotifyUsers:
			s.publishEvent(ctx, events.Event{
				Type:    events.EventUsersNotified,
				ShiftID: shift.ID,
				Actor:   actor,
				Payload: events.UsersNotifiedPayload{
					UserIDs:  e.UserIDs,
					Audience: string(e.Audience),
					Message:  e.Message,
				},
			})
		}
	}
	return outcome, nil
}

// AvailableTransitions lists the statuses the actor could move the shift to now.
func (s *ShiftService) AvailableTransitions(ctx context.Context, shiftID string, actor Actor) ([]domain.ShiftStatus, error) {
	shift, err := s.loadShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	return s.machine.AvailableTransitions(shift.Status, lifecycle.Context{
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Shift:     *shift,
	}), nil
}

// History returns the status audit trail of a shift, oldest first.
func (s *ShiftService) History(ctx context.Context, shiftID string) ([]domain.ShiftHistory, error) {
	if _, err := s.loadShift(ctx, shiftID); err != nil {
		return nil, err
	}
	return s.shifts.ListHistory(ctx, shiftID)
}

func (s *ShiftService) loadShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
		}
		return nil, err
	}
	return shift, nil
}

func (s *ShiftService) matchWorkers(ctx context.Context, shift *domain.Shift) []string {
	ids, err := s.shifts.MatchWorkers(ctx, shift, matchedWorkersLimit)
	if err != nil {
		s.logger.Warn("match workers for published shift", zap.String("shift_id", shift.ID), zap.Error(err))
		return nil
	}
	return ids
}

func (s *ShiftService) recordTrustEvent(ctx context.Context, shiftID string, from, to domain.ShiftStatus, reason string, e lifecycle.CreateTrustEvent) *domain.TrustEvent {
	metadata := map[string]any{
		"effect_severity": string(e.Severity),
		"transition":      string(from) + "->" + string(to),
	}
	input := trust.CreateEventInput{
		UserID:    e.UserID,
		EventType: e.EventType,
		ShiftID:   &shiftID,
		Metadata:  metadata,
	}
	if reason != "" {
		input.Description = &reason
	}
	event := s.trust.CreateTrustEvent(ctx, input)
	s.metrics.RecordTrustEvent(string(e.EventType), event != nil)
	if event == nil {
		s.logger.Warn("trust event not recorded; transition kept",
			zap.String("shift_id", shiftID),
			zap.String("user_id", e.UserID),
			zap.String("event_type", string(e.EventType)))
	}
	return event
}

// splitEffects separates effects that commit with the status write from those
// dispatched after commit.
func splitEffects(effects []lifecycle.Effect) (repository.TransitionWrite, []lifecycle.Effect) {
	var write repository.TransitionWrite
	var post []lifecycle.Effect
	for _, effect := range effects {
		switch e := effect.(type) {
		case lifecycle.HoldPayment:
			write.Payments = append(write.Payments, repository.PaymentOperation{Operation: repository.PaymentHold})
		case lifecycle.ReleasePayment:
			write.Payments = append(write.Payments, repository.PaymentOperation{Operation: repository.PaymentRelease})
		case lifecycle.FreezePayment:
			write.Payments = append(write.Payments, repository.PaymentOperation{Operation: repository.PaymentFreeze})
		case lifecycle.RefundPayment:
			amount := e.Amount
			write.Payments = append(write.Payments, repository.PaymentOperation{
				Operation: repository.PaymentRefund,
				Amount:    &amount,
				Reason:    e.Reason,
			})
		case lifecycle.UpdateStatistics:
			write.Statistics = append(write.Statistics, repository.StatisticsDelta{
				UserID: e.UserID,
				Field:  e.Field,
				Delta:  e.Delta,
			})
		case lifecycle.LockApplications:
			write.LockApplications = true
		case lifecycle.RequestRatings:
			write.RequestRatings = true
		default:
			post = append(post, effect)
		}
	}
	return write, post
}

func (s *ShiftService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("shift_id", event.ShiftID),
			zap.Error(err))
	}
}

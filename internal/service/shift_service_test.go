package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/events"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/lifecycle"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/observability"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/repository"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/trust"
	apperrors "github.com/artemdali21-ship-it/shef-montazh-sub002/pkg/util"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeShiftRepo struct {
	mu       sync.Mutex
	shifts   map[string]*domain.Shift
	writes   []repository.TransitionWrite
	history  []domain.ShiftHistory
	matched  []string
	applyErr error
}

func newFakeShiftRepo(shifts ...domain.Shift) *fakeShiftRepo {
	r := &fakeShiftRepo{shifts: map[string]*domain.Shift{}}
	for i := range shifts {
		s := shifts[i]
		r.shifts[s.ID] = &s
	}
	return r
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShiftRepo) ApplyTransition(_ context.Context, write repository.TransitionWrite) (*domain.ShiftHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applyErr != nil {
		return nil, r.applyErr
	}
	s := r.shifts[write.History.ShiftID]
	if s.Status != write.History.FromStatus {
		return nil, repository.ErrStaleTransition
	}
	s.Status = write.History.ToStatus
	h := write.History
	h.ID = "history-1"
	h.CreatedAt = testNow
	r.writes = append(r.writes, write)
	r.history = append(r.history, h)
	return &h, nil
}

func (r *fakeShiftRepo) ListHistory(_ context.Context, shiftID string) ([]domain.ShiftHistory, error) {
	var out []domain.ShiftHistory
	for _, h := range r.history {
		if h.ShiftID == shiftID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) MatchWorkers(context.Context, *domain.Shift, int) ([]string, error) {
	return r.matched, nil
}

type fakeTrust struct {
	inputs   []trust.CreateEventInput
	fail     bool
	decision trust.Decision
}

func (f *fakeTrust) CreateTrustEvent(_ context.Context, input trust.CreateEventInput) *domain.TrustEvent {
	f.inputs = append(f.inputs, input)
	if f.fail {
		return nil
	}
	entry, _ := trust.Lookup(input.EventType)
	return &domain.TrustEvent{
		ID:        "te-1",
		UserID:    input.UserID,
		EventType: input.EventType,
		Severity:  entry.Severity,
		Impact:    entry.Impact,
		ShiftID:   input.ShiftID,
		Metadata:  input.Metadata,
	}
}

func (f *fakeTrust) CanPerformAction(context.Context, string, trust.Action) trust.Decision {
	return f.decision
}

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Subscribe(events.EventType, events.EventHandler) {}

func (r *recorder) ofType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	svc     *ShiftService
	repo    *fakeShiftRepo
	trust   *fakeTrust
	events  *recorder
	metrics *observability.Metrics
}

func newHarness(shifts ...domain.Shift) *harness {
	h := &harness{
		repo:    newFakeShiftRepo(shifts...),
		trust:   &fakeTrust{decision: trust.Decision{Allowed: true}},
		events:  &recorder{},
		metrics: observability.NewMetrics(),
	}
	h.svc = NewShiftService(ShiftDependencies{
		ShiftRepo:  h.repo,
		Machine:    &lifecycle.Machine{Now: func() time.Time { return testNow }},
		Trust:      h.trust,
		Dispatcher: h.events,
		Metrics:    h.metrics,
		Logger:     zap.NewNop(),
	})
	return h
}

func openShift(startIn time.Duration) domain.Shift {
	return domain.Shift{
		ID:          "shift-1",
		ClientID:    "client-1",
		Title:       "Монтаж сцены",
		Status:      domain.ShiftStatusOpen,
		StartTime:   testNow.Add(startIn),
		TotalAmount: 8000,
		AssignedWorkers: []domain.AssignedWorker{
			{WorkerID: "worker-1"},
			{WorkerID: "worker-2"},
		},
	}
}

var clientActor = Actor{ID: "client-1", Role: domain.ActorClient}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestCancelOpenShiftDispatchesEffects(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))

	outcome, err := h.svc.Transition(context.Background(), TransitionInput{
		ShiftID: "shift-1",
		To:      domain.ShiftStatusCancelled,
		Reason:  "venue closed",
		Actor:   clientActor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusCancelled, outcome.Shift.Status)
	assert.Equal(t, "history-1", outcome.History.ID)

	require.Len(t, h.repo.writes, 1)
	write := h.repo.writes[0]
	require.Len(t, write.Payments, 1)
	assert.Equal(t, repository.PaymentRefund, write.Payments[0].Operation)
	assert.Equal(t, int64(5600), *write.Payments[0].Amount)
	assert.Equal(t, "venue closed", write.History.Reason)

	require.Len(t, h.trust.inputs, 1)
	input := h.trust.inputs[0]
	assert.Equal(t, "client-1", input.UserID)
	assert.Equal(t, domain.TrustLateCancellation, input.EventType)
	assert.Equal(t, "medium", input.Metadata["effect_severity"])
	assert.Equal(t, "shift-1", *input.ShiftID)
	require.Len(t, outcome.TrustEvents, 1)

	notified := h.events.ofType(events.EventUsersNotified)
	require.Len(t, notified, 1)
	payload := notified[0].Payload.(events.UsersNotifiedPayload)
	assert.Equal(t, []string{"worker-1", "worker-2"}, payload.UserIDs)
	assert.Len(t, h.events.ofType(events.EventShiftStatusChanged), 1)
	assert.Len(t, h.events.ofType(events.EventTrustEventRecorded), 1)
	assert.Equal(t, int64(1), h.metrics.Snapshot().Transitions["open->cancelled|applied"])
}

func TestTrustFailureDoesNotRollBackTransition(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))
	h.trust.fail = true

	outcome, err := h.svc.Transition(context.Background(), TransitionInput{
		ShiftID: "shift-1",
		To:      domain.ShiftStatusCancelled,
		Actor:   clientActor,
	})
	require.NoError(t, err)
	assert.Empty(t, outcome.TrustEvents)
	assert.Len(t, h.trust.inputs, 1)
	assert.Equal(t, domain.ShiftStatusCancelled, h.repo.shifts["shift-1"].Status)
	assert.Empty(t, h.events.ofType(events.EventTrustEventRecorded))
	assert.Equal(t, int64(1), h.metrics.Snapshot().TrustEvents["late_cancellation|false"])
}

func TestStaleTransitionAppliesNothing(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))
	h.repo.applyErr = repository.ErrStaleTransition

	_, err := h.svc.Transition(context.Background(), TransitionInput{
		ShiftID: "shift-1",
		To:      domain.ShiftStatusCancelled,
		Actor:   clientActor,
	})
	assert.Equal(t, "STALE_TRANSITION", errorCode(t, err))
	assert.Empty(t, h.trust.inputs)
	assert.Empty(t, h.events.events)
	assert.Equal(t, int64(1), h.metrics.Snapshot().Transitions["open->cancelled|stale"])
}

func TestConcurrentCancellationsOneWins(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))
	admin := Actor{ID: "admin-1", Role: domain.ActorAdmin}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.Transition(context.Background(), TransitionInput{
				ShiftID: "shift-1",
				To:      domain.ShiftStatusCancelled,
				Actor:   admin,
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		code := apperrors.ToDomainError(err).Code
		assert.Contains(t, []string{"STALE_TRANSITION", "INVALID_TRANSITION"}, code)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, h.repo.writes, 1)
}

func TestInvalidTransitionRejected(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))

	_, err := h.svc.Transition(context.Background(), TransitionInput{
		ShiftID: "shift-1",
		To:      domain.ShiftStatusCompleted,
		Actor:   clientActor,
	})
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, err))
	assert.Contains(t, err.Error(), "Transition from open to completed is not allowed")
	assert.Empty(t, h.repo.writes)
}

func TestUnknownTargetAndMissingShift(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))

	_, err := h.svc.Transition(context.Background(), TransitionInput{ShiftID: "shift-1", To: "archived", Actor: clientActor})
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	_, err = h.svc.Transition(context.Background(), TransitionInput{ShiftID: "nope", To: domain.ShiftStatusCancelled, Actor: clientActor})
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestPublishRequiresTrust(t *testing.T) {
	draft := openShift(5 * time.Hour)
	draft.Status = domain.ShiftStatusDraft
	draft.AssignedWorkers = nil

	h := newHarness(draft)
	h.trust.decision = trust.Decision{Allowed: false, Reason: "Недостаточный уровень доверия"}
	_, err := h.svc.Transition(context.Background(), TransitionInput{ShiftID: "shift-1", To: domain.ShiftStatusOpen, Actor: clientActor})
	assert.Equal(t, "TRUST_DENIED", errorCode(t, err))
	assert.Equal(t, "Недостаточный уровень доверия", apperrors.ToDomainError(err).Message)
	assert.Empty(t, h.repo.writes)

	h = newHarness(draft)
	h.repo.matched = []string{"worker-7", "worker-8"}
	outcome, err := h.svc.Transition(context.Background(), TransitionInput{ShiftID: "shift-1", To: domain.ShiftStatusOpen, Actor: clientActor})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusOpen, outcome.Shift.Status)
	require.Len(t, h.repo.writes[0].Payments, 1)
	assert.Equal(t, repository.PaymentHold, h.repo.writes[0].Payments[0].Operation)

	notified := h.events.ofType(events.EventUsersNotified)
	require.Len(t, notified, 1)
	assert.Equal(t, []string{"worker-7", "worker-8"}, notified[0].Payload.(events.UsersNotifiedPayload).UserIDs)
}

func TestCompletionWritesStatisticsAndRatings(t *testing.T) {
	shift := openShift(-time.Hour)
	shift.Status = domain.ShiftStatusInProgress
	h := newHarness(shift)

	_, err := h.svc.Transition(context.Background(), TransitionInput{
		ShiftID: "shift-1",
		To:      domain.ShiftStatusCompleted,
		Actor:   Actor{ID: "system", Role: domain.ActorSystem},
	})
	require.NoError(t, err)

	write := h.repo.writes[0]
	assert.True(t, write.RequestRatings)
	assert.False(t, write.LockApplications)
	assert.Equal(t, []repository.PaymentOperation{{Operation: repository.PaymentRelease}}, write.Payments)
	assert.ElementsMatch(t, []repository.StatisticsDelta{
		{UserID: "client-1", Field: lifecycle.StatCompletedShifts, Delta: 1},
		{UserID: "worker-1", Field: lifecycle.StatCompletedShifts, Delta: 1},
		{UserID: "worker-2", Field: lifecycle.StatCompletedShifts, Delta: 1},
	}, write.Statistics)
}

func TestDisputeNotifiesAdmins(t *testing.T) {
	shift := openShift(-48 * time.Hour)
	shift.Status = domain.ShiftStatusCompleted
	h := newHarness(shift)

	_, err := h.svc.Transition(context.Background(), TransitionInput{
		ShiftID: "shift-1",
		To:      domain.ShiftStatusDisputed,
		Actor:   Actor{ID: "worker-2", Role: domain.ActorWorker},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.PaymentFreeze, h.repo.writes[0].Payments[0].Operation)

	notified := h.events.ofType(events.EventUsersNotified)
	require.Len(t, notified, 1)
	assert.Equal(t, "admins", notified[0].Payload.(events.UsersNotifiedPayload).Audience)
}

func TestAvailableTransitionsAndHistory(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))
	ctx := context.Background()

	available, err := h.svc.AvailableTransitions(ctx, "shift-1", clientActor)
	require.NoError(t, err)
	assert.Equal(t, []domain.ShiftStatus{domain.ShiftStatusCancelled}, available)

	_, err = h.svc.Transition(ctx, TransitionInput{ShiftID: "shift-1", To: domain.ShiftStatusCancelled, Actor: clientActor})
	require.NoError(t, err)

	history, err := h.svc.History(ctx, "shift-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ShiftStatusOpen, history[0].FromStatus)

	_, err = h.svc.History(ctx, "missing")
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestApplyFailureIsInternal(t *testing.T) {
	h := newHarness(openShift(6 * time.Hour))
	h.repo.applyErr = errors.New("connection reset")

	_, err := h.svc.Transition(context.Background(), TransitionInput{ShiftID: "shift-1", To: domain.ShiftStatusCancelled, Actor: clientActor})
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, err))
	assert.Empty(t, h.trust.inputs)
}

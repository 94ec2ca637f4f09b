package trust

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	engine   *Engine
	ledger   *memLedger
	profiles *memProfiles
	cache    *memCache
}

func newFixture() *fixture {
	f := &fixture{
		ledger:   &memLedger{},
		profiles: newMemProfiles(),
		cache:    newMemCache(),
	}
	f.engine = NewEngine(EngineDependencies{
		Ledger:   f.ledger,
		Profiles: f.profiles,
		Cache:    f.cache,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return testNow },
	})
	return f
}

func intPtr(v int) *int { return &v }

func TestCatalogCoversEveryEventType(t *testing.T) {
	types := EventTypes()
	require.Len(t, types, 18)

	var negative, positive int
	for _, eventType := range types {
		entry, ok := Lookup(eventType)
		require.True(t, ok)
		assert.NotZero(t, entry.Impact, eventType)
		assert.Contains(t, []domain.Severity{domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh}, entry.Severity)
		if entry.Impact < 0 {
			negative++
		} else {
			positive++
		}
	}
	assert.Equal(t, 10, negative)
	assert.Equal(t, 8, positive)

	_, ok := Lookup("made_up")
	assert.False(t, ok)
}

func TestCreateTrustEventUsesCatalog(t *testing.T) {
	f := newFixture()
	shiftID := "shift-1"

	event := f.engine.CreateTrustEvent(context.Background(), CreateEventInput{
		UserID:    "worker-1",
		EventType: domain.TrustNoShow,
		ShiftID:   &shiftID,
	})
	require.NotNil(t, event)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, -30, event.Impact)
	assert.Equal(t, domain.SeverityHigh, event.Severity)
	assert.Equal(t, &shiftID, event.ShiftID)
	assert.Equal(t, testNow, event.CreatedAt)
	assert.Len(t, f.ledger.events, 1)
}

func TestCustomImpactKeepsCatalogSeverity(t *testing.T) {
	f := newFixture()

	event := f.engine.CreateTrustEvent(context.Background(), CreateEventInput{
		UserID:       "worker-1",
		EventType:    domain.TrustLateArrival,
		CustomImpact: intPtr(-12),
	})
	require.NotNil(t, event)
	assert.Equal(t, -12, event.Impact)
	assert.Equal(t, domain.SeverityLow, event.Severity)
}

func TestCreateTrustEventReturnsNilOnFailure(t *testing.T) {
	f := newFixture()
	f.ledger.fail = true

	assert.Nil(t, f.engine.CreateTrustEvent(context.Background(), CreateEventInput{
		UserID:    "worker-1",
		EventType: domain.TrustNoShow,
	}))

	f.ledger.fail = false
	assert.Nil(t, f.engine.CreateTrustEvent(context.Background(), CreateEventInput{
		UserID:    "worker-1",
		EventType: "made_up",
	}))
	assert.Empty(t, f.ledger.events)
}

func TestScoreStartsAtBase(t *testing.T) {
	f := newFixture()
	assert.Equal(t, 100, f.engine.TrustScore(context.Background(), "nobody"))
}

func TestScoreFailsOpen(t *testing.T) {
	f := newFixture()
	f.ledger.fail = true
	assert.Equal(t, BaseScore, f.engine.TrustScore(context.Background(), "worker-1"))
}

func TestScoreIsDerivableFromHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sequence := []domain.TrustEventType{
		domain.TrustDocumentsVerified,
		domain.TrustHighRating,
		domain.TrustFakeCheckIn,
		domain.TrustFakeCheckIn,
		domain.TrustNoShow,
		domain.TrustShiftCompleted,
	}

	before := f.engine.TrustScore(ctx, "worker-1")
	for _, eventType := range sequence {
		event := f.engine.CreateTrustEvent(ctx, CreateEventInput{UserID: "worker-1", EventType: eventType})
		require.NotNil(t, event)
		after := f.engine.TrustScore(ctx, "worker-1")
		assert.Equal(t, clamp(before+event.Impact), after, eventType)
		before = after
	}
	assert.Equal(t, 2, before)
}

func TestScoreClampsAtBothEnds(t *testing.T) {
	assert.Equal(t, MaxScore, ComputeScore([]int{40, 40}))
	assert.Equal(t, MinScore, ComputeScore([]int{-80, -80}))
	// Clamping happens at every step, so a later gain starts from the bound.
	assert.Equal(t, 10, ComputeScore([]int{-200, 10}))
	assert.Equal(t, 140, ComputeScore([]int{100, -10}))
}

func TestCreateTrustEventInvalidatesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.Equal(t, 100, f.engine.TrustScore(ctx, "worker-1"))
	assert.Equal(t, 100, f.cache.scores["worker-1"])

	f.engine.CreateTrustEvent(ctx, CreateEventInput{UserID: "worker-1", EventType: domain.TrustNoShow})
	assert.Equal(t, []string{"worker-1"}, f.cache.invalidated)
	assert.Equal(t, 70, f.engine.TrustScore(ctx, "worker-1"))
}

func TestEventHistoryLimits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 120; i++ {
		f.engine.CreateTrustEvent(ctx, CreateEventInput{UserID: "worker-1", EventType: domain.TrustShiftCompleted})
	}
	f.engine.CreateTrustEvent(ctx, CreateEventInput{UserID: "worker-1", EventType: domain.TrustLateArrival})

	history := f.engine.EventHistory(ctx, "worker-1", 0)
	require.Len(t, history, DefaultHistoryLimit)
	assert.Equal(t, domain.TrustLateArrival, history[0].EventType)

	assert.Len(t, f.engine.EventHistory(ctx, "worker-1", 500), 100)
	assert.Len(t, f.engine.EventHistory(ctx, "worker-1", 5), 5)

	f.ledger.fail = true
	assert.Empty(t, f.engine.EventHistory(ctx, "worker-1", 5))
}

func TestFlagsDispatchByRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.profiles.add("lead-1", domain.UserRoleShiftLead, domain.ProfileFlags{IsBlocked: true})
	f.profiles.add("client-1", domain.UserRoleClient, domain.ProfileFlags{IsSuspicious: true})
	f.profiles.add("admin-1", domain.UserRoleAdmin, domain.ProfileFlags{IsBlocked: true, IsSuspicious: true})

	assert.True(t, f.engine.IsUserBlocked(ctx, "lead-1"))
	assert.False(t, f.engine.IsUserSuspicious(ctx, "lead-1"))
	assert.True(t, f.engine.IsUserSuspicious(ctx, "client-1"))
	assert.False(t, f.engine.IsUserBlocked(ctx, "admin-1"))
	assert.False(t, f.engine.IsUserSuspicious(ctx, "admin-1"))
	assert.False(t, f.engine.IsUserBlocked(ctx, "ghost"))
}

func TestFlagsFailOpen(t *testing.T) {
	f := newFixture()
	f.profiles.add("worker-1", domain.UserRoleWorker, domain.ProfileFlags{IsBlocked: true})
	f.profiles.fail = true

	assert.False(t, f.engine.IsUserBlocked(context.Background(), "worker-1"))
	assert.True(t, f.engine.CanPerformAction(context.Background(), "worker-1", ActionApplyToShift).Allowed)
}

func TestCanPerformActionThresholds(t *testing.T) {
	cases := []struct {
		action  Action
		impacts []int
		allowed bool
	}{
		{ActionPostShift, []int{-50}, true},
		{ActionPostShift, []int{-51}, false},
		{ActionApplyToShift, []int{-70}, true},
		{ActionApplyToShift, []int{-71}, false},
		{ActionRequestPayout, []int{-71}, false},
		{ActionSendMessage, []int{-60}, true},
		{ActionSendMessage, []int{-61}, false},
	}
	for _, tc := range cases {
		f := newFixture()
		f.profiles.add("client-1", domain.UserRoleClient, domain.ProfileFlags{})
		for _, impact := range tc.impacts {
			f.engine.CreateTrustEvent(context.Background(), CreateEventInput{
				UserID:       "client-1",
				EventType:    domain.TrustPaymentDelay,
				CustomImpact: intPtr(impact),
			})
		}
		decision := f.engine.CanPerformAction(context.Background(), "client-1", tc.action)
		assert.Equal(t, tc.allowed, decision.Allowed, "%s %v", tc.action, tc.impacts)
		if tc.allowed {
			assert.Empty(t, decision.Reason)
		} else {
			threshold, _ := Threshold(tc.action)
			assert.Contains(t, decision.Reason, "требуется")
			assert.Contains(t, decision.Reason, itoa(threshold))
		}
	}
}

func TestBlockedUserDeniedRegardlessOfScore(t *testing.T) {
	f := newFixture()
	f.profiles.add("worker-1", domain.UserRoleWorker, domain.ProfileFlags{IsBlocked: true})

	decision := f.engine.CanPerformAction(context.Background(), "worker-1", ActionSendMessage)
	assert.False(t, decision.Allowed)
	assert.Equal(t, blockedReason, decision.Reason)
}

func TestUnknownActionDenied(t *testing.T) {
	f := newFixture()
	decision := f.engine.CanPerformAction(context.Background(), "worker-1", Action("delete_everything"))
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)
}

func TestModeration(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.profiles.add("worker-1", domain.UserRoleWorker, domain.ProfileFlags{IsBlocked: true, IsSuspicious: true})
	f.profiles.add("client-1", domain.UserRoleClient, domain.ProfileFlags{IsSuspicious: true})
	f.profiles.add("admin-1", domain.UserRoleAdmin, domain.ProfileFlags{})
	f.engine.CreateTrustEvent(ctx, CreateEventInput{UserID: "worker-1", EventType: domain.TrustFakeCheckIn})

	users, err := f.engine.SuspiciousUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 100, users[0].TrustScore)
	assert.Equal(t, 50, users[1].TrustScore)
	assert.True(t, users[1].IsBlocked)

	require.NoError(t, f.engine.ClearSuspiciousFlag(ctx, "client-1"))
	assert.False(t, f.engine.IsUserSuspicious(ctx, "client-1"))

	require.NoError(t, f.engine.UnblockUser(ctx, "worker-1"))
	assert.False(t, f.engine.IsUserBlocked(ctx, "worker-1"))

	assert.ErrorIs(t, f.engine.UnblockUser(ctx, "admin-1"), ErrNoProfile)

	f.profiles.fail = true
	_, err = f.engine.SuspiciousUsers(ctx)
	assert.Error(t, err)
}

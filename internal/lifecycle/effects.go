package lifecycle

import "github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"

// EffectKind tags a transition effect.
type EffectKind string

const (
	EffectRefundPayment    EffectKind = "refund_payment"
	EffectHoldPayment      EffectKind = "hold_payment"
	EffectReleasePayment   EffectKind = "release_payment"
	EffectFreezePayment    EffectKind = "freeze_payment"
	EffectNotifyUsers      EffectKind = "notify_users"
	EffectCreateTrustEvent EffectKind = "create_trust_event"
	EffectUpdateStatistics EffectKind = "update_statistics"
	EffectLockApplications EffectKind = "lock_applications"
	EffectRequestRatings   EffectKind = "request_ratings"
)

// Effect is a declarative side effect requested by a transition.
// The state machine never executes effects; the caller dispatches them.
type Effect interface {
	Kind() EffectKind
}

// StatCompletedShifts counts shifts that reached completed.
const StatCompletedShifts = "completed_shifts"

// Audience widens a notification beyond explicit user ids.
type Audience string

const (
	AudienceUsers  Audience = "users"
	AudienceAdmins Audience = "admins"
)

// RefundPayment returns Amount of the held funds to the client.
type RefundPayment struct {
	Amount int64
	Reason string
}

// HoldPayment reserves the shift total on the client's funds.
type HoldPayment struct{}

// ReleasePayment pays held funds out to the workers.
type ReleasePayment struct{}

// FreezePayment blocks held funds until a dispute is resolved.
type FreezePayment struct{}

// NotifyUsers sends Message to UserIDs, or to every admin when Audience is AudienceAdmins.
type NotifyUsers struct {
	UserIDs  []string
	Audience Audience
	Message  string
}

// CreateTrustEvent appends a reputation event for UserID.
type CreateTrustEvent struct {
	UserID    string
	EventType domain.TrustEventType
	Severity  domain.Severity
}

// UpdateStatistics adds Delta to a per-user counter.
type UpdateStatistics struct {
	UserID string
	Field  string
	Delta  int
}

// LockApplications stops new workers from applying.
type LockApplications struct{}

// RequestRatings asks participants to rate each other.
type RequestRatings struct{}

func (RefundPayment) Kind() EffectKind    { return EffectRefundPayment }
func (HoldPayment) Kind() EffectKind      { return EffectHoldPayment }
func (ReleasePayment) Kind() EffectKind   { return EffectReleasePayment }
func (FreezePayment) Kind() EffectKind    { return EffectFreezePayment }
func (NotifyUsers) Kind() EffectKind      { return EffectNotifyUsers }
func (CreateTrustEvent) Kind() EffectKind { return EffectCreateTrustEvent }
func (UpdateStatistics) Kind() EffectKind { return EffectUpdateStatistics }
func (LockApplications) Kind() EffectKind { return EffectLockApplications }
func (RequestRatings) Kind() EffectKind   { return EffectRequestRatings }

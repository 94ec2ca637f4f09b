package domain

import "time"

// TrustEventType enumerates reputation-affecting occurrences.
type TrustEventType string

const (
	// worker negative
	TrustNoShow         TrustEventType = "no_show"
	TrustLateArrival    TrustEventType = "late_arrival"
	TrustEarlyDeparture TrustEventType = "early_departure"
	TrustFakeCheckIn    TrustEventType = "fake_checkin"
	TrustLowRating      TrustEventType = "low_rating_received"

	// worker positive
	TrustShiftCompleted    TrustEventType = "shift_completed"
	TrustOnTimeArrival     TrustEventType = "on_time_arrival"
	TrustHighRating        TrustEventType = "high_rating_received"
	TrustDocumentsVerified TrustEventType = "documents_verified"

	// client negative
	TrustLateCancellation       TrustEventType = "late_cancellation"
	TrustPaymentDelay           TrustEventType = "payment_delay"
	TrustShiftMisrepresentation TrustEventType = "shift_misrepresentation"
	TrustUnjustifiedDispute     TrustEventType = "unjustified_dispute"
	TrustWorkerComplaint        TrustEventType = "worker_complaint"

	// client positive
	TrustOnTimePayment     TrustEventType = "on_time_payment"
	TrustAccurateShift     TrustEventType = "accurate_shift_description"
	TrustRepeatHire        TrustEventType = "repeat_worker_hire"
	TrustHighRatingFromPro TrustEventType = "high_rating_from_worker"
)

// Severity grades how serious a trust event is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// TrustEvent is an append-only ledger row.
type TrustEvent struct {
	ID          string
	UserID      string
	EventType   TrustEventType
	Severity    Severity
	Impact      int
	ShiftID     *string
	Description *string
	Metadata    map[string]any
	CreatedAt   time.Time
}

package lifecycle

import (
	"time"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

const (
	// MinPublishLead is how far ahead of start a draft must be published.
	MinPublishLead = 2 * time.Hour
	// DisputeWindow is how long after start an in-progress shift can be disputed.
	DisputeWindow = 24 * time.Hour

	minClientCancelHours = 2
)

// CancellationTerms is the refund and reputation outcome of cancelling an open shift.
type CancellationTerms struct {
	RefundPercent int
	TrustEvent    bool
	Severity      domain.Severity
}

// CancellationTermsFor maps hours until start to a refund band.
// Each boundary belongs to the higher refund.
func CancellationTermsFor(hoursUntilStart float64) CancellationTerms {
	switch {
	case hoursUntilStart >= 24:
		return CancellationTerms{RefundPercent: 100}
	case hoursUntilStart >= 12:
		return CancellationTerms{RefundPercent: 90}
	case hoursUntilStart >= 2:
		return CancellationTerms{RefundPercent: 70, TrustEvent: true, Severity: domain.SeverityMedium}
	default:
		return CancellationTerms{RefundPercent: 50, TrustEvent: true, Severity: domain.SeverityHigh}
	}
}

// RefundAmount returns percent of total, truncated to whole minor units.
func RefundAmount(total int64, percent int) int64 {
	return total * int64(percent) / 100
}

// HoursUntil returns the fractional hours from now until start; negative once started.
func HoursUntil(start, now time.Time) float64 {
	return start.Sub(now).Hours()
}

func canCancelOpen(c Context, now time.Time) bool {
	if c.ActorRole == domain.ActorAdmin {
		return true
	}
	if !c.isOwningClient() {
		return false
	}
	return HoursUntil(c.Shift.StartTime, now) >= minClientCancelHours && !c.Shift.AnyCheckedIn()
}

func cancelOpenEffects(c Context, now time.Time) []Effect {
	terms := CancellationTermsFor(HoursUntil(c.Shift.StartTime, now))
	reason := c.Reason
	if reason == "" {
		reason = "shift_cancelled"
	}
	effects := []Effect{
		RefundPayment{Amount: RefundAmount(c.Shift.TotalAmount, terms.RefundPercent), Reason: reason},
	}
	if terms.TrustEvent {
		effects = append(effects, CreateTrustEvent{
			UserID:    c.Shift.ClientID,
			EventType: domain.TrustLateCancellation,
			Severity:  terms.Severity,
		})
	}
	return append(effects, NotifyUsers{
		UserIDs:  c.Shift.WorkerIDs(),
		Audience: AudienceUsers,
		Message:  "Смена отменена",
	})
}

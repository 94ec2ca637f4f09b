package trust

import (
	"sort"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

// CatalogEntry is the default consequence of a trust event type.
type CatalogEntry struct {
	Impact   int
	Severity domain.Severity
}

var catalog = map[domain.TrustEventType]CatalogEntry{
	domain.TrustNoShow:         {Impact: -30, Severity: domain.SeverityHigh},
	domain.TrustLateArrival:    {Impact: -5, Severity: domain.SeverityLow},
	domain.TrustEarlyDeparture: {Impact: -10, Severity: domain.SeverityMedium},
	domain.TrustFakeCheckIn:    {Impact: -50, Severity: domain.SeverityHigh},
	domain.TrustLowRating:      {Impact: -5, Severity: domain.SeverityLow},

	domain.TrustShiftCompleted:    {Impact: 2, Severity: domain.SeverityLow},
	domain.TrustOnTimeArrival:     {Impact: 1, Severity: domain.SeverityLow},
	domain.TrustHighRating:        {Impact: 3, Severity: domain.SeverityLow},
	domain.TrustDocumentsVerified: {Impact: 10, Severity: domain.SeverityLow},

	domain.TrustLateCancellation:       {Impact: -15, Severity: domain.SeverityMedium},
	domain.TrustPaymentDelay:           {Impact: -10, Severity: domain.SeverityMedium},
	domain.TrustShiftMisrepresentation: {Impact: -20, Severity: domain.SeverityHigh},
	domain.TrustUnjustifiedDispute:     {Impact: -15, Severity: domain.SeverityMedium},
	domain.TrustWorkerComplaint:        {Impact: -10, Severity: domain.SeverityMedium},

	domain.TrustOnTimePayment:     {Impact: 2, Severity: domain.SeverityLow},
	domain.TrustAccurateShift:     {Impact: 1, Severity: domain.SeverityLow},
	domain.TrustRepeatHire:        {Impact: 2, Severity: domain.SeverityLow},
	domain.TrustHighRatingFromPro: {Impact: 3, Severity: domain.SeverityLow},
}

// Lookup returns the catalog entry for eventType.
func Lookup(eventType domain.TrustEventType) (CatalogEntry, bool) {
	entry, ok := catalog[eventType]
	return entry, ok
}

// EventTypes lists every cataloged event type in lexical order.
func EventTypes() []domain.TrustEventType {
	types := make([]domain.TrustEventType, 0, len(catalog))
	for t := range catalog {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

package lifecycle

import (
	"time"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
)

type guardFunc func(c Context, now time.Time) bool

type effectsFunc func(c Context, now time.Time) []Effect

type rule struct {
	guard   guardFunc
	effects effectsFunc
}

// rules is keyed by from-status, then to-status. Every status has an entry;
// terminal statuses map to an empty set.
var rules = map[domain.ShiftStatus]map[domain.ShiftStatus]rule{
	domain.ShiftStatusDraft: {
		domain.ShiftStatusOpen: {
			guard: func(c Context, now time.Time) bool {
				return c.isOwningClient() && !c.Shift.StartTime.Before(now.Add(MinPublishLead))
			},
			effects: func(c Context, _ time.Time) []Effect {
				return []Effect{
					HoldPayment{},
					NotifyUsers{
						UserIDs:  append([]string(nil), c.MatchedWorkerIDs...),
						Audience: AudienceUsers,
						Message:  "Опубликована новая смена: " + c.Shift.Title,
					},
				}
			},
		},
		domain.ShiftStatusCancelled: {
			guard: func(c Context, _ time.Time) bool {
				return c.isOwningClient()
			},
		},
	},
	domain.ShiftStatusOpen: {
		domain.ShiftStatusInProgress: {
			guard: func(c Context, _ time.Time) bool {
				return c.ActorRole == domain.ActorSystem && c.Shift.AnyCheckedIn()
			},
			effects: func(c Context, _ time.Time) []Effect {
				return []Effect{
					LockApplications{},
					NotifyUsers{
						UserIDs:  []string{c.Shift.ClientID},
						Audience: AudienceUsers,
						Message:  "Смена началась",
					},
				}
			},
		},
		domain.ShiftStatusCancelled: {
			guard:   canCancelOpen,
			effects: cancelOpenEffects,
		},
	},
	domain.ShiftStatusInProgress: {
		domain.ShiftStatusCompleted: {
			guard: func(c Context, _ time.Time) bool {
				return c.ActorRole == domain.ActorSystem || c.isOwningClient()
			},
			effects: func(c Context, _ time.Time) []Effect {
				effects := []Effect{ReleasePayment{}, RequestRatings{}}
				for _, userID := range c.participants() {
					effects = append(effects, UpdateStatistics{UserID: userID, Field: StatCompletedShifts, Delta: 1})
				}
				return effects
			},
		},
		domain.ShiftStatusDisputed: {
			guard: func(c Context, now time.Time) bool {
				if !c.isOwningClient() && !c.isAssignedWorker() {
					return false
				}
				return !now.After(c.Shift.StartTime.Add(DisputeWindow))
			},
			effects: openDisputeEffects,
		},
	},
	domain.ShiftStatusCompleted: {
		// No time window is enforced on reopening a completed shift.
		domain.ShiftStatusDisputed: {
			guard: func(c Context, _ time.Time) bool {
				return c.isOwningClient() || c.isAssignedWorker()
			},
			effects: openDisputeEffects,
		},
	},
	domain.ShiftStatusDisputed: {
		domain.ShiftStatusCompleted: {
			guard:   isAdmin,
			effects: func(c Context, _ time.Time) []Effect {
				return []Effect{
					ReleasePayment{},
					NotifyUsers{UserIDs: c.participants(), Audience: AudienceUsers, Message: "Спор решён: оплата переведена исполнителям"},
				}
			},
		},
		domain.ShiftStatusCancelled: {
			guard:   isAdmin,
			effects: func(c Context, _ time.Time) []Effect {
				return []Effect{
					RefundPayment{Amount: c.Shift.TotalAmount, Reason: "dispute_resolved_for_client"},
					NotifyUsers{UserIDs: c.participants(), Audience: AudienceUsers, Message: "Спор решён: средства возвращены заказчику"},
				}
			},
		},
	},
	domain.ShiftStatusCancelled: {},
}

func isAdmin(c Context, _ time.Time) bool {
	return c.ActorRole == domain.ActorAdmin
}

func openDisputeEffects(c Context, _ time.Time) []Effect {
	return []Effect{
		FreezePayment{},
		NotifyUsers{Audience: AudienceAdmins, Message: "Открыт спор по смене " + c.Shift.ID},
	}
}

func lookup(from, to domain.ShiftStatus) (rule, bool) {
	targets, ok := rules[from]
	if !ok {
		return rule{}, false
	}
	r, ok := targets[to]
	return r, ok
}

package trust

import (
	"context"
	"fmt"
)

// Action is a sensitive operation gated by trust.
type Action string

const (
	ActionPostShift     Action = "post_shift"
	ActionApplyToShift  Action = "apply_to_shift"
	ActionSendMessage   Action = "send_message"
	ActionRequestPayout Action = "request_payout"
)

var actionThresholds = map[Action]int{
	ActionPostShift:     50,
	ActionApplyToShift:  30,
	ActionSendMessage:   40,
	ActionRequestPayout: 30,
}

var actionNames = map[Action]string{
	ActionPostShift:     "публикации смен",
	ActionApplyToShift:  "отклика на смены",
	ActionSendMessage:   "отправки сообщений",
	ActionRequestPayout: "вывода средств",
}

const blockedReason = "Ваш аккаунт заблокирован. Обратитесь в службу поддержки."

// Decision is the outcome of a gating query. Reason is a localized message set when denied.
type Decision struct {
	Allowed bool
	Reason  string
}

// Threshold returns the minimum score required for action.
func Threshold(action Action) (int, bool) {
	threshold, ok := actionThresholds[action]
	return threshold, ok
}

// CanPerformAction checks the block flag, then the action's score threshold.
func (e *Engine) CanPerformAction(ctx context.Context, userID string, action Action) Decision {
	threshold, ok := actionThresholds[action]
	if !ok {
		return Decision{Allowed: false, Reason: fmt.Sprintf("Неизвестное действие: %s", action)}
	}
	if e.IsUserBlocked(ctx, userID) {
		return Decision{Allowed: false, Reason: blockedReason}
	}
	score := e.TrustScore(ctx, userID)
	if score < threshold {
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("Недостаточный уровень доверия для %s: требуется %d, текущий %d",
				actionNames[action], threshold, score),
		}
	}
	return Decision{Allowed: true}
}

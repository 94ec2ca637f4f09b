package lifecycle

import "github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"

var statusLabels = map[domain.ShiftStatus]string{
	domain.ShiftStatusDraft:      "Черновик",
	domain.ShiftStatusOpen:       "Открыта",
	domain.ShiftStatusInProgress: "В работе",
	domain.ShiftStatusCompleted:  "Завершена",
	domain.ShiftStatusCancelled:  "Отменена",
	domain.ShiftStatusDisputed:   "Спор",
}

var statusColors = map[domain.ShiftStatus]string{
	domain.ShiftStatusDraft:      "gray",
	domain.ShiftStatusOpen:       "blue",
	domain.ShiftStatusInProgress: "yellow",
	domain.ShiftStatusCompleted:  "green",
	domain.ShiftStatusCancelled:  "red",
	domain.ShiftStatusDisputed:   "orange",
}

// StatusLabel returns the display label for status, or the raw value when unknown.
func StatusLabel(status domain.ShiftStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// StatusColor returns the UI color token for status.
func StatusColor(status domain.ShiftStatus) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return "gray"
}

package trust

import "github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"

// Level is a trust score band.
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelWarning   Level = "warning"
	LevelCritical  Level = "critical"
)

// Category describes a score band for display.
type Category struct {
	Level       Level
	Label       string
	Description string
	Color       string
}

// ScoreCategory classifies score. It ignores the explicit block flag.
func ScoreCategory(score int) Category {
	switch {
	case score >= 80:
		return Category{Level: LevelExcellent, Label: "Отлично", Description: "Полный доступ ко всем функциям платформы", Color: "green"}
	case score >= 50:
		return Category{Level: LevelGood, Label: "Хорошо", Description: "Доступ открыт, возможны отдельные ограничения", Color: "blue"}
	case score >= 30:
		return Category{Level: LevelWarning, Label: "Внимание", Description: "Действия проходят модерацию", Color: "yellow"}
	default:
		return Category{Level: LevelCritical, Label: "Критично", Description: "Доступ к платформе фактически заблокирован", Color: "red"}
	}
}

// ScoreRecommendations returns advice for raising a score, specific to role.
func ScoreRecommendations(score int, role domain.UserRole) []string {
	switch role {
	case domain.UserRoleWorker, domain.UserRoleShiftLead:
		return workerRecommendations(score)
	case domain.UserRoleClient:
		return clientRecommendations(score)
	default:
		return []string{}
	}
}

func workerRecommendations(score int) []string {
	switch {
	case score >= 80:
		return []string{
			"Отличная репутация! Продолжайте в том же духе",
			"Вам доступны приоритетные смены",
		}
	case score >= 50:
		return []string{
			"Приходите на смены вовремя и отмечайтесь по геолокации",
			"Не отказывайтесь от смен в последний момент",
			"Просите заказчиков оставлять отзывы после смены",
		}
	default:
		return []string{
			"Рейтинг доверия низкий: часть смен для вас недоступна",
			"Выполните несколько смен без опозданий, чтобы восстановить рейтинг",
			"Обратитесь в поддержку, если считаете снижение ошибочным",
		}
	}
}

func clientRecommendations(score int) []string {
	switch {
	case score >= 80:
		return []string{
			"Отличная репутация! Исполнители охотнее откликаются на ваши смены",
		}
	case score >= 50:
		return []string{
			"Оплачивайте смены без задержек",
			"Отменяйте смены не позднее чем за 24 часа до начала",
			"Указывайте точное описание работ",
		}
	default:
		return []string{
			"Рейтинг доверия низкий: публикация смен ограничена",
			"Избегайте поздних отмен и необоснованных споров",
			"Обратитесь в поддержку, если считаете снижение ошибочным",
		}
	}
}

package progress

import (
	"time"

	"github.com/zenstudy/backend/internal/models"
)

// Definition describes one achievement: a stable ID and the predicate over
// the account's aggregates that unlocks it.
type Definition struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Unlocks     func(completed, points, streak int) bool
}

// Definitions is the fixed, ordered badge list. Order matters only for
// presentation; unlocks are append-only per account.
var Definitions = []Definition{
	{
		ID:          "first_step",
		Name:        "First Step",
		Icon:        "🌱",
		Description: "Complete your first task",
		Unlocks:     func(completed, _, _ int) bool { return completed >= 1 },
	},
	{
		ID:          "getting_started",
		Name:        "Getting Started",
		Icon:        "⚡",
		Description: "Complete 5 tasks",
		Unlocks:     func(completed, _, _ int) bool { return completed >= 5 },
	},
	{
		ID:          "momentum",
		Name:        "Momentum",
		Icon:        "🔥",
		Description: "Complete 10 tasks",
		Unlocks:     func(completed, _, _ int) bool { return completed >= 10 },
	},
	{
		ID:          "unstoppable",
		Name:        "Unstoppable",
		Icon:        "💪",
		Description: "Complete 25 tasks",
		Unlocks:     func(completed, _, _ int) bool { return completed >= 25 },
	},
	{
		ID:          "zen_master",
		Name:        "Zen Master",
		Icon:        "🎯",
		Description: "Earn 500 Zen Points",
		Unlocks:     func(_, points, _ int) bool { return points >= 500 },
	},
	{
		ID:          "week_warrior",
		Name:        "Week Warrior",
		Icon:        "🌟",
		Description: "Maintain a 7-day streak",
		Unlocks:     func(_, _, streak int) bool { return streak >= 7 },
	},
}

// EvaluateBadges returns the badges that hold for the given aggregates and
// are not yet in unlocked. Pure over (aggregates, already-unlocked set), so a
// badge is reported exactly once across evaluations as long as unlocks are
// persisted.
func EvaluateBadges(completed, points, streak int, unlocked []models.Badge, now time.Time) []models.Badge {
	have := make(map[string]bool, len(unlocked))
	for _, b := range unlocked {
		have[b.ID] = true
	}

	var fresh []models.Badge
	for _, def := range Definitions {
		if have[def.ID] {
			continue
		}
		if def.Unlocks(completed, points, streak) {
			fresh = append(fresh, models.Badge{
				ID:          def.ID,
				Name:        def.Name,
				Icon:        def.Icon,
				Description: def.Description,
				UnlockedAt:  now.Unix(),
			})
		}
	}
	return fresh
}

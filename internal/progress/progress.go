// Package progress contains the pure computations behind the gamified
// feedback: window completion percentages, day streaks, badge evaluation and
// the growth-tree stage. Nothing here touches storage or the clock; callers
// pass "now" in, which keeps every rule testable at fixed dates.
package progress

import (
	"math"
	"time"

	"github.com/zenstudy/backend/internal/models"
)

// Window is an inclusive calendar-date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// DailyWindow is the window covering exactly today.
func DailyWindow(now time.Time) Window {
	day := truncateToDay(now)
	return Window{Start: day, End: day}
}

// WeeklyWindow spans from one day ago to seven days ahead. The one-day
// tolerance at the start keeps a task due yesterday counted toward this
// week's progress.
func WeeklyWindow(now time.Time) Window {
	return Window{
		Start: truncateToDay(now.AddDate(0, 0, -1)),
		End:   truncateToDay(now.AddDate(0, 0, 7)),
	}
}

// WindowProgress returns the percentage (0-100, rounded) of tasks whose
// deadline falls inside the window that are Completed. A window containing
// zero tasks yields 0.
func WindowProgress(tasks []models.Task, w Window) int {
	total := 0
	completed := 0
	for _, t := range tasks {
		d := t.DeadlineTime()
		if d.IsZero() || d.Before(w.Start) || d.After(w.End) {
			continue
		}
		total++
		if t.Status == models.StatusCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// AdvanceStreak applies a reward event dated "now" to the current streak.
// Activity earlier today leaves the streak unchanged (no double count within
// a day); activity exactly yesterday extends it; a gap of two or more days,
// or no prior activity, resets it to 1. The returned date is the new
// last-activity value in YYYY-MM-DD form.
func AdvanceStreak(current int, lastActivity string, now time.Time) (int, string) {
	today := now.Format(models.DeadlineLayout)
	if lastActivity == today {
		if current < 1 {
			current = 1
		}
		return current, today
	}

	yesterday := now.AddDate(0, 0, -1).Format(models.DeadlineLayout)
	if lastActivity == yesterday {
		return current + 1, today
	}
	return 1, today
}

// GrowthStage maps overall completion to one of five growth-tree stages,
// 1 (seed) through 5 (fully grown), with the message shown beside the tree.
func GrowthStage(completed, total int) (int, string) {
	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}

	switch {
	case percent == 0:
		return 1, "Your journey has just begun — start completing tasks!"
	case percent <= 25:
		return 2, "Your seed has sprouted 🌱 — keep going!"
	case percent <= 50:
		return 3, "Your tree is growing strong 🌿"
	case percent <= 75:
		return 4, "Almost there! Your tree is flourishing 🌳"
	default:
		return 5, "Congratulations! Your Zen Tree is fully grown 🌺"
	}
}

// truncateToDay normalizes to midnight UTC so boundaries compare cleanly
// against parsed deadlines, which are themselves midnight UTC.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

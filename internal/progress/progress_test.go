package progress

import (
	"testing"
	"time"

	"github.com/zenstudy/backend/internal/models"
)

// fixedNow is a Wednesday, well away from month boundaries.
var fixedNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) string {
	return fixedNow.AddDate(0, 0, offset).Format(models.DeadlineLayout)
}

func task(deadline string, status models.Status) models.Task {
	return models.Task{Subject: "Study", Deadline: deadline, Hours: 1, Status: status}
}

func TestWindowProgress(t *testing.T) {
	tests := []struct {
		name   string
		tasks  []models.Task
		window Window
		want   int
	}{
		{
			name:   "no tasks returns zero not a division error",
			tasks:  nil,
			window: DailyWindow(fixedNow),
			want:   0,
		},
		{
			name: "no tasks in window returns zero",
			tasks: []models.Task{
				task(day(30), models.StatusCompleted),
			},
			window: DailyWindow(fixedNow),
			want:   0,
		},
		{
			name: "daily window matches today only",
			tasks: []models.Task{
				task(day(0), models.StatusCompleted),
				task(day(0), models.StatusPending),
				task(day(1), models.StatusCompleted),
			},
			window: DailyWindow(fixedNow),
			want:   50,
		},
		{
			name: "weekly window excludes deadlines beyond seven days",
			tasks: []models.Task{
				task(day(3), models.StatusCompleted),
				task(day(10), models.StatusPending),
			},
			window: WeeklyWindow(fixedNow),
			want:   100,
		},
		{
			name: "weekly window tolerates yesterday",
			tasks: []models.Task{
				task(day(-1), models.StatusPending),
				task(day(2), models.StatusCompleted),
			},
			window: WeeklyWindow(fixedNow),
			want:   50,
		},
		{
			name: "two days ago falls outside the weekly window",
			tasks: []models.Task{
				task(day(-2), models.StatusCompleted),
				task(day(2), models.StatusCompleted),
			},
			window: WeeklyWindow(fixedNow),
			want:   100,
		},
		{
			name: "rounds to nearest percent",
			tasks: []models.Task{
				task(day(1), models.StatusCompleted),
				task(day(1), models.StatusPending),
				task(day(2), models.StatusPending),
			},
			window: WeeklyWindow(fixedNow),
			want:   33,
		},
		{
			name: "malformed deadline is skipped",
			tasks: []models.Task{
				{Subject: "bad", Deadline: "not-a-date", Status: models.StatusCompleted},
				task(day(0), models.StatusCompleted),
			},
			window: DailyWindow(fixedNow),
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowProgress(tt.tasks, tt.window)
			if got != tt.want {
				t.Errorf("WindowProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdvanceStreak(t *testing.T) {
	today := fixedNow.Format(models.DeadlineLayout)
	yesterday := fixedNow.AddDate(0, 0, -1).Format(models.DeadlineLayout)
	lastWeek := fixedNow.AddDate(0, 0, -6).Format(models.DeadlineLayout)

	tests := []struct {
		name         string
		current      int
		lastActivity string
		wantStreak   int
	}{
		{"no prior activity starts at one", 0, "", 1},
		{"activity yesterday extends", 3, yesterday, 4},
		{"activity today leaves unchanged", 3, today, 3},
		{"gap resets to one", 9, lastWeek, 1},
		{"zero streak with activity today is corrected to one", 0, today, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, activity := AdvanceStreak(tt.current, tt.lastActivity, fixedNow)
			if streak != tt.wantStreak {
				t.Errorf("AdvanceStreak() streak = %d, want %d", streak, tt.wantStreak)
			}
			if activity != today {
				t.Errorf("AdvanceStreak() activity = %q, want %q", activity, today)
			}
		})
	}
}

func TestGrowthStage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		wantStage int
	}{
		{"empty set is the seed", 0, 0, 1},
		{"nothing done is the seed", 0, 4, 1},
		{"quarter done sprouts", 1, 4, 2},
		{"half done grows", 2, 4, 3},
		{"three quarters flourishes", 3, 4, 4},
		{"all done is fully grown", 4, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, message := GrowthStage(tt.completed, tt.total)
			if stage != tt.wantStage {
				t.Errorf("GrowthStage(%d, %d) = %d, want %d", tt.completed, tt.total, stage, tt.wantStage)
			}
			if message == "" {
				t.Error("GrowthStage() returned empty message")
			}
		})
	}
}

func TestEvaluateBadges(t *testing.T) {
	t.Run("first completion unlocks first step only", func(t *testing.T) {
		fresh := EvaluateBadges(1, 10, 1, nil, fixedNow)
		if len(fresh) != 1 || fresh[0].ID != "first_step" {
			t.Fatalf("expected [first_step], got %v", badgeIDs(fresh))
		}
		if fresh[0].UnlockedAt != fixedNow.Unix() {
			t.Errorf("UnlockedAt = %d, want %d", fresh[0].UnlockedAt, fixedNow.Unix())
		}
	})

	t.Run("already unlocked badges are never re-reported", func(t *testing.T) {
		unlocked := []models.Badge{{ID: "first_step"}}
		fresh := EvaluateBadges(1, 10, 1, unlocked, fixedNow)
		if len(fresh) != 0 {
			t.Errorf("expected no new badges, got %v", badgeIDs(fresh))
		}
	})

	t.Run("several thresholds can trip in one event", func(t *testing.T) {
		fresh := EvaluateBadges(25, 500, 7, nil, fixedNow)
		want := []string{"first_step", "getting_started", "momentum", "unstoppable", "zen_master", "week_warrior"}
		got := badgeIDs(fresh)
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("badge[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("points alone unlock zen master", func(t *testing.T) {
		unlocked := []models.Badge{{ID: "first_step"}}
		fresh := EvaluateBadges(1, 505, 1, unlocked, fixedNow)
		if len(fresh) != 1 || fresh[0].ID != "zen_master" {
			t.Errorf("expected [zen_master], got %v", badgeIDs(fresh))
		}
	})
}

func badgeIDs(badges []models.Badge) []string {
	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	return ids
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/progress"
	"github.com/zenstudy/backend/internal/storage"
)

// PointsUpdate is the result of a point award: the refreshed stats plus any
// badges the event unlocked, reported once.
type PointsUpdate struct {
	Stats     *models.UserStats
	NewBadges []models.Badge
}

// Dashboard is the aggregated view the client renders: counts, window
// percentages, reward state, growth stage and the full task list.
type Dashboard struct {
	TotalTasks     int            `json:"totalTasks"`
	CompletedTasks int            `json:"completedTasks"`
	PendingTasks   int            `json:"pendingTasks"`
	DailyProgress  int            `json:"dailyProgress"`
	WeeklyProgress int            `json:"weeklyProgress"`
	Points         int            `json:"points"`
	Streak         int            `json:"streak"`
	Badges         []models.Badge `json:"badges"`
	GrowthStage    int            `json:"growthStage"`
	GrowthMessage  string         `json:"growthMessage"`
	Tasks          []models.Task  `json:"tasks"`
}

// StatsService derives per-account statistics. Counts are always recomputed
// from the live task set; only the cumulative points come from the stored
// row.
type StatsService struct {
	store  storage.Store
	logger *slog.Logger

	now func() time.Time
}

// NewStatsService creates a stats service.
func NewStatsService(store storage.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the account's stats with completed/total recomputed fresh from
// the task set. The stats row is created lazily on first access.
func (s *StatsService) Get(ctx context.Context, accountID string) (*models.UserStats, error) {
	stats, err := s.store.GetStats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, accountID)
	if err != nil {
		return nil, err
	}

	stats.CompletedTasks, stats.TotalTasks = countTasks(tasks)
	return stats, nil
}

// AddPoints records a reward event of the given value (timer sessions award
// +15 or +25 depending on surface). A non-positive amount falls back to the
// task-completion default of 10. The event also advances the streak and
// re-evaluates badges, since point-gated unlocks can trip here.
func (s *StatsService) AddPoints(ctx context.Context, accountID string, amount int) (*PointsUpdate, error) {
	if amount <= 0 {
		amount = DefaultRewardPolicy.CompletionReward
	}

	stats, err := s.store.GetStats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, accountID)
	if err != nil {
		return nil, err
	}
	completed, _ := countTasks(tasks)

	now := s.now()
	points := stats.Points + amount
	streak, lastActivity := progress.AdvanceStreak(stats.Streak, stats.LastActivity, now)
	newBadges := progress.EvaluateBadges(completed, points, streak, stats.Badges, now)

	updated, err := s.store.AwardPoints(ctx, accountID, amount, streak, lastActivity, newBadges)
	if err != nil {
		s.logger.Error("AddPoints failed", "account_id", accountID, "error", err)
		return nil, err
	}
	updated.CompletedTasks = completed
	updated.TotalTasks = len(tasks)

	s.logger.Info("Points awarded", "account_id", accountID, "amount", amount, "total", updated.Points)
	return &PointsUpdate{Stats: updated, NewBadges: newBadges}, nil
}

// GetDashboard assembles the aggregate view: totals, today's and this week's
// window percentages, reward state and the task list.
func (s *StatsService) GetDashboard(ctx context.Context, accountID string) (*Dashboard, error) {
	stats, err := s.store.GetStats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, accountID)
	if err != nil {
		return nil, err
	}

	completed, total := countTasks(tasks)
	now := s.now()
	stage, message := progress.GrowthStage(completed, total)

	return &Dashboard{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
		DailyProgress:  progress.WindowProgress(tasks, progress.DailyWindow(now)),
		WeeklyProgress: progress.WindowProgress(tasks, progress.WeeklyWindow(now)),
		Points:         stats.Points,
		Streak:         stats.Streak,
		Badges:         stats.Badges,
		GrowthStage:    stage,
		GrowthMessage:  message,
		Tasks:          tasks,
	}, nil
}

func countTasks(tasks []models.Task) (completed, total int) {
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			completed++
		}
	}
	return completed, len(tasks)
}

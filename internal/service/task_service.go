package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/progress"
	"github.com/zenstudy/backend/internal/storage"
)

// RewardPolicy is the single switch for how completions are rewarded.
// Toggling a task back to Pending does not revoke its award unless
// RevokeOnReopen is set; the product default keeps awards.
type RewardPolicy struct {
	// CompletionReward is the point value of one Pending->Completed
	// transition.
	CompletionReward int

	// RevokeOnReopen subtracts the reward again on Completed->Pending.
	RevokeOnReopen bool
}

// DefaultRewardPolicy matches the shipped product behavior: +10 per
// completion, never revoked.
var DefaultRewardPolicy = RewardPolicy{CompletionReward: 10}

// TaskPatch carries a partial update: only non-nil fields are applied.
type TaskPatch struct {
	Subject  *string
	Deadline *string
	Hours    *int
	Priority *string
	Status   *string
}

// TaskUpdate is the result of an update: the task as stored, plus any badges
// the triggered completion event unlocked. NewBadges is reported exactly once
// per unlock so the caller can show a one-shot notification.
type TaskUpdate struct {
	Task      *models.Task
	NewBadges []models.Badge
}

// TaskService implements the task lifecycle: create, list, partial update
// (including completion events) and delete, always scoped to the owning
// account.
type TaskService struct {
	store  storage.Store
	policy RewardPolicy
	logger *slog.Logger

	// now is injectable for deterministic streak/window tests.
	now func() time.Time
}

// NewTaskService creates a task service with the given reward policy.
func NewTaskService(store storage.Store, policy RewardPolicy, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates the fields and persists a new Pending task.
func (s *TaskService) Create(ctx context.Context, accountID, subject, deadline string, hours int, priority string) (*models.Task, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject required", ErrInvalidInput)
	}
	if hours <= 0 {
		return nil, fmt.Errorf("%w: hours must be positive", ErrInvalidInput)
	}
	canonicalDeadline, err := models.ParseDeadline(deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p, err := models.ParsePriority(priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	task := &models.Task{
		AccountID: accountID,
		Subject:   subject,
		Deadline:  canonicalDeadline,
		Hours:     hours,
		Priority:  p,
		Status:    models.StatusPending,
		CreatedAt: s.now().Unix(),
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		s.logger.Error("CreateTask failed", "account_id", accountID, "error", err)
		return nil, err
	}

	s.logger.Info("Task created", "account_id", accountID, "task_id", task.ID, "deadline", task.Deadline)
	return task, nil
}

// List returns the account's tasks ordered by deadline ascending.
func (s *TaskService) List(ctx context.Context, accountID string) ([]models.Task, error) {
	return s.store.ListTasks(ctx, accountID)
}

// Update applies the non-nil patch fields to the task. A patch with no fields
// set is rejected as invalid input. A genuine
// Pending->Completed transition is a completion event: the status write and
// the point/streak/badge updates land in one storage transaction. Setting
// status to Completed on an already-completed task is a no-op award-wise, so
// repeating the call never double-awards.
func (s *TaskService) Update(ctx context.Context, accountID string, taskID int64, patch TaskPatch) (*TaskUpdate, error) {
	if patch == (TaskPatch{}) {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	task, err := s.store.GetTask(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}

	prevStatus := task.Status
	if err := applyPatch(task, patch); err != nil {
		return nil, err
	}

	completionEvent := prevStatus == models.StatusPending && task.Status == models.StatusCompleted
	reopened := prevStatus == models.StatusCompleted && task.Status == models.StatusPending

	now := s.now()
	switch {
	case completionEvent:
		completedAt := now.Unix()
		task.CompletedAt = &completedAt

		newBadges, err := s.applyCompletion(ctx, task, now)
		if err != nil {
			s.logger.Error("Completion failed", "account_id", accountID, "task_id", taskID, "error", err)
			return nil, err
		}

		s.logger.Info("Task completed",
			"account_id", accountID,
			"task_id", taskID,
			"reward", s.policy.CompletionReward,
			"new_badges", len(newBadges),
		)
		return &TaskUpdate{Task: task, NewBadges: newBadges}, nil

	case reopened:
		task.CompletedAt = nil
		if err := s.store.UpdateTask(ctx, task); err != nil {
			return nil, err
		}
		if s.policy.RevokeOnReopen {
			stats, err := s.store.GetStats(ctx, accountID)
			if err != nil {
				return nil, err
			}
			if _, err := s.store.AwardPoints(ctx, accountID, -s.policy.CompletionReward, stats.Streak, stats.LastActivity, nil); err != nil {
				return nil, err
			}
		}
		return &TaskUpdate{Task: task}, nil

	default:
		if err := s.store.UpdateTask(ctx, task); err != nil {
			return nil, err
		}
		return &TaskUpdate{Task: task}, nil
	}
}

// Delete removes the task. Previously awarded points stay.
func (s *TaskService) Delete(ctx context.Context, accountID string, taskID int64) error {
	if err := s.store.DeleteTask(ctx, accountID, taskID); err != nil {
		return err
	}
	s.logger.Info("Task deleted", "account_id", accountID, "task_id", taskID)
	return nil
}

// applyCompletion computes the post-completion aggregates and hands the task
// write plus the award to the store as one transaction.
func (s *TaskService) applyCompletion(ctx context.Context, task *models.Task, now time.Time) ([]models.Badge, error) {
	stats, err := s.store.GetStats(ctx, task.AccountID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, task.AccountID)
	if err != nil {
		return nil, err
	}

	// The list still shows this task as Pending; count it as completed.
	completed := 1
	for _, t := range tasks {
		if t.ID != task.ID && t.Status == models.StatusCompleted {
			completed++
		}
	}

	points := stats.Points + s.policy.CompletionReward
	streak, lastActivity := progress.AdvanceStreak(stats.Streak, stats.LastActivity, now)
	newBadges := progress.EvaluateBadges(completed, points, streak, stats.Badges, now)

	if err := s.store.ApplyCompletion(ctx, task, s.policy.CompletionReward, streak, lastActivity, newBadges); err != nil {
		return nil, err
	}
	return newBadges, nil
}

// applyPatch copies the non-nil patch fields onto the task, validating each.
func applyPatch(task *models.Task, patch TaskPatch) error {
	if patch.Subject != nil {
		subject := strings.TrimSpace(*patch.Subject)
		if subject == "" {
			return fmt.Errorf("%w: subject required", ErrInvalidInput)
		}
		task.Subject = subject
	}
	if patch.Deadline != nil {
		deadline, err := models.ParseDeadline(*patch.Deadline)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		task.Deadline = deadline
	}
	if patch.Hours != nil {
		if *patch.Hours <= 0 {
			return fmt.Errorf("%w: hours must be positive", ErrInvalidInput)
		}
		task.Hours = *patch.Hours
	}
	if patch.Priority != nil {
		p, err := models.ParsePriority(*patch.Priority)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		task.Priority = p
	}
	if patch.Status != nil {
		status, err := models.ParseStatus(*patch.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		task.Status = status
	}
	return nil
}

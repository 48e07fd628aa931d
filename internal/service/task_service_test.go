package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/storage"
	"github.com/zenstudy/backend/internal/storage/sqlite"
)

var fixedNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "zenstudy-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestAccount(t *testing.T, store storage.Store) *models.Account {
	t.Helper()
	account := models.NewAccount("alice@example.com", "Alice", "hashed")
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	return account
}

func newTaskService(store storage.Store, policy RewardPolicy) *TaskService {
	svc := NewTaskService(store, policy, testLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func TestTaskCreate(t *testing.T) {
	store := newTestStore(t)
	account := newTestAccount(t, store)
	svc := newTaskService(store, DefaultRewardPolicy)
	ctx := context.Background()

	t.Run("valid task round trips every field", func(t *testing.T) {
		task, err := svc.Create(ctx, account.ID, "Linear Algebra", "2025-01-20", 3, "high")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := store.GetTask(ctx, account.ID, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Subject != "Linear Algebra" || got.Deadline != "2025-01-20" || got.Hours != 3 {
			t.Errorf("fields not preserved: %+v", got)
		}
		if got.Priority != models.PriorityHigh {
			t.Errorf("priority = %q, want high", got.Priority)
		}
		if got.Status != models.StatusPending {
			t.Errorf("status = %q, want Pending", got.Status)
		}
	})

	t.Run("empty priority defaults to medium", func(t *testing.T) {
		task, err := svc.Create(ctx, account.ID, "Reading", "2025-01-21", 1, "")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if task.Priority != models.PriorityMedium {
			t.Errorf("priority = %q, want medium", task.Priority)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			subject  string
			deadline string
			hours    int
			priority string
		}{
			{"empty subject", "  ", "2025-01-20", 2, "low"},
			{"zero hours", "Math", "2025-01-20", 0, "low"},
			{"negative hours", "Math", "2025-01-20", -3, "low"},
			{"malformed deadline", "Math", "20-01-2025", 2, "low"},
			{"unknown priority", "Math", "2025-01-20", 2, "urgent"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, account.ID, tt.subject, tt.deadline, tt.hours, tt.priority)
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})
}

func TestTaskUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial patch leaves other fields alone", func(t *testing.T) {
		store := newTestStore(t)
		account := newTestAccount(t, store)
		svc := newTaskService(store, DefaultRewardPolicy)

		task, err := svc.Create(ctx, account.ID, "Essay", "2025-01-22", 4, "low")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		update, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Hours: intptr(6)})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		got := update.Task
		if got.Hours != 6 {
			t.Errorf("Hours = %d, want 6", got.Hours)
		}
		if got.Subject != "Essay" || got.Deadline != "2025-01-22" || got.Priority != models.PriorityLow {
			t.Errorf("untouched fields changed: %+v", got)
		}
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		store := newTestStore(t)
		account := newTestAccount(t, store)
		svc := newTaskService(store, DefaultRewardPolicy)

		task, err := svc.Create(ctx, account.ID, "Essay", "2025-01-22", 4, "low")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		_, err = svc.Update(ctx, account.ID, task.ID, TaskPatch{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("completion awards exactly once", func(t *testing.T) {
		store := newTestStore(t)
		account := newTestAccount(t, store)
		svc := newTaskService(store, DefaultRewardPolicy)

		task, err := svc.Create(ctx, account.ID, "Essay", "2025-01-22", 4, "low")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		update, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Completed")})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if update.Task.CompletedAt == nil {
			t.Error("expected CompletedAt to be set")
		}
		if len(update.NewBadges) != 1 || update.NewBadges[0].ID != "first_step" {
			t.Errorf("NewBadges = %+v, want [first_step]", update.NewBadges)
		}

		stats, err := store.GetStats(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.Points != 10 {
			t.Errorf("Points = %d, want 10", stats.Points)
		}
		if stats.Streak != 1 {
			t.Errorf("Streak = %d, want 1", stats.Streak)
		}

		// Marking the same task Completed again is a no-op award-wise.
		update, err = svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Completed")})
		if err != nil {
			t.Fatalf("repeat Update failed: %v", err)
		}
		if len(update.NewBadges) != 0 {
			t.Errorf("badges re-reported on repeat: %+v", update.NewBadges)
		}

		stats, err = store.GetStats(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.Points != 10 {
			t.Errorf("Points after repeat = %d, want 10", stats.Points)
		}
	})

	t.Run("reopen keeps the award under the default policy", func(t *testing.T) {
		store := newTestStore(t)
		account := newTestAccount(t, store)
		svc := newTaskService(store, DefaultRewardPolicy)

		task, err := svc.Create(ctx, account.ID, "Essay", "2025-01-22", 4, "low")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Completed")}); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		update, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Pending")})
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		if update.Task.CompletedAt != nil {
			t.Error("expected CompletedAt to be cleared on reopen")
		}

		stats, err := store.GetStats(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.Points != 10 {
			t.Errorf("Points = %d, want 10 (no revocation)", stats.Points)
		}

		// Completing again after a reopen is a fresh transition and awards again.
		if _, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Completed")}); err != nil {
			t.Fatalf("re-complete failed: %v", err)
		}
		stats, err = store.GetStats(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.Points != 20 {
			t.Errorf("Points = %d, want 20", stats.Points)
		}
	})

	t.Run("reopen revokes when the policy says so", func(t *testing.T) {
		store := newTestStore(t)
		account := newTestAccount(t, store)
		svc := newTaskService(store, RewardPolicy{CompletionReward: 10, RevokeOnReopen: true})

		task, err := svc.Create(ctx, account.ID, "Essay", "2025-01-22", 4, "low")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Completed")}); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if _, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Pending")}); err != nil {
			t.Fatalf("reopen failed: %v", err)
		}

		stats, err := store.GetStats(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.Points != 0 {
			t.Errorf("Points = %d, want 0 after revocation", stats.Points)
		}
	})

	t.Run("unknown task returns not found", func(t *testing.T) {
		store := newTestStore(t)
		account := newTestAccount(t, store)
		svc := newTaskService(store, DefaultRewardPolicy)

		_, err := svc.Update(ctx, account.ID, 9999, TaskPatch{Hours: intptr(1)})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskDelete(t *testing.T) {
	store := newTestStore(t)
	account := newTestAccount(t, store)
	svc := newTaskService(store, DefaultRewardPolicy)
	ctx := context.Background()

	task, err := svc.Create(ctx, account.ID, "Essay", "2025-01-22", 4, "low")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Update(ctx, account.ID, task.ID, TaskPatch{Status: strptr("Completed")}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if err := svc.Delete(ctx, account.ID, task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Points earned before deletion stay.
	stats, err := store.GetStats(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Points != 10 {
		t.Errorf("Points = %d, want 10", stats.Points)
	}

	if err := svc.Delete(ctx, account.ID, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

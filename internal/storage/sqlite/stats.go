package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/storage"
)

// GetStats retrieves the stats row for an account, creating a zeroed one on
// first access. Badge unlocks are loaded alongside.
func (s *SQLiteStore) GetStats(ctx context.Context, accountID string) (*models.UserStats, error) {
	stats, err := s.readStats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		// Lazy create. INSERT OR IGNORE keeps a concurrent first access safe.
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_stats (user_id, points, streak, last_activity, last_updated)
			 VALUES (?, 0, 0, '', ?)`,
			accountID, time.Now().Unix(),
		)
		if err != nil {
			return nil, storageErr("create user stats", err)
		}
		stats, err = s.readStats(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if stats == nil {
			return nil, storage.ErrNotFound
		}
	}

	badges, err := s.listBadges(ctx, accountID)
	if err != nil {
		return nil, err
	}
	stats.Badges = badges
	return stats, nil
}

// AwardPoints adds delta to the cumulative points and writes the streak,
// activity date and any newly unlocked badges in a single transaction.
// Returns the refreshed stats.
func (s *SQLiteStore) AwardPoints(ctx context.Context, accountID string, delta int, streak int, lastActivity string, newBadges []models.Badge) (*models.UserStats, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return awardInTx(ctx, tx, accountID, delta, streak, lastActivity, newBadges)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStats(ctx, accountID)
}

// ApplyCompletion writes the task row and applies the point award, streak
// update and badge unlocks in one transaction. The persistence layer is the
// single place enforcing that a completed task and its reward land together.
// The WHERE clause requires the stored row to still be Pending, so two
// concurrent completes of the same task award at most once; the loser sees
// zero rows and ErrNotFound.
func (s *SQLiteStore) ApplyCompletion(ctx context.Context, task *models.Task, delta int, streak int, lastActivity string, newBadges []models.Badge) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE tasks
			 SET subject = ?, deadline = ?, hours = ?, priority = ?, status = ?, completed_at = ?
			 WHERE id = ? AND user_id = ? AND status = ?`,
			task.Subject, task.Deadline, task.Hours, task.Priority, task.Status, task.CompletedAt,
			task.ID, task.AccountID, models.StatusPending,
		)
		if err != nil {
			return storageErr("update task", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("update task", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}

		return awardInTx(ctx, tx, task.AccountID, delta, streak, lastActivity, newBadges)
	})
}

// awardInTx updates the stats row and inserts badge unlocks within tx.
// The stored completed/total snapshot is refreshed from the live task set.
func awardInTx(ctx context.Context, tx *sql.Tx, accountID string, delta int, streak int, lastActivity string, newBadges []models.Badge) error {
	now := time.Now().Unix()

	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_stats (user_id, points, streak, last_activity, last_updated)
		 VALUES (?, 0, 0, '', ?)`,
		accountID, now,
	)
	if err != nil {
		return storageErr("ensure user stats", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_stats
		 SET points = points + ?,
		     streak = ?,
		     last_activity = ?,
		     completed_tasks = (SELECT COUNT(*) FROM tasks WHERE user_id = ? AND status = ?),
		     total_tasks = (SELECT COUNT(*) FROM tasks WHERE user_id = ?),
		     last_updated = ?
		 WHERE user_id = ?`,
		delta, streak, lastActivity, accountID, models.StatusCompleted, accountID, now, accountID,
	)
	if err != nil {
		return storageErr("update user stats", err)
	}

	for _, badge := range newBadges {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO badges (user_id, badge_id, name, icon, description, unlocked_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			accountID, badge.ID, badge.Name, badge.Icon, badge.Description, badge.UnlockedAt,
		)
		if err != nil {
			return storageErr("insert badge", err)
		}
	}
	return nil
}

func (s *SQLiteStore) readStats(ctx context.Context, accountID string) (*models.UserStats, error) {
	stats := &models.UserStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, points, completed_tasks, total_tasks, streak, last_activity, last_updated
		 FROM user_stats WHERE user_id = ?`,
		accountID,
	).Scan(
		&stats.AccountID,
		&stats.Points,
		&stats.CompletedTasks,
		&stats.TotalTasks,
		&stats.Streak,
		&stats.LastActivity,
		&stats.LastUpdated,
	)
	if errIsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get user stats", err)
	}
	return stats, nil
}

func (s *SQLiteStore) listBadges(ctx context.Context, accountID string) ([]models.Badge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT badge_id, name, icon, description, unlocked_at
		 FROM badges WHERE user_id = ? ORDER BY unlocked_at ASC, badge_id ASC`,
		accountID,
	)
	if err != nil {
		return nil, storageErr("list badges", err)
	}
	defer rows.Close()

	badges := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Icon, &b.Description, &b.UnlockedAt); err != nil {
			return nil, storageErr("scan badge", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate badges", err)
	}
	return badges, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/storage"
)

const taskColumns = "id, user_id, subject, deadline, hours, priority, status, created_at, completed_at"

// CreateTask persists a new task, assigning its ID and creation time.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.Task) error {
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().Unix()
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, subject, deadline, hours, priority, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.AccountID, task.Subject, task.Deadline, task.Hours, task.Priority, task.Status, task.CreatedAt, task.CompletedAt,
	)
	if err != nil {
		return storageErr("insert task", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("task id", err)
	}
	task.ID = id
	return nil
}

// ListTasks returns all tasks owned by the account, ordered by deadline
// ascending.
func (s *SQLiteStore) ListTasks(ctx context.Context, accountID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY deadline ASC, id ASC`,
		accountID,
	)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := scanTask(rows, &task); err != nil {
			return nil, storageErr("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves a single task scoped by owner.
func (s *SQLiteStore) GetTask(ctx context.Context, accountID string, taskID int64) (*models.Task, error) {
	task := &models.Task{}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, accountID,
	)
	if err := scanTask(row, task); err != nil {
		if errIsNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, storageErr("get task", err)
	}
	return task, nil
}

// UpdateTask writes the full task row, scoped by owner.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *models.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		 SET subject = ?, deadline = ?, hours = ?, priority = ?, status = ?, completed_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Subject, task.Deadline, task.Hours, task.Priority, task.Status, task.CompletedAt,
		task.ID, task.AccountID,
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
	return nil
}

// DeleteTask removes a task scoped by owner. Previously awarded points are
// not adjusted.
func (s *SQLiteStore) DeleteTask(ctx context.Context, accountID string, taskID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, accountID,
	)
	if err != nil {
		return storageErr("delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete task", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner, task *models.Task) error {
	var completedAt sql.NullInt64
	err := row.Scan(
		&task.ID,
		&task.AccountID,
		&task.Subject,
		&task.Deadline,
		&task.Hours,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return err
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Int64
	}
	return nil
}

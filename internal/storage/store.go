// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/zenstudy/backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned
	// by the requesting account. Ownership violations and true absence are
	// indistinguishable to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateAccount is returned when registering an email that is
	// already taken.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrStorageUnavailable wraps failures of the persistence engine itself.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store defines the interface for account, task and stats persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, ...)
// without changing the service layer.
type Store interface {
	// CreateAccount persists a new account and its zeroed stats row as one
	// transaction: both exist afterwards or neither does.
	// Returns ErrDuplicateAccount if the email is already registered.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccountByEmail retrieves an account by email.
	// Returns (nil, nil) when no such account exists.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetAccountByID retrieves an account by ID.
	// Returns (nil, nil) when no such account exists.
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)

	// CreateTask persists a new task, assigning its ID and creation time.
	CreateTask(ctx context.Context, task *models.Task) error

	// ListTasks returns all tasks owned by the account, ordered by deadline
	// ascending. Returns an empty slice when there are none.
	ListTasks(ctx context.Context, accountID string) ([]models.Task, error)

	// GetTask retrieves a single task scoped by owner.
	// Returns ErrNotFound when absent or owned by another account.
	GetTask(ctx context.Context, accountID string, taskID int64) (*models.Task, error)

	// UpdateTask writes the full task row, scoped by owner.
	// Returns ErrNotFound under the same ownership rule.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask removes a task scoped by owner.
	// Returns ErrNotFound when there is nothing to delete.
	DeleteTask(ctx context.Context, accountID string, taskID int64) error

	// GetStats retrieves the stats row for an account, creating a zeroed one
	// if absent. The stored completed/total counts are a snapshot only.
	GetStats(ctx context.Context, accountID string) (*models.UserStats, error)

	// AwardPoints adds delta to the cumulative points and writes the streak,
	// activity date and any newly unlocked badges in a single transaction.
	AwardPoints(ctx context.Context, accountID string, delta int, streak int, lastActivity string, newBadges []models.Badge) (*models.UserStats, error)

	// ApplyCompletion writes the task row and applies the point award,
	// streak update and badge unlocks in ONE transaction, so a completed
	// task without its reward can never be observed. The write only applies
	// while the stored row is still Pending; ErrNotFound otherwise, which
	// makes concurrent completes of the same task award at most once.
	ApplyCompletion(ctx context.Context, task *models.Task, delta int, streak int, lastActivity string, newBadges []models.Badge) error

	// Close releases any resources held by the store.
	Close() error
}

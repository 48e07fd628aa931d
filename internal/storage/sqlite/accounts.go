package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/storage"
)

// CreateAccount inserts a new account and its zeroed stats row in a single
// transaction. A duplicate email aborts the transaction and leaves the
// existing account's data untouched.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, display_name, password_hash, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			account.ID, account.Email, account.DisplayName, account.PasswordHash, account.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrDuplicateAccount
			}
			return storageErr("insert user", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_stats (user_id, points, streak, last_activity, last_updated)
			 VALUES (?, 0, 0, '', ?)`,
			account.ID, time.Now().Unix(),
		)
		if err != nil {
			return storageErr("insert user stats", err)
		}
		return nil
	})
}

// GetAccountByEmail retrieves an account by email.
// Returns (nil, nil) when not found.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getAccount(ctx, "email = ?", email)
}

// GetAccountByID retrieves an account by ID.
// Returns (nil, nil) when not found.
func (s *SQLiteStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return s.getAccount(ctx, "id = ?", id)
}

func (s *SQLiteStore) getAccount(ctx context.Context, where string, arg any) (*models.Account, error) {
	account := &models.Account{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if errIsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	return account, nil
}

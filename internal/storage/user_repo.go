// internal/storage/user_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/campustrade/campustrade-api/internal/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// CreateUser inserts a new user. New accounts are active and unverified.
func CreateUser(ctx context.Context, db *sql.DB, userID, username, email, passwordHash string) (*domain.User, error) {
	sqlStatement := `INSERT INTO users (id, username, email, password_hash, is_active, email_verified) VALUES (?, ?, ?, ?, 1, 0)`
	_, err := db.ExecContext(ctx, sqlStatement, userID, username, email, passwordHash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			if strings.Contains(sqliteErr.Error(), "users.email") {
				return nil, ErrEmailExists
			}
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", email, err)
		return nil, fmt.Errorf("database error during user creation: %w", err)
	}
	return FindUserByID(ctx, db, userID)
}

const userColumns = `id, username, email, password_hash, is_active, email_verified, created_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsActive, &user.EmailVerified, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail retrieves a user by their email address.
func FindUserByEmail(ctx context.Context, db *sql.DB, email string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user by email %s: %v", email, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id.
func FindUserByID(ctx context.Context, db *sql.DB, userID string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user %s: %v", userID, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return user, nil
}

// SetEmailVerified flips the email_verified flag.
func SetEmailVerified(ctx context.Context, db *sql.DB, userID string, verified bool) error {
	return updateUserFlag(ctx, db, userID, "email_verified", verified)
}

// SetUserActive flips the is_active flag.
func SetUserActive(ctx context.Context, db *sql.DB, userID string, active bool) error {
	return updateUserFlag(ctx, db, userID, "is_active", active)
}

// column is always one of the literals above, never user input.
func updateUserFlag(ctx context.Context, db *sql.DB, userID, column string, value bool) error {
	res, err := db.ExecContext(ctx, `UPDATE users SET `+column+` = ? WHERE id = ?`, value, userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to update %s for user %s: %v", column, userID, err)
		return fmt.Errorf("database error updating user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("database error updating user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// internal/storage/refresh_token_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/campustrade/campustrade-api/internal/domain"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
)

// SaveRefreshToken stores a refresh token hash for a user.
func SaveRefreshToken(ctx context.Context, db *sql.DB, token *domain.RefreshToken) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES (?, ?, ?, ?)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt.UTC())
	if err != nil {
		customLog.Warnf("Storage: Failed to save refresh token for user %s: %v", token.UserID, err)
		return fmt.Errorf("database error saving refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken looks a refresh token up by hash.
func FindRefreshToken(ctx context.Context, db *sql.DB, tokenHash string) (*domain.RefreshToken, error) {
	var (
		t         domain.RefreshToken
		revokedAt sql.NullTime
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`,
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		customLog.Warnf("Storage: Failed to find refresh token: %v", err)
		return nil, fmt.Errorf("database error finding refresh token: %w", err)
	}
	if revokedAt.Valid {
		ts := revokedAt.Time
		t.RevokedAt = &ts
	}
	return &t, nil
}

// RevokeRefreshToken marks one refresh token revoked. Revoking an already
// revoked token is a no-op.
func RevokeRefreshToken(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		customLog.Warnf("Storage: Failed to revoke refresh token %s: %v", id, err)
		return fmt.Errorf("database error revoking refresh token: %w", err)
	}
	return nil
}

// ClaimRefreshToken revokes a live refresh token and returns it. The revoke
// is a single conditional UPDATE, so of several concurrent callers with the
// same hash exactly one succeeds; the others get ErrRefreshTokenNotFound, as
// do unknown and already revoked tokens. A token past its expiry is revoked
// and reported as ErrRefreshTokenExpired.
func ClaimRefreshToken(ctx context.Context, db *sql.DB, tokenHash string, now time.Time) (*domain.RefreshToken, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`,
		now.UTC(), tokenHash)
	if err != nil {
		customLog.Warnf("Storage: Failed to claim refresh token: %v", err)
		return nil, fmt.Errorf("database error claiming refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("database error claiming refresh token: %w", err)
	}
	if n == 0 {
		return nil, ErrRefreshTokenNotFound
	}

	t, err := FindRefreshToken(ctx, db, tokenHash)
	if err != nil {
		return nil, err
	}
	if !now.Before(t.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}
	return t, nil
}

// RevokeUserRefreshTokens revokes every live refresh token of a user and
// returns how many were revoked.
func RevokeUserRefreshTokens(ctx context.Context, db *sql.DB, userID string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to revoke refresh tokens for user %s: %v", userID, err)
		return 0, fmt.Errorf("database error revoking refresh tokens: %w", err)
	}
	return res.RowsAffected()
}

// internal/domain/models.go
package domain

import "time"

// User defines the structure for user data in the DB
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	IsActive      bool
	EmailVerified bool
	CreatedAt     time.Time
}

// RefreshToken is a persisted refresh token. Only the SHA-256 of the raw
// token is stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token can still be exchanged at the given time.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// StoredFile is the metadata of an uploaded file.
type StoredFile struct {
	ID            string
	OwnerID       string
	OriginalName  string
	RelativePath  string
	URL           string
	ThumbnailPath string
	ThumbnailURL  string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// internal/auth/errors.go
package auth

import (
	"errors"

	"github.com/campustrade/campustrade-api/internal/logger"
)

var (
	ErrInvalidSecretKey        = errors.New("jwt secret key is invalid: it must not be empty and must be at least 32 characters")
	ErrTokenMissing            = errors.New("authorization header required")
	ErrTokenMalformed          = errors.New("malformed token")
	ErrTokenExpired            = errors.New("token is expired or not valid yet")
	ErrTokenInvalid            = errors.New("invalid token")
	ErrTokenClaimsInvalid      = errors.New("invalid token claims")
	ErrTokenRevoked            = errors.New("token has been revoked")
	ErrUnexpectedSigningMethod = errors.New("unexpected token signing method")
	ErrInsecureTransport       = errors.New("bearer tokens require https")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	customLog                  = logger.NewLogger()
)

// ErrRefreshTokenInvalid covers unknown, revoked and expired refresh tokens.
var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

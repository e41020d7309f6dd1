// api/middleware/jwt_bearer.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/metrics"
)

// BearerEvents are hooks around bearer authentication.
//
// OnAuthenticationFailed runs when a presented token fails validation.
// OnTokenValidated runs after signature and lifetime checks pass; a non-nil
// error rejects the request. OnChallenge runs before every 401 response.
type BearerEvents struct {
	OnAuthenticationFailed func(c *gin.Context, err error)
	OnTokenValidated       func(c *gin.Context, claims *auth.Claims) error
	OnChallenge            func(c *gin.Context, err error)
}

// BearerOptions configures JWTBearer.
//
// RequireHTTPSMetadata is enforced on the request itself: with it set, bearer
// tokens are only accepted over TLS or behind a proxy reporting
// X-Forwarded-Proto: https. There is no metadata endpoint to fetch, since
// tokens are signed with a shared key.
type BearerOptions struct {
	Tokens               *auth.TokenService
	RequireHTTPSMetadata bool
	SaveToken            bool
	Events               BearerEvents
}

// NewBearerOptions takes RequireHTTPSMetadata and SaveToken from the token
// service's options and installs the default events.
func NewBearerOptions(tokens *auth.TokenService, m *metrics.Metrics) BearerOptions {
	opts := tokens.Options()
	return BearerOptions{
		Tokens:               tokens,
		RequireHTTPSMetadata: opts.RequireHTTPSMetadata,
		SaveToken:            opts.SaveToken,
		Events:               DefaultBearerEvents(tokens, m),
	}
}

// DefaultBearerEvents logs failures and challenges and rejects blacklisted tokens.
func DefaultBearerEvents(tokens *auth.TokenService, m *metrics.Metrics) BearerEvents {
	return BearerEvents{
		OnAuthenticationFailed: func(c *gin.Context, err error) {
			customLog.Warnf("JWT authentication failed: %v", err)
			m.AuthFailure(failureReason(err))
		},
		OnTokenValidated: func(c *gin.Context, claims *auth.Claims) error {
			if err := tokens.CheckRevocation(c.Request.Context(), claims); err != nil {
				m.AuthFailure(failureReason(err))
				return err
			}
			return nil
		},
		OnChallenge: func(c *gin.Context, err error) {
			customLog.Warnf("JWT challenge: %v", err)
		},
	}
}

// JWTBearer authenticates requests carrying "Authorization: Bearer <token>".
// Failures are attached with c.Error and rendered by ErrorHandler.
func JWTBearer(opts BearerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.RequireHTTPSMetadata && !IsHTTPS(c.Request) {
			challenge(c, opts, auth.ErrInsecureTransport)
			return
		}

		tokenString, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			if !errors.Is(err, auth.ErrTokenMissing) && opts.Events.OnAuthenticationFailed != nil {
				opts.Events.OnAuthenticationFailed(c, err)
			}
			challenge(c, opts, err)
			return
		}

		claims, err := opts.Tokens.ValidateToken(tokenString)
		if err != nil {
			if opts.Events.OnAuthenticationFailed != nil {
				opts.Events.OnAuthenticationFailed(c, err)
			}
			challenge(c, opts, err)
			return
		}

		if opts.Events.OnTokenValidated != nil {
			if err := opts.Events.OnTokenValidated(c, claims); err != nil {
				challenge(c, opts, err)
				return
			}
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextClaims, claims)
		c.Set(ContextPrincipal, claims.Principal())
		if opts.SaveToken {
			c.Set(ContextAccessToken, tokenString)
		}

		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrTokenMalformed)
	}
	return strings.TrimSpace(parts[1]), nil
}

// IsHTTPS reports whether the request arrived over TLS, directly or through
// a proxy that set X-Forwarded-Proto.
func IsHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func challenge(c *gin.Context, opts BearerOptions, err error) {
	if opts.Events.OnChallenge != nil {
		opts.Events.OnChallenge(c, err)
	}
	c.Header("WWW-Authenticate", wwwAuthenticate(err))
	_ = c.Error(err)
	c.Abort()
}

func wwwAuthenticate(err error) string {
	if errors.Is(err, auth.ErrTokenMissing) {
		return "Bearer"
	}
	desc := "The token is invalid"
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		desc = "The token is expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		desc = "The token has been revoked"
	case errors.Is(err, auth.ErrInsecureTransport):
		desc = "HTTPS is required"
	}
	return fmt.Sprintf(`Bearer error="invalid_token", error_description="%s"`, desc)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, auth.ErrTokenClaimsInvalid):
		return "claims"
	default:
		return "invalid"
	}
}

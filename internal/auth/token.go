// internal/auth/token.go
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campustrade/campustrade-api/internal/domain"
	"github.com/campustrade/campustrade-api/internal/options"
)

// TokenValidationParameters is what a bearer token must satisfy. It is
// derived once from JwtOptions and never mutated.
type TokenValidationParameters struct {
	ValidIssuer     string
	ValidAudience   string
	SigningKey      []byte
	ValidAlgorithms []string
	RequireLifetime bool
	ClockSkew       time.Duration
}

// NewTokenValidationParameters derives validation parameters from options.
func NewTokenValidationParameters(opts options.JwtOptions) TokenValidationParameters {
	return TokenValidationParameters{
		ValidIssuer:     opts.Issuer,
		ValidAudience:   opts.Audience,
		SigningKey:      []byte(opts.SecretKey),
		ValidAlgorithms: []string{jwt.SigningMethodHS256.Alg()},
		RequireLifetime: true,
		ClockSkew:       opts.ClockSkew(),
	}
}

func (p TokenValidationParameters) parser() *jwt.Parser {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(p.ValidAlgorithms),
		jwt.WithIssuer(p.ValidIssuer),
		jwt.WithAudience(p.ValidAudience),
		jwt.WithLeeway(p.ClockSkew),
		jwt.WithIssuedAt(),
	}
	if p.RequireLifetime {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}
	return jwt.NewParser(parserOpts...)
}

// TokenService issues, validates and revokes tokens.
type TokenService struct {
	opts      options.JwtOptions
	params    TokenValidationParameters
	blacklist Blacklist
	now       func() time.Time
}

// NewTokenService fails when the secret key is unusable, so a misconfigured
// process never starts serving.
func NewTokenService(opts options.JwtOptions, blacklist Blacklist) (*TokenService, error) {
	if !opts.HasValidSecretKey() {
		return nil, ErrInvalidSecretKey
	}
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &TokenService{
		opts:      opts,
		params:    NewTokenValidationParameters(opts),
		blacklist: blacklist,
		now:       time.Now,
	}, nil
}

// Options returns the options the service was built from.
func (s *TokenService) Options() options.JwtOptions { return s.opts }

// Parameters returns the validation parameters in use.
func (s *TokenService) Parameters() TokenValidationParameters { return s.params }

// GenerateAccessToken creates a signed access token for a user.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, *Claims, error) {
	now := s.now()
	claims := NewClaims(user)
	claims.ID = uuid.NewString()
	claims.Issuer = s.params.ValidIssuer
	claims.Audience = jwt.ClaimStrings{s.params.ValidAudience}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.opts.AccessTokenLifetime()))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.params.SigningKey)
	if err != nil {
		customLog.Warnf("Error signing JWT for user %s: %v", user.ID, err)
		return "", nil, fmt.Errorf("failed to generate token")
	}
	return signed, claims, nil
}

// GenerateRefreshToken returns a random opaque refresh token, its storage
// hash and its expiry.
func (s *TokenService) GenerateRefreshToken() (raw string, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, HashRefreshToken(raw), s.now().Add(s.opts.RefreshTokenLifetime()), nil
}

// HashRefreshToken is the value persisted for a raw refresh token.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates an access token against the validation
// parameters. It does not consult the blacklist.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := s.params.parser().ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.params.SigningKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenExpired
		case errors.Is(err, ErrUnexpectedSigningMethod):
			return nil, ErrUnexpectedSigningMethod
		case errors.Is(err, jwt.ErrTokenInvalidIssuer),
			errors.Is(err, jwt.ErrTokenInvalidAudience),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
			errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			return nil, fmt.Errorf("%w: %v", ErrTokenClaimsInvalid, err)
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	// jti is optional; tokens without one cannot be revoked individually.
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub is required", ErrTokenClaimsInvalid)
	}
	return claims, nil
}

// RevokeToken blacklists the token's jti until the token would have expired
// anyway (plus clock skew). Already-expired tokens need no entry.
func (s *TokenService) RevokeToken(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrTokenClaimsInvalid
	}
	ttl := s.opts.AccessTokenLifetime()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	ttl += s.params.ClockSkew
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Add(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	customLog.Printf("Revoked token %s for user %s", claims.ID, claims.Subject)
	return nil
}

// IsTokenBlacklisted reports whether a jti has been revoked.
func (s *TokenService) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.blacklist.Contains(ctx, jti)
}

// Authenticate validates a token and rejects it when its jti is blacklisted.
func (s *TokenService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.CheckRevocation(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// CheckRevocation returns ErrTokenRevoked for blacklisted tokens. A failed
// blacklist lookup rejects the token as well.
func (s *TokenService) CheckRevocation(ctx context.Context, claims *Claims) error {
	revoked, err := s.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		customLog.Warnf("Blacklist lookup failed for token %s: %v", claims.ID, err)
		return fmt.Errorf("%w: revocation status unavailable", ErrTokenInvalid)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

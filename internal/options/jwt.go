// internal/options/jwt.go
package options

import (
	"strings"
	"time"
	"unicode/utf8"
)

// JwtSectionName is the configuration section holding JwtOptions.
const JwtSectionName = "Jwt"

// MinSecretKeyLength is the shortest HMAC secret accepted.
const MinSecretKeyLength = 32

// JwtOptions configures token issuance and bearer authentication.
type JwtOptions struct {
	SecretKey                    string `yaml:"secret_key"`
	Issuer                       string `yaml:"issuer"`
	Audience                     string `yaml:"audience"`
	AccessTokenExpirationMinutes int    `yaml:"access_token_expiration_minutes"`
	RefreshTokenExpirationDays   int    `yaml:"refresh_token_expiration_days"`
	ClockSkewSeconds             int    `yaml:"clock_skew_seconds"`
	RequireHTTPSMetadata         bool   `yaml:"require_https_metadata"`
	SaveToken                    bool   `yaml:"save_token"`
}

// DefaultJwtOptions returns the defaults applied before binding.
func DefaultJwtOptions() JwtOptions {
	return JwtOptions{
		Issuer:                       "CampusTrade",
		Audience:                     "CampusTradeUsers",
		AccessTokenExpirationMinutes: 60,
		RefreshTokenExpirationDays:   7,
		ClockSkewSeconds:             300,
		RequireHTTPSMetadata:         false,
		SaveToken:                    true,
	}
}

// AccessTokenLifetime is the lifetime of an issued access token.
func (o JwtOptions) AccessTokenLifetime() time.Duration {
	return time.Duration(o.AccessTokenExpirationMinutes) * time.Minute
}

// RefreshTokenLifetime is the lifetime of an issued refresh token.
func (o JwtOptions) RefreshTokenLifetime() time.Duration {
	return time.Duration(o.RefreshTokenExpirationDays) * 24 * time.Hour
}

// ClockSkew is the leeway allowed when checking token lifetimes.
func (o JwtOptions) ClockSkew() time.Duration {
	return time.Duration(o.ClockSkewSeconds) * time.Second
}

// HasValidSecretKey reports whether the secret key is usable for signing.
// Length is counted in characters, not bytes.
func (o JwtOptions) HasValidSecretKey() bool {
	return strings.TrimSpace(o.SecretKey) != "" && utf8.RuneCountInString(o.SecretKey) >= MinSecretKeyLength
}

// ValidationErrors lists every problem with the options.
func (o JwtOptions) ValidationErrors() []string {
	var errs []string
	if !o.HasValidSecretKey() {
		errs = append(errs, "secret key must not be empty and must be at least 32 characters")
	}
	if strings.TrimSpace(o.Issuer) == "" {
		errs = append(errs, "issuer must not be empty")
	}
	if strings.TrimSpace(o.Audience) == "" {
		errs = append(errs, "audience must not be empty")
	}
	if o.AccessTokenExpirationMinutes <= 0 {
		errs = append(errs, "access token expiration must be greater than 0 minutes")
	}
	if o.RefreshTokenExpirationDays <= 0 {
		errs = append(errs, "refresh token expiration must be greater than 0 days")
	}
	if o.ClockSkewSeconds < 0 {
		errs = append(errs, "clock skew must not be negative")
	}
	return errs
}

// JwtOptionsValidator validates JwtOptions.
type JwtOptionsValidator struct{}

func (JwtOptionsValidator) Validate(_ string, opts JwtOptions) ValidateResult {
	if errs := opts.ValidationErrors(); len(errs) > 0 {
		return Fail(errs...)
	}
	return Success()
}

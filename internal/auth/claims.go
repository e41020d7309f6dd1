// internal/auth/claims.go
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/campustrade/campustrade-api/internal/domain"
)

// Claim types carried by access tokens.
const (
	ClaimSubject       = "sub"
	ClaimJTI           = "jti"
	ClaimUsername      = "username"
	ClaimEmail         = "email"
	ClaimIsActive      = "IsActive"
	ClaimEmailVerified = "EmailVerified"
)

// Claims is the payload of an access token. IsActive and EmailVerified hold
// "True" or "False".
type Claims struct {
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	IsActive      string `json:"IsActive"`
	EmailVerified string `json:"EmailVerified"`
	jwt.RegisteredClaims
}

// BoolClaim renders a flag the way the IsActive/EmailVerified claims expect.
func BoolClaim(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// NewClaims builds the claims for a user.
func NewClaims(user *domain.User) *Claims {
	return &Claims{
		Username:      user.Username,
		Email:         user.Email,
		IsActive:      BoolClaim(user.IsActive),
		EmailVerified: BoolClaim(user.EmailVerified),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
		},
	}
}

// Principal is an authenticated caller: the subject plus a flat claim set
// that authorization policies evaluate.
type Principal struct {
	Subject string
	TokenID string
	Claims  map[string]string
}

// Principal flattens the claims.
func (c *Claims) Principal() *Principal {
	return &Principal{
		Subject: c.Subject,
		TokenID: c.ID,
		Claims: map[string]string{
			ClaimSubject:       c.Subject,
			ClaimJTI:           c.ID,
			ClaimUsername:      c.Username,
			ClaimEmail:         c.Email,
			ClaimIsActive:      c.IsActive,
			ClaimEmailVerified: c.EmailVerified,
		},
	}
}

// FindFirst returns the value of a claim and whether it is present and non-empty.
func (p *Principal) FindFirst(claimType string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.Claims[claimType]
	return v, ok && v != ""
}

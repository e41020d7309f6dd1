package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func principal(isActive, emailVerified string) *Principal {
	return (&Claims{IsActive: isActive, EmailVerified: emailVerified, RegisteredClaims: registered("user-1")}).Principal()
}

func TestDefaultPolicies(t *testing.T) {
	policies := DefaultPolicies()

	testCases := []struct {
		name      string
		policy    string
		principal *Principal
		want      error
	}{
		{"anonymous authenticated", PolicyRequireAuthenticatedUser, nil, ErrUnauthorized},
		{"any user authenticated", PolicyRequireAuthenticatedUser, principal("False", "False"), nil},
		{"active user", PolicyRequireActiveUser, principal("True", "False"), nil},
		{"inactive user", PolicyRequireActiveUser, principal("False", "True"), ErrForbidden},
		{"active is case sensitive", PolicyRequireActiveUser, principal("true", "True"), ErrForbidden},
		{"anonymous active", PolicyRequireActiveUser, nil, ErrUnauthorized},
		{"verified email", PolicyRequireEmailVerified, principal("False", "True"), nil},
		{"unverified email", PolicyRequireEmailVerified, principal("True", "False"), ErrForbidden},
		{"missing claim", PolicyRequireEmailVerified, principal("True", ""), ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := policies[tc.policy]
			assert.True(t, ok)
			err := p.Evaluate(tc.principal)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestRequireClaimWithoutValues(t *testing.T) {
	req := RequireClaim(ClaimEmail)
	assert.True(t, req.Satisfied(&Principal{Claims: map[string]string{ClaimEmail: "a@b.c"}}))
	assert.False(t, req.Satisfied(&Principal{Claims: map[string]string{}}))
	assert.False(t, req.Satisfied(nil))
}

func registered(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: sub, ID: "jti-" + sub}
}

// internal/auth/policy.go
package auth

import (
	"fmt"
	"strings"
)

// Named authorization policies.
const (
	PolicyRequireAuthenticatedUser = "RequireAuthenticatedUser"
	PolicyRequireActiveUser        = "RequireActiveUser"
	PolicyRequireEmailVerified     = "RequireEmailVerified"
)

// Requirement is one condition of a Policy.
type Requirement interface {
	Satisfied(p *Principal) bool
	String() string
}

type authenticatedRequirement struct{}

func (authenticatedRequirement) Satisfied(p *Principal) bool { return p != nil && p.Subject != "" }
func (authenticatedRequirement) String() string              { return "authenticated user required" }

type claimRequirement struct {
	claimType string
	allowed   []string
}

func (r claimRequirement) Satisfied(p *Principal) bool {
	v, ok := p.FindFirst(r.claimType)
	if !ok {
		return false
	}
	if len(r.allowed) == 0 {
		return true
	}
	for _, a := range r.allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (r claimRequirement) String() string {
	if len(r.allowed) == 0 {
		return fmt.Sprintf("claim %s required", r.claimType)
	}
	return fmt.Sprintf("claim %s must be one of [%s]", r.claimType, strings.Join(r.allowed, ", "))
}

// RequireAuthenticatedUser requires a principal with a subject.
func RequireAuthenticatedUser() Requirement { return authenticatedRequirement{} }

// RequireClaim requires the claim to be present and, when values are given,
// to equal one of them exactly.
func RequireClaim(claimType string, values ...string) Requirement {
	return claimRequirement{claimType: claimType, allowed: values}
}

// Policy is a named set of requirements, all of which must hold.
type Policy struct {
	Name         string
	Requirements []Requirement
}

// Evaluate returns ErrUnauthorized when there is no authenticated principal
// and ErrForbidden when a further requirement fails.
func (p Policy) Evaluate(principal *Principal) error {
	if !(authenticatedRequirement{}).Satisfied(principal) {
		return ErrUnauthorized
	}
	for _, req := range p.Requirements {
		if !req.Satisfied(principal) {
			return fmt.Errorf("%w: policy %s: %s", ErrForbidden, p.Name, req)
		}
	}
	return nil
}

// Policies is a registry of policies by name.
type Policies map[string]Policy

// Add registers a policy.
func (ps Policies) Add(name string, reqs ...Requirement) {
	ps[name] = Policy{Name: name, Requirements: reqs}
}

// DefaultPolicies returns the application's policies.
func DefaultPolicies() Policies {
	ps := Policies{}
	ps.Add(PolicyRequireAuthenticatedUser, RequireAuthenticatedUser())
	ps.Add(PolicyRequireActiveUser, RequireAuthenticatedUser(), RequireClaim(ClaimIsActive, "True"))
	ps.Add(PolicyRequireEmailVerified, RequireAuthenticatedUser(), RequireClaim(ClaimEmailVerified, "True"))
	return ps
}

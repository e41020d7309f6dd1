// internal/options/cors.go
package options

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CorsSectionName is the configuration section holding CorsOptions.
const CorsSectionName = "Cors"

// DefaultAllowedOrigins are used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// CorsOptions lists the origins trusted by the CampusTradeCors policy.
type CorsOptions struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// EffectiveOrigins returns the configured origins, or DefaultAllowedOrigins
// when none are set.
func (o CorsOptions) EffectiveOrigins() []string {
	if len(o.AllowedOrigins) == 0 {
		out := make([]string, len(DefaultAllowedOrigins))
		copy(out, DefaultAllowedOrigins)
		return out
	}
	return o.AllowedOrigins
}

// CorsOptionsValidator validates CorsOptions.
type CorsOptionsValidator struct {
	validate *validator.Validate
}

// NewCorsOptionsValidator creates a validator backed by go-playground/validator.
func NewCorsOptionsValidator() CorsOptionsValidator {
	return CorsOptionsValidator{validate: validator.New()}
}

func (v CorsOptionsValidator) Validate(_ string, opts CorsOptions) ValidateResult {
	validate := v.validate
	if validate == nil {
		validate = validator.New()
	}

	var errs []string
	for _, origin := range opts.EffectiveOrigins() {
		if err := validate.Var(origin, "required,url"); err != nil ||
			!(strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")) {
			errs = append(errs, fmt.Sprintf("allowed origin %q must be an absolute http(s) URL", origin))
		}
	}

	if len(errs) > 0 {
		return Fail(errs...)
	}
	return Success()
}

package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Requirement decides whether a bound identity (possibly nil) may access a
// route. Expressed as a predicate so that finer-grained rules (roles,
// ownership) can be added later without reshaping the authenticate/authorize
// split.
type Requirement func(id *Identity) bool

// Public admits every request, authenticated or not.
func Public(*Identity) bool { return true }

// RequiresIdentity admits only requests with a bound identity.
func RequiresIdentity(id *Identity) bool { return id != nil }

// Rule maps a route pattern to an access requirement. A pattern ending in
// "/*" matches the prefix and any sub-path; any other pattern matches
// exactly.
type Rule struct {
	Pattern string
	Require Requirement
}

// Policy is an ordered rule set, fixed at startup. Rules are evaluated in
// declaration order, first match wins; unmatched paths require an identity.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// RequirementFor returns the requirement for the given request path.
func (p *Policy) RequirementFor(path string) Requirement {
	for _, r := range p.rules {
		if matchPattern(r.Pattern, path) {
			return r.Require
		}
	}
	return RequiresIdentity
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}

// Gate returns middleware that enforces the policy after authentication and
// before handler dispatch. It produces exactly one rejection kind regardless
// of why the request is unauthenticated, so a caller cannot distinguish an
// expired token from a forged one or from a deleted account.
func Gate(policy *Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFromContext(c.Request().Context())
			if !policy.RequirementFor(c.Request().URL.Path)(id) {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			return next(c)
		}
	}
}

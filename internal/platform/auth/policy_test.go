package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func testPolicy() *Policy {
	return NewPolicy(
		Rule{Pattern: "/health", Require: Public},
		Rule{Pattern: "/api/auth/*", Require: Public},
		Rule{Pattern: "/api/*", Require: RequiresIdentity},
	)
}

func TestPolicy_RequirementFor(t *testing.T) {
	p := testPolicy()
	id := &Identity{ID: uuid.New(), Username: "alice"}

	tests := []struct {
		path          string
		anonAllowed   bool
		authedAllowed bool
	}{
		{"/health", true, true},
		{"/api/auth/login", true, true},
		{"/api/auth/register", true, true},
		{"/api/auth", true, true},
		{"/api/patients", false, true},
		{"/api/patients/123", false, true},
		// Unmatched paths default to requiring an identity.
		{"/metrics", false, true},
		{"/", false, true},
		{"/healthcheck", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := p.RequirementFor(tt.path)
			if got := req(nil); got != tt.anonAllowed {
				t.Errorf("anonymous access to %s = %v, want %v", tt.path, got, tt.anonAllowed)
			}
			if got := req(id); got != tt.authedAllowed {
				t.Errorf("authenticated access to %s = %v, want %v", tt.path, got, tt.authedAllowed)
			}
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	// A later broader rule must not override an earlier specific one.
	p := NewPolicy(
		Rule{Pattern: "/api/reports/*", Require: RequiresIdentity},
		Rule{Pattern: "/api/*", Require: Public},
	)

	if p.RequirementFor("/api/reports/daily")(nil) {
		t.Error("expected /api/reports/daily to require identity")
	}
	if !p.RequirementFor("/api/anything")(nil) {
		t.Error("expected /api/anything to be public")
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/health", "/health", true},
		{"/health", "/health/db", false},
		{"/api/auth/*", "/api/auth/login", true},
		{"/api/auth/*", "/api/auth", true},
		{"/api/auth/*", "/api/authx", false},
		{"/api/auth/*", "/api/auth/a/b", true},
		{"/api/*", "/api/patients", true},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.path); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func gateRequest(t *testing.T, path string, id *Identity) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if id != nil {
		req = req.WithContext(WithIdentity(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	return rec, Gate(testPolicy())(handler)(c)
}

func TestGate_RejectsUnauthenticated(t *testing.T) {
	_, err := gateRequest(t, "/api/patients", nil)
	if err == nil {
		t.Fatal("expected error for unauthenticated request to protected route")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
}

func TestGate_AllowsPublicWithoutIdentity(t *testing.T) {
	rec, err := gateRequest(t, "/api/auth/login", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestGate_AllowsAuthenticated(t *testing.T) {
	rec, err := gateRequest(t, "/api/patients", &Identity{ID: uuid.New(), Username: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

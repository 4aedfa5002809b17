package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sghss/sghss/internal/platform/token"
)

var testSecret = []byte("test-secret-key-for-unit-tests-only-0123")

func newTestHandler() *Handler {
	svc := NewService(newMockRepo())
	codec := token.NewCodec(testSecret, time.Hour)
	return NewHandler(svc, codec, zerolog.Nop())
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func TestRegisterHandler(t *testing.T) {
	h := newTestHandler()

	rec, err := postJSON(t, h.Register, "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["username"] != "alice" {
		t.Errorf("expected username alice, got %v", resp["username"])
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Error("password hash must not appear in the response")
	}
	if strings.Contains(rec.Body.String(), "secret1") {
		t.Error("plaintext password must not appear in the response")
	}
}

func TestRegisterHandler_Conflict(t *testing.T) {
	h := newTestHandler()

	if _, err := postJSON(t, h.Register, "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	_, err := postJSON(t, h.Register, "/api/auth/register",
		`{"username":"alice","email":"other@x.com","password":"secret1"}`)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", httpErr.Code)
	}
}

func TestRegisterHandler_Validation(t *testing.T) {
	h := newTestHandler()

	_, err := postJSON(t, h.Register, "/api/auth/register",
		`{"username":"al","email":"a@x.com","password":"secret1"}`)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	h := newTestHandler()

	if _, err := postJSON(t, h.Register, "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec, err := postJSON(t, h.Login, "/api/auth/login",
		`{"username":"alice","password":"secret1"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("expected token_type Bearer, got %q", resp.TokenType)
	}

	claims, err := h.codec.Validate(resp.AccessToken, time.Now())
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.Subject() != "alice" {
		t.Errorf("expected subject alice, got %q", claims.Subject())
	}
}

func TestLoginHandler_GenericFailure(t *testing.T) {
	h := newTestHandler()

	if _, err := postJSON(t, h.Register, "/api/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown user and wrong password must be indistinguishable.
	var messages []string
	for _, body := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"nobody","password":"secret1"}`,
	} {
		_, err := postJSON(t, h.Login, "/api/auth/login", body)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected echo.HTTPError, got %v", err)
		}
		if httpErr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", httpErr.Code)
		}
		messages = append(messages, httpErr.Error())
	}
	if messages[0] != messages[1] {
		t.Errorf("login failures must not be distinguishable: %q vs %q", messages[0], messages[1])
	}
}

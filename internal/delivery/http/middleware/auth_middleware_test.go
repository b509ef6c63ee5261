package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"career-match/internal/pkg/jwt"
	"career-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func newTestApp(jwtSvc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())

	authMw := NewAuthMiddleware(jwtSvc)
	protected := app.Group("", authMw.Middleware())

	studentOnly := protected.Group("/students", RequireRole(jwt.RoleStudent))
	studentOnly.Get("/ping", func(c fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	})

	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/students/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	app := newTestApp(jwt.NewHMACService("secret"))

	resp := doRequest(t, app, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	app := newTestApp(jwt.NewHMACService("secret"))

	resp := doRequest(t, app, "not-a-jwt")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_ValidTokenMatchingRole(t *testing.T) {
	svc := jwt.NewHMACService("secret")
	app := newTestApp(svc)

	token, err := svc.GenerateToken(uuid.New(), jwt.RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	resp := doRequest(t, app, token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	svc := jwt.NewHMACService("secret")
	app := newTestApp(svc)

	token, err := svc.GenerateToken(uuid.New(), jwt.RoleEmployer, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	resp := doRequest(t, app, token)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerTokenFromHeader(tc.header)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("header %q: got (%q, %v), want (%q, %v)", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"separation-engine/internal/domain/actor"
	"separation-engine/internal/testutil/directorymock"
)

func setupActorEcho(dir actor.Directory) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(ActorMiddleware(dir, nil))
	e.GET("/whoami", func(c echo.Context) error {
		a, ok := ActorFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"id": a.ID, "role": string(a.Role)})
	})
	return e
}

func TestActorMiddleware(t *testing.T) {
	dir := directorymock.New(actor.Account{AccountID: "hr-1", Role: actor.RoleHR})
	e := setupActorEcho(dir)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"known", "hr-1", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "hr 1", http.StatusUnauthorized},
		{"unknown", "ghost", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(HeaderActorID, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestActorMiddleware_DirectoryDown(t *testing.T) {
	dir := directorymock.New()
	dir.ResolveFn = func(context.Context, string) (*actor.Actor, error) { return nil, errors.New("db down") }
	e := setupActorEcho(dir)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderActorID, "hr-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestWithActor(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := ActorFrom(c); ok {
		t.Fatal("empty context has an actor")
	}
	WithActor(c, actor.Actor{ID: "emp-1", Role: actor.RoleEmployee})
	if a, ok := ActorFrom(c); !ok || a.ID != "emp-1" {
		t.Fatalf("ActorFrom = %+v, %v", a, ok)
	}
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func authContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/comparisons", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := generateToken(userID)
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}

	c, _ := authContext(t, "Bearer "+token)

	var got uuid.UUID
	handler := Middleware(func(c echo.Context) error {
		id, err := GetUserIDFromContext(c)
		if err != nil {
			return err
		}
		got = id
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if got != userID {
		t.Errorf("user ID = %s, want %s", got, userID)
	}
}

func TestMiddlewareRejectsBadAuthorization(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bare token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	next := func(c echo.Context) error {
		t.Error("next handler should not run")
		return nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := authContext(t, tt.header)
			if err := Middleware(next)(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body should carry an error payload: %s", rec.Body.String())
			}
		})
	}
}

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", &domain.ValidationError{Field: "password", Reason: "should contain numbers"}, http.StatusUnprocessableEntity, "password: should contain numbers"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, "invalid credentials"},
		{"conflict", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"wrapped validation", fmt.Errorf("register: %w", &domain.ValidationError{Field: "email", Reason: "invalid"}), http.StatusUnprocessableEntity, "email: invalid"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			c := e.NewContext(req, httptest.NewRecorder())

			code, msg := resolveError(tc.err, zerolog.Nop(), c)
			if code != tc.wantCode {
				t.Fatalf("expected code %d, got %d", tc.wantCode, code)
			}
			if msg != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

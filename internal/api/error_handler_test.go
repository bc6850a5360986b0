package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHTTPErrorHandler(zerolog.Nop())
	h(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"task not found", domain.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"wrapped user not found", fmt.Errorf("responsible u9: %w", domain.ErrUserNotFound), http.StatusNotFound},
		{"email record not found", domain.ErrEmailNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"wrapped forbidden", fmt.Errorf("%w: not authorized", domain.ErrForbidden), http.StatusForbidden},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"validation", fmt.Errorf("%w: title is required", domain.ErrValidation), http.StatusBadRequest},
		{"user has tasks", domain.ErrUserHasTasks, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := runErrorHandler(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if msg == "" {
				t.Fatalf("error envelope must carry a message")
			}
		})
	}
}

func TestHTTPErrorHandler_UnknownErrorHidesCause(t *testing.T) {
	_, msg := runErrorHandler(t, errors.New("pq: connection reset by peer"))
	if msg != "internal server error" {
		t.Fatalf("internal cause must not leak, got %q", msg)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := runErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if msg != "missing authorization header" {
		t.Fatalf("unexpected message %q", msg)
	}
}

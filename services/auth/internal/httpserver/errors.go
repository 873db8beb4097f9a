package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/services/auth/internal/service"
)

var errMissingBearer = errors.New("missing bearer token")

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c echo.Context) (string, error) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tok) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(tok), nil
}

// httpError maps service errors onto HTTP errors and logs them.
func httpError(l *slog.Logger, event string, err error) error {
	var code int
	msg := err.Error()

	switch {
	case errors.Is(err, errMissingBearer):
		code, msg = http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, tokens.ErrInvalidToken):
		code, msg = http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Warn(event, "status", code, "reason", tokens.Reason(err), "error", err)
	return echo.NewHTTPError(code, msg)
}

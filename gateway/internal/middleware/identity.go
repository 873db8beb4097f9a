package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/authclient"
	"github.com/Skotchmaster/university/pkg/logging"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

type Validator interface {
	Validate(ctx context.Context, accessToken string) (*authclient.Identity, error)
}

// RequireIdentity asks the auth service about the bearer token, so revoked
// tokens stop at the edge. The identity is forwarded upstream in
// X-User-Id and X-User-Role; client-supplied values are dropped.
func RequireIdentity(v Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logging.FromContext(req.Context()).With("middleware", "gateway_identity")

			req.Header.Del(HeaderUserID)
			req.Header.Del(HeaderUserRole)

			scheme, token, ok := strings.Cut(req.Header.Get(echo.HeaderAuthorization), " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				l.Warn("auth_rejected", "status", 401, "reason", "missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			id, err := v.Validate(req.Context(), token)
			if err != nil {
				if errors.Is(err, authclient.ErrUnauthorized) {
					l.Warn("auth_rejected", "status", 401, "error", err)
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
				}
				l.Error("auth_check_failed", "status", 503, "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication unavailable")
			}

			c.Set(CtxUserID, id.Sub)
			c.Set(CtxRole, id.Role)
			req.Header.Set(HeaderUserID, id.Sub)
			req.Header.Set(HeaderUserRole, id.Role)
			return next(c)
		}
	}
}

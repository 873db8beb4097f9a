package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/authclient"
	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

var errAuthUnavailable = errors.New("auth service unavailable")

// RemoteValidator confirms a token with the auth service, which also knows
// about revoked tokens.
type RemoteValidator interface {
	Validate(ctx context.Context, accessToken string) (*authclient.Identity, error)
}

// BearerAuth accepts requests carrying a valid access token in the
// Authorization header. The role is copied into the context and not checked.
type BearerAuth struct {
	Tokens *tokens.Manager
	Remote RemoteValidator
}

func NewBearerAuth(m *tokens.Manager, remote RemoteValidator) *BearerAuth {
	return &BearerAuth{Tokens: m, Remote: remote}
}

func (b *BearerAuth) RequireAccess() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:     CtxClaims,
		ParseTokenFunc: b.parse,
		SuccessHandler: func(c echo.Context) {
			if claims, ok := c.Get(CtxClaims).(*tokens.Claims); ok {
				c.Set(CtxUserID, claims.Subject)
				c.Set(CtxRole, claims.Role)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "bearer_auth")
			if errors.Is(err, errAuthUnavailable) {
				l.Error("auth_check_failed", "status", 503, "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication unavailable")
			}
			l.Warn("auth_rejected", "status", 401, "reason", tokens.Reason(err), "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		},
	})
}

func (b *BearerAuth) parse(c echo.Context, auth string) (any, error) {
	claims, err := b.Tokens.Parse(auth, tokens.TypeAccess)
	if err != nil {
		return nil, err
	}
	if b.Remote == nil {
		return claims, nil
	}
	if _, err := b.Remote.Validate(c.Request().Context(), auth); err != nil {
		if errors.Is(err, authclient.ErrUnauthorized) {
			return nil, tokens.ErrRevoked
		}
		return nil, fmt.Errorf("%w: %v", errAuthUnavailable, err)
	}
	return claims, nil
}

// UserID returns the subject set by RequireAccess.
func UserID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

// Role returns the role set by RequireAccess.
func Role(c echo.Context) string {
	s, _ := c.Get(CtxRole).(string)
	return s
}

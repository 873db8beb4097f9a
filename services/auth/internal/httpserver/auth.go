package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/services/auth/internal/service"
	"github.com/Skotchmaster/university/services/auth/internal/transport"
)

const tokenType = "bearer"

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return httpError(l, "register_failed", err)
	}

	return c.JSON(http.StatusCreated, transport.NewUserOut(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "login_failed", err)
	}

	l.Info("login_successful", "role", res.Role)
	return c.JSON(http.StatusOK, transport.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    tokenType,
		ExpiresIn:    transport.SecondsUntil(res.AccessExp, time.Now()),
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	tok, err := bearerToken(c)
	if err != nil {
		return httpError(l, "refresh_failed", err)
	}

	access, err := h.Svc.Refresh(ctx, tok)
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			l.Warn("refresh_failed", "status", 401, "reason", tokens.Reason(err))
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
		}
		return httpError(l, "refresh_failed", err)
	}

	return c.JSON(http.StatusOK, transport.AccessToken{
		AccessToken: access.Value,
		TokenType:   tokenType,
		ExpiresIn:   transport.SecondsUntil(access.ExpiresAt, time.Now()),
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	tok, err := bearerToken(c)
	if err != nil {
		return httpError(l, "logout_failed", err)
	}
	if err := h.Svc.LogOut(ctx, tok); err != nil {
		return httpError(l, "logout_failed", err)
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	tok, err := bearerToken(c)
	if err != nil {
		return httpError(l, "me_failed", err)
	}
	user, err := h.Svc.Me(ctx, tok)
	if err != nil {
		return httpError(l, "me_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserOut(user))
}

func (h *AuthHTTP) Validate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_validate")

	tok, err := bearerToken(c)
	if err != nil {
		return httpError(l, "validate_failed", err)
	}
	claims, err := h.Svc.Validate(ctx, tok)
	if err != nil {
		return httpError(l, "validate_failed", err)
	}
	return c.JSON(http.StatusOK, transport.ValidateResponse{Valid: true, Sub: claims.Subject, Role: claims.Role})
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_list_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return httpError(l, "list_users_failed", err)
	}
	out := make([]transport.UserOut, 0, len(users))
	for i := range users {
		out = append(out, transport.NewUserOut(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// RequireAccess admits requests with a live, unrevoked access token.
func (h *AuthHTTP) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth_require_access")

		tok, err := bearerToken(c)
		if err != nil {
			return httpError(l, "auth_rejected", err)
		}
		claims, err := h.Svc.Verify(ctx, tok, tokens.TypeAccess)
		if err != nil {
			return httpError(l, "auth_rejected", err)
		}
		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const Version = "1.0.0"

type Deps struct {
	AuthHandler *AuthHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "Auth Service is running", "version": Version})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.GET("/me", d.AuthHandler.Me)
	auth.GET("/validate", d.AuthHandler.Validate)

	private := auth.Group("", d.AuthHandler.RequireAccess)
	private.GET("/users", d.AuthHandler.ListUsers)
}

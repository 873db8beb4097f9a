package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/gateway/internal/middleware"
)

type Deps struct {
	AuthURL    string
	CourseURL  string
	NoteURL    string
	StudentURL string

	Validator middleware.Validator
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "Gateway is running"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authProxy, err := newProxy(d.AuthURL, "")
	if err != nil {
		return err
	}
	apiAuthProxy, err := newProxy(d.AuthURL, "/api")
	if err != nil {
		return err
	}

	e.Any("/auth/*", authProxy)
	e.Any("/api/auth/*", apiAuthProxy)

	api := e.Group("/api", middleware.RequireIdentity(d.Validator))
	for prefix, target := range map[string]string{
		"/courses":  d.CourseURL,
		"/notes":    d.NoteURL,
		"/students": d.StudentURL,
	} {
		proxy, err := newProxy(target, "/api")
		if err != nil {
			return err
		}
		api.Any(prefix, proxy)
		api.Any(prefix+"/*", proxy)
	}

	return nil
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const Version = "1.0.0"

type Deps struct {
	StudentHandler *StudentHTTP

	// Auth guards every /students route.
	Auth echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "Student Service is running", "version": Version})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	students := e.Group("/students")
	if d.Auth != nil {
		students.Use(d.Auth)
	}
	students.POST("", d.StudentHandler.CreateStudent)
	students.GET("", d.StudentHandler.ListStudents)
	students.GET("/search", d.StudentHandler.SearchStudents)
	students.GET("/by-email/:email", d.StudentHandler.GetStudentByEmail)
	students.GET("/:id", d.StudentHandler.GetStudent)
	students.PUT("/:id", d.StudentHandler.ReplaceStudent)
	students.DELETE("/:id", d.StudentHandler.DeleteStudent)
	students.PATCH("/:id/profile", d.StudentHandler.UpdateProfile)

	students.GET("/:id/history", d.StudentHandler.ListHistory)
	students.POST("/:id/history", d.StudentHandler.AddHistory)
	students.DELETE("/:id/history/:hid", d.StudentHandler.DeleteHistory)
}

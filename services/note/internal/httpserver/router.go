package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const Version = "1.0.0"

type Deps struct {
	NoteHandler *NoteHTTP

	// Auth guards every /notes route.
	Auth echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "Note Service is running", "version": Version})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	notes := e.Group("/notes")
	if d.Auth != nil {
		notes.Use(d.Auth)
	}
	notes.GET("/my-notes", d.NoteHandler.MyNotes)
	notes.GET("/my-average", d.NoteHandler.MyAverage)
	notes.GET("/student/:id", d.NoteHandler.StudentNotes)
	notes.GET("/student/:id/average", d.NoteHandler.StudentAverage)
	notes.GET("/course/:code", d.NoteHandler.CourseNotes)
	notes.GET("/course/:code/stats", d.NoteHandler.CourseStats)

	notes.GET("", d.NoteHandler.ListNotes)
	notes.POST("", d.NoteHandler.CreateNote)
	notes.GET("/:id", d.NoteHandler.GetNote)
	notes.PUT("/:id", d.NoteHandler.UpdateNote)
	notes.DELETE("/:id", d.NoteHandler.DeleteNote)
}

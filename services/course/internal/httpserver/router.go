package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const Version = "1.0.0"

type Deps struct {
	CourseHandler *CourseHTTP

	// Auth guards every /courses route.
	Auth echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "Course Service is running", "version": Version})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	courses := e.Group("/courses")
	if d.Auth != nil {
		courses.Use(d.Auth)
	}
	courses.GET("", d.CourseHandler.ListCourses)
	courses.POST("", d.CourseHandler.CreateCourse)
	courses.GET("/search", d.CourseHandler.SearchCourses)
	courses.GET("/filiere/:filiere", d.CourseHandler.CoursesByFiliere)
	courses.GET("/:id", d.CourseHandler.GetCourse)
	courses.PUT("/:id", d.CourseHandler.UpdateCourse)
	courses.DELETE("/:id", d.CourseHandler.DeleteCourse)

	courses.POST("/enroll", d.CourseHandler.Enroll)
	courses.GET("/enrollments/student/:id", d.CourseHandler.StudentEnrollments)
	courses.GET("/enrollments/course/:id", d.CourseHandler.CourseEnrollments)
	courses.DELETE("/enrollments/:id", d.CourseHandler.Unenroll)

	courses.POST("/schedules", d.CourseHandler.CreateSchedule)
	courses.GET("/schedules/course/:id", d.CourseHandler.CourseSchedules)
	courses.DELETE("/schedules/:id", d.CourseHandler.DeleteSchedule)
}

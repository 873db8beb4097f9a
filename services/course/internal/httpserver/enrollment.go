package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/transport"
)

func (h *CourseHTTP) Enroll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.enroll")

	var req transport.EnrollRequest
	if err := bindAndValidate(c, l, "enroll_failed", &req); err != nil {
		return err
	}
	e, err := h.Svc.Enroll(ctx, req.CourseID, req.StudentID)
	if err != nil {
		return httpError(l, "enroll_failed", err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *CourseHTTP) StudentEnrollments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.student_enrollments")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Svc.StudentEnrollments(ctx, id)
	if err != nil {
		return httpError(l, "list_enrollments_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CourseHTTP) CourseEnrollments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.course_enrollments")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Svc.CourseEnrollments(ctx, id)
	if err != nil {
		return httpError(l, "list_enrollments_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CourseHTTP) Unenroll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.unenroll")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Unenroll(ctx, id); err != nil {
		return httpError(l, "unenroll_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Student unenrolled successfully"})
}

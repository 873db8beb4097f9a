package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/repo"
	"github.com/Skotchmaster/university/services/course/internal/service"
	"github.com/Skotchmaster/university/services/course/internal/transport"
)

type CourseHTTP struct {
	Svc *service.CourseService
}

func courseInput(req transport.CourseRequest) service.CourseInput {
	return service.CourseInput{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Credits:      req.Credits,
		Hours:        req.Hours,
		Filiere:      req.Filiere,
		Niveau:       req.Niveau,
		EnseignantID: req.EnseignantID,
		Salle:        req.Salle,
	}
}

func (h *CourseHTTP) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list")

	courses, err := h.Svc.ListCourses(ctx, c.QueryParam("filiere"), c.QueryParam("niveau"))
	if err != nil {
		return httpError(l, "list_courses_failed", err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHTTP) CoursesByFiliere(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.by_filiere")

	courses, err := h.Svc.ListCourses(ctx, c.Param("filiere"), "")
	if err != nil {
		return httpError(l, "list_courses_failed", err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHTTP) SearchCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.search")

	courses, err := h.Svc.SearchCourses(ctx, repo.CourseFilter{
		Code:    c.QueryParam("code"),
		Name:    c.QueryParam("name"),
		Filiere: c.QueryParam("filiere"),
		Niveau:  c.QueryParam("niveau"),
	})
	if err != nil {
		return httpError(l, "search_courses_failed", err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHTTP) GetCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.get")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	course, err := h.Svc.GetCourse(ctx, id)
	if err != nil {
		return httpError(l, "get_course_failed", err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHTTP) CreateCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.create")

	var req transport.CourseRequest
	if err := bindAndValidate(c, l, "create_course_failed", &req); err != nil {
		return err
	}
	course, err := h.Svc.CreateCourse(ctx, courseInput(req))
	if err != nil {
		return httpError(l, "create_course_failed", err)
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *CourseHTTP) UpdateCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.update")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.CourseRequest
	if err := bindAndValidate(c, l, "update_course_failed", &req); err != nil {
		return err
	}
	course, err := h.Svc.UpdateCourse(ctx, id, courseInput(req))
	if err != nil {
		return httpError(l, "update_course_failed", err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHTTP) DeleteCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCourse(ctx, id); err != nil {
		return httpError(l, "delete_course_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Course deleted successfully"})
}

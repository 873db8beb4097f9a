package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/services/course/internal/service"
	"github.com/Skotchmaster/university/services/course/internal/transport"
)

func (h *CourseHTTP) CreateSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.create_schedule")

	var req transport.ScheduleRequest
	if err := bindAndValidate(c, l, "create_schedule_failed", &req); err != nil {
		return err
	}
	sched, err := h.Svc.CreateSchedule(ctx, service.ScheduleInput{
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	})
	if err != nil {
		return httpError(l, "create_schedule_failed", err)
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *CourseHTTP) CourseSchedules(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.course_schedules")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Svc.CourseSchedules(ctx, id)
	if err != nil {
		return httpError(l, "list_schedules_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CourseHTTP) DeleteSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.delete_schedule")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteSchedule(ctx, id); err != nil {
		return httpError(l, "delete_schedule_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Schedule deleted successfully"})
}

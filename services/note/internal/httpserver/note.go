package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/pkg/util"
	"github.com/Skotchmaster/university/services/note/internal/repo"
	"github.com/Skotchmaster/university/services/note/internal/service"
	"github.com/Skotchmaster/university/services/note/internal/transport"
)

const defaultNoteLimit = 50

type NoteHTTP struct {
	Svc *service.NoteService
}

// queryStudentID reads the mandatory student_id query parameter.
func queryStudentID(c echo.Context) (uint, error) {
	raw := strings.TrimSpace(c.QueryParam("student_id"))
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "student_id is required")
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "student_id must be a positive integer")
	}
	return uint(v), nil
}

func (h *NoteHTTP) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.create")

	var req transport.CreateNoteRequest
	if err := bindAndValidate(c, l, "create_note_failed", &req); err != nil {
		return err
	}
	n, err := h.Svc.CreateNote(ctx, service.NoteInput{
		StudentID:   req.StudentID,
		CourseCode:  req.CourseCode,
		Note:        req.Note,
		Coefficient: req.Coefficient,
		TypeExam:    req.TypeExam,
		Semester:    req.Semester,
		DateExam:    req.DateExam,
		Comment:     req.Comment,
	})
	if err != nil {
		return httpError(l, "create_note_failed", err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *NoteHTTP) ListNotes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.list")

	var f repo.NoteFilter
	if raw := c.QueryParam("student_id"); raw != "" {
		id, err := queryStudentID(c)
		if err != nil {
			return err
		}
		f.StudentID = id
	}
	f.CourseCode = c.QueryParam("course_code")
	f.TypeExam = c.QueryParam("type_exam")
	f.Semester = c.QueryParam("semester")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), defaultNoteLimit)
	offset, limit := util.Calculate(page, limit, defaultNoteLimit)

	notes, err := h.Svc.ListNotes(ctx, f, offset, limit)
	if err != nil {
		return httpError(l, "list_notes_failed", err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHTTP) GetNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.get")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.Svc.GetNote(ctx, id)
	if err != nil {
		return httpError(l, "get_note_failed", err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NoteHTTP) UpdateNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.update")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateNoteRequest
	if err := bindAndValidate(c, l, "update_note_failed", &req); err != nil {
		return err
	}
	n, err := h.Svc.UpdateNote(ctx, id, service.NoteInput{
		Note:        req.Note,
		Coefficient: req.Coefficient,
		TypeExam:    req.TypeExam,
		Semester:    req.Semester,
		DateExam:    req.DateExam,
		Comment:     req.Comment,
	})
	if err != nil {
		return httpError(l, "update_note_failed", err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NoteHTTP) DeleteNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteNote(ctx, id); err != nil {
		return httpError(l, "delete_note_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted successfully"})
}

func (h *NoteHTTP) StudentNotes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.student_notes")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	notes, err := h.Svc.StudentNotes(ctx, id)
	if err != nil {
		return httpError(l, "student_notes_failed", err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHTTP) MyNotes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.my_notes")

	id, err := queryStudentID(c)
	if err != nil {
		l.Warn("my_notes_failed", "status", 400, "error", err)
		return err
	}
	notes, err := h.Svc.StudentNotes(ctx, id)
	if err != nil {
		return httpError(l, "my_notes_failed", err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHTTP) StudentAverage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.student_average")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	avg, err := h.Svc.StudentAverage(ctx, id)
	if err != nil {
		return httpError(l, "student_average_failed", err)
	}
	return c.JSON(http.StatusOK, avg)
}

func (h *NoteHTTP) MyAverage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.my_average")

	id, err := queryStudentID(c)
	if err != nil {
		l.Warn("my_average_failed", "status", 400, "error", err)
		return err
	}
	avg, err := h.Svc.StudentAverage(ctx, id)
	if err != nil {
		return httpError(l, "my_average_failed", err)
	}
	return c.JSON(http.StatusOK, avg)
}

func (h *NoteHTTP) CourseNotes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.course_notes")

	notes, err := h.Svc.CourseNotes(ctx, c.Param("code"))
	if err != nil {
		return httpError(l, "course_notes_failed", err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHTTP) CourseStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "note.course_stats")

	stats, err := h.Svc.CourseStats(ctx, c.Param("code"))
	if err != nil {
		return httpError(l, "course_stats_failed", err)
	}
	return c.JSON(http.StatusOK, stats)
}

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/university/pkg/logging"
	"github.com/Skotchmaster/university/pkg/util"
	"github.com/Skotchmaster/university/services/student/internal/repo"
	"github.com/Skotchmaster/university/services/student/internal/service"
	"github.com/Skotchmaster/university/services/student/internal/transport"
)

const defaultStudentLimit = 10

type StudentHTTP struct {
	Svc *service.StudentService
}

func studentInput(req transport.StudentRequest) service.StudentInput {
	in := service.StudentInput{
		Fullname:         req.Fullname,
		Nom:              req.Nom,
		Prenom:           req.Prenom,
		Email:            req.Email,
		Matricule:        req.Matricule,
		DateNaissance:    req.DateNaissance,
		Telephone:        req.Telephone,
		Adresse:          req.Adresse,
		Filiere:          req.Filiere,
		Niveau:           req.Niveau,
		AnneeInscription: req.AnneeInscription,
		Photo:            req.Photo,
		Statut:           req.Statut,
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	return in
}

func pageParams(c echo.Context) (int, int) {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), defaultStudentLimit)
	return util.Calculate(page, limit, defaultStudentLimit)
}

func (h *StudentHTTP) CreateStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.create")

	var req transport.StudentRequest
	if err := bindAndValidate(c, l, "create_student_failed", &req); err != nil {
		return err
	}
	st, err := h.Svc.CreateStudent(ctx, studentInput(req))
	if err != nil {
		return httpError(l, "create_student_failed", err)
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *StudentHTTP) ListStudents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.list")

	f := repo.StudentFilter{
		Filiere: c.QueryParam("filiere"),
		Niveau:  c.QueryParam("niveau"),
	}
	if raw := c.QueryParam("annee"); raw != "" {
		annee, err := strconv.Atoi(raw)
		if err != nil {
			l.Warn("list_students_failed", "status", 400, "reason", "annee is not an integer", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "annee must be an integer")
		}
		f.Annee = &annee
	}

	offset, limit := pageParams(c)
	students, err := h.Svc.ListStudents(ctx, f, offset, limit)
	if err != nil {
		return httpError(l, "list_students_failed", err)
	}
	return c.JSON(http.StatusOK, students)
}

func (h *StudentHTTP) SearchStudents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.search")

	offset, limit := pageParams(c)
	students, err := h.Svc.SearchStudents(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return httpError(l, "search_students_failed", err)
	}
	return c.JSON(http.StatusOK, students)
}

func (h *StudentHTTP) GetStudentByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.by_email")

	st, err := h.Svc.GetStudentByEmail(ctx, c.Param("email"))
	if err != nil {
		return httpError(l, "get_student_failed", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHTTP) GetStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.get")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	st, err := h.Svc.GetStudent(ctx, id)
	if err != nil {
		return httpError(l, "get_student_failed", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHTTP) ReplaceStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.replace")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.StudentRequest
	if err := bindAndValidate(c, l, "replace_student_failed", &req); err != nil {
		return err
	}
	st, err := h.Svc.ReplaceStudent(ctx, id, studentInput(req))
	if err != nil {
		return httpError(l, "replace_student_failed", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.update_profile")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.ProfileRequest
	if err := bindAndValidate(c, l, "update_profile_failed", &req); err != nil {
		return err
	}
	st, err := h.Svc.UpdateProfile(ctx, id, service.ProfileInput{
		Email:     req.Email,
		Telephone: req.Telephone,
		Adresse:   req.Adresse,
	})
	if err != nil {
		return httpError(l, "update_profile_failed", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHTTP) DeleteStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteStudent(ctx, id); err != nil {
		return httpError(l, "delete_student_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Student soft-deleted"})
}

func (h *StudentHTTP) ListHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.list_history")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	records, err := h.Svc.ListHistory(ctx, id)
	if err != nil {
		return httpError(l, "list_history_failed", err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *StudentHTTP) AddHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.add_history")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.HistoryRequest
	if err := bindAndValidate(c, l, "add_history_failed", &req); err != nil {
		return err
	}
	rec, err := h.Svc.AddHistory(ctx, id, service.HistoryInput{Annee: req.Annee, Details: req.Details})
	if err != nil {
		return httpError(l, "add_history_failed", err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *StudentHTTP) DeleteHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.delete_history")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	hid, err := pathID(c, "hid")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteHistory(ctx, id, hid); err != nil {
		return httpError(l, "delete_history_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "History record deleted"})
}

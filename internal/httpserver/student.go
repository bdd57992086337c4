package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/studenthub/backend/internal/logging"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/service"
	"github.com/studenthub/backend/internal/transport"
)

type StudentHTTP struct {
	Svc *service.StudentService
}

func callerID(c echo.Context) (uuid.UUID, bool) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

func (h *StudentHTTP) ListStudents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.list")

	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}

	students, err := h.Svc.List(ctx, ownerID)
	if err != nil {
		l.Error("list_students_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, transport.StudentsResponse{
		Success:  true,
		Count:    len(students),
		Students: students,
	})
}

func (h *StudentHTTP) GetStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.get")

	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_student_error", "status", 404, "reason", "id is not a uuid")
		return c.JSON(http.StatusNotFound, transport.Error("student not found"))
	}

	student, err := h.Svc.Get(ctx, ownerID, id)
	if err != nil {
		return writeServiceError(c, l, "get_student_error", err)
	}

	return c.JSON(http.StatusOK, transport.StudentResponse{Success: true, Student: student})
}

func (h *StudentHTTP) CreateStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.create")

	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}

	var req transport.CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_student_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error("invalid body"))
	}
	if err := transport.Validate(&req); err != nil {
		l.Warn("create_student_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error(errMessage(err)))
	}

	student, err := h.Svc.Create(ctx, ownerID, req.ToModel())
	if err != nil {
		return writeServiceError(c, l, "create_student_error", err)
	}

	l.Info("student_created", "student_id", student.ID)
	return c.JSON(http.StatusCreated, transport.StudentResponse{Success: true, Student: student})
}

func (h *StudentHTTP) UpdateStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.update")

	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_student_error", "status", 404, "reason", "id is not a uuid")
		return c.JSON(http.StatusNotFound, transport.Error("student not found"))
	}

	var req transport.UpdateStudentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_student_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error("invalid body"))
	}
	if err := transport.Validate(&req); err != nil {
		l.Warn("update_student_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Error(errMessage(err)))
	}

	student, err := h.Svc.Update(ctx, ownerID, id, req.ToPatch())
	if err != nil {
		return writeServiceError(c, l, "update_student_error", err)
	}

	l.Info("student_updated", "student_id", student.ID)
	return c.JSON(http.StatusOK, transport.StudentResponse{Success: true, Student: student})
}

func (h *StudentHTTP) DeleteStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.delete")

	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_student_error", "status", 404, "reason", "id is not a uuid")
		return c.JSON(http.StatusNotFound, transport.Error("student not found"))
	}

	if err := h.Svc.Delete(ctx, ownerID, id); err != nil {
		return writeServiceError(c, l, "delete_student_error", err)
	}

	l.Info("student_deleted", "student_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{
		Success: true,
		Message: "student deleted successfully",
	})
}

func (h *StudentHTTP) SearchStudents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.search")

	ownerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.Error("not authorized"))
	}

	query := c.QueryParam("q")
	var (
		students []models.Student
		err      error
	)
	if query == "" {
		students, err = h.Svc.List(ctx, ownerID)
	} else {
		students, err = h.Svc.Search(ctx, ownerID, query)
	}
	if err != nil {
		l.Error("search_students_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Error("internal server error"))
	}

	return c.JSON(http.StatusOK, transport.StudentsResponse{
		Success:  true,
		Count:    len(students),
		Students: students,
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// CreateStudent godoc
// @Summary  register a student
// @Tags     students
// @Accept   json
// @Produce  json
// @Param    student body model.CreateStudentRequest true "student"
// @Success  201 {object} envelope{created=model.Student}
// @Failure  400,404 {object} envelope
// @Router   /students [post]
func (h *Handler) CreateStudent(c echo.Context) error {
	var req model.CreateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	student, err := h.librarySvc.CreateStudent(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  statusSuccess,
		"created": student,
	})
}

// FindStudent godoc
// @Summary  find a student by identification
// @Tags     students
// @Accept   json
// @Produce  json
// @Param    query body model.FindStudentRequest true "identification"
// @Success  200 {object} envelope{student=model.Student}
// @Failure  400,404 {object} envelope
// @Router   /students/find [post]
func (h *Handler) FindStudent(c echo.Context) error {
	var req model.FindStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	student, err := h.librarySvc.FindStudent(c.Request().Context(), req.Identification)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  statusSuccess,
		"student": student,
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// ListPrograms godoc
// @Summary  list programs, newest first
// @Tags     programs
// @Produce  json
// @Success  200 {object} envelope{programs=[]model.Program}
// @Router   /programs [get]
func (h *Handler) ListPrograms(c echo.Context) error {
	programs, err := h.librarySvc.ListPrograms(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   statusSuccess,
		"programs": orEmpty(programs),
	})
}

// CreateProgram godoc
// @Summary  create a program
// @Tags     programs
// @Accept   json
// @Produce  json
// @Param    program body model.CreateProgramRequest true "program"
// @Success  201 {object} envelope{created=model.Program}
// @Failure  400 {object} envelope
// @Router   /programs [post]
func (h *Handler) CreateProgram(c echo.Context) error {
	var req model.CreateProgramRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	program, err := h.librarySvc.CreateProgram(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  statusSuccess,
		"created": program,
	})
}

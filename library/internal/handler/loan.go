package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// ListLoans godoc
// @Summary  loans with student and asset resolved, newest first
// @Tags     loans
// @Produce  json
// @Success  200 {object} envelope{loans=[]model.LoanDetails}
// @Router   /loans [get]
func (h *Handler) ListLoans(c echo.Context) error {
	loans, err := h.librarySvc.ListLoans(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": statusSuccess,
		"loans":  orEmpty(loans),
	})
}

// ListLoanEvents godoc
// @Summary  loan history
// @Tags     loans
// @Produce  json
// @Success  200 {object} envelope{events=[]model.LoanEvent}
// @Router   /loans/history [get]
func (h *Handler) ListLoanEvents(c echo.Context) error {
	events, err := h.librarySvc.ListLoanEvents(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": statusSuccess,
		"events": orEmpty(events),
	})
}

// CreateLoan godoc
// @Summary  lend an asset to a student
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    loan body model.CreateLoanRequest true "loan"
// @Success  201 {object} envelope{created=model.Loan}
// @Failure  400,404,409 {object} envelope
// @Router   /loans [post]
func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  statusSuccess,
		"created": loan,
	})
}

// UpdateLoan godoc
// @Summary  change student, asset or due date of a loan
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    id   path string                  true "loan id"
// @Param    loan body model.UpdateLoanRequest true "fields to change"
// @Success  200 {object} envelope{updated=model.Loan}
// @Failure  400,404,409 {object} envelope
// @Router   /loans/{id} [put]
func (h *Handler) UpdateLoan(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req model.UpdateLoanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.UpdateLoan(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  statusSuccess,
		"updated": loan,
	})
}

// DeleteLoan godoc
// @Summary  return a loaned asset
// @Tags     loans
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} envelope
// @Failure  400,404 {object} envelope
// @Router   /loans/{id} [delete]
func (h *Handler) DeleteLoan(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.librarySvc.DeleteLoan(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, envelope{
		Status:  statusSuccess,
		Message: "loan deleted",
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type AssignmentHandler struct {
	service ports.AssignmentService
}

func NewAssignmentHandler(service ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Create handles POST /api/admin/assignments. The client is looked up by
// whatsapp and created on the fly when unknown.
//
// @Summary      Assign a profile to a client
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        body  body      createAssignmentRequest  true  "Assignment"
// @Success      201   {object}  assignmentResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/admin/assignments [post]
func (h *AssignmentHandler) Create(c echo.Context) error {
	var req createAssignmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	assignment, err := h.service.Create(c.Request().Context(), ports.CreateAssignmentInput{
		ClientName:     req.ClientName,
		ClientWhatsApp: req.ClientWhatsApp,
		AccountID:      req.AccountID,
		ProfileName:    req.ProfileName,
		PIN:            req.PIN,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAssignmentResponse(assignment))
}

// Delete handles DELETE /api/admin/assignments/:id.
//
// @Summary      Delete an assignment
// @Tags         assignments
// @Produce      json
// @Param        id   path      string  true  "Assignment id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "assignment deleted"})
}

// Renew handles PATCH /api/admin/assignments/:id/renew.
//
// @Summary      Renew an assignment for another month
// @Tags         assignments
// @Produce      json
// @Param        id   path      string  true  "Assignment id"
// @Success      200  {object}  assignmentResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/assignments/{id}/renew [patch]
func (h *AssignmentHandler) Renew(c echo.Context) error {
	assignment, err := h.service.Renew(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssignmentResponse(assignment))
}

// TogglePayment handles PATCH /api/admin/assignments/:id/payment.
//
// @Summary      Toggle payment status
// @Tags         assignments
// @Produce      json
// @Param        id   path      string  true  "Assignment id"
// @Success      200  {object}  assignmentResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/assignments/{id}/payment [patch]
func (h *AssignmentHandler) TogglePayment(c echo.Context) error {
	assignment, err := h.service.TogglePayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssignmentResponse(assignment))
}

// Release handles POST /api/admin/assignments/:id/release.
//
// @Summary      Change the profile PIN and free the slot
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Assignment id"
// @Param        body  body      releaseRequest  true  "New PIN"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/admin/assignments/{id}/release [post]
func (h *AssignmentHandler) Release(c echo.Context) error {
	var req releaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Release(c.Request().Context(), c.Param("id"), req.NewPIN); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "assignment released"})
}

// Dashboard handles GET /api/admin/data.
//
// @Summary      Admin dashboard data
// @Tags         assignments
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/admin/data [get]
func (h *AssignmentHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(dashboard))
}

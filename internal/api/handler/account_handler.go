package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /api/admin/accounts.
//
// @Summary      Create a service account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      accountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/admin/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req accountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.Create(c.Request().Context(), toAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Update handles PUT /api/admin/accounts/:id.
//
// @Summary      Update a service account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Account id"
// @Param        body  body      accountRequest  true  "Account details"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/admin/accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	var req accountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.Update(c.Request().Context(), c.Param("id"), toAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// RevealPassword handles GET /api/admin/accounts/:id/password.
//
// @Summary      Reveal an account password
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  passwordResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/accounts/{id}/password [get]
func (h *AccountHandler) RevealPassword(c echo.Context) error {
	password, err := h.service.RevealPassword(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, passwordResponse{Password: password})
}

// ToggleStatus handles PATCH /api/admin/accounts/:id/status.
//
// @Summary      Toggle account status
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/accounts/{id}/status [patch]
func (h *AccountHandler) ToggleStatus(c echo.Context) error {
	account, err := h.service.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateProfilePIN handles PATCH /api/admin/accounts/:id/profiles.
//
// @Summary      Change one profile PIN
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Account id"
// @Param        body  body      profilePINRequest  true  "Profile and new PIN"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/admin/accounts/{id}/profiles [patch]
func (h *AccountHandler) UpdateProfilePIN(c echo.Context) error {
	var req profilePINRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateProfilePIN(c.Request().Context(), c.Param("id"), req.ProfileName, req.NewPIN); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "pin updated"})
}

// Delete handles DELETE /api/admin/accounts/:id. Assignments on the account
// are removed with it.
//
// @Summary      Delete a service account
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// GeneratePIN handles GET /api/admin/pins/generate.
//
// @Summary      Generate a random PIN
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  pinResponse
// @Router       /api/admin/pins/generate [get]
func (h *AccountHandler) GeneratePIN(c echo.Context) error {
	pin, err := h.service.GeneratePIN()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pinResponse{PIN: pin})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create handles POST /api/admin/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  messageResponse
// @Router       /api/admin/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.Create(c.Request().Context(), ports.CreateClientInput{Name: req.Name, WhatsApp: req.WhatsApp})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// Update handles PUT /api/admin/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Client id"
// @Param        body  body      updateClientRequest  true  "Client"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/admin/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateClientInput{
		Name:     req.Name,
		WhatsApp: req.WhatsApp,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete handles DELETE /api/admin/clients/:id.
//
// @Summary      Delete a client and their assignments
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "client deleted"})
}

// Search handles GET /api/admin/clients/search?term=.
//
// @Summary      Search clients by name or whatsapp
// @Tags         clients
// @Produce      json
// @Param        term  query     string  true  "At least two characters"
// @Success      200   {array}   clientResponse
// @Router       /api/admin/clients/search [get]
func (h *ClientHandler) Search(c echo.Context) error {
	clients, err := h.service.Search(c.Request().Context(), c.QueryParam("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponses(clients))
}

// History handles GET /api/admin/clients/:id/history.
//
// @Summary      Assignment history of a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {array}   assignmentViewResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/clients/{id}/history [get]
func (h *ClientHandler) History(c echo.Context) error {
	views, err := h.service.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssignmentViewResponses(views))
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// AccessHandler serves the public client lookups. No session is required.
type AccessHandler struct {
	service ports.AccessService
}

func NewAccessHandler(service ports.AccessService) *AccessHandler {
	return &AccessHandler{service: service}
}

// Access handles GET /api/client/access/:whatsapp.
//
// @Summary      Current access credentials of a client
// @Tags         client
// @Produce      json
// @Param        whatsapp  path      string  true  "WhatsApp number, any format"
// @Success      200       {object}  accessResponse
// @Failure      404       {object}  messageResponse
// @Router       /api/client/access/{whatsapp} [get]
func (h *AccessHandler) Access(c echo.Context) error {
	detail, err := h.service.Access(c.Request().Context(), c.Param("whatsapp"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessResponse{
		ClientName:  detail.ClientName,
		Email:       detail.Email,
		Password:    detail.Password,
		ProfileName: detail.ProfileName,
		PIN:         detail.PIN,
		ExpiryDate:  detail.ExpiryDate,
	})
}

// History handles GET /api/client/history/:whatsapp.
//
// @Summary      Recent assignments of a client
// @Tags         client
// @Produce      json
// @Param        whatsapp  path      string  true  "WhatsApp number, any format"
// @Success      200       {array}   assignmentViewResponse
// @Failure      404       {object}  messageResponse
// @Router       /api/client/history/{whatsapp} [get]
func (h *AccessHandler) History(c echo.Context) error {
	views, err := h.service.History(c.Request().Context(), c.Param("whatsapp"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssignmentViewResponses(views))
}

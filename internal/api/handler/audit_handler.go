package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Recent handles GET /api/admin/events?limit=.
//
// @Summary      Latest assignment lifecycle events
// @Tags         events
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of events (default 50, max 500)"
// @Success      200    {array}   eventResponse
// @Failure      400    {object}  messageResponse
// @Router       /api/admin/events [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.NewValidationError("limit must be an integer")
		}
		limit = n
	}

	events, err := h.service.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

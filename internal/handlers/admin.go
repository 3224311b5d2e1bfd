package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kitsu-backend/internal/service"
	"kitsu-backend/internal/util"
)

type AdminHandler struct {
	Orders *service.OrderService
	Stats  *service.StatsService
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Orders.ListOrders(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.Stats.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, stats)
}

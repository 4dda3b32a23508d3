package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradesync/internal/jobs"
	"tradesync/internal/repositories"
)

// OrderHandlers exposes orders and their vendor submission.
type OrderHandlers struct {
	orders   repositories.OrderRepository
	enqueuer *jobs.Enqueuer
}

func NewOrderHandlers(orders repositories.OrderRepository, enqueuer *jobs.Enqueuer) *OrderHandlers {
	return &OrderHandlers{
		orders:   orders,
		enqueuer: enqueuer,
	}
}

// GetOrder returns one order.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	order, err := h.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

// SendOrder enqueues submission of one order to the vendor. Submission is
// idempotent, so re-triggering an already-submitted order is harmless.
func (h *OrderHandlers) SendOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if _, err := h.orders.GetByID(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err := h.enqueuer.EnqueueOrderSend(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to enqueue order")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}

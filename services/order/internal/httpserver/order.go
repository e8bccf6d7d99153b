package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	authmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/Skotchmaster/logistics_shop/pkg/pagination"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func orderError(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrProductNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrStockExceeded):
		l.Warn(event, "status", 409, "reason", "stock exceeded", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "stock exceeded")
	case errors.Is(err, service.ErrOutOfStock):
		l.Warn(event, "status", 409, "reason", "out of stock", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "out of stock")
	case errors.Is(err, service.ErrCatalog):
		l.Error(event, "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "catalog unavailable")
	}
	l.Error(event, "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func orderID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	return id, nil
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	email, _ := c.Get(authmw.CtxEmail).(string)

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, service.Customer{UserID: userID, Email: email}, req)
	if err != nil {
		return orderError(c, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOwn(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	list, err := h.Svc.ListUserOrders(c.Request().Context(), userID,
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)
	if err != nil {
		return orderError(c, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *OrderHTTP) GetOwn(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := orderID(c)
	if err != nil {
		return err
	}
	order, err := h.Svc.GetUserOrder(c.Request().Context(), userID, id)
	if err != nil {
		return orderError(c, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

// AdminList returns every order matching the optional q, status,
// payment_method, range and sort parameters.
func (h *OrderHTTP) AdminList(c echo.Context) error {
	q, err := orderquery.ParseValues(c.QueryParams())
	if err != nil {
		return orderError(c, "admin_list_orders_error", fmt.Errorf("%v: %w", err, service.ErrValidation))
	}
	orders, err := h.Svc.AdminOrders(c.Request().Context(), q)
	if err != nil {
		return orderError(c, "admin_list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) AdminUpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_update_status")

	id, err := orderID(c)
	if err != nil {
		return err
	}
	var req transport.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return orderError(c, "update_status_error", err)
	}

	l.Info("order_status_updated", "order_id", id, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

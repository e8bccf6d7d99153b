package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	authmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func cartError(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
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

func userID(c echo.Context) (uuid.UUID, error) {
	id, err := authmw.UserID(c)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func lineParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	uid, err := userID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	pid, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "product_id is not a uuid")
	}
	return uid, pid, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.GetCart(c.Request().Context(), uid, c.QueryParam("shipping"))
	if err != nil {
		return cartError(c, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) GetSummary(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.GetCart(c.Request().Context(), uid, c.QueryParam("shipping"))
	if err != nil {
		return cartError(c, "get_summary_error", err)
	}
	if cart.Summary == nil {
		return c.JSON(http.StatusOK, map[string]any{"empty": true})
	}
	return c.JSON(http.StatusOK, cart.Summary)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	line, err := h.Svc.AddToCart(ctx, uid, req)
	if err != nil {
		return cartError(c, "add_to_cart_error", err)
	}

	l.Info("item_added", "product_id", line.ProductID, "quantity", line.Quantity)
	return c.JSON(http.StatusCreated, line)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	uid, pid, err := lineParams(c)
	if err != nil {
		return err
	}
	var req transport.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	line, err := h.Svc.SetQuantity(ctx, uid, pid, req.Quantity)
	if err != nil {
		return cartError(c, "set_quantity_error", err)
	}
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	uid, pid, err := lineParams(c)
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveItem(c.Request().Context(), uid, pid); err != nil {
		return cartError(c, "remove_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.ClearCart(ctx, uid); err != nil {
		return cartError(c, "clear_cart_error", err)
	}

	l.Info("cart_cleared")
	return c.NoContent(http.StatusNoContent)
}

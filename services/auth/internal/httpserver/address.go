package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	authmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func addressError(c echo.Context, op string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "address."+op)
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn("address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn("address_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "address not found")
	}
	l.Error("address_error", "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func ids(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := authmw.UserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	return userID, id, nil
}

func (h *AddressHTTP) List(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := h.Svc.List(c.Request().Context(), userID)
	if err != nil {
		return addressError(c, "list", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AddressHTTP) Create(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	a, err := h.Svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return addressError(c, "create", err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	userID, id, err := ids(c)
	if err != nil {
		return err
	}
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	a, err := h.Svc.Update(c.Request().Context(), userID, id, req)
	if err != nil {
		return addressError(c, "update", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	userID, id, err := ids(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), userID, id); err != nil {
		return addressError(c, "delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AddressHTTP) SetDefault(c echo.Context) error {
	userID, id, err := ids(c)
	if err != nil {
		return err
	}
	a, err := h.Svc.SetDefault(c.Request().Context(), userID, id)
	if err != nil {
		return addressError(c, "set_default", err)
	}
	return c.JSON(http.StatusOK, a)
}

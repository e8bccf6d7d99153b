package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	authmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/transport"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Signup(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("signup_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflict):
			l.Warn("signup_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		l.Error("signup_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "signup failed")
	}

	l.Info("signup_success", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	return h.login(c, "auth.login", h.Svc.Login)
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	return h.login(c, "auth.admin_login", h.Svc.AdminLogin)
}

type loginFunc = func(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error)

func (h *AuthHTTP) login(c echo.Context, name string, fn loginFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := fn(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrForbidden):
			l.Warn("login_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("me_error", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
		}
		l.Error("me_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, transport.UserFromModel(user))
}

package httpserver

import (
	"net/http"

	middleware "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/logistics_shop/pkg/middleware/ratelimit"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	AddressHandler *AddressHTTP
	JWTSecret      []byte
	LoginLimiter   *ratelimit.Limiter
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	var limited []echo.MiddlewareFunc
	if d.LoginLimiter != nil {
		limited = append(limited, d.LoginLimiter.Middleware())
	}

	auth := e.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup, limited...)
	auth.POST("/login", d.AuthHandler.Login, limited...)
	auth.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)

	e.POST("/admin/login", d.AuthHandler.AdminLogin, limited...)

	addresses := e.Group("/addresses", authMW.RequireAuth)
	addresses.GET("", d.AddressHandler.List)
	addresses.POST("", d.AddressHandler.Create)
	addresses.PUT("/:id", d.AddressHandler.Update)
	addresses.DELETE("/:id", d.AddressHandler.Delete)
	addresses.PATCH("/:id/default", d.AddressHandler.SetDefault)
}

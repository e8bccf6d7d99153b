package httpserver

import (
	"net/http"

	middleware "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.ListOwn)
	orders.GET("/:id", d.OrderHandler.GetOwn)

	admin := e.Group("/admin/orders", authMW.RequireAdmin)
	admin.GET("", d.OrderHandler.AdminList)
	admin.PUT("/:id/status", d.OrderHandler.AdminUpdateStatus)
}

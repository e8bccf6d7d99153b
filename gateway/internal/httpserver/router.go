package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/logistics_shop/gateway/internal/middleware"
	authmw "github.com/Skotchmaster/logistics_shop/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

const apiPrefix = "/api/v1"

type Deps struct {
	AuthURL    string
	CartURL    string
	CatalogURL string
	OrderURL   string

	CORSOrigins []string
	JWTSecret   []byte
	Logger      *slog.Logger
}

// Register mounts the public API under /api/v1. Tokens are checked here
// before a request reaches a service; the services check them again.
func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range middleware.Common(logger, d.CORSOrigins) {
		e.Use(m)
	}

	authProxy, err := newProxy(d.AuthURL, apiPrefix)
	if err != nil {
		return err
	}
	catalogProxy, err := newProxy(d.CatalogURL, apiPrefix)
	if err != nil {
		return err
	}
	cartProxy, err := newProxy(d.CartURL, apiPrefix)
	if err != nil {
		return err
	}
	orderProxy, err := newProxy(d.OrderURL, apiPrefix)
	if err != nil {
		return err
	}

	bearer := authmw.NewBearerAuth(d.JWTSecret)
	api := e.Group(apiPrefix)

	api.Any("/auth/*", authProxy)
	api.POST("/admin/login", authProxy)
	api.Any("/addresses", authProxy, bearer.RequireAuth)
	api.Any("/addresses/*", authProxy, bearer.RequireAuth)

	api.GET("/products", catalogProxy)
	api.GET("/products/*", catalogProxy)
	api.GET("/uploads/*", catalogProxy)
	api.Any("/admin/products", catalogProxy, bearer.RequireAdmin)
	api.Any("/admin/products/*", catalogProxy, bearer.RequireAdmin)

	api.Any("/cart", cartProxy, bearer.RequireAuth)
	api.Any("/cart/*", cartProxy, bearer.RequireAuth)

	api.Any("/orders", orderProxy, bearer.RequireAuth)
	api.Any("/orders/*", orderProxy, bearer.RequireAuth)
	api.Any("/admin/orders", orderProxy, bearer.RequireAdmin)
	api.Any("/admin/orders/*", orderProxy, bearer.RequireAdmin)

	return nil
}

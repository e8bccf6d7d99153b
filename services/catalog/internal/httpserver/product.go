package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/Skotchmaster/logistics_shop/pkg/pagination"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadMemory = 32 << 20

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func productError(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	l.Error(event, "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func productID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	return id, nil
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	inStock, _ := strconv.ParseBool(c.QueryParam("in_stock"))
	page, err := h.Svc.ListProducts(ctx, service.ListParams{
		InStockOnly: inStock,
		Sort:        c.QueryParam("sort"),
		Page:        pagination.ParseIntDefault(c.QueryParam("page"), 1),
		Size:        pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	})
	if err != nil {
		return productError(c, "get_products_error", err)
	}

	l.Debug("get_products_success", "total", page.Meta.Total)
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return productError(c, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	page, err := h.Svc.SearchProducts(c.Request().Context(),
		c.QueryParam("q"),
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)
	if err != nil {
		return productError(c, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

// bindProduct reads the product fields and, for multipart bodies, the
// "images" files.
func bindProduct(c echo.Context) (transport.ProductInput, []*multipart.FileHeader, error) {
	var in transport.ProductInput
	if err := c.Bind(&in); err != nil {
		return in, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return in, nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body")
	}
	return in, form.File["images"], nil
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	in, files, err := bindProduct(c)
	if err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, in, files)
	if err != nil {
		return productError(c, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID, "images", len(p.Images))
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := productID(c)
	if err != nil {
		return err
	}
	in, files, err := bindProduct(c)
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.UpdateProduct(ctx, id, in, files)
	if err != nil {
		return productError(c, "product_update_error", err)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return productError(c, "product_delete_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogclient"
	"github.com/Skotchmaster/logistics_shop/pkg/dbtest"
	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/Skotchmaster/logistics_shop/pkg/tokens"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type stubCatalog struct {
	product catalogclient.Product
}

func (s stubCatalog) GetProduct(_ context.Context, id uuid.UUID) (*catalogclient.Product, error) {
	if id != s.product.ID {
		return nil, fmt.Errorf("%s: %w", id, catalogclient.ErrProductNotFound)
	}
	p := s.product
	return &p, nil
}

func setup(t *testing.T) (*echo.Echo, uuid.UUID) {
	t.Helper()
	db := dbtest.Open(t, &models.Order{}, &models.OrderItem{})
	pid := uuid.New()
	e := echo.New()
	Register(e, &Deps{
		OrderHandler: &OrderHTTP{Svc: &service.OrderService{
			Repo: &repo.GormRepo{DB: db},
			Catalog: stubCatalog{product: catalogclient.Product{
				ID: pid, Name: "Carton", Price: decimal.RequireFromString("5.000"),
				Currency: "KWD", StockQuantity: 10, InStock: true,
			}},
			Currency: "KWD",
		}},
		JWTSecret: testSecret,
	})
	return e, pid
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.Sign(uuid.NewString(), role, role+"@shop.test", time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return tok
}

func call(e *echo.Echo, method, path, body, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutAndAdminFlow(t *testing.T) {
	e, pid := setup(t)
	user := bearer(t, tokens.RoleUser)
	admin := bearer(t, tokens.RoleAdmin)

	body := `{"items":[{"product_id":"` + pid.String() + `","quantity":2}],` +
		`"shipping_method":"pickup","payment_method":"knet","customer_name":"Ali"}`
	rec := call(e, http.MethodPost, "/orders", body, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created orderquery.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "user@shop.test", created.CustomerEmail)
	assert.Equal(t, orderquery.StatusPending, created.Status)

	rec = call(e, http.MethodGet, "/orders", "", user)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodGet, "/admin/orders", "", user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(e, http.MethodGet, "/admin/orders?status=PENDING&payment_method=knet", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []orderquery.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = call(e, http.MethodGet, "/admin/orders?range=forever", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e, http.MethodPut, "/admin/orders/"+created.ID.String()+"/status", `{"status":"DELIVERED"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"DELIVERED"`)

	rec = call(e, http.MethodPut, "/admin/orders/"+created.ID.String()+"/status", `{"status":"LOST"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e, http.MethodPut, "/admin/orders/"+uuid.NewString()+"/status", `{"status":"FAILED"}`, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_StockConflict(t *testing.T) {
	e, pid := setup(t)
	body := `{"items":[{"product_id":"` + pid.String() + `","quantity":11}],` +
		`"shipping_method":"pickup","payment_method":"cash","customer_name":"Ali"}`

	rec := call(e, http.MethodPost, "/orders", body, bearer(t, tokens.RoleUser))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(e, http.MethodPost, "/orders", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

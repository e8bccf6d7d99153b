package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogclient"
	"github.com/Skotchmaster/logistics_shop/pkg/dbtest"
	"github.com/Skotchmaster/logistics_shop/pkg/tokens"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type env struct {
	e       *echo.Echo
	token   string
	product uuid.UUID
}

func setup(t *testing.T) *env {
	t.Helper()
	product := uuid.New()
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/"+product.String() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": product, "name": "Carton", "price": "5.000", "currency": "KWD",
			"stock_quantity": 2, "in_stock": true,
		})
	}))
	t.Cleanup(catalog.Close)

	db := dbtest.Open(t, &models.CartItem{})
	e := echo.New()
	Register(e, &Deps{
		CartHandler: &CartHTTP{Svc: &service.CartService{
			Repo:    &repo.GormRepo{DB: db},
			Catalog: catalogclient.NewClient(catalog.URL),
		}},
		JWTSecret: testSecret,
	})

	tok, err := tokens.Sign(uuid.NewString(), tokens.RoleUser, "u@shop.test", time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return &env{e: e, token: tok, product: product}
}

func (v *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+v.token)
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

func TestCart_Flow(t *testing.T) {
	v := setup(t)
	add := `{"product_id":"` + v.product.String() + `","quantity":2}`

	rec := v.do(http.MethodPost, "/cart", add)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = v.do(http.MethodPost, "/cart", `{"product_id":"`+v.product.String()+`","quantity":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "stock exceeded")

	rec = v.do(http.MethodGet, "/cart?shipping=delivery", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cart transport.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Summary)
	assert.Equal(t, "12.200", cart.Summary.Total.StringFixed(3))

	rec = v.do(http.MethodPatch, "/cart/items/"+v.product.String(), `{"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = v.do(http.MethodGet, "/cart/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subtotal":"5`)

	rec = v.do(http.MethodDelete, "/cart/items/"+v.product.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = v.do(http.MethodDelete, "/cart/items/"+v.product.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = v.do(http.MethodGet, "/cart/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"empty":true}`, rec.Body.String())
}

func TestCart_Errors(t *testing.T) {
	v := setup(t)

	rec := v.do(http.MethodPost, "/cart", `{"product_id":"`+uuid.NewString()+`","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = v.do(http.MethodPost, "/cart", `{"product_id":"`+v.product.String()+`","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = v.do(http.MethodPatch, "/cart/items/xyz", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = v.do(http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	out := httptest.NewRecorder()
	v.e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}

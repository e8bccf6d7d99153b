package httpserver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/dbtest"
	"github.com/Skotchmaster/logistics_shop/pkg/tokens"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/images"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func setupServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := dbtest.Open(t, &models.Product{})
	dir := t.TempDir()
	svc := &service.CatalogService{
		Repo:     &repo.GormRepo{DB: db},
		Images:   &images.Store{Dir: dir, URLPrefix: "/uploads"},
		Currency: "KWD",
	}
	e := echo.New()
	Register(e, &Deps{CatalogHandler: &CatalogHTTP{Svc: svc}, JWTSecret: testSecret, UploadDir: dir})
	return e
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.Sign(uuid.NewString(), role, role+"@shop.test", time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return tok
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body, tok string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	return req
}

func TestAdminProducts_RequireAdmin(t *testing.T) {
	e := setupServer(t)
	body := `{"name":"Carton","price":"1.250","stock_quantity":3}`

	rec := serve(e, jsonRequest(http.MethodPost, "/admin/products", body, ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPost, "/admin/products", body, token(t, tokens.RoleUser)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPost, "/admin/products", body, token(t, tokens.RoleAdmin)))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestProducts_CRUDRoundTrip(t *testing.T) {
	e := setupServer(t)
	admin := token(t, tokens.RoleAdmin)

	rec := serve(e, jsonRequest(http.MethodPost, "/admin/products", `{"name":"Carton","price":"1.250","stock_quantity":3}`, admin))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created transport.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(e, jsonRequest(http.MethodGet, "/products/"+created.ID.String(), "", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, jsonRequest(http.MethodGet, "/products/nope", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, jsonRequest(http.MethodGet, "/products/"+uuid.NewString(), "", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, jsonRequest(http.MethodPut, "/admin/products/"+created.ID.String(), `{"name":"Carton","price":"1.250","stock_quantity":0}`, admin))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, jsonRequest(http.MethodGet, "/products?in_stock=true", "", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var page transport.ProductPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Data)

	rec = serve(e, jsonRequest(http.MethodGet, "/products?sort=bogus", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, jsonRequest(http.MethodDelete, "/admin/products/"+created.ID.String(), "", admin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateProduct_Multipart(t *testing.T) {
	e := setupServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("name", "Pallet"))
	require.NoError(t, w.WriteField("price", "12.5"))
	require.NoError(t, w.WriteField("stock_quantity", "7"))
	fw, err := w.CreateFormFile("images", "pallet.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, image.NewRGBA(image.Rect(0, 0, 400, 200))))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, tokens.RoleAdmin))

	rec := serve(e, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p transport.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 7, p.StockQuantity)
	require.Len(t, p.Images, 1)
	require.Len(t, p.Thumbnails, 1)

	rec = serve(e, httptest.NewRequest(http.MethodGet, p.Thumbnails[0], nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

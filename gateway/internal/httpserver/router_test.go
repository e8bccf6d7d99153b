package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/tokens"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("gateway-test-secret")

// upstream answers with its name and the path it received.
func upstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, name+" "+r.Method+" "+r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:     upstream(t, "auth").URL,
		CatalogURL:  upstream(t, "catalog").URL,
		CartURL:     upstream(t, "cart").URL,
		OrderURL:    upstream(t, "order").URL,
		CORSOrigins: []string{"*"},
		JWTSecret:   testSecret,
	}))
	return e
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := tokens.Sign(uuid.NewString(), role, role+"@shop.test", time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return tok
}

func TestRouting(t *testing.T) {
	e := newGateway(t)
	user := token(t, tokens.RoleUser)
	admin := token(t, tokens.RoleAdmin)

	cases := []struct {
		method, path, tok string
		code              int
		body              string
	}{
		{http.MethodPost, "/api/v1/auth/login", "", 200, "auth POST /auth/login"},
		{http.MethodPost, "/api/v1/admin/login", "", 200, "auth POST /admin/login"},
		{http.MethodGet, "/api/v1/addresses", user, 200, "auth GET /addresses"},
		{http.MethodGet, "/api/v1/addresses", "", 401, ""},
		{http.MethodGet, "/api/v1/products", "", 200, "catalog GET /products"},
		{http.MethodGet, "/api/v1/products/search", "", 200, "catalog GET /products/search"},
		{http.MethodGet, "/api/v1/uploads/thumbs/a.png", "", 200, "catalog GET /uploads/thumbs/a.png"},
		{http.MethodPost, "/api/v1/admin/products", user, 403, ""},
		{http.MethodPost, "/api/v1/admin/products", admin, 200, "catalog POST /admin/products"},
		{http.MethodPost, "/api/v1/cart", "", 401, ""},
		{http.MethodPatch, "/api/v1/cart/items/x", user, 200, "cart PATCH /cart/items/x"},
		{http.MethodPost, "/api/v1/orders", user, 200, "order POST /orders"},
		{http.MethodGet, "/api/v1/admin/orders", user, 403, ""},
		{http.MethodPut, "/api/v1/admin/orders/1/status", admin, 200, "order PUT /admin/orders/1/status"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.tok != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tc.tok)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestUpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    deadURL,
		CatalogURL: deadURL,
		CartURL:    deadURL,
		OrderURL:   deadURL,
		JWTSecret:  testSecret,
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRegister_RejectsBadUpstream(t *testing.T) {
	err := Register(echo.New(), &Deps{AuthURL: "not a url", JWTSecret: testSecret})
	assert.Error(t, err)
}

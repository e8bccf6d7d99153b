package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Skotchmaster/logistics_shop/pkg/dbtest"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/service"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func setupServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := dbtest.Open(t, &models.User{}, &models.Address{})
	r := &repo.GormRepo{DB: db}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: r, JWTSecret: testSecret}},
		AddressHandler: &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		JWTSecret:      testSecret,
	})
	return e
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signupToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/auth/signup",
		`{"name":"Ali","email":"ali@shop.test","phone":"+96551111111","password":"Secret123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestSignupLoginMe(t *testing.T) {
	e := setupServer(t)
	token := signupToken(t, e)

	rec := do(e, http.MethodPost, "/auth/signup",
		`{"name":"Ali","email":"ali@shop.test","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/auth/login", `{"email":"ali@shop.test","password":"bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/auth/login", `{"email":"ali@shop.test","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me transport.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ali@shop.test", me.Email)
	assert.False(t, me.IsAdmin)
}

func TestMe_RequiresBearer(t *testing.T) {
	e := setupServer(t)

	rec := do(e, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/auth/me", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogin_RejectsCustomer(t *testing.T) {
	e := setupServer(t)
	signupToken(t, e)

	rec := do(e, http.MethodPost, "/admin/login", `{"email":"ali@shop.test","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAddresses_CRUD(t *testing.T) {
	e := setupServer(t)
	token := signupToken(t, e)

	body := `{"label":"home","full_name":"Ali","phone":"+96551111111","street":"Gulf Rd","city":"Kuwait City"}`
	rec := do(e, http.MethodPost, "/addresses", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsDefault)

	rec = do(e, http.MethodPost, "/addresses", `{"label":"broken"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/addresses", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(e, http.MethodDelete, "/addresses/"+created.ID.String(), "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/addresses/"+created.ID.String(), "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPatch, "/addresses/not-a-uuid/default", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/addresses", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

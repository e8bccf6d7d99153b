package service

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/dbtest"
	pkg_hash "github.com/Skotchmaster/logistics_shop/pkg/hash"
	"github.com/Skotchmaster/logistics_shop/pkg/tokens"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func newTestAuthService(t *testing.T) (*AuthService, *repo.GormRepo) {
	t.Helper()
	db := dbtest.Open(t, &models.User{}, &models.Address{})
	r := &repo.GormRepo{DB: db}
	return &AuthService{Repo: r, JWTSecret: testSecret}, r
}

func signup(t *testing.T, svc *AuthService, email string) *transport.AuthResponse {
	t.Helper()
	res, err := svc.Signup(context.Background(), transport.SignupRequest{
		Name: "Test User", Email: email, Phone: "+96550000000", Password: "Secret123",
	})
	require.NoError(t, err)
	return res
}

func TestAuthService_Signup_IssuesUserToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	res := signup(t, svc, "  Buyer@Shop.Test ")
	assert.Equal(t, "buyer@shop.test", res.User.Email)
	assert.Equal(t, tokens.RoleUser, res.User.Role)
	assert.False(t, res.User.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthService_Signup_Conflict(t *testing.T) {
	svc, _ := newTestAuthService(t)
	signup(t, svc, "dup@shop.test")

	_, err := svc.Signup(context.Background(), transport.SignupRequest{
		Name: "Other", Email: "DUP@shop.test", Password: "Secret123",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name string
		req  transport.SignupRequest
	}{
		{"bad email", transport.SignupRequest{Name: "a", Email: "nope", Password: "Secret123"}},
		{"empty name", transport.SignupRequest{Name: " ", Email: "a@b.c", Password: "Secret123"}},
		{"short password", transport.SignupRequest{Name: "a", Email: "a@b.c", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	created := signup(t, svc, "login@shop.test")
	ctx := context.Background()

	res, err := svc.Login(ctx, transport.LoginRequest{Email: "login@shop.test", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "login@shop.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "ghost@shop.test", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, transport.LoginRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_AdminLogin_RequiresAdminRole(t *testing.T) {
	svc, r := newTestAuthService(t)
	ctx := context.Background()
	signup(t, svc, "customer@shop.test")

	_, err := svc.AdminLogin(ctx, transport.LoginRequest{Email: "customer@shop.test", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrForbidden)

	pw, err := pkg_hash.HashPassword("AdminPass1")
	require.NoError(t, err)
	admin := models.User{Email: "admin@shop.test", Name: "Admin", PasswordHash: pw, Role: tokens.RoleAdmin}
	require.NoError(t, r.CreateUserIfNotExists(ctx, &admin))

	res, err := svc.AdminLogin(ctx, transport.LoginRequest{Email: "admin@shop.test", Password: "AdminPass1"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleAdmin, claims.Role)
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newTestAuthService(t)
	created := signup(t, svc, "me@shop.test")

	u, err := svc.Me(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@shop.test", u.Email)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/events"
	pkg_hash "github.com/Skotchmaster/logistics_shop/pkg/hash"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/Skotchmaster/logistics_shop/pkg/tokens"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/transport"
	"github.com/google/uuid"
)

var (
	ErrValidation         = errors.New("validation")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

const DefaultTokenTTL = 24 * time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    events.Publisher
}

func (s *AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return DefaultTokenTTL
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email is invalid: %w", ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: pwHash,
		Role:         tokens.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, err
	}

	if s.Events != nil {
		if err := s.Events.PublishEvent(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
			"type":    events.TypeUserRegistered,
			"user_id": user.ID,
		}); err != nil {
			l.Warn("publish_failed", "error", err)
		}
	}

	return s.issue(&user)
}

// Login authenticates a customer or an admin.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	return s.login(ctx, req, "")
}

// AdminLogin authenticates only users holding the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, error) {
	return s.login(ctx, req, tokens.RoleAdmin)
}

func (s *AuthService) login(ctx context.Context, req transport.LoginRequest, requiredRole string) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if requiredRole != "" && user.Role != requiredRole {
		l.Warn("login_forbidden", "status", 403, "role", user.Role)
		return nil, ErrForbidden
	}

	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*transport.AuthResponse, error) {
	exp := time.Now().Add(s.ttl())
	token, err := tokens.Sign(user.ID.String(), user.Role, user.Email, exp, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &transport.AuthResponse{
		Token:     token,
		ExpiresAt: exp.Unix(),
		User:      transport.UserFromModel(user),
	}, nil
}

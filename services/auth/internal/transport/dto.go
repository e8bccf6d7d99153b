package transport

import (
	"github.com/Skotchmaster/logistics_shop/services/auth/internal/models"
	"github.com/google/uuid"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Role    string    `json:"role"`
	IsAdmin bool      `json:"is_admin"`
}

func UserFromModel(u *models.User) User {
	return User{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Role:    u.Role,
		IsAdmin: u.Role == "admin",
	}
}

type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

type AddressRequest struct {
	Label     string `json:"label"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Area      string `json:"area"`
	Block     string `json:"block"`
	Street    string `json:"street"`
	Building  string `json:"building"`
	City      string `json:"city"`
	Notes     string `json:"notes"`
	IsDefault bool   `json:"is_default"`
}

package storefront

import (
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogview"
	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/Skotchmaster/logistics_shop/pkg/pagination"
	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Role    string    `json:"role"`
	IsAdmin bool      `json:"is_admin"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddressInput struct {
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

type Address struct {
	ID uuid.UUID `json:"id"`
	AddressInput
	CreatedAt time.Time `json:"created_at"`
}

// LocalItem is a pre-login cart line kept in the LocalStore.
type LocalItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CartLine struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	Currency      string          `json:"currency"`
	InStock       bool            `json:"in_stock"`
	StockQuantity int             `json:"stock_quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type Cart struct {
	Items    []CartLine             `json:"items"`
	Shipping pricing.ShippingOption `json:"shipping"`
	Summary  *pricing.Summary       `json:"summary"`
}

type ProductQuery struct {
	InStockOnly bool
	Sort        catalogview.Sort
	Page        int
	Size        int
}

type ProductPage struct {
	Data []catalogview.Product `json:"data"`
	Meta pagination.Meta       `json:"meta"`
}

type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items"`
	ShippingMethod  string         `json:"shipping_method"`
	PaymentMethod   string         `json:"payment_method"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone"`
	ShippingAddress string         `json:"shipping_address"`
	Notes           string         `json:"notes"`
}

type OrderList struct {
	Data []orderquery.Order `json:"data"`
	Meta pagination.Meta    `json:"meta"`
}

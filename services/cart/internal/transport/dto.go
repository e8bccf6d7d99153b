package transport

import (
	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartLine is a stored line joined with the catalog's current product data.
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

// Cart is the full cart view. Summary is nil for an empty cart.
type Cart struct {
	Items    []CartLine             `json:"items"`
	Shipping pricing.ShippingOption `json:"shipping"`
	Summary  *pricing.Summary       `json:"summary"`
}

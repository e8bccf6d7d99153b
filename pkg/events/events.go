package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeProductCreated     = "product_created"
	TypeProductUpdated     = "product_updated"
	TypeProductDeleted     = "product_deleted"
	TypeCartItemAdded      = "cart_item_added"
	TypeCartItemUpdated    = "cart_item_updated"
	TypeCartItemRemoved    = "cart_item_removed"
	TypeCartCleared        = "cart_cleared"
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeUserRegistered     = "user_registered"
)

type OrderLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderCreated struct {
	Type    string          `json:"type"`
	OrderID uuid.UUID       `json:"order_id"`
	UserID  uuid.UUID       `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
	Items   []OrderLine     `json:"items"`
}

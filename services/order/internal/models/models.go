package models

import (
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"            json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;index;not null"        json:"user_id"`
	CustomerName    string            `gorm:"not null"                        json:"customer_name"`
	CustomerEmail   string            `gorm:"not null"                        json:"customer_email"`
	CustomerPhone   string            `                                       json:"customer_phone"`
	ShippingAddress string            `                                       json:"shipping_address"`
	PaymentMethod   string            `gorm:"not null;index"                  json:"payment_method"`
	ShippingMethod  string            `gorm:"not null"                        json:"shipping_method"`
	Status          orderquery.Status `gorm:"type:varchar(16);not null;index" json:"status"`
	Subtotal        decimal.Decimal   `gorm:"type:numeric(12,3);not null"     json:"subtotal"`
	ShippingCost    decimal.Decimal   `gorm:"type:numeric(12,3);not null"     json:"shipping_cost"`
	VAT             decimal.Decimal   `gorm:"type:numeric(12,3);not null"     json:"vat"`
	Total           decimal.Decimal   `gorm:"type:numeric(12,3);not null"     json:"total"`
	Currency        string            `gorm:"size:3;not null"                 json:"currency"`
	Notes           string            `                                       json:"notes"`
	Items           []OrderItem       `gorm:"constraint:OnDelete:CASCADE"     json:"items"`
	CreatedAt       time.Time         `gorm:"index"                           json:"created_at"`
	UpdatedAt       time.Time         `                                       json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"          json:"product_id"`
	ProductName string          `gorm:"not null"                    json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"line_total"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// View converts the stored order to the shape the dashboard works on.
func (o *Order) View() orderquery.Order {
	items := make([]orderquery.Item, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderquery.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		}
	}
	return orderquery.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		ShippingMethod:  o.ShippingMethod,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		VAT:             o.VAT,
		TotalAmount:     o.Total,
		Currency:        o.Currency,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
	}
}

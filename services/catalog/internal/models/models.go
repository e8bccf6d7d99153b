package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// URLList is stored as a text[] column on postgres and as its array literal
// elsewhere.
type URLList pq.StringArray

func (l URLList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *URLList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (URLList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"       json:"id"`
	Name          string          `gorm:"not null;index"             json:"name"`
	Description   string          `gorm:"not null;default:''"        json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`
	Currency      string          `gorm:"size:3;not null"            json:"currency"`
	StockQuantity int             `gorm:"not null;default:0"         json:"stock_quantity"`
	Images        URLList         `                                  json:"images"`
	Thumbnails    URLList         `                                  json:"thumbnails"`
	CreatedAt     time.Time       `gorm:"index"                      json:"created_at"`
	UpdatedAt     time.Time       `                                  json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

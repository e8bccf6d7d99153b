package transport

import (
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/pagination"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput carries the admin form fields. It binds from JSON or from
// multipart form values; image files travel separately.
type ProductInput struct {
	Name          string `json:"name"           form:"name"`
	Description   string `json:"description"    form:"description"`
	Price         string `json:"price"          form:"price"`
	Currency      string `json:"currency"       form:"currency"`
	StockQuantity int    `json:"stock_quantity" form:"stock_quantity"`
}

type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	Images        []string        `json:"images"`
	Thumbnails    []string        `json:"thumbnails"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ProductFromModel(p *models.Product) Product {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	thumbs := []string(p.Thumbnails)
	if thumbs == nil {
		thumbs = []string{}
	}
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Currency:      p.Currency,
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		Images:        images,
		Thumbnails:    thumbs,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ProductsFromModels(ps []models.Product) []Product {
	out := make([]Product, len(ps))
	for i := range ps {
		out[i] = ProductFromModel(&ps[i])
	}
	return out
}

type ProductPage struct {
	Data []Product       `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// Package catalogview filters and sorts a product listing the way the
// storefront shows it.
package catalogview

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortNameAsc   Sort = "name_asc"
	SortNameDesc  Sort = "name_desc"
)

var ErrUnknownSort = errors.New("unknown sort")

// ParseSort maps a query value to a Sort. An empty value means SortNewest.
func ParseSort(s string) (Sort, error) {
	switch v := Sort(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return v, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownSort)
	}
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
}

type Filter struct {
	InStockOnly bool
}

// Apply returns a new slice holding the products that pass f, ordered by s.
// The input slice is left untouched. Ties keep their input order.
func Apply(products []Product, f Filter, s Sort) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}

	var less func(a, b Product) bool
	switch s {
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		less = func(a, b Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

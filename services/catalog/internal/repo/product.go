package repo

import (
	"context"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogview"
	"github.com/Skotchmaster/logistics_shop/pkg/events"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListQuery struct {
	InStockOnly bool
	Sort        catalogview.Sort
	Offset      int
	Limit       int
}

func orderFor(s catalogview.Sort) string {
	switch s {
	case catalogview.SortPriceAsc:
		return "price ASC, id ASC"
	case catalogview.SortPriceDesc:
		return "price DESC, id ASC"
	case catalogview.SortNameAsc:
		return "LOWER(name) ASC, id ASC"
	case catalogview.SortNameDesc:
		return "LOWER(name) DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

func (r *GormRepo) ListProducts(ctx context.Context, q ListQuery) (int64, []models.Product, error) {
	base := r.DB.WithContext(ctx).Model(&models.Product{})
	if q.InStockOnly {
		base = base.Where("stock_quantity > 0")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, q.Limit)
	if err := base.Session(&gorm.Session{}).
		Order(orderFor(q.Sort)).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductsByIDs returns the products in ids order, skipping ids that no
// longer exist.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchByName is a plain substring match used when no search index is
// configured.
func (r *GormRepo) SearchByName(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	like := "%" + q + "%"
	base := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	items := make([]models.Product, 0, limit)
	if err := base.Session(&gorm.Session{}).Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock takes the ordered quantities off each product's stock,
// flooring at zero. Unknown products are ignored.
func (r *GormRepo) DecrementStock(ctx context.Context, lines []events.OrderLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			if l.Quantity <= 0 {
				continue
			}
			err := tx.Model(&models.Product{}).
				Where("id = ?", l.ProductID).
				Update("stock_quantity", gorm.Expr(
					"CASE WHEN stock_quantity > ? THEN stock_quantity - ? ELSE 0 END", l.Quantity, l.Quantity,
				)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogview"
	"github.com/Skotchmaster/logistics_shop/pkg/events"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/Skotchmaster/logistics_shop/pkg/pagination"
	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/images"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/search"
	"github.com/Skotchmaster/logistics_shop/services/catalog/internal/transport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Search   search.Index
	Images   *images.Store
	Events   events.Publisher
	Currency string
}

type ListParams struct {
	InStockOnly bool
	Sort        string
	Page        int
	Size        int
}

func (s *CatalogService) ListProducts(ctx context.Context, p ListParams) (*transport.ProductPage, error) {
	sort, err := catalogview.ParseSort(p.Sort)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	offset, limit := pagination.Calculate(p.Page, p.Size)

	total, items, err := s.Repo.ListProducts(ctx, repo.ListQuery{
		InStockOnly: p.InStockOnly,
		Sort:        sort,
		Offset:      offset,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	return &transport.ProductPage{
		Data: transport.ProductsFromModels(items),
		Meta: pagination.NewMeta(p.Page, limit, total),
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*transport.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	out := transport.ProductFromModel(p)
	return &out, nil
}

// SearchProducts queries the search index when one is configured and falls
// back to a name match otherwise. Results are always read from the database
// so stock is current.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, size int) (*transport.ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("query is empty: %w", ErrValidation)
	}
	offset, limit := pagination.Calculate(page, size)

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &transport.ProductPage{
				Data: transport.ProductsFromModels(items),
				Meta: pagination.NewMeta(page, limit, total),
			}, nil
		}
		logging.FromContext(ctx).Warn("search_index_unavailable", "error", err)
	}

	total, items, err := s.Repo.SearchByName(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	return &transport.ProductPage{
		Data: transport.ProductsFromModels(items),
		Meta: pagination.NewMeta(page, limit, total),
	}, nil
}

func (s *CatalogService) validate(in transport.ProductInput) (decimal.Decimal, string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return decimal.Zero, "", fmt.Errorf("name is required: %w", ErrValidation)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("price is not a number: %w", ErrValidation)
	}
	if price.IsNegative() {
		return decimal.Zero, "", fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if in.StockQuantity < 0 {
		return decimal.Zero, "", fmt.Errorf("stock_quantity cannot be negative: %w", ErrValidation)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.Currency
	}
	if len(currency) != 3 {
		return decimal.Zero, "", fmt.Errorf("currency must be a 3 letter code: %w", ErrValidation)
	}
	return pricing.Round(price), currency, nil
}

func (s *CatalogService) saveImages(files []*multipart.FileHeader) ([]images.Saved, error) {
	if len(files) == 0 || s.Images == nil {
		return nil, nil
	}
	saved, err := s.Images.SaveAll(files)
	if err != nil {
		if errors.Is(err, images.ErrUnsupported) {
			return nil, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		return nil, err
	}
	return saved, nil
}

func setImages(p *models.Product, saved []images.Saved) {
	p.Images = make(models.URLList, len(saved))
	p.Thumbnails = make(models.URLList, len(saved))
	for i, sv := range saved {
		p.Images[i] = sv.URL
		p.Thumbnails[i] = sv.ThumbURL
	}
}

func storedImages(p *models.Product) []images.Saved {
	out := make([]images.Saved, len(p.Images))
	for i, u := range p.Images {
		out[i].URL = u
		if i < len(p.Thumbnails) {
			out[i].ThumbURL = p.Thumbnails[i]
		}
	}
	return out
}

func (s *CatalogService) removeImages(saved []images.Saved) {
	if s.Images != nil && len(saved) > 0 {
		s.Images.Remove(saved)
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in transport.ProductInput, files []*multipart.FileHeader) (*transport.Product, error) {
	price, currency, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	saved, err := s.saveImages(files)
	if err != nil {
		return nil, err
	}

	p := models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         price,
		Currency:      currency,
		StockQuantity: in.StockQuantity,
	}
	setImages(&p, saved)

	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		s.removeImages(saved)
		return nil, err
	}

	s.afterWrite(ctx, events.TypeProductCreated, &p)
	out := transport.ProductFromModel(&p)
	return &out, nil
}

// UpdateProduct replaces the product fields. Uploaded files replace the
// current images; without files the images are kept.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in transport.ProductInput, files []*multipart.FileHeader) (*transport.Product, error) {
	price, currency, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	saved, err := s.saveImages(files)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = price
	p.Currency = currency
	p.StockQuantity = in.StockQuantity
	var previous []images.Saved
	if len(saved) > 0 {
		previous = storedImages(p)
		setImages(p, saved)
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		s.removeImages(saved)
		return nil, err
	}
	s.removeImages(previous)

	s.afterWrite(ctx, events.TypeProductUpdated, p)
	out := transport.ProductFromModel(p)
	return &out, nil
}

// DeleteProduct removes the product and its stored image files.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.Repo.GetProduct(ctx, id)
	if err == nil {
		err = s.Repo.DeleteProduct(ctx, id)
	}
	if err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}
	s.removeImages(storedImages(p))

	l := logging.FromContext(ctx)
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, id, map[string]any{"type": events.TypeProductDeleted, "product_id": id})
	return nil
}

// ApplyOrder takes an order's quantities off the stock and reindexes the
// touched products.
func (s *CatalogService) ApplyOrder(ctx context.Context, ev events.OrderCreated) error {
	if err := s.Repo.DecrementStock(ctx, ev.Items); err != nil {
		return fmt.Errorf("decrement stock for order %s: %w", ev.OrderID, err)
	}
	if s.Search == nil {
		return nil
	}

	ids := make([]uuid.UUID, len(ev.Items))
	for i, it := range ev.Items {
		ids[i] = it.ProductID
	}
	items, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if err := s.Search.IndexProduct(ctx, &items[i]); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", items[i].ID, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, p *models.Product) {
	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
	s.publish(ctx, p.ID, map[string]any{
		"type":           eventType,
		"product_id":     p.ID,
		"name":           p.Name,
		"price":          p.Price,
		"stock_quantity": p.StockQuantity,
	})
}

func (s *CatalogService) publish(ctx context.Context, id uuid.UUID, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, events.TopicProductEvents, id.String(), event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicProductEvents, "error", err)
	}
}

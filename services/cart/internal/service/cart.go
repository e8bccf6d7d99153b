package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogclient"
	"github.com/Skotchmaster/logistics_shop/pkg/events"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/transport"
	"github.com/google/uuid"
)

var (
	ErrValidation      = errors.New("validation")
	ErrNotFound        = errors.New("not found")
	ErrProductNotFound = errors.New("product not found")
	ErrStockExceeded   = errors.New("stock exceeded")
	ErrOutOfStock      = errors.New("out of stock")
	ErrCatalog         = errors.New("catalog unavailable")
)

// Catalog is the source of authoritative price and stock.
type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalogclient.Product, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog Catalog
	Events  events.Publisher
}

func (s *CartService) product(ctx context.Context, id uuid.UUID) (*catalogclient.Product, error) {
	p, err := s.Catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalogclient.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("%v: %w", err, ErrCatalog)
	}
	return p, nil
}

func line(item models.CartItem, p *catalogclient.Product) transport.CartLine {
	return transport.CartLine{
		ProductID:     item.ProductID,
		Name:          p.Name,
		UnitPrice:     p.Price,
		Quantity:      item.Quantity,
		Currency:      p.Currency,
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
		LineTotal:     pricing.LineTotal(pricing.Line{UnitPrice: p.Price, Quantity: item.Quantity}),
	}
}

// GetCart returns the user's lines priced by the catalog. Lines whose product
// no longer exists are dropped from the cart.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID, shipping string) (*transport.Cart, error) {
	opt, err := pricing.ParseShipping(shipping)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx)
	cart := &transport.Cart{Items: make([]transport.CartLine, 0, len(items)), Shipping: opt}
	priced := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		p, err := s.product(ctx, it.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			l.Warn("cart_line_dropped", "product_id", it.ProductID, "reason", "product no longer exists")
			if err := s.Repo.RemoveItem(ctx, userID, it.ProductID); err != nil && !repo.IsNotFound(err) {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		cl := line(it, p)
		cart.Items = append(cart.Items, cl)
		priced = append(priced, pricing.Line{UnitPrice: cl.UnitPrice, Quantity: cl.Quantity})
	}

	if len(cart.Items) > 0 {
		sum := pricing.Summarize(priced, opt)
		cart.Summary = &sum
	}
	return cart, nil
}

func checkStock(p *catalogclient.Product, quantity int) error {
	if !p.InStock || p.StockQuantity <= 0 {
		return fmt.Errorf("%s: %w", p.Name, ErrOutOfStock)
	}
	if quantity > p.StockQuantity {
		return fmt.Errorf("%s: only %d available: %w", p.Name, p.StockQuantity, ErrStockExceeded)
	}
	return nil
}

// AddToCart adds quantity of the product to the user's cart. The resulting
// line may not exceed the product's stock.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req transport.AddItemRequest) (*transport.CartLine, error) {
	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("product_id is required: %w", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	p, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(p, req.Quantity); err != nil {
		return nil, err
	}

	item := models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
	if err := s.Repo.AddToCart(ctx, &item, p.StockQuantity); err != nil {
		if errors.Is(err, repo.ErrQuantityLimit) {
			return nil, fmt.Errorf("%s: only %d available: %w", p.Name, p.StockQuantity, ErrStockExceeded)
		}
		return nil, err
	}

	s.publish(ctx, userID, events.TypeCartItemAdded, item.ProductID, item.Quantity)
	cl := line(item, p)
	return &cl, nil
}

// SetQuantity replaces the quantity of an existing line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*transport.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if _, err := s.Repo.GetItem(ctx, userID, productID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("cart line %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(p, quantity); err != nil {
		return nil, err
	}

	item, err := s.Repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("cart line %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	s.publish(ctx, userID, events.TypeCartItemUpdated, productID, quantity)
	cl := line(*item, p)
	return &cl, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.Repo.RemoveItem(ctx, userID, productID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("cart line %s: %w", productID, ErrNotFound)
		}
		return err
	}
	s.publish(ctx, userID, events.TypeCartItemRemoved, productID, 0)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, userID, events.TypeCartCleared, uuid.Nil, 0)
	return nil
}

func (s *CartService) publish(ctx context.Context, userID uuid.UUID, eventType string, productID uuid.UUID, quantity int) {
	if s.Events == nil {
		return
	}
	event := map[string]any{
		"type":    eventType,
		"user_id": userID,
	}
	if productID != uuid.Nil {
		event["product_id"] = productID
		event["quantity"] = quantity
	}
	if err := s.Events.PublishEvent(ctx, events.TopicCartEvents, userID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicCartEvents, "error", err)
	}
}

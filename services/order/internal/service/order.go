package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogclient"
	"github.com/Skotchmaster/logistics_shop/pkg/events"
	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/Skotchmaster/logistics_shop/pkg/pagination"
	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/order/internal/transport"
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

// PaymentMethods are the accepted payment_method values. Payment itself is
// settled outside the shop.
var PaymentMethods = map[string]bool{
	"cash":          true,
	"card":          true,
	"knet":          true,
	"bank_transfer": true,
}

type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalogclient.Product, error)
}

// Customer is the identity taken from the bearer token.
type Customer struct {
	UserID uuid.UUID
	Email  string
}

type OrderService struct {
	Repo     *repo.GormRepo
	Catalog  Catalog
	Events   events.Publisher
	Currency string
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// mergeItems folds repeated products into one line, keeping first-seen order.
func mergeItems(items []transport.CheckoutItem) ([]transport.CheckoutItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("items required: %w", ErrValidation)
	}
	idx := make(map[uuid.UUID]int, len(items))
	out := make([]transport.CheckoutItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == uuid.Nil {
			return nil, fmt.Errorf("product_id required: %w", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
		}
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

// Checkout prices every line from the catalog, checks stock and stores the
// order as PENDING.
func (s *OrderService) Checkout(ctx context.Context, cust Customer, req transport.CheckoutRequest) (*orderquery.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.checkout")

	items, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}
	shipping, err := pricing.ParseShipping(req.ShippingMethod)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	payment := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !PaymentMethods[payment] {
		return nil, fmt.Errorf("payment_method %q not accepted: %w", req.PaymentMethod, ErrValidation)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("customer_name required: %w", ErrValidation)
	}
	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" {
		email = cust.Email
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("customer_email is invalid: %w", ErrValidation)
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if shipping == pricing.Delivery && address == "" {
		return nil, fmt.Errorf("shipping_address required for delivery: %w", ErrValidation)
	}

	order := models.Order{
		UserID:          cust.UserID,
		CustomerName:    name,
		CustomerEmail:   strings.ToLower(email),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: address,
		PaymentMethod:   payment,
		ShippingMethod:  string(shipping),
		Status:          orderquery.StatusPending,
		Currency:        s.Currency,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           make([]models.OrderItem, 0, len(items)),
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		p, err := s.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, catalogclient.ErrProductNotFound) {
				return nil, fmt.Errorf("product %s: %w", it.ProductID, ErrProductNotFound)
			}
			return nil, fmt.Errorf("%v: %w", err, ErrCatalog)
		}
		if !p.InStock || p.StockQuantity <= 0 {
			return nil, fmt.Errorf("%s: %w", p.Name, ErrOutOfStock)
		}
		if it.Quantity > p.StockQuantity {
			return nil, fmt.Errorf("%s: only %d available: %w", p.Name, p.StockQuantity, ErrStockExceeded)
		}
		if p.Currency != "" {
			order.Currency = p.Currency
		}

		line := pricing.Line{UnitPrice: p.Price, Quantity: it.Quantity}
		lines = append(lines, line)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    it.Quantity,
			LineTotal:   pricing.LineTotal(line),
		})
	}

	sum := pricing.Summarize(lines, shipping)
	order.Subtotal = sum.Subtotal
	order.ShippingCost = sum.ShippingCost
	order.VAT = sum.VAT
	order.Total = sum.Total
	order.CreatedAt = s.now()

	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		return nil, err
	}

	if s.Events != nil {
		ev := events.OrderCreated{
			Type:    events.TypeOrderCreated,
			OrderID: order.ID,
			UserID:  order.UserID,
			Total:   order.Total,
			Items:   make([]events.OrderLine, len(order.Items)),
		}
		for i, it := range order.Items {
			ev.Items[i] = events.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity}
		}
		if err := s.Events.PublishEvent(ctx, events.TopicOrderEvents, order.ID.String(), ev); err != nil {
			l.Warn("publish_failed", "order_id", order.ID, "error", err)
		}
	}

	l.Info("order_created", "order_id", order.ID, "total", order.Total.StringFixed(pricing.Places))
	view := order.View()
	return &view, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, page, size int) (*transport.OrderList, error) {
	offset, limit := pagination.Calculate(page, size)
	total, orders, err := s.Repo.ListUserOrders(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	out := &transport.OrderList{
		Data: make([]orderquery.Order, len(orders)),
		Meta: pagination.NewMeta(page, limit, total),
	}
	for i := range orders {
		out.Data[i] = orders[i].View()
	}
	return out, nil
}

// GetUserOrder returns the order only when it belongs to userID.
func (s *OrderService) GetUserOrder(ctx context.Context, userID, id uuid.UUID) (*orderquery.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	view := o.View()
	return &view, nil
}

// AdminOrders filters and sorts every order with q. Paging is left to the
// caller so the dashboard can page locally.
func (s *OrderService) AdminOrders(ctx context.Context, q orderquery.Query) ([]orderquery.Order, error) {
	orders, err := s.Repo.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]orderquery.Order, len(orders))
	for i := range orders {
		views[i] = orders[i].View()
	}
	return orderquery.SortOrders(orderquery.Filter(views, q, s.now()), q.Sort), nil
}

// UpdateStatus sets any known status regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*orderquery.Order, error) {
	st, err := orderquery.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	prev, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	o, err := s.Repo.UpdateStatus(ctx, id, st)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if s.Events != nil {
		if err := s.Events.PublishEvent(ctx, events.TopicOrderEvents, id.String(), map[string]any{
			"type":     events.TypeOrderStatusChanged,
			"order_id": id,
			"user_id":  o.UserID,
			"from":     prev.Status,
			"to":       st,
		}); err != nil {
			logging.FromContext(ctx).Warn("publish_failed", "order_id", id, "error", err)
		}
	}

	view := o.View()
	return &view, nil
}

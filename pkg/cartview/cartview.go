// Package cartview is the view model behind a shopping cart screen. It
// prices the lines, guards quantity controls against stock and routes every
// mutation through a Handler that owns the authoritative cart.
package cartview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock    = errors.New("out of stock")
	ErrStockExceeded = errors.New("stock exceeded")
	ErrMinQuantity   = errors.New("quantity cannot go below 1")
	ErrBusy          = errors.New("another cart update is in flight")
	ErrUnknownItem   = errors.New("item not in cart")
)

type Line struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	Currency      string          `json:"currency"`
	InStock       bool            `json:"in_stock"`
	StockQuantity int             `json:"stock_quantity"`
}

func (l Line) Total() decimal.Decimal {
	return pricing.LineTotal(pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity})
}

// Handler applies a mutation to the authoritative cart and returns the lines
// as they stand afterwards.
type Handler interface {
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) ([]Line, error)
	Remove(ctx context.Context, id uuid.UUID) ([]Line, error)
}

// Cart is safe for concurrent use. At most one mutation is in flight at a
// time; LoadingItemID reports which line it concerns.
type Cart struct {
	handler Handler

	mu       sync.Mutex
	lines    []Line
	shipping pricing.ShippingOption
	loading  uuid.UUID
	summary  *pricing.Summary
}

func New(handler Handler, lines []Line) *Cart {
	return &Cart{
		handler:  handler,
		lines:    cloneLines(lines),
		shipping: pricing.Pickup,
	}
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.lines)
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) Shipping() pricing.ShippingOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shipping
}

func (c *Cart) SetShipping(o pricing.ShippingOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o != c.shipping {
		c.shipping = o
		c.summary = nil
	}
}

// LoadingItemID returns the line whose mutation is in flight, or uuid.Nil.
func (c *Cart) LoadingItemID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Summary prices the cart. ok is false for an empty cart, which has no
// summary to show.
func (c *Cart) Summary() (pricing.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return pricing.Summary{}, false
	}
	if c.summary == nil {
		pl := make([]pricing.Line, len(c.lines))
		for i, l := range c.lines {
			pl[i] = pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
		}
		s := pricing.Summarize(pl, c.shipping)
		c.summary = &s
	}
	return *c.summary, true
}

// Replace swaps in an authoritative line list.
func (c *Cart) Replace(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(lines)
}

func (c *Cart) replaceLocked(lines []Line) {
	c.lines = cloneLines(lines)
	c.summary = nil
}

func (c *Cart) find(id uuid.UUID) (Line, bool) {
	for _, l := range c.lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

func canIncrement(l Line) error {
	if !l.InStock {
		return fmt.Errorf("%s: %w", l.Name, ErrOutOfStock)
	}
	if l.Quantity >= l.StockQuantity {
		return fmt.Errorf("%s: only %d available: %w", l.Name, l.StockQuantity, ErrStockExceeded)
	}
	return nil
}

// CanIncrement reports why the line's quantity cannot grow, or nil.
func (c *Cart) CanIncrement(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.find(id)
	if !ok {
		return ErrUnknownItem
	}
	return canIncrement(l)
}

// CanDecrement reports whether the quantity can shrink without dropping below 1.
func (c *Cart) CanDecrement(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.find(id)
	if !ok {
		return ErrUnknownItem
	}
	if l.Quantity <= 1 {
		return ErrMinQuantity
	}
	return nil
}

func (c *Cart) Increment(ctx context.Context, id uuid.UUID) error {
	return c.mutate(ctx, id, func(l Line) (Line, error) {
		if err := canIncrement(l); err != nil {
			return l, err
		}
		l.Quantity++
		return l, nil
	}, false)
}

func (c *Cart) Decrement(ctx context.Context, id uuid.UUID) error {
	return c.mutate(ctx, id, func(l Line) (Line, error) {
		if l.Quantity <= 1 {
			return l, ErrMinQuantity
		}
		l.Quantity--
		return l, nil
	}, false)
}

func (c *Cart) Remove(ctx context.Context, id uuid.UUID) error {
	return c.mutate(ctx, id, func(l Line) (Line, error) { return l, nil }, true)
}

// mutate checks the change locally, marks the line as loading and hands it to
// the handler. Local state changes only when the handler succeeds.
func (c *Cart) mutate(ctx context.Context, id uuid.UUID, next func(Line) (Line, error), remove bool) error {
	c.mu.Lock()
	if c.loading != uuid.Nil {
		c.mu.Unlock()
		return ErrBusy
	}
	cur, ok := c.find(id)
	if !ok {
		c.mu.Unlock()
		return ErrUnknownItem
	}
	want, err := next(cur)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.loading = id
	c.mu.Unlock()

	var lines []Line
	if remove {
		lines, err = c.handler.Remove(ctx, id)
	} else {
		lines, err = c.handler.SetQuantity(ctx, id, want.Quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = uuid.Nil
	if err != nil {
		return err
	}
	c.replaceLocked(lines)
	return nil
}

package storefront

import (
	"context"

	"github.com/Skotchmaster/logistics_shop/pkg/cartview"
	"github.com/google/uuid"
)

// CartHandler routes cartview mutations to the server cart and answers with
// the cart as the server then holds it.
type CartHandler struct {
	Session *Session
}

var _ cartview.Handler = CartHandler{}

func (h CartHandler) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) ([]cartview.Line, error) {
	if err := h.Session.SetCartQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	return h.lines(ctx)
}

func (h CartHandler) Remove(ctx context.Context, id uuid.UUID) ([]cartview.Line, error) {
	if err := h.Session.RemoveCartItem(ctx, id); err != nil {
		return nil, err
	}
	return h.lines(ctx)
}

func (h CartHandler) lines(ctx context.Context) ([]cartview.Line, error) {
	cart, err := h.Session.Cart(ctx, "")
	if err != nil {
		return nil, err
	}
	return ViewLines(cart), nil
}

// ViewLines converts a server cart into view model lines.
func ViewLines(cart *Cart) []cartview.Line {
	out := make([]cartview.Line, len(cart.Items))
	for i, it := range cart.Items {
		out[i] = cartview.Line{
			ID:            it.ProductID,
			Name:          it.Name,
			UnitPrice:     it.UnitPrice,
			Quantity:      it.Quantity,
			Currency:      it.Currency,
			InStock:       it.InStock,
			StockQuantity: it.StockQuantity,
		}
	}
	return out
}

// OpenCart loads the server cart into a view model wired to CartHandler.
func (s *Session) OpenCart(ctx context.Context) (*cartview.Cart, error) {
	cart, err := s.Cart(ctx, "")
	if err != nil {
		return nil, err
	}
	return cartview.New(CartHandler{Session: s}, ViewLines(cart)), nil
}

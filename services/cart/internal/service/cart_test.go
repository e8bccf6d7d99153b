package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogclient"
	"github.com/Skotchmaster/logistics_shop/pkg/dbtest"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/models"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/logistics_shop/services/cart/internal/transport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[uuid.UUID]*catalogclient.Product
	down     bool
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*catalogclient.Product, error) {
	if f.down {
		return nil, errors.New("connection refused")
	}
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, catalogclient.ErrProductNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) add(name, price string, stock int) uuid.UUID {
	id := uuid.New()
	f.products[id] = &catalogclient.Product{
		ID: id, Name: name, Price: decimal.RequireFromString(price),
		Currency: "KWD", StockQuantity: stock, InStock: stock > 0,
	}
	return id
}

func newTestService(t *testing.T) (*CartService, *fakeCatalog) {
	t.Helper()
	db := dbtest.Open(t, &models.CartItem{})
	cat := &fakeCatalog{products: map[uuid.UUID]*catalogclient.Product{}}
	return &CartService{Repo: &repo.GormRepo{DB: db}, Catalog: cat}, cat
}

func TestGetCart_PricesTwoLineCartWithDelivery(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	a := cat.add("Carton", "5.000", 10)
	b := cat.add("Tape", "3.500", 10)
	_, err := svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: a, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: b, Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, user, "delivery")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	require.NotNil(t, cart.Summary)
	assert.Equal(t, "13.500", cart.Summary.Subtotal.StringFixed(3))
	assert.Equal(t, "2.200", cart.Summary.ShippingCost.StringFixed(3))
	assert.Equal(t, "15.700", cart.Summary.Total.StringFixed(3))
	assert.Equal(t, "1.570", cart.Summary.VAT.StringFixed(3))
	assert.Equal(t, "10.000", cart.Items[0].LineTotal.StringFixed(3))

	_, err = svc.GetCart(ctx, user, "drone")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetCart_EmptyHasNoSummary(t *testing.T) {
	svc, _ := newTestService(t)

	cart, err := svc.GetCart(context.Background(), uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Summary)
}

func TestAddToCart_StockCeiling(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	id := cat.add("Pallet", "12.000", 3)

	_, err := svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: id, Quantity: 2})
	require.NoError(t, err)

	line, err := svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: id, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: id, Quantity: 1})
	assert.ErrorIs(t, err, ErrStockExceeded)

	item, err := svc.Repo.GetItem(ctx, user, id)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = svc.AddToCart(ctx, uuid.New(), transport.AddItemRequest{ProductID: id, Quantity: 4})
	assert.ErrorIs(t, err, ErrStockExceeded)
}

func TestAddToCart_Rejections(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	sold := cat.add("Sold out", "1.000", 0)

	_, err := svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: sold, Quantity: 1})
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: sold, Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	cat.down = true
	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: sold, Quantity: 1})
	assert.ErrorIs(t, err, ErrCatalog)
}

func TestSetQuantityAndRemove(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	id := cat.add("Wrap", "2.000", 5)

	_, err := svc.SetQuantity(ctx, user, id, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: id, Quantity: 1})
	require.NoError(t, err)

	line, err := svc.SetQuantity(ctx, user, id, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	_, err = svc.SetQuantity(ctx, user, id, 6)
	assert.ErrorIs(t, err, ErrStockExceeded)

	_, err = svc.SetQuantity(ctx, user, id, 0)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.RemoveItem(ctx, user, id))
	assert.ErrorIs(t, svc.RemoveItem(ctx, user, id), ErrNotFound)

	cart, err := svc.GetCart(ctx, user, "pickup")
	require.NoError(t, err)
	assert.Nil(t, cart.Summary)
}

func TestGetCart_DropsDeletedProducts(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	keep := cat.add("Keep", "1.000", 5)
	gone := cat.add("Gone", "1.000", 5)

	for _, id := range []uuid.UUID{keep, gone} {
		_, err := svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: id, Quantity: 1})
		require.NoError(t, err)
	}
	delete(cat.products, gone)

	cart, err := svc.GetCart(ctx, user, "")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].ProductID)

	_, err = svc.Repo.GetItem(ctx, user, gone)
	assert.True(t, repo.IsNotFound(err))
}

func TestClearCart(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	id := cat.add("Wrap", "2.000", 5)

	_, err := svc.AddToCart(ctx, user, transport.AddItemRequest{ProductID: id, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, user))

	items, err := svc.Repo.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

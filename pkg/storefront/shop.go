package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogview"
	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/Skotchmaster/logistics_shop/pkg/pricing"
	"github.com/google/uuid"
)

func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	v := url.Values{}
	if q.InStockOnly {
		v.Set("in_stock", "true")
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	path := "/products"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var page ProductPage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Product(ctx context.Context, id uuid.UUID) (*catalogview.Product, error) {
	var p catalogview.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id.String(), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, page, size int) (*ProductPage, error) {
	v := url.Values{"q": {query}}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	var res ProductPage
	if err := c.do(ctx, http.MethodGet, "/products/search?"+v.Encode(), "", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddToCart adds to the server cart when signed in and to the local cart
// otherwise.
func (s *Session) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	tok, err := s.Token(ctx)
	if errors.Is(err, ErrNotAuthenticated) {
		return s.addLocal(ctx, productID, quantity)
	}
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodPost, "/cart", tok, LocalItem{ProductID: productID, Quantity: quantity}, nil)
}

func (s *Session) Cart(ctx context.Context, shipping pricing.ShippingOption) (*Cart, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := "/cart"
	if shipping != "" {
		path += "?shipping=" + url.QueryEscape(string(shipping))
	}
	var cart Cart
	if err := s.client.do(ctx, http.MethodGet, path, tok, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Session) SetCartQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	tok, err := s.Token(ctx)
	if err != nil {
		return err
	}
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	return s.client.do(ctx, http.MethodPatch, "/cart/items/"+productID.String(), tok, body, nil)
}

func (s *Session) RemoveCartItem(ctx context.Context, productID uuid.UUID) error {
	tok, err := s.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodDelete, "/cart/items/"+productID.String(), tok, nil, nil)
}

func (s *Session) ClearCart(ctx context.Context) error {
	tok, err := s.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodDelete, "/cart", tok, nil, nil)
}

func (s *Session) Addresses(ctx context.Context) ([]Address, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	var out []Address
	if err := s.client.do(ctx, http.MethodGet, "/addresses", tok, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateAddress(ctx context.Context, in AddressInput) (*Address, error) {
	return s.address(ctx, http.MethodPost, "/addresses", in)
}

func (s *Session) UpdateAddress(ctx context.Context, id uuid.UUID, in AddressInput) (*Address, error) {
	return s.address(ctx, http.MethodPut, "/addresses/"+id.String(), in)
}

func (s *Session) SetDefaultAddress(ctx context.Context, id uuid.UUID) (*Address, error) {
	return s.address(ctx, http.MethodPatch, "/addresses/"+id.String()+"/default", nil)
}

func (s *Session) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	tok, err := s.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodDelete, "/addresses/"+id.String(), tok, nil, nil)
}

func (s *Session) address(ctx context.Context, method, path string, in any) (*Address, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	var a Address
	if err := s.client.do(ctx, method, path, tok, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Session) Checkout(ctx context.Context, req CheckoutRequest) (*orderquery.Order, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	var o orderquery.Order
	if err := s.client.do(ctx, http.MethodPost, "/orders", tok, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Session) Orders(ctx context.Context, page, size int) (*OrderList, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	path := "/orders"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var list OrderList
	if err := s.client.do(ctx, http.MethodGet, path, tok, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Session) Order(ctx context.Context, id uuid.UUID) (*orderquery.Order, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	var o orderquery.Order
	if err := s.client.do(ctx, http.MethodGet, "/orders/"+id.String(), tok, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

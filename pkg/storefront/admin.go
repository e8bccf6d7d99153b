package storefront

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/Skotchmaster/logistics_shop/pkg/catalogview"
	"github.com/Skotchmaster/logistics_shop/pkg/orderquery"
	"github.com/google/uuid"
)

// AdminClient drives the dashboard endpoints with the token stored under
// KeyAdminToken. A 401 or 403 from any admin call drops that token and
// surfaces ErrForcedLogout.
type AdminClient struct {
	client *Client
	store  LocalStore
	Now    func() time.Time
}

func NewAdminClient(client *Client, store LocalStore) *AdminClient {
	return &AdminClient{client: client, store: store, Now: time.Now}
}

func (a *AdminClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	if err := a.client.do(ctx, http.MethodPost, "/admin/login", "", credentials{Email: email, Password: password}, &res); err != nil {
		return nil, credentialsError(err)
	}
	if err := a.store.Set(ctx, KeyAdminToken, res.Token); err != nil {
		return nil, fmt.Errorf("store admin token: %w", err)
	}
	return &res, nil
}

func (a *AdminClient) Logout(ctx context.Context) error {
	return a.store.Delete(ctx, KeyAdminToken)
}

func (a *AdminClient) IsAuthenticated(ctx context.Context) bool {
	_, err := a.token(ctx)
	return err == nil
}

func (a *AdminClient) token(ctx context.Context) (string, error) {
	tok, ok, err := a.store.Get(ctx, KeyAdminToken)
	if err != nil {
		return "", err
	}
	if !ok || tok == "" {
		return "", ErrNotAuthenticated
	}
	return tok, nil
}

// checkAuth turns a rejected admin token into a forced logout.
func (a *AdminClient) checkAuth(ctx context.Context, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Status != http.StatusUnauthorized && apiErr.Status != http.StatusForbidden {
		return err
	}
	if derr := a.store.Delete(ctx, KeyAdminToken); derr != nil {
		return errors.Join(fmt.Errorf("%w: %w", ErrForcedLogout, err), derr)
	}
	return fmt.Errorf("%w: %w", ErrForcedLogout, err)
}

func (a *AdminClient) call(ctx context.Context, method, path string, in, out any) error {
	tok, err := a.token(ctx)
	if err != nil {
		return err
	}
	return a.checkAuth(ctx, a.client.do(ctx, method, path, tok, in, out))
}

// Orders fetches every order matching q's filters in q's order. The page
// field is not sent; see OrderPage.
func (a *AdminClient) Orders(ctx context.Context, q orderquery.Query) ([]orderquery.Order, error) {
	v := q.Values()
	v.Del("page")
	path := "/admin/orders"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []orderquery.Order
	if err := a.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderPage runs the dashboard pipeline over the fetched orders.
func (a *AdminClient) OrderPage(ctx context.Context, q orderquery.Query) (orderquery.Page, error) {
	orders, err := a.Orders(ctx, q)
	if err != nil {
		return orderquery.Page{}, err
	}
	return orderquery.Apply(orders, q, a.Now()), nil
}

func (a *AdminClient) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status orderquery.Status) (*orderquery.Order, error) {
	body := struct {
		Status orderquery.Status `json:"status"`
	}{status}
	var o orderquery.Order
	if err := a.call(ctx, http.MethodPut, "/admin/orders/"+id.String()+"/status", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type ProductForm struct {
	Name          string
	Description   string
	Price         string
	Currency      string
	StockQuantity int
}

// ImageFile is an image to upload with a product.
type ImageFile struct {
	Name string
	Data io.Reader
}

func (a *AdminClient) CreateProduct(ctx context.Context, form ProductForm, images []ImageFile) (*catalogview.Product, error) {
	return a.sendProduct(ctx, http.MethodPost, "/admin/products", form, images)
}

// UpdateProduct replaces the product fields. Images are replaced only when
// images is non-empty.
func (a *AdminClient) UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm, images []ImageFile) (*catalogview.Product, error) {
	return a.sendProduct(ctx, http.MethodPut, "/admin/products/"+id.String(), form, images)
}

func (a *AdminClient) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return a.call(ctx, http.MethodDelete, "/admin/products/"+id.String(), nil, nil)
}

func (a *AdminClient) sendProduct(ctx context.Context, method, path string, form ProductForm, images []ImageFile) (*catalogview.Product, error) {
	tok, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", form.Name},
		{"description", form.Description},
		{"price", form.Price},
		{"currency", form.Currency},
		{"stock_quantity", strconv.Itoa(form.StockQuantity)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	for _, img := range images {
		part, err := w.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, img.Data); err != nil {
			return nil, fmt.Errorf("copy %s: %w", img.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.client.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var p catalogview.Product
	if err := a.checkAuth(ctx, a.client.send(req, tok, &p)); err != nil {
		return nil, err
	}
	return &p, nil
}

package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/Skotchmaster/logistics_shop/pkg/logging"
	"github.com/google/uuid"
)

// Session is the customer side of the client: the bearer token and the
// anonymous cart both live in the LocalStore.
type Session struct {
	client *Client
	store  LocalStore
	mu     sync.Mutex
}

func NewSession(client *Client, store LocalStore) *Session {
	return &Session{client: client, store: store}
}

func (s *Session) Token(ctx context.Context) (string, error) {
	tok, ok, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	if !ok || tok == "" {
		return "", ErrNotAuthenticated
	}
	return tok, nil
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// Login authenticates and then merges the anonymous cart into the server
// cart. The merge is best effort: every line is posted concurrently, the
// outcomes are only logged and the local cart is cleared in any case.
func (s *Session) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	if err := s.client.do(ctx, http.MethodPost, "/auth/login", "", credentials{Email: email, Password: password}, &res); err != nil {
		return nil, credentialsError(err)
	}
	if err := s.store.Set(ctx, KeyToken, res.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	s.mergeLocalCart(ctx, res.Token)
	return &res, nil
}

// Signup registers and signs the new customer in, merging the anonymous
// cart the same way Login does.
func (s *Session) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := s.client.do(ctx, http.MethodPost, "/auth/signup", "", req, &res); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, KeyToken, res.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	s.mergeLocalCart(ctx, res.Token)
	return &res, nil
}

func (s *Session) Me(ctx context.Context) (*User, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	var u User
	if err := s.client.do(ctx, http.MethodGet, "/auth/me", tok, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Session) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, KeyToken)
}

func (s *Session) mergeLocalCart(ctx context.Context, token string) {
	l := logging.FromContext(ctx).With("component", "storefront.session")

	items, err := s.LocalCart(ctx)
	if err != nil {
		l.Warn("local_cart_unreadable", "error", err)
	}

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(it LocalItem) {
			defer wg.Done()
			if err := s.client.do(ctx, http.MethodPost, "/cart", token, it, nil); err != nil {
				l.Warn("cart_merge_item_failed", "product_id", it.ProductID, "quantity", it.Quantity, "error", err)
			}
		}(it)
	}
	wg.Wait()

	if err := s.store.Delete(ctx, KeyCart); err != nil {
		l.Warn("local_cart_clear_failed", "error", err)
	}
	l.Info("cart_merged", "lines", len(items))
}

// LocalCart returns the anonymous cart.
func (s *Session) LocalCart(ctx context.Context) ([]LocalItem, error) {
	raw, ok, err := s.store.Get(ctx, KeyCart)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var items []LocalItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode local cart: %w", err)
	}
	return items, nil
}

func (s *Session) addLocal(ctx context.Context, productID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.LocalCart(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, LocalItem{ProductID: productID, Quantity: quantity})
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeyCart, string(raw))
}

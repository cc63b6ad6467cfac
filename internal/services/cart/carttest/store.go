// Package carttest provides in-memory cart and product stores for tests.
package carttest

import (
	"context"
	"errors"
	"sync"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/services/cart"
)

// ErrNoProduct is what Products.Get returns for an unknown id.
var ErrNoProduct = errors.New("carttest: no such product")

// IsNoProduct matches ErrNoProduct for cart.NewService.
func IsNoProduct(err error) bool {
	return errors.Is(err, ErrNoProduct)
}

type Products struct {
	mu   sync.Mutex
	byID map[string]model.Product
}

func NewProducts(products ...model.Product) *Products {
	p := &Products{byID: make(map[string]model.Product)}
	for _, product := range products {
		p.byID[product.ID] = product
	}
	return p
}

func (p *Products) Get(_ context.Context, id string) (model.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.byID[id]
	if !ok {
		return model.Product{}, ErrNoProduct
	}
	return product, nil
}

// Store keeps lines in insertion order per user.
type Store struct {
	mu       sync.Mutex
	products *Products
	lines    map[string][]model.CartItem
	Err      error
}

func NewStore(products *Products) *Store {
	return &Store{products: products, lines: make(map[string][]model.CartItem)}
}

func (s *Store) Items(_ context.Context, userID string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.CartItem{}, s.lines[userID]...), nil
}

func (s *Store) Lines(ctx context.Context, userID string) ([]model.CartLine, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CartLine, 0, len(items))
	for _, item := range items {
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			continue
		}
		out = append(out, model.CartLine{Product: product, Quantity: item.Quantity})
	}
	return out, nil
}

func (s *Store) Add(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	lines := s.lines[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity++
			return nil
		}
	}
	s.lines[userID] = append(lines, model.CartItem{ProductID: productID, Quantity: 1})
	return nil
}

func (s *Store) Remove(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	lines := s.lines[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			s.lines[userID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (s *Store) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.lines, userID)
	return nil
}

func (s *Store) SetQuantity(_ context.Context, userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if quantity <= 0 {
		return cart.ErrInvalidInput
	}
	lines := s.lines[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return cart.ErrItemNotFound
}

package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
)

var (
	ErrInvalidInput    = errors.New("invalid cart input")
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("product not found in cart")
)

// Store persists cart lines per principal. Remove and SetQuantity report
// ErrItemNotFound when the line does not exist.
type Store interface {
	Items(ctx context.Context, userID string) ([]model.CartItem, error)
	Lines(ctx context.Context, userID string) ([]model.CartLine, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
}

type ProductLookup interface {
	Get(ctx context.Context, id string) (model.Product, error)
}

type Service struct {
	store    Store
	products ProductLookup
	notFound func(error) bool
	log      *zap.Logger
}

// NewService takes productNotFound to recognise the lookup's not-found error.
func NewService(store Store, products ProductLookup, productNotFound func(error) bool, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if productNotFound == nil {
		productNotFound = func(error) bool { return false }
	}
	return &Service{
		store:    store,
		products: products,
		notFound: productNotFound,
		log:      log,
	}
}

// Products returns the principal's cart resolved to catalog products.
func (s *Service) Products(ctx context.Context, user model.User) ([]model.CartLine, error) {
	if user.ID == "" {
		return nil, ErrInvalidInput
	}
	lines, err := s.store.Lines(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	return lines, nil
}

// Add puts one more unit of productID in the cart.
func (s *Service) Add(ctx context.Context, user model.User, productID string) ([]model.CartItem, error) {
	productID = strings.TrimSpace(productID)
	if user.ID == "" || productID == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.products.Get(ctx, productID); err != nil {
		if s.notFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}
	if err := s.store.Add(ctx, user.ID, productID); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s.log.Debug("cart item added", zap.String("user_id", user.ID), zap.String("product_id", productID))
	return s.items(ctx, user.ID)
}

// Remove drops productID from the cart, or empties it when productID is blank.
// Removing a product that is not in the cart is not an error.
func (s *Service) Remove(ctx context.Context, user model.User, productID string) ([]model.CartItem, error) {
	if user.ID == "" {
		return nil, ErrInvalidInput
	}

	productID = strings.TrimSpace(productID)
	if productID == "" {
		if err := s.store.Clear(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
		return s.items(ctx, user.ID)
	}

	if err := s.store.Remove(ctx, user.ID, productID); err != nil && !errors.Is(err, ErrItemNotFound) {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	return s.items(ctx, user.ID)
}

// UpdateQuantity sets the line's quantity; zero removes it.
func (s *Service) UpdateQuantity(ctx context.Context, user model.User, productID string, quantity int) ([]model.CartItem, error) {
	productID = strings.TrimSpace(productID)
	if user.ID == "" || productID == "" || quantity < 0 {
		return nil, ErrInvalidInput
	}

	var err error
	if quantity == 0 {
		err = s.store.Remove(ctx, user.ID, productID)
	} else {
		err = s.store.SetQuantity(ctx, user.ID, productID, quantity)
	}
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update cart quantity: %w", err)
	}
	return s.items(ctx, user.ID)
}

func (s *Service) items(ctx context.Context, userID string) ([]model.CartItem, error) {
	items, err := s.store.Items(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return items, nil
}

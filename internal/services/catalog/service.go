package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/pkg/validate"
	"github.com/krjofficial/mern-ecomm/internal/services/media"
)

const RecommendedSize = 3

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("product not found")
)

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	ListFeatured(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	Sample(ctx context.Context, size int) ([]model.Product, error)
	Create(ctx context.Context, in model.NewProduct) (model.Product, error)
	ToggleFeatured(ctx context.Context, id string) (model.Product, error)
	Delete(ctx context.Context, id string) (model.Product, error)
}

type FeaturedCache interface {
	GetFeatured(ctx context.Context) ([]model.Product, bool, error)
	SetFeatured(ctx context.Context, products []model.Product) error
}

type ImageStorage interface {
	PutImage(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
}

type Service struct {
	products ProductStore
	cache    FeaturedCache
	images   ImageStorage
	log      *zap.Logger
	notFound func(error) bool
}

// NewService takes notFound to recognise the store's own not-found error.
func NewService(products ProductStore, cache FeaturedCache, images ImageStorage, notFound func(error) bool, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if notFound == nil {
		notFound = func(error) bool { return false }
	}
	return &Service{
		products: products,
		cache:    cache,
		images:   images,
		log:      log,
		notFound: notFound,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Featured serves from the cache and refills it from the store on a miss.
func (s *Service) Featured(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetFeatured(ctx)
		if err != nil {
			s.log.Warn("featured cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	products, err := s.products.ListFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	s.storeFeatured(ctx, products)
	return products, nil
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrValidation
	}
	products, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

func (s *Service) Recommended(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.Sample(ctx, RecommendedSize)
	if err != nil {
		return nil, fmt.Errorf("sample products: %w", err)
	}
	return products, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if !validate.Required(in.Name) || !validate.Required(in.Description) || !validate.Required(in.Category) || in.Price < 0 {
		return model.Product{}, ErrValidation
	}

	imageKey, imageURL := "", ""
	if strings.TrimSpace(in.Image) != "" {
		key, url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return model.Product{}, err
		}
		imageKey, imageURL = key, url
	}

	product, err := s.products.Create(ctx, model.NewProduct{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       imageURL,
		Category:    in.Category,
	})
	if err != nil {
		s.discardImage(ctx, imageKey)
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *Service) ToggleFeatured(ctx context.Context, id string) (model.Product, error) {
	product, err := s.products.ToggleFeatured(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("toggle featured: %w", err)
	}

	s.refreshFeatured(ctx)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) (model.Product, error) {
	product, err := s.products.Delete(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	s.discardImage(ctx, media.KeyFromURL(product.Image))

	if product.IsFeatured {
		s.refreshFeatured(ctx)
	}
	return product, nil
}

func (s *Service) uploadImage(ctx context.Context, raw string) (key, url string, err error) {
	if s.images == nil {
		return "", "", fmt.Errorf("image storage is unavailable")
	}

	img, err := media.DecodeDataURL(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	key = media.ProductFolder + "/" + uuid.NewString() + "." + img.Extension
	url, err = s.images.PutImage(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("upload product image: %w", err)
	}
	return key, url, nil
}

// discardImage removes an object best-effort; failures are only logged.
func (s *Service) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn("delete product image failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) refreshFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	products, err := s.products.ListFeatured(ctx)
	if err != nil {
		s.log.Warn("reload featured products failed", zap.Error(err))
		return
	}
	s.storeFeatured(ctx, products)
}

func (s *Service) storeFeatured(ctx context.Context, products []model.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetFeatured(ctx, products); err != nil {
		s.log.Warn("featured cache write failed", zap.Error(err))
	}
}

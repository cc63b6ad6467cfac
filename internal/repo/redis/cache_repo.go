package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
)

const featuredProductsKey = "featured_products"

type CacheRepo struct {
	client *goredis.Client
}

func NewCacheRepo(client *goredis.Client) *CacheRepo {
	return &CacheRepo{client: client}
}

// GetFeatured reports ok=false on a cache miss.
func (r *CacheRepo) GetFeatured(ctx context.Context) ([]model.Product, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, featuredProductsKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get featured products: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("decode featured products: %w", err)
	}
	return products, true, nil
}

func (r *CacheRepo) SetFeatured(ctx context.Context, products []model.Product) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if products == nil {
		products = []model.Product{}
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode featured products: %w", err)
	}
	if err := r.client.Set(ctx, featuredProductsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("set featured products: %w", err)
	}
	return nil
}

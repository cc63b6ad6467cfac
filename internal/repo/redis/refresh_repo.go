package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
)

const refreshPrefix = "refresh_token:"

// RefreshRepo holds one refresh token per principal under refresh_token:<id>.
type RefreshRepo struct {
	client *goredis.Client
}

func NewRefreshRepo(client *goredis.Client) *RefreshRepo {
	return &RefreshRepo{client: client}
}

// Put is a single SET with expiry, so a newer token replaces the old one in one step.
func (r *RefreshRepo) Put(ctx context.Context, principalID, refreshToken string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil: %w", authsvc.ErrStoreUnavailable)
	}
	if strings.TrimSpace(principalID) == "" || refreshToken == "" || ttl <= 0 {
		return authsvc.ErrInvalidInput
	}

	if err := r.client.Set(ctx, refreshKey(principalID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("set refresh token: %w: %w", authsvc.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RefreshRepo) Get(ctx context.Context, principalID string) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil: %w", authsvc.ErrStoreUnavailable)
	}
	if strings.TrimSpace(principalID) == "" {
		return "", authsvc.ErrRefreshNotFound
	}

	token, err := r.client.Get(ctx, refreshKey(principalID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", authsvc.ErrRefreshNotFound
		}
		return "", fmt.Errorf("get refresh token: %w: %w", authsvc.ErrStoreUnavailable, err)
	}
	return token, nil
}

func (r *RefreshRepo) Delete(ctx context.Context, principalID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil: %w", authsvc.ErrStoreUnavailable)
	}
	if strings.TrimSpace(principalID) == "" {
		return nil
	}

	if err := r.client.Del(ctx, refreshKey(principalID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w: %w", authsvc.ErrStoreUnavailable, err)
	}
	return nil
}

func refreshKey(principalID string) string {
	return refreshPrefix + principalID
}

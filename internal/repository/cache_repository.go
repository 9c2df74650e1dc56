package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"urlshortener/internal/models"
)

// CacheRepository — кэш разрешения коротких кодов на пути редиректа.
// Инкремент счётчика и запись события клика мимо кэша не проходят.
type CacheRepository interface {
	Get(ctx context.Context, shortURL string) (*models.URLMapping, error)
	Set(ctx context.Context, shortURL string, mapping *models.URLMapping, ttl time.Duration) error
	Delete(ctx context.Context, shortURL string) error
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) Get(ctx context.Context, shortURL string) (*models.URLMapping, error) {
	data, err := r.redis.Client.Get(ctx, r.key(shortURL)).Bytes()
	if err != nil {
		return nil, err
	}

	var mapping models.URLMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
	}

	return &mapping, nil
}

func (r *cacheRepository) Set(ctx context.Context, shortURL string, mapping *models.URLMapping, ttl time.Duration) error {
	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	return r.redis.Client.Set(ctx, r.key(shortURL), data, ttl).Err()
}

func (r *cacheRepository) Delete(ctx context.Context, shortURL string) error {
	return r.redis.Client.Del(ctx, r.key(shortURL)).Err()
}

func (r *cacheRepository) key(shortURL string) string {
	return "mapping:" + shortURL
}

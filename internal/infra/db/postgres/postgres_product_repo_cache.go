package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
	"digital-storefront/internal/infra/metrics"
	red "digital-storefront/internal/infra/redis"
)

var _ repository.ProductRepository = (*productRepoCacheDecorator)(nil)

// productRepoCacheDecorator caches product reads in Redis. Products are
// read-only in the webhook flow, so a stale window of one TTL is acceptable.
type productRepoCacheDecorator struct {
	inner repository.ProductRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewProductRepoCacheDecorator(inner repository.ProductRepository, cache red.RedisClient, ttl time.Duration) repository.ProductRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &productRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *productRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	key := fmt.Sprintf("product:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var p model.Product
		if json.Unmarshal([]byte(val), &p) == nil {
			metrics.IncCacheRequest("product", "hit")
			return &p, nil
		}
	} else if err != redis.Nil {
		// Redis trouble should not block fulfillment; fall through to Postgres.
		metrics.IncCacheRequest("product", "error")
	}

	metrics.IncCacheRequest("product", "miss")
	p, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return p, nil
}

func (d *productRepoCacheDecorator) ListAvailable(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	// Listing is admin/seed traffic; not worth caching.
	return d.inner.ListAvailable(ctx, tx)
}

func (d *productRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("product:%s", p.ID))
	return d.inner.Save(ctx, tx, p)
}

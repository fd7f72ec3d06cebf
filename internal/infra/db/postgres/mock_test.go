//go:build !integration

package postgres

import (
	"context"
	"time"

	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
	red "digital-storefront/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerProductRepo mocks the database repository that the decorator wraps.
type mockInnerProductRepo struct {
	FindByIDFunc      func(ctx context.Context, tx repository.Tx, id string) (*model.Product, error)
	ListAvailableFunc func(ctx context.Context, tx repository.Tx) ([]*model.Product, error)
	SaveFunc          func(ctx context.Context, tx repository.Tx, p *model.Product) error
}

func (m *mockInnerProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerProductRepo) ListAvailable(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	return m.ListAvailableFunc(ctx, tx)
}
func (m *mockInnerProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	return m.SaveFunc(ctx, tx, p)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc   func(ctx context.Context, keys ...string) error
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}
func (m *mockRedisClient) Close() error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}

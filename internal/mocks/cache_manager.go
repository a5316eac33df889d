// Package mocks holds testify mocks for interfaces shared across packages.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a testify mock of cachemanager.CacheManager.
type MockCacheManager[K comparable, V any] struct {
	mock.Mock
}

// NewMockCacheManager creates a mock that asserts its expectations when the
// test finishes.
func NewMockCacheManager[K comparable, V any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCacheManager[K, V] {
	m := &MockCacheManager[K, V]{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	args := m.Called(ctx, key)
	return value[V](args.Get(0)), args.Bool(1)
}

func (m *MockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	args := m.Called(ctx, key, ttl)
	return value[V](args.Get(0)), args.Bool(1)
}

func (m *MockCacheManager[K, V]) Set(ctx context.Context, key K, v V, ttl time.Duration) {
	m.Called(ctx, key, v, ttl)
}

func (m *MockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCacheManager[K, V]) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func value[V any](a any) V {
	var zero V
	if a == nil {
		return zero
	}
	if v, ok := a.(V); ok {
		return v
	}
	return zero
}

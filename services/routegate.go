package services

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"travel-scraper/metrics"
	"travel-scraper/models"
)

// routeGate lets concurrent scrapes of one route share a single run. The
// shared run is detached from any one caller's cancellation.
type routeGate struct {
	domain  models.Domain
	group   singleflight.Group
	metrics *metrics.Metrics
}

func (g *routeGate) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	v, err, shared := g.group.Do(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	if shared {
		g.metrics.IncShared(string(g.domain))
	}
	return v, err
}

// searchMemo caches the stored rows of a route between scrapes. A nil memo
// caches nothing.
type searchMemo[T any] struct {
	lru *expirable.LRU[string, []T]
}

func newSearchMemo[T any](size int, ttl time.Duration) *searchMemo[T] {
	if size <= 0 {
		return nil
	}
	return &searchMemo[T]{lru: expirable.NewLRU[string, []T](size, nil, ttl)}
}

func (m *searchMemo[T]) get(key string) ([]T, bool) {
	if m == nil {
		return nil, false
	}
	return m.lru.Get(key)
}

func (m *searchMemo[T]) put(key string, rows []T) {
	if m == nil {
		return
	}
	m.lru.Add(key, rows)
}

func (m *searchMemo[T]) invalidate(key string) {
	if m == nil {
		return
	}
	m.lru.Remove(key)
}

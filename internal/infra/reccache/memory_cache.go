package reccache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/recommend"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

type entry struct {
	recs      []skincare.ProductRecommendation
	expiresAt time.Time
}

// MemoryCache is an in-process recommendation memo for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a deep copy of a live entry.
func (c *MemoryCache) Get(_ context.Context, key string) ([]skincare.ProductRecommendation, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return cloneRecs(e.recs), true, nil
}

// Set stores recs with an optional TTL.
func (c *MemoryCache) Set(_ context.Context, key string, recs []skincare.ProductRecommendation, ttl time.Duration) error {
	stored := cloneRecs(recs)
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{recs: stored, expiresAt: exp}
	return nil
}

var _ recommend.Cache = (*MemoryCache)(nil)

// cloneRecs copies every slice a caller could mutate, so cached entries
// never share backing arrays with the engine or with handlers.
func cloneRecs(recs []skincare.ProductRecommendation) []skincare.ProductRecommendation {
	out := make([]skincare.ProductRecommendation, len(recs))
	for i, r := range recs {
		r.MatchReasons = slices.Clone(r.MatchReasons)
		r.AlternativeIDs = slices.Clone(r.AlternativeIDs)
		r.Product.Ingredients = slices.Clone(r.Product.Ingredients)
		r.Product.KeyIngredients = slices.Clone(r.Product.KeyIngredients)
		r.Product.TargetConcerns = slices.Clone(r.Product.TargetConcerns)
		r.Product.SuitableSkinTypes = slices.Clone(r.Product.SuitableSkinTypes)
		out[i] = r
	}
	return out
}

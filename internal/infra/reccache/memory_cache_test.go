package reccache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

func TestMemoryCacheTTLAndIsolation(t *testing.T) {
	cache := NewMemoryCache()
	clock := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }
	ctx := context.Background()

	recs := []skincare.ProductRecommendation{{Product: skincare.Product{ID: "p1"}, MatchScore: 80}}
	require.NoError(t, cache.Set(ctx, "rec:all:acne", recs, time.Minute))
	recs[0].MatchScore = 1

	got, ok, err := cache.Get(ctx, "rec:all:acne")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 80, got[0].MatchScore)

	got[0].MatchScore = 2
	again, _, _ := cache.Get(ctx, "rec:all:acne")
	require.Equal(t, 80, again[0].MatchScore)

	clock = clock.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "rec:all:acne")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheCopiesNestedSlices(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	recs := []skincare.ProductRecommendation{{
		Product:        skincare.Product{ID: "p1", KeyIngredients: []string{"niacinamide"}},
		MatchReasons:   []string{"Targets acne"},
		AlternativeIDs: []string{"p2", "p3"},
	}}
	require.NoError(t, cache.Set(ctx, "rec:all:acne", recs, 0))
	recs[0].MatchReasons[0] = "changed by engine"
	recs[0].Product.KeyIngredients[0] = "changed by engine"

	got, ok, err := cache.Get(ctx, "rec:all:acne")
	require.NoError(t, err)
	require.True(t, ok)
	got[0].AlternativeIDs[0] = "changed by handler"
	got[0].MatchReasons = append(got[0].MatchReasons[:0], "truncated")

	again, _, _ := cache.Get(ctx, "rec:all:acne")
	require.Equal(t, []string{"Targets acne"}, again[0].MatchReasons)
	require.Equal(t, []string{"p2", "p3"}, again[0].AlternativeIDs)
	require.Equal(t, []string{"niacinamide"}, again[0].Product.KeyIngredients)
}

func TestMemoryCacheMiss(t *testing.T) {
	_, ok, err := NewMemoryCache().Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

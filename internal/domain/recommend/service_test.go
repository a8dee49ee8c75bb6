package recommend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
)

type stubSource struct {
	profiles map[string]skincare.UserProfile
	analyses map[string]skincare.SkinAnalysisResult
	latest   map[string]string
	err      error
}

func (s *stubSource) Get(_ context.Context, id string) (skincare.UserProfile, error) {
	if s.err != nil {
		return skincare.UserProfile{}, s.err
	}
	p, ok := s.profiles[id]
	if !ok {
		return skincare.UserProfile{}, apperrors.Wrap("not_found", "profile not found", nil)
	}
	return p, nil
}

func (s *stubSource) Analysis(_ context.Context, _ string, id string) (skincare.SkinAnalysisResult, error) {
	a, ok := s.analyses[id]
	if !ok {
		return skincare.SkinAnalysisResult{}, apperrors.Wrap("not_found", "analysis not found", nil)
	}
	return a, nil
}

func (s *stubSource) LatestAnalysis(_ context.Context, profileID string) (skincare.SkinAnalysisResult, bool, error) {
	id, ok := s.latest[profileID]
	if !ok {
		return skincare.SkinAnalysisResult{}, false, nil
	}
	return s.analyses[id], true, nil
}

type mapCache struct {
	entries map[string][]skincare.ProductRecommendation
	sets    int
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]skincare.ProductRecommendation{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]skincare.ProductRecommendation, bool, error) {
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	recs, ok := c.entries[key]
	return recs, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, recs []skincare.ProductRecommendation, _ time.Duration) error {
	c.sets++
	c.entries[key] = recs
	return nil
}

func newTestService(source ContextSource, cache Cache) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{DefaultLimit: 3, CacheTTL: time.Minute}, NewEngine(testCatalog()), source, cache, logger)
}

func fixtureSource() *stubSource {
	updated := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &stubSource{
		profiles: map[string]skincare.UserProfile{
			"p1": {
				ID:        "p1",
				SkinType:  skincare.SkinTypeDry,
				Concerns:  []skincare.Concern{skincare.ConcernDryness},
				UpdatedAt: updated,
			},
			"p2": {ID: "p2", UpdatedAt: updated},
		},
		analyses: map[string]skincare.SkinAnalysisResult{
			"a1": {
				ID:               "a1",
				SkinTypeDetected: skincare.SkinTypeOily,
				Concerns: []skincare.DetectedConcern{
					{Type: skincare.ConcernAcne, Severity: skincare.SeveritySevere},
				},
			},
		},
		latest: map[string]string{"p2": "a1"},
	}
}

func TestRecommendUsesExplicitConcernsAndDefaultLimit(t *testing.T) {
	svc := newTestService(fixtureSource(), newMapCache())

	resp, err := svc.Recommend(context.Background(), Request{Concerns: []string{"acne", "acne"}})
	require.NoError(t, err)
	require.Equal(t, []skincare.Concern{skincare.ConcernAcne}, resp.Concerns)
	require.Len(t, resp.Recommendations, 3)
	require.Equal(t, "serum-niacinamide", resp.Recommendations[0].Product.ID)
	require.Equal(t, "engine", resp.Source)
}

func TestRecommendFallsBackToProfileThenAnalysisConcerns(t *testing.T) {
	svc := newTestService(fixtureSource(), newMapCache())

	resp, err := svc.Recommend(context.Background(), Request{ProfileID: "p1"})
	require.NoError(t, err)
	require.Equal(t, []skincare.Concern{skincare.ConcernDryness}, resp.Concerns)
	require.Equal(t, "moisturizer-ceramide", resp.Recommendations[0].Product.ID)

	resp, err = svc.Recommend(context.Background(), Request{ProfileID: "p2"})
	require.NoError(t, err)
	require.Equal(t, []skincare.Concern{skincare.ConcernAcne}, resp.Concerns)
}

func TestRecommendServesRepeatRequestsFromCache(t *testing.T) {
	cache := newMapCache()
	svc := newTestService(fixtureSource(), cache)
	req := Request{Concerns: []string{"dullness", "acne"}, ProfileID: "p1", Limit: 4}

	first, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, "engine", first.Source)
	require.Equal(t, "cache", second.Source)
	require.Equal(t, first.Recommendations, second.Recommendations)
	require.Equal(t, 1, cache.sets)
}

func TestRecommendCacheKeepsConcernOrder(t *testing.T) {
	cache := newMapCache()
	svc := newTestService(fixtureSource(), cache)
	engine := NewEngine(testCatalog())
	ctx := context.Background()

	orders := [][]skincare.Concern{
		{skincare.ConcernAcne, skincare.ConcernOiliness, skincare.ConcernDarkSpots},
		{skincare.ConcernDarkSpots, skincare.ConcernOiliness, skincare.ConcernAcne},
	}
	for _, concerns := range orders {
		raw := make([]string, 0, len(concerns))
		for _, c := range concerns {
			raw = append(raw, string(c))
		}
		resp, err := svc.Recommend(ctx, Request{Concerns: raw, Limit: 5})
		require.NoError(t, err)
		require.Equal(t, "engine", resp.Source)
		require.Equal(t, engine.GetRecommendations(concerns, nil, nil, 5), resp.Recommendations)
	}
	require.Equal(t, 2, cache.sets)
}

func TestRecommendIgnoresCacheFailures(t *testing.T) {
	cache := newMapCache()
	cache.failGet = true
	svc := newTestService(fixtureSource(), cache)

	resp, err := svc.Recommend(context.Background(), Request{Concerns: []string{"acne"}})
	require.NoError(t, err)
	require.Equal(t, "engine", resp.Source)
	require.NotEmpty(t, resp.Recommendations)
}

func TestRecommendValidation(t *testing.T) {
	svc := newTestService(fixtureSource(), newMapCache())
	ctx := context.Background()

	_, err := svc.Recommend(ctx, Request{Concerns: []string{"freckles"}})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Recommend(ctx, Request{AnalysisID: "a1"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Recommend(ctx, Request{ProfileID: "missing"})
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, err = svc.RecommendByCategory(ctx, "perfume", Request{})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestRecommendWrapsSourceFailures(t *testing.T) {
	source := fixtureSource()
	source.err = errors.New("connection refused")
	svc := newTestService(source, newMapCache())

	_, err := svc.Recommend(context.Background(), Request{ProfileID: "p1"})
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestRecommendByCategoryUsesAnalysisSkinType(t *testing.T) {
	svc := newTestService(fixtureSource(), newMapCache())

	resp, err := svc.RecommendByCategory(context.Background(), "Serum", Request{ProfileID: "p1", AnalysisID: "a1"})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 3)
	for _, r := range resp.Recommendations {
		require.Equal(t, skincare.CategorySerum, r.Product.Category)
	}
	// dryness from the profile, oily skin from the analysis
	require.Equal(t, "serum-niacinamide", resp.Recommendations[0].Product.ID)
}

func TestRecommendRoutine(t *testing.T) {
	svc := newTestService(fixtureSource(), newMapCache())

	resp, err := svc.RecommendRoutine(context.Background(), Request{Concerns: []string{"dryness"}})
	require.NoError(t, err)
	require.Len(t, resp.Categories, len(RoutineCategories))
	require.Len(t, resp.Categories[skincare.CategoryMoisturizer], 1)
	require.Empty(t, resp.Categories[skincare.CategoryToner])
}

func TestRecommendRoutineSharesCategoryCacheEntries(t *testing.T) {
	cache := newMapCache()
	svc := newTestService(fixtureSource(), cache)
	req := Request{Concerns: []string{"acne", "oiliness"}}

	first, err := svc.RecommendRoutine(context.Background(), req)
	require.NoError(t, err)
	want := NewEngine(testCatalog()).GetRoutineRecommendations(
		[]skincare.Concern{skincare.ConcernAcne, skincare.ConcernOiliness}, nil, nil)
	require.Equal(t, want, first.Categories)
	require.Equal(t, len(RoutineCategories), cache.sets)

	second, err := svc.RecommendRoutine(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first.Categories, second.Categories)
	require.Equal(t, len(RoutineCategories), cache.sets)

	serums, err := svc.RecommendByCategory(context.Background(), "serum", req)
	require.NoError(t, err)
	require.Equal(t, "cache", serums.Source)
	require.Equal(t, want[skincare.CategorySerum], serums.Recommendations)
}

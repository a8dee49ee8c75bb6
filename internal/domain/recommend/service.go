package recommend

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
	"github.com/yanqian/glow-advisor/pkg/metrics"
)

// Config holds runtime knobs for request handling.
type Config struct {
	DefaultLimit int
	CacheTTL     time.Duration
}

// Request selects what to rank and which caller context to use.
type Request struct {
	Concerns   []string `json:"concerns"`
	ProfileID  string   `json:"profileId"`
	AnalysisID string   `json:"analysisId"`
	Limit      int      `json:"limit"`
}

// Response carries one ranked list.
type Response struct {
	Concerns        []skincare.Concern               `json:"concerns"`
	Recommendations []skincare.ProductRecommendation `json:"recommendations"`
	Source          string                           `json:"source"`
}

// RoutineResponse carries a ranked list per routine category.
type RoutineResponse struct {
	Concerns   []skincare.Concern                                            `json:"concerns"`
	Categories map[skincare.ProductCategory][]skincare.ProductRecommendation `json:"categories"`
}

// ContextSource resolves the caller-owned profile and analysis history.
type ContextSource interface {
	Get(ctx context.Context, profileID string) (skincare.UserProfile, error)
	Analysis(ctx context.Context, profileID, analysisID string) (skincare.SkinAnalysisResult, error)
	LatestAnalysis(ctx context.Context, profileID string) (skincare.SkinAnalysisResult, bool, error)
}

// Cache memoises ranked lists. Entries are a pure function of their key.
type Cache interface {
	Get(ctx context.Context, key string) ([]skincare.ProductRecommendation, bool, error)
	Set(ctx context.Context, key string, recs []skincare.ProductRecommendation, ttl time.Duration) error
}

// Service answers recommendation requests.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
	RecommendByCategory(ctx context.Context, category string, req Request) (Response, error)
	RecommendRoutine(ctx context.Context, req Request) (RoutineResponse, error)
}

type service struct {
	cfg    Config
	engine *Engine
	source ContextSource
	cache  Cache
	logger *slog.Logger
}

// NewService wires the engine with caller context and a memo cache.
func NewService(cfg Config, engine *Engine, source ContextSource, cache Cache, logger *slog.Logger) Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	return &service{
		cfg:    cfg,
		engine: engine,
		source: source,
		cache:  cache,
		logger: logger.With("component", "recommend.service"),
	}
}

// resolved is a request with its context loaded.
type resolved struct {
	concerns []skincare.Concern
	profile  *skincare.UserProfile
	analysis *skincare.SkinAnalysisResult
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	rc, err := s.resolve(ctx, req)
	if err != nil {
		return Response{}, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	key := cacheKey(rc, "all", limit)
	recs, source := s.cached(ctx, "all", key, func() []skincare.ProductRecommendation {
		return s.engine.GetRecommendations(rc.concerns, rc.profile, rc.analysis, limit)
	})
	return Response{Concerns: rc.concerns, Recommendations: recs, Source: source}, nil
}

func (s *service) RecommendByCategory(ctx context.Context, category string, req Request) (Response, error) {
	cat, ok := skincare.ParseCategory(category)
	if !ok {
		return Response{}, apperrors.Wrap("invalid_input", "unknown product category: "+category, nil)
	}
	rc, err := s.resolve(ctx, req)
	if err != nil {
		return Response{}, err
	}
	recs, source := s.categoryRecs(ctx, cat, rc)
	return Response{Concerns: rc.concerns, Recommendations: recs, Source: source}, nil
}

// RecommendRoutine serves the routine from per-category cache entries when
// all of them are present and otherwise ranks every category in one pass.
func (s *service) RecommendRoutine(ctx context.Context, req Request) (RoutineResponse, error) {
	rc, err := s.resolve(ctx, req)
	if err != nil {
		return RoutineResponse{}, err
	}
	out := RoutineResponse{
		Concerns:   rc.concerns,
		Categories: make(map[skincare.ProductCategory][]skincare.ProductRecommendation, len(RoutineCategories)),
	}
	for _, cat := range RoutineCategories {
		recs, ok := s.lookup(ctx, cacheKey(rc, string(cat), 0))
		if !ok {
			break
		}
		out.Categories[cat] = recs
	}
	if len(out.Categories) == len(RoutineCategories) {
		metrics.RecommendationRequests.WithLabelValues("routine", "hit").Inc()
		return out, nil
	}

	out.Categories = s.engine.GetRoutineRecommendations(rc.concerns, rc.profile, rc.analysis)
	metrics.RecommendationRequests.WithLabelValues("routine", "miss").Inc()
	for cat, recs := range out.Categories {
		s.store(ctx, cacheKey(rc, string(cat), 0), recs)
	}
	return out, nil
}

func (s *service) categoryRecs(ctx context.Context, cat skincare.ProductCategory, rc resolved) ([]skincare.ProductRecommendation, string) {
	key := cacheKey(rc, string(cat), 0)
	return s.cached(ctx, "category", key, func() []skincare.ProductRecommendation {
		return s.engine.GetRecommendationsByCategory(cat, rc.concerns, rc.profile, rc.analysis)
	})
}

// cached serves from the memo cache when possible. Cache failures only
// cost a recomputation.
func (s *service) cached(ctx context.Context, scope, key string, compute func() []skincare.ProductRecommendation) ([]skincare.ProductRecommendation, string) {
	if recs, ok := s.lookup(ctx, key); ok {
		metrics.RecommendationRequests.WithLabelValues(scope, "hit").Inc()
		return recs, "cache"
	}
	recs := compute()
	metrics.RecommendationRequests.WithLabelValues(scope, "miss").Inc()
	s.store(ctx, key, recs)
	return recs, "engine"
}

func (s *service) lookup(ctx context.Context, key string) ([]skincare.ProductRecommendation, bool) {
	if s.cache == nil {
		return nil, false
	}
	recs, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("recommendation cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	return recs, ok
}

func (s *service) store(ctx context.Context, key string, recs []skincare.ProductRecommendation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, recs, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("recommendation cache store failed", "key", key, "error", err)
	}
}

// resolve parses concerns and loads the profile and analysis. Explicit
// concerns win, then the profile's reported concerns, then the analysis.
func (s *service) resolve(ctx context.Context, req Request) (resolved, error) {
	var rc resolved

	for _, raw := range req.Concerns {
		c, ok := skincare.ParseConcern(raw)
		if !ok {
			return resolved{}, apperrors.Wrap("invalid_input", "unknown skin concern: "+raw, nil)
		}
		rc.concerns = append(rc.concerns, c)
	}

	profileID := strings.TrimSpace(req.ProfileID)
	analysisID := strings.TrimSpace(req.AnalysisID)
	if analysisID != "" && profileID == "" {
		return resolved{}, apperrors.Wrap("invalid_input", "analysisId requires profileId", nil)
	}

	if profileID != "" {
		profile, err := s.source.Get(ctx, profileID)
		if err != nil {
			return resolved{}, passThrough(err, "storage_error", "failed to load profile")
		}
		rc.profile = &profile

		if analysisID != "" {
			analysis, err := s.source.Analysis(ctx, profileID, analysisID)
			if err != nil {
				return resolved{}, passThrough(err, "storage_error", "failed to load analysis")
			}
			rc.analysis = &analysis
		} else {
			analysis, ok, err := s.source.LatestAnalysis(ctx, profileID)
			if err != nil {
				return resolved{}, passThrough(err, "storage_error", "failed to load latest analysis")
			}
			if ok {
				rc.analysis = &analysis
			}
		}
	}

	if len(rc.concerns) == 0 && rc.profile != nil {
		rc.concerns = rc.profile.Concerns
	}
	if len(rc.concerns) == 0 && rc.analysis != nil {
		rc.concerns = rc.analysis.ConcernKinds()
	}
	rc.concerns = skincare.UniqueConcerns(rc.concerns)
	return rc, nil
}

func passThrough(err error, code, message string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(code, message, err)
}

// cacheKey identifies a ranking by its inputs. Concerns keep request order
// since match reasons follow it. The profile's UpdatedAt acts as its version.
func cacheKey(rc resolved, scope string, limit int) string {
	concerns := make([]string, 0, len(rc.concerns))
	for _, c := range rc.concerns {
		concerns = append(concerns, string(c))
	}

	var b strings.Builder
	b.WriteString("rec:")
	b.WriteString(scope)
	b.WriteString(":")
	b.WriteString(strings.Join(concerns, ","))
	b.WriteString(":p=")
	if rc.profile != nil {
		b.WriteString(rc.profile.ID)
		b.WriteString("@")
		b.WriteString(strconv.FormatInt(rc.profile.UpdatedAt.UnixNano(), 10))
	}
	b.WriteString(":a=")
	if rc.analysis != nil {
		b.WriteString(rc.analysis.ID)
	}
	b.WriteString(":l=")
	b.WriteString(strconv.Itoa(limit))
	return b.String()
}

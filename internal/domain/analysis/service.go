package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
	"github.com/yanqian/glow-advisor/pkg/metrics"
)

// Config bounds the assembled result.
type Config struct {
	MaxConcerns        int
	MaxRecommendations int
}

// Service produces skin assessments.
type Service interface {
	AnalyzeSkin(ctx context.Context, imageRef string, profile *skincare.UserProfile) (skincare.SkinAnalysisResult, error)
}

type service struct {
	cfg       Config
	extractor MetricExtractor
	detector  *Detector
	rnd       RandSource
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires the analysis pipeline around a metric extractor.
func NewService(cfg Config, extractor MetricExtractor, logger *slog.Logger) Service {
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = DefaultMaxRecommendations
	}
	return &service{
		cfg:       cfg,
		extractor: extractor,
		detector:  NewDetector(DefaultRand, cfg.MaxConcerns),
		rnd:       DefaultRand,
		logger:    logger.With("component", "analysis.service"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *service) AnalyzeSkin(ctx context.Context, imageRef string, profile *skincare.UserProfile) (skincare.SkinAnalysisResult, error) {
	imageRef = strings.TrimSpace(imageRef)
	if imageRef == "" {
		return skincare.SkinAnalysisResult{}, apperrors.Wrap("invalid_input", "image reference cannot be empty", nil)
	}
	started := time.Now()

	m, err := s.extractor.Extract(ctx, imageRef, profile)
	if err != nil {
		metrics.ObserveAnalysis("unavailable", started)
		s.logger.Warn("metric extraction failed", "image_ref", imageRef, "error", err)
		return skincare.SkinAnalysisResult{}, apperrors.Wrap("analysis_unavailable", "skin analysis is currently unavailable", err)
	}
	if !m.Valid() {
		metrics.ObserveAnalysis("unavailable", started)
		s.logger.Error("extractor returned out-of-range metrics", "image_ref", imageRef, "metrics", m)
		return skincare.SkinAnalysisResult{}, apperrors.Wrap("analysis_unavailable", "skin analysis produced invalid metrics", nil)
	}

	detected := s.detector.DetectAll(m, profile)
	skinType := s.resolveSkinType(m, profile)
	tone := DetectSkinTone(s.resolveLightness(profile))

	result := skincare.SkinAnalysisResult{
		ID:               s.newID(),
		ImageRef:         imageRef,
		Timestamp:        s.now().UTC(),
		OverallScore:     OverallScore(m),
		SkinToneDetected: tone.Tone,
		SkinTypeDetected: skinType,
		Concerns:         s.detector.Top(detected),
		Metrics:          m,
		Recommendations:  topRecommendations(detected, m, skinType, s.cfg.MaxRecommendations),
		Routine:          BuildRoutine(detected, skinType),
	}

	for _, c := range result.Concerns {
		metrics.AnalysisConcerns.WithLabelValues(string(c.Type), string(c.Severity)).Inc()
	}
	metrics.ObserveAnalysis("ok", started)
	s.logger.Info("skin analysis completed",
		"analysis_id", result.ID,
		"score", result.OverallScore,
		"skin_type", result.SkinTypeDetected,
		"concerns", len(result.Concerns),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

func (s *service) resolveSkinType(m skincare.SkinMetrics, profile *skincare.UserProfile) skincare.SkinType {
	if profile != nil && profile.SkinType.Valid() {
		return profile.SkinType
	}
	return DetectSkinType(m)
}

func (s *service) resolveLightness(profile *skincare.UserProfile) float64 {
	synthetic := 0.3 + s.rnd.Float64()*0.5
	if profile == nil {
		return synthetic
	}
	if ref, ok := referenceLightness(profile.SkinTone); ok {
		return ref
	}
	return synthetic
}

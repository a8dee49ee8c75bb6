package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
)

func TestAnalyzeSkinAssemblesResult(t *testing.T) {
	svc := newTestService(&stubExtractor{metrics: scenarioAMetrics})
	profile := &skincare.UserProfile{
		SkinType: skincare.SkinTypeOily,
		SkinTone: skincare.SkinToneDark,
	}

	res, err := svc.AnalyzeSkin(context.Background(), "  uploads/face.jpg ", profile)
	require.NoError(t, err)

	require.Equal(t, "analysis-1", res.ID)
	require.Equal(t, "uploads/face.jpg", res.ImageRef)
	require.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), res.Timestamp)
	require.Equal(t, 52, res.OverallScore)
	require.Equal(t, skincare.SkinTypeOily, res.SkinTypeDetected)
	require.Equal(t, skincare.SkinToneDark, res.SkinToneDetected)
	require.Equal(t, scenarioAMetrics, res.Metrics)
	require.Len(t, res.Concerns, 3)
	require.Equal(t, []string{tipHydration, tipSunscreen, tipAcne, tipConsistency}, res.Recommendations)
	require.Equal(t, "Salicylic acid or benzoyl peroxide treatment", res.Routine.Evening[3].Description)
}

func TestAnalyzeSkinBuildsRoutineFromAllConcerns(t *testing.T) {
	// Six moderate findings outrank mild acne, which still shapes the routine.
	m := skincare.SkinMetrics{
		Hydration: 30, Oiliness: 50, Sensitivity: 85, Elasticity: 25,
		Texture: 65, Pigmentation: 30, PoreSize: 25, Radiance: 25,
	}
	svc := newTestService(&stubExtractor{metrics: m})

	res, err := svc.AnalyzeSkin(context.Background(), "img", &skincare.UserProfile{SkinType: skincare.SkinTypeNormal})
	require.NoError(t, err)

	require.Len(t, res.Concerns, DefaultMaxConcerns)
	for _, c := range res.Concerns {
		require.NotEqual(t, skincare.ConcernAcne, c.Type)
		require.Equal(t, skincare.SeverityModerate, c.Severity)
	}
	require.Contains(t, res.Recommendations, tipAcne)
	require.Equal(t, "BHA (salicylic acid) exfoliant to unclog pores", res.Routine.Weekly[0].Description)
}

func TestAnalyzeSkinDetectsTypeWithoutProfile(t *testing.T) {
	svc := newTestService(&stubExtractor{metrics: scenarioAMetrics})
	svc.rnd = fixedRand{v: 0.9}

	res, err := svc.AnalyzeSkin(context.Background(), "img", nil)
	require.NoError(t, err)
	require.Equal(t, skincare.SkinTypeCombination, res.SkinTypeDetected)
	require.Equal(t, skincare.SkinToneLight, res.SkinToneDetected)
	require.LessOrEqual(t, len(res.Recommendations), DefaultMaxRecommendations)
	require.Contains(t, res.Recommendations, tipSunscreen)
}

func TestAnalyzeSkinRejectsEmptyImage(t *testing.T) {
	stub := &stubExtractor{metrics: healthyMetrics}
	svc := newTestService(stub)

	_, err := svc.AnalyzeSkin(context.Background(), "   ", nil)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.Zero(t, stub.calls)
}

func TestAnalyzeSkinUnavailable(t *testing.T) {
	t.Run("extractor error", func(t *testing.T) {
		svc := newTestService(&stubExtractor{err: errors.New("model offline")})
		_, err := svc.AnalyzeSkin(context.Background(), "img", nil)
		require.True(t, apperrors.IsCode(err, "analysis_unavailable"))
	})

	t.Run("out of range metrics", func(t *testing.T) {
		bad := healthyMetrics
		bad.Hydration = 140
		svc := newTestService(&stubExtractor{metrics: bad})
		_, err := svc.AnalyzeSkin(context.Background(), "img", nil)
		require.True(t, apperrors.IsCode(err, "analysis_unavailable"))
	})
}

func TestAnalyzeSkinReconcilesReportedConcerns(t *testing.T) {
	svc := newTestService(&stubExtractor{metrics: healthyMetrics})
	profile := &skincare.UserProfile{Concerns: []skincare.Concern{skincare.ConcernBlackheads}}

	res, err := svc.AnalyzeSkin(context.Background(), "img", profile)
	require.NoError(t, err)
	require.Len(t, res.Concerns, 1)
	require.Equal(t, skincare.ConcernBlackheads, res.Concerns[0].Type)
	require.Equal(t, skincare.SeverityMild, res.Concerns[0].Severity)
}

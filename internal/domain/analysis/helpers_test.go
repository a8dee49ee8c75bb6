package analysis

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

// sequenceRand replays values in order and wraps around.
type sequenceRand struct {
	values []float64
	next   int
}

func (s *sequenceRand) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

type stubExtractor struct {
	metrics skincare.SkinMetrics
	err     error
	calls   int
}

func (s *stubExtractor) Extract(context.Context, string, *skincare.UserProfile) (skincare.SkinMetrics, error) {
	s.calls++
	return s.metrics, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newTestService(extractor MetricExtractor) *service {
	rnd := fixedRand{v: 0.5}
	return &service{
		cfg:       Config{MaxConcerns: DefaultMaxConcerns, MaxRecommendations: DefaultMaxRecommendations},
		extractor: extractor,
		detector:  NewDetector(rnd, DefaultMaxConcerns),
		rnd:       rnd,
		logger:    testLogger(),
		now:       func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) },
		newID:     func() string { return "analysis-1" },
	}
}

var scenarioAMetrics = skincare.SkinMetrics{
	Hydration:    20,
	Oiliness:     80,
	Sensitivity:  30,
	Elasticity:   60,
	Texture:      35,
	Pigmentation: 70,
	PoreSize:     60,
	Radiance:     60,
}

var healthyMetrics = skincare.SkinMetrics{
	Hydration:    80,
	Oiliness:     45,
	Sensitivity:  20,
	Elasticity:   80,
	Texture:      80,
	Pigmentation: 80,
	PoreSize:     80,
	Radiance:     80,
}

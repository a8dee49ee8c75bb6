package analysis

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// MetricExtractor turns an image reference into a metric vector.
// Implementations may block for the duration of model inference and must
// return channels that are integers in [0,100].
type MetricExtractor interface {
	Extract(ctx context.Context, imageRef string, profile *skincare.UserProfile) (skincare.SkinMetrics, error)
}

// RandSource supplies uniform samples in [0,1).
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand is backed by the goroutine-safe math/rand/v2 global source.
var DefaultRand RandSource = globalRand{}

// HeuristicConfig tunes the simulated inference.
type HeuristicConfig struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	WarmupDelay time.Duration
}

// HeuristicExtractor stands in for a trained model: it samples plausible
// per-channel ranges, biases them with the profile, and simulates latency.
type HeuristicExtractor struct {
	cfg    HeuristicConfig
	rnd    RandSource
	ready  atomic.Bool
	logger *slog.Logger
}

// NewHeuristicExtractor builds the stand-in extractor.
func NewHeuristicExtractor(cfg HeuristicConfig, logger *slog.Logger) *HeuristicExtractor {
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}
	return &HeuristicExtractor{
		cfg:    cfg,
		rnd:    DefaultRand,
		logger: logger.With("component", "analysis.extractor"),
	}
}

// Warmup simulates loading model weights.
func (e *HeuristicExtractor) Warmup(ctx context.Context) error {
	if err := sleepCtx(ctx, e.cfg.WarmupDelay); err != nil {
		return err
	}
	e.ready.Store(true)
	e.logger.Info("heuristic model ready", "warmup_ms", e.cfg.WarmupDelay.Milliseconds())
	return nil
}

// Ready reports whether Warmup has completed.
func (e *HeuristicExtractor) Ready() bool {
	return e.ready.Load()
}

// Extract implements MetricExtractor.
func (e *HeuristicExtractor) Extract(ctx context.Context, imageRef string, profile *skincare.UserProfile) (skincare.SkinMetrics, error) {
	delay := e.cfg.MinLatency
	if spread := e.cfg.MaxLatency - e.cfg.MinLatency; spread > 0 {
		delay += time.Duration(e.rnd.Float64() * float64(spread))
	}
	if err := sleepCtx(ctx, delay); err != nil {
		return skincare.SkinMetrics{}, err
	}
	metrics := SampleMetrics(e.rnd, profile)
	e.logger.Debug("metrics extracted", "image_ref", imageRef, "latency_ms", delay.Milliseconds())
	return metrics, nil
}

// SampleMetrics draws a metric vector from the base ranges and applies
// the profile biases before clamping and rounding.
func SampleMetrics(rnd RandSource, profile *skincare.UserProfile) skincare.SkinMetrics {
	raw := skincare.RawMetrics{
		Hydration:    45 + rnd.Float64()*40,
		Oiliness:     25 + rnd.Float64()*50,
		Sensitivity:  15 + rnd.Float64()*50,
		Elasticity:   50 + rnd.Float64()*40,
		Texture:      40 + rnd.Float64()*45,
		Pigmentation: 45 + rnd.Float64()*45,
		PoreSize:     40 + rnd.Float64()*45,
		Radiance:     35 + rnd.Float64()*50,
	}
	if profile != nil {
		applyProfileBias(&raw, profile)
	}
	return raw.Normalize()
}

func applyProfileBias(raw *skincare.RawMetrics, profile *skincare.UserProfile) {
	switch profile.SkinType {
	case skincare.SkinTypeOily:
		raw.Oiliness += 20
		raw.PoreSize -= 15
	case skincare.SkinTypeDry:
		raw.Hydration -= 20
		raw.Oiliness -= 15
	case skincare.SkinTypeSensitive:
		raw.Sensitivity += 25
	case skincare.SkinTypeCombination:
		raw.Oiliness += 10
		raw.Hydration -= 10
	}

	switch profile.Age {
	case skincare.Age18To22:
		raw.Elasticity += 15
		raw.Oiliness += 10
	case skincare.Age33To35, skincare.Age36Plus:
		raw.Elasticity -= 10
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ MetricExtractor = (*HeuristicExtractor)(nil)

package inference

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yanqian/glow-advisor/internal/domain/analysis"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	"github.com/yanqian/glow-advisor/pkg/metrics"
)

// BreakerConfig tunes when the extractor circuit opens.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.Name == "" {
		c.Name = "metric-extractor"
	}
	if c.MaxRequests == 0 {
		c.MaxRequests = 2
	}
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MinRequests == 0 {
		c.MinRequests = 5
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		c.FailureRatio = 0.6
	}
	return c
}

// BreakerExtractor guards a MetricExtractor with a circuit breaker so a
// failing model backend is shed quickly instead of piling up slow calls.
type BreakerExtractor struct {
	next   analysis.MetricExtractor
	cb     *gobreaker.CircuitBreaker[skincare.SkinMetrics]
	name   string
	logger *slog.Logger
}

// NewBreakerExtractor wraps next.
func NewBreakerExtractor(cfg BreakerConfig, next analysis.MetricExtractor, logger *slog.Logger) *BreakerExtractor {
	cfg = cfg.withDefaults()
	logger = logger.With("component", "inference.breaker", "breaker", cfg.Name)
	metrics.InferenceBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[skincare.SkinMetrics](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("breaker state transition", "from", stateName(from), "to", stateName(to))
			metrics.InferenceBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.InferenceBreakerTransitions.WithLabelValues(name, stateName(from), stateName(to)).Inc()
		},
		IsSuccessful: func(err error) bool {
			// caller cancellation says nothing about backend health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerExtractor{next: next, cb: cb, name: cfg.Name, logger: logger}
}

// Extract implements analysis.MetricExtractor.
func (b *BreakerExtractor) Extract(ctx context.Context, imageRef string, profile *skincare.UserProfile) (skincare.SkinMetrics, error) {
	m, err := b.cb.Execute(func() (skincare.SkinMetrics, error) {
		return b.next.Extract(ctx, imageRef, profile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.logger.Warn("extraction rejected by breaker", "image_ref", imageRef, "error", err)
	}
	return m, err
}

// State reports the breaker state for health checks.
func (b *BreakerExtractor) State() string {
	return stateName(b.cb.State())
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateName(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var _ analysis.MetricExtractor = (*BreakerExtractor)(nil)

package inference

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

type flakyExtractor struct {
	err   error
	calls int
}

func (f *flakyExtractor) Extract(context.Context, string, *skincare.UserProfile) (skincare.SkinMetrics, error) {
	f.calls++
	if f.err != nil {
		return skincare.SkinMetrics{}, f.err
	}
	return skincare.SkinMetrics{Hydration: 60, Oiliness: 45}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBreakerPassesThroughHealthyCalls(t *testing.T) {
	next := &flakyExtractor{}
	b := NewBreakerExtractor(BreakerConfig{Name: "test-healthy"}, next, testLogger())

	m, err := b.Extract(context.Background(), "a.jpg", nil)
	require.NoError(t, err)
	require.Equal(t, 60, m.Hydration)
	require.Equal(t, "closed", b.State())
}

func TestBreakerOpensAfterFailureRatio(t *testing.T) {
	next := &flakyExtractor{err: errors.New("model backend down")}
	b := NewBreakerExtractor(BreakerConfig{
		Name:         "test-trip",
		MinRequests:  3,
		FailureRatio: 0.5,
		Timeout:      time.Hour,
	}, next, testLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Extract(context.Background(), "a.jpg", nil)
		require.Error(t, err)
	}
	require.Equal(t, "open", b.State())

	_, err := b.Extract(context.Background(), "a.jpg", nil)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, 3, next.calls)
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	next := &flakyExtractor{err: context.Canceled}
	b := NewBreakerExtractor(BreakerConfig{Name: "test-cancel", MinRequests: 2, FailureRatio: 0.5}, next, testLogger())

	for i := 0; i < 4; i++ {
		_, err := b.Extract(context.Background(), "a.jpg", nil)
		require.ErrorIs(t, err, context.Canceled)
	}
	require.Equal(t, "closed", b.State())
}

func TestBreakerConfigDefaults(t *testing.T) {
	cfg := BreakerConfig{FailureRatio: 3}.withDefaults()
	require.Equal(t, "metric-extractor", cfg.Name)
	require.Equal(t, uint32(5), cfg.MinRequests)
	require.InDelta(t, 0.6, cfg.FailureRatio, 1e-9)
}

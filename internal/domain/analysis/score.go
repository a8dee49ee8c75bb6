package analysis

import (
	"math"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// idealOiliness is the midpoint where the oiliness term peaks.
const idealOiliness = 45

// OverallScore folds the metric vector into a 0-100 skin health score.
func OverallScore(m skincare.SkinMetrics) int {
	score := float64(m.Hydration)*0.18 +
		(100-math.Abs(float64(m.Oiliness-idealOiliness)))*0.08 +
		float64(100-m.Sensitivity)*0.10 +
		float64(m.Elasticity)*0.15 +
		float64(m.Texture)*0.15 +
		float64(m.Pigmentation)*0.12 +
		float64(m.PoreSize)*0.07 +
		float64(m.Radiance)*0.15
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

package skincare

import "math"

// SkinMetrics holds the eight analysis channels, each an integer in [0,100].
// Higher is better for every channel except Oiliness, which peaks at 45.
type SkinMetrics struct {
	Hydration    int `json:"hydration"`
	Oiliness     int `json:"oiliness"`
	Sensitivity  int `json:"sensitivity"`
	Elasticity   int `json:"elasticity"`
	Texture      int `json:"texture"`
	Pigmentation int `json:"pigmentation"`
	PoreSize     int `json:"poreSize"`
	Radiance     int `json:"radiance"`
}

// RawMetrics is the unrounded form produced while sampling.
type RawMetrics struct {
	Hydration    float64
	Oiliness     float64
	Sensitivity  float64
	Elasticity   float64
	Texture      float64
	Pigmentation float64
	PoreSize     float64
	Radiance     float64
}

// Normalize clamps every channel to [0,100] and rounds half away from zero.
func (r RawMetrics) Normalize() SkinMetrics {
	return SkinMetrics{
		Hydration:    normalizeChannel(r.Hydration),
		Oiliness:     normalizeChannel(r.Oiliness),
		Sensitivity:  normalizeChannel(r.Sensitivity),
		Elasticity:   normalizeChannel(r.Elasticity),
		Texture:      normalizeChannel(r.Texture),
		Pigmentation: normalizeChannel(r.Pigmentation),
		PoreSize:     normalizeChannel(r.PoreSize),
		Radiance:     normalizeChannel(r.Radiance),
	}
}

func normalizeChannel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Channels returns the values in declaration order.
func (m SkinMetrics) Channels() []int {
	return []int{m.Hydration, m.Oiliness, m.Sensitivity, m.Elasticity, m.Texture, m.Pigmentation, m.PoreSize, m.Radiance}
}

// Valid reports whether every channel lies in [0,100].
func (m SkinMetrics) Valid() bool {
	for _, v := range m.Channels() {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

package analysis

import (
	"fmt"
	"sort"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// concernRule is one independent threshold ladder over the metrics.
type concernRule struct {
	concern        skincare.Concern
	baseConfidence float64
	jitter         float64
	grade          func(m skincare.SkinMetrics, profile *skincare.UserProfile) (skincare.Severity, bool)
	describe       func(sev skincare.Severity) string
	affectedArea   string
	recommendation string
}

func (r concernRule) evaluate(m skincare.SkinMetrics, profile *skincare.UserProfile, rnd RandSource) (skincare.DetectedConcern, bool) {
	sev, ok := r.grade(m, profile)
	if !ok {
		return skincare.DetectedConcern{}, false
	}
	return skincare.DetectedConcern{
		Type:           r.concern,
		Severity:       sev,
		Confidence:     r.baseConfidence + rnd.Float64()*r.jitter,
		Description:    r.describe(sev),
		AffectedArea:   r.affectedArea,
		Recommendation: r.recommendation,
	}, true
}

func fixed(text string) func(skincare.Severity) string {
	return func(skincare.Severity) string { return text }
}

// belowLadder fires when value < fireAt, escalating to moderate below moderateAt.
func belowLadder(value, fireAt, moderateAt int) (skincare.Severity, bool) {
	if value >= fireAt {
		return "", false
	}
	if value < moderateAt {
		return skincare.SeverityModerate, true
	}
	return skincare.SeverityMild, true
}

// aboveLadder fires when value > fireAt, escalating to moderate above moderateAt.
func aboveLadder(value, fireAt, moderateAt int) (skincare.Severity, bool) {
	if value <= fireAt {
		return "", false
	}
	if value > moderateAt {
		return skincare.SeverityModerate, true
	}
	return skincare.SeverityMild, true
}

var concernRules = []concernRule{
	{
		concern:        skincare.ConcernAcne,
		baseConfidence: 0.72,
		jitter:         0.15,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			switch {
			case m.Oiliness > 75 && m.Texture < 40:
				return skincare.SeveritySevere, true
			case m.Oiliness > 55 && m.Texture < 60:
				return skincare.SeverityModerate, true
			case m.Oiliness > 40 && m.Texture < 70:
				return skincare.SeverityMild, true
			}
			return "", false
		},
		describe: func(sev skincare.Severity) string {
			switch sev {
			case skincare.SeveritySevere:
				return "Active breakouts detected across multiple areas. Inflammatory acne present."
			case skincare.SeverityModerate:
				return "Some active breakouts detected. A mix of comedonal and inflammatory acne."
			}
			return "Minor breakouts detected. Mostly comedonal (non-inflammatory) acne."
		},
		affectedArea:   "T-zone and cheeks",
		recommendation: "Consider a gentle salicylic acid cleanser and niacinamide serum.",
	},
	{
		concern:        skincare.ConcernDarkSpots,
		baseConfidence: 0.68,
		jitter:         0.2,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return belowLadder(m.Pigmentation, 60, 35)
		},
		describe: func(sev skincare.Severity) string {
			if sev == skincare.SeverityModerate {
				return "Noticeable hyperpigmentation in several areas. Could be post-inflammatory or sun-related."
			}
			return "Minor dark spots detected. Early signs of uneven pigmentation."
		},
		affectedArea:   "Cheeks and forehead",
		recommendation: "Vitamin C serum in the morning and SPF 50+ daily. Consider azelaic acid.",
	},
	{
		concern:        skincare.ConcernFineLines,
		baseConfidence: 0.65,
		jitter:         0.2,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return belowLadder(m.Elasticity, 55, 30)
		},
		describe: func(sev skincare.Severity) string {
			if sev == skincare.SeverityModerate {
				return "Fine lines visible around the eyes and forehead. Early signs of loss of elasticity."
			}
			return "Very fine lines beginning to appear. Normal early signs, a great time to start prevention."
		},
		affectedArea:   "Eye area and forehead",
		recommendation: "Retinol at night (start low), hyaluronic acid for hydration, and daily SPF.",
	},
	{
		concern:        skincare.ConcernLargePores,
		baseConfidence: 0.7,
		jitter:         0.15,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return belowLadder(m.PoreSize, 50, 30)
		},
		describe:       fixed("Enlarged pores detected, particularly in the T-zone area."),
		affectedArea:   "Nose and cheeks",
		recommendation: "Niacinamide serum to minimize appearance. BHA exfoliant 2-3x per week.",
	},
	{
		concern:        skincare.ConcernDullness,
		baseConfidence: 0.75,
		jitter:         0.15,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return belowLadder(m.Radiance, 50, 30)
		},
		describe:       fixed("Skin appears to lack natural glow and radiance. Could be due to dehydration or dead skin buildup."),
		affectedArea:   "Overall complexion",
		recommendation: "AHA exfoliant 2x per week, Vitamin C serum, and hydrating toner.",
	},
	{
		concern:        skincare.ConcernDryness,
		baseConfidence: 0.78,
		jitter:         0.12,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			switch {
			case m.Hydration >= 45:
				return "", false
			case m.Hydration < 25:
				return skincare.SeveritySevere, true
			case m.Hydration < 35:
				return skincare.SeverityModerate, true
			}
			return skincare.SeverityMild, true
		},
		describe:       fixed("Skin barrier appears compromised with visible signs of dehydration."),
		affectedArea:   "Cheeks and jawline",
		recommendation: "Rich moisturizer with ceramides, hyaluronic acid serum, and avoid harsh cleansers.",
	},
	{
		concern:        skincare.ConcernOiliness,
		baseConfidence: 0.8,
		jitter:         0.1,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return aboveLadder(m.Oiliness, 70, 85)
		},
		describe:       fixed("Excess sebum production detected. This can lead to clogged pores if not managed."),
		affectedArea:   "T-zone",
		recommendation: "Oil-free moisturizer, niacinamide serum, gentle foaming cleanser.",
	},
	{
		concern:        skincare.ConcernRedness,
		baseConfidence: 0.66,
		jitter:         0.2,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return aboveLadder(m.Sensitivity, 65, 80)
		},
		describe:       fixed("Visible redness and irritation detected. Could indicate sensitive or reactive skin."),
		affectedArea:   "Cheeks and nose",
		recommendation: "Centella asiatica (cica) products, avoid fragrance, use mineral SPF.",
	},
	{
		// Fixed severity: the rule has no escalation ladder.
		concern:        skincare.ConcernUnevenTone,
		baseConfidence: 0.7,
		jitter:         0.15,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return skincare.SeverityMild, m.Pigmentation < 55 && m.Radiance < 55
		},
		describe:       fixed("Uneven skin tone detected with areas of varying pigmentation."),
		affectedArea:   "Overall complexion",
		recommendation: "Vitamin C + niacinamide for brightening, AHA for cell turnover, daily SPF.",
	},
	{
		concern:        skincare.ConcernDarkCircles,
		baseConfidence: 0.6,
		jitter:         0.15,
		grade: func(m skincare.SkinMetrics, _ *skincare.UserProfile) (skincare.Severity, bool) {
			return skincare.SeverityMild, m.Hydration < 50 && m.Elasticity < 60
		},
		describe:       fixed("Under-eye area shows signs of fatigue and slight discoloration."),
		affectedArea:   "Under-eye area",
		recommendation: "Caffeine eye cream, retinol eye treatment at night, ensure adequate sleep.",
	},
}

const (
	fallbackConfidence = 0.55
	fallbackJitter     = 0.2
	// DefaultMaxConcerns caps the detector output.
	DefaultMaxConcerns = 6
)

// Detector runs the concern rules and reconciles them with self-reported concerns.
type Detector struct {
	rules       []concernRule
	rnd         RandSource
	maxConcerns int
}

// NewDetector builds a detector over the built-in rule table.
func NewDetector(rnd RandSource, maxConcerns int) *Detector {
	if rnd == nil {
		rnd = DefaultRand
	}
	if maxConcerns <= 0 {
		maxConcerns = DefaultMaxConcerns
	}
	return &Detector{rules: concernRules, rnd: rnd, maxConcerns: maxConcerns}
}

// Detect evaluates every rule, adds fallbacks for reported concerns no rule
// produced, and returns the highest-priority findings.
func (d *Detector) Detect(m skincare.SkinMetrics, profile *skincare.UserProfile) []skincare.DetectedConcern {
	return d.Top(d.DetectAll(m, profile))
}

// DetectAll is Detect without the truncation. Routine and tip generation
// work from the full list.
func (d *Detector) DetectAll(m skincare.SkinMetrics, profile *skincare.UserProfile) []skincare.DetectedConcern {
	found := make([]skincare.DetectedConcern, 0, len(d.rules))
	for _, rule := range d.rules {
		if dc, ok := rule.evaluate(m, profile, d.rnd); ok {
			found = append(found, dc)
		}
	}
	found = d.reconcile(found, profile)
	SortConcerns(found)
	return found
}

// Top keeps the first maxConcerns entries of a sorted list.
func (d *Detector) Top(sorted []skincare.DetectedConcern) []skincare.DetectedConcern {
	if len(sorted) > d.maxConcerns {
		return sorted[:d.maxConcerns:d.maxConcerns]
	}
	return sorted
}

func (d *Detector) reconcile(found []skincare.DetectedConcern, profile *skincare.UserProfile) []skincare.DetectedConcern {
	if profile == nil {
		return found
	}
	present := make(map[skincare.Concern]struct{}, len(found))
	for _, dc := range found {
		present[dc.Type] = struct{}{}
	}
	for _, reported := range profile.Concerns {
		if _, ok := present[reported]; ok {
			continue
		}
		present[reported] = struct{}{}
		found = append(found, fallbackConcern(reported, d.rnd))
	}
	return found
}

func fallbackConcern(c skincare.Concern, rnd RandSource) skincare.DetectedConcern {
	return skincare.DetectedConcern{
		Type:           c,
		Severity:       skincare.SeverityMild,
		Confidence:     fallbackConfidence + rnd.Float64()*fallbackJitter,
		Description:    fmt.Sprintf("Mild signs of %s detected, consistent with your reported concerns.", c.Label()),
		AffectedArea:   "Various areas",
		Recommendation: fmt.Sprintf("We've included targeted treatments for %s in your routine.", c.Label()),
	}
}

// SortConcerns orders by severity (severe first) then descending confidence.
func SortConcerns(list []skincare.DetectedConcern) {
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := list[i].Severity.Rank(), list[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return list[i].Confidence > list[j].Confidence
	})
}

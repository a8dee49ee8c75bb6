package analysis

import "github.com/yanqian/glow-advisor/internal/domain/skincare"

const (
	// DefaultMaxRecommendations caps the top-level advice list.
	DefaultMaxRecommendations = 5
	minRecommendations        = 4

	tipHydration   = "Boost hydration with a hyaluronic acid serum and drink more water throughout the day."
	tipRadiance    = "Add a Vitamin C serum to your morning routine for a natural glow."
	tipSunscreen   = "Never skip sunscreen, it's the single most effective anti-aging step."
	tipAcne        = "Avoid touching your face and change your pillowcase frequently to reduce breakouts."
	tipSensitive   = "Patch test new products and introduce them one at a time over 2 weeks."
	tipFineLines   = "Start with a low-concentration retinol (0.3%) at night, the gold standard for anti-aging."
	tipConsistency = "Consistency is more important than having the most expensive products. Stick with your routine!"
)

// topRecommendations builds the headline advice. The sunscreen and
// consistency reminders are always present; the final slot is reserved
// for consistency, so max must leave room for up to two metric tips first.
func topRecommendations(concerns []skincare.DetectedConcern, m skincare.SkinMetrics, skinType skincare.SkinType, max int) []string {
	if max < minRecommendations {
		max = DefaultMaxRecommendations
	}
	set := newConcernSet(concerns)

	recs := make([]string, 0, max)
	if m.Hydration < 50 {
		recs = append(recs, tipHydration)
	}
	if m.Radiance < 50 {
		recs = append(recs, tipRadiance)
	}
	recs = append(recs, tipSunscreen)
	if set.any(skincare.ConcernAcne) {
		recs = append(recs, tipAcne)
	}
	if skinType == skincare.SkinTypeSensitive {
		recs = append(recs, tipSensitive)
	}
	if set.any(skincare.ConcernFineLines) {
		recs = append(recs, tipFineLines)
	}

	if len(recs) > max-1 {
		recs = recs[:max-1]
	}
	return append(recs, tipConsistency)
}

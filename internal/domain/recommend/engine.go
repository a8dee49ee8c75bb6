package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// Catalog supplies the read-only product list in its canonical order.
type Catalog interface {
	Products() []skincare.Product
}

// Engine scores and ranks catalog products. It holds no mutable state.
type Engine struct {
	catalog Catalog
}

// NewEngine builds an engine over the given catalog.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Score rates a product from 0 to 100 against the concerns and optional context.
func Score(product skincare.Product, concerns []skincare.Concern, profile *skincare.UserProfile, analysis *skincare.SkinAnalysisResult) int {
	concerns = skincare.UniqueConcerns(concerns)
	var score float64

	if len(concerns) > 0 {
		matched := 0
		for _, c := range concerns {
			if skincare.ContainsConcern(product.TargetConcerns, c) {
				matched++
			}
		}
		score += float64(matched) / float64(len(concerns)) * weightConcernMatch
	}

	if skinType, ok := effectiveSkinType(profile, analysis); ok && product.SuitsSkinType(skinType) {
		score += weightSkinTypeMatch
	}

	score += preferenceCredit(product, profile) * weightPreferenceMatch
	score += budgetCredit(product, profile) * weightBudgetMatch
	score += product.Rating / 5 * weightRating
	score += math.Min(1, math.Log10(float64(product.ReviewCount)+1)/5) * weightPopularity

	if len(concerns) > 0 {
		hits := 0
		for _, c := range concerns {
			if len(matchedHeroIngredients(product, c)) > 0 {
				hits++
			}
		}
		score += float64(hits) / float64(len(concerns)) * weightIngredientBonus
	}

	return int(math.Round(score))
}

// effectiveSkinType prefers the analysed skin type over the declared one.
func effectiveSkinType(profile *skincare.UserProfile, analysis *skincare.SkinAnalysisResult) (skincare.SkinType, bool) {
	if analysis != nil && analysis.SkinTypeDetected.Valid() {
		return analysis.SkinTypeDetected, true
	}
	if profile != nil && profile.SkinType.Valid() {
		return profile.SkinType, true
	}
	return "", false
}

func preferenceCredit(product skincare.Product, profile *skincare.UserProfile) float64 {
	if profile == nil {
		return neutralCredit
	}
	prefs := profile.Preferences
	checks := []struct {
		enabled bool
		has     bool
	}{
		{prefs.PreferCrueltyFree, product.IsCrueltyFree},
		{prefs.PreferVegan, product.IsVegan},
		{prefs.PreferFragranceFree, product.IsFragranceFree},
		{prefs.PreferNatural, product.IsNatural},
	}
	enabled, hits := 0, 0
	for _, c := range checks {
		if !c.enabled {
			continue
		}
		enabled++
		if c.has {
			hits++
		}
	}
	if enabled == 0 {
		return neutralCredit
	}
	return float64(hits) / float64(enabled)
}

func budgetCredit(product skincare.Product, profile *skincare.UserProfile) float64 {
	if profile == nil {
		return neutralCredit
	}
	tier, ok := skincare.ParsePriceRange(profile.Preferences.BudgetRange)
	if !ok {
		return neutralCredit
	}
	if product.Price <= budgetCeilings[tier] {
		return 1
	}
	return overBudgetCredit
}

func matchedHeroIngredients(product skincare.Product, concern skincare.Concern) []string {
	heroes := heroIngredients[concern]
	if len(heroes) == 0 {
		return nil
	}
	var matched []string
	for _, ingredient := range product.KeyIngredients {
		lower := strings.ToLower(ingredient)
		for _, hero := range heroes {
			if strings.Contains(lower, strings.ToLower(hero)) {
				matched = append(matched, ingredient)
				break
			}
		}
	}
	return matched
}

// MatchReasons explains a product match in priority order, at most four lines.
func MatchReasons(product skincare.Product, concerns []skincare.Concern, profile *skincare.UserProfile) []string {
	concerns = skincare.UniqueConcerns(concerns)
	reasons := make([]string, 0, maxMatchReasons)

	var matched []string
	for _, c := range concerns {
		if skincare.ContainsConcern(product.TargetConcerns, c) {
			matched = append(matched, c.Label())
		}
	}
	if len(matched) > 0 {
		reasons = append(reasons, "Targets your concerns: "+strings.Join(matched, ", "))
	}

	for _, c := range concerns {
		if ingredients := matchedHeroIngredients(product, c); len(ingredients) > 0 {
			reasons = append(reasons, fmt.Sprintf("Contains %s (proven for %s)", strings.Join(ingredients, ", "), c.Label()))
		}
	}

	if profile != nil && profile.SkinType.Valid() && product.SuitsSkinType(profile.SkinType) {
		reasons = append(reasons, fmt.Sprintf("Suitable for %s skin", profile.SkinType))
	}

	if product.Rating >= highRating {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%s/5 from %s reviews)",
			strconv.FormatFloat(product.Rating, 'f', -1, 64),
			humanize.Comma(int64(product.ReviewCount)),
		))
	}

	if profile != nil {
		if profile.Preferences.PreferCrueltyFree && product.IsCrueltyFree {
			reasons = append(reasons, "Cruelty-free")
		}
		if profile.Preferences.PreferVegan && product.IsVegan {
			reasons = append(reasons, "Vegan")
		}
	}

	if len(reasons) > maxMatchReasons {
		reasons = reasons[:maxMatchReasons]
	}
	return reasons
}

// GetRecommendations ranks the whole catalog and returns the top limit entries.
func (e *Engine) GetRecommendations(concerns []skincare.Concern, profile *skincare.UserProfile, analysis *skincare.SkinAnalysisResult, limit int) []skincare.ProductRecommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ranked := rank(e.catalog.Products(), concerns, profile, analysis)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// GetRecommendationsByCategory ranks one category without truncation.
func (e *Engine) GetRecommendationsByCategory(category skincare.ProductCategory, concerns []skincare.Concern, profile *skincare.UserProfile, analysis *skincare.SkinAnalysisResult) []skincare.ProductRecommendation {
	products := e.catalog.Products()
	filtered := make([]skincare.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return rank(filtered, concerns, profile, analysis)
}

// GetRoutineRecommendations ranks each routine category.
func (e *Engine) GetRoutineRecommendations(concerns []skincare.Concern, profile *skincare.UserProfile, analysis *skincare.SkinAnalysisResult) map[skincare.ProductCategory][]skincare.ProductRecommendation {
	out := make(map[skincare.ProductCategory][]skincare.ProductRecommendation, len(RoutineCategories))
	for _, category := range RoutineCategories {
		out[category] = e.GetRecommendationsByCategory(category, concerns, profile, analysis)
	}
	return out
}

// rank scores products, sorts them stably by descending score and fills
// alternatives from the sorted order.
func rank(products []skincare.Product, concerns []skincare.Concern, profile *skincare.UserProfile, analysis *skincare.SkinAnalysisResult) []skincare.ProductRecommendation {
	concerns = skincare.UniqueConcerns(concerns)
	scored := make([]skincare.ProductRecommendation, 0, len(products))
	for _, p := range products {
		scored = append(scored, skincare.ProductRecommendation{
			Product:      p,
			MatchScore:   Score(p, concerns, profile, analysis),
			MatchReasons: MatchReasons(p, concerns, profile),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	for i := range scored {
		alts := make([]string, 0, maxAlternatives)
		for j := range scored {
			if len(alts) == maxAlternatives {
				break
			}
			if i == j || scored[j].Product.ID == scored[i].Product.ID {
				continue
			}
			if scored[j].Product.Category == scored[i].Product.Category {
				alts = append(alts, scored[j].Product.ID)
			}
		}
		scored[i].AlternativeIDs = alts
	}
	return scored
}

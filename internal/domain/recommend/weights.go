package recommend

import (
	"math"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// Term weights sum to 100, so a score never needs clamping.
const (
	weightConcernMatch    = 35.0
	weightSkinTypeMatch   = 20.0
	weightPreferenceMatch = 15.0
	weightBudgetMatch     = 10.0
	weightRating          = 10.0
	weightPopularity      = 5.0
	weightIngredientBonus = 5.0

	neutralCredit    = 0.5
	overBudgetCredit = 0.3
	highRating       = 4.5
	maxMatchReasons  = 4
	maxAlternatives  = 2

	// DefaultLimit is used when a caller passes a non-positive limit.
	DefaultLimit = 10
)

var budgetCeilings = map[skincare.PriceRange]float64{
	skincare.PriceBudget:   25,
	skincare.PriceMidRange: 60,
	skincare.PricePremium:  120,
	skincare.PriceLuxury:   math.Inf(1),
}

// heroIngredients lists the active ingredients known to address each concern.
// Matching is a case-insensitive substring test against key ingredients.
var heroIngredients = map[skincare.Concern][]string{
	skincare.ConcernAcne:              {"Salicylic Acid", "Benzoyl Peroxide", "Niacinamide", "Tea Tree", "BHA", "Zinc"},
	skincare.ConcernDarkSpots:         {"Vitamin C", "Azelaic Acid", "Alpha Arbutin", "Kojic Acid", "Niacinamide"},
	skincare.ConcernFineLines:         {"Retinol", "Peptides", "Hyaluronic Acid", "Vitamin C", "Bakuchiol"},
	skincare.ConcernWrinkles:          {"Retinol", "Retinal", "Peptides", "Collagen", "Vitamin C"},
	skincare.ConcernLargePores:        {"Niacinamide", "BHA", "Salicylic Acid", "Clay", "AHA"},
	skincare.ConcernUnevenTone:        {"Vitamin C", "AHA", "Niacinamide", "Azelaic Acid", "Licorice Root"},
	skincare.ConcernDullness:          {"Vitamin C", "AHA", "Glycolic Acid", "Lactic Acid", "Niacinamide"},
	skincare.ConcernDryness:           {"Hyaluronic Acid", "Ceramides", "Squalane", "Glycerin", "Shea Butter"},
	skincare.ConcernOiliness:          {"Niacinamide", "BHA", "Salicylic Acid", "Clay", "Zinc"},
	skincare.ConcernRedness:           {"Centella Asiatica", "Cica", "Aloe Vera", "Green Tea", "Chamomile", "Azelaic Acid"},
	skincare.ConcernSensitivity:       {"Ceramides", "Centella Asiatica", "Aloe Vera", "Oat Extract", "Allantoin"},
	skincare.ConcernDarkCircles:       {"Caffeine", "Vitamin K", "Retinol", "Peptides", "Niacinamide"},
	skincare.ConcernHyperpigmentation: {"Vitamin C", "Azelaic Acid", "Alpha Arbutin", "Tranexamic Acid", "AHA"},
	skincare.ConcernTexture:           {"AHA", "BHA", "Retinol", "Glycolic Acid", "Lactic Acid", "PHA"},
	skincare.ConcernBlackheads:        {"BHA", "Salicylic Acid", "Niacinamide", "Charcoal", "Clay"},
	skincare.ConcernWhiteheads:        {"BHA", "Salicylic Acid", "Benzoyl Peroxide", "Retinol"},
	skincare.ConcernSunDamage:         {"Vitamin C", "Retinol", "AHA", "Niacinamide", "SPF"},
	skincare.ConcernScarring:          {"Retinol", "Vitamin C", "AHA", "Centella Asiatica", "Rosehip Oil"},
	skincare.ConcernEczema:            {"Ceramides", "Colloidal Oatmeal", "Shea Butter", "Allantoin"},
	skincare.ConcernRosacea:           {"Azelaic Acid", "Centella Asiatica", "Green Tea", "Niacinamide"},
	skincare.ConcernMelasma:           {"Azelaic Acid", "Vitamin C", "Tranexamic Acid", "Alpha Arbutin", "Kojic Acid"},
}

// RoutineCategories are the categories covered by a routine recommendation.
var RoutineCategories = []skincare.ProductCategory{
	skincare.CategoryCleanser,
	skincare.CategoryToner,
	skincare.CategorySerum,
	skincare.CategoryMoisturizer,
	skincare.CategorySunscreen,
	skincare.CategoryEyeCream,
}

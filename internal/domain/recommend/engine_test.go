package recommend

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

type staticCatalog []skincare.Product

func (c staticCatalog) Products() []skincare.Product { return c }

var (
	niacinamideSerum = skincare.Product{
		ID:                "serum-niacinamide",
		Name:              "Niacinamide 10% + Zinc",
		Brand:             "Plainlab",
		Category:          skincare.CategorySerum,
		Price:             12,
		Rating:            4.6,
		ReviewCount:       12345,
		KeyIngredients:    []string{"Niacinamide 10%", "Zinc PCA"},
		TargetConcerns:    []skincare.Concern{skincare.ConcernAcne, skincare.ConcernOiliness, skincare.ConcernLargePores},
		SuitableSkinTypes: []skincare.SkinType{skincare.SkinTypeOily, skincare.SkinTypeCombination, skincare.SkinTypeNormal},
		IsCrueltyFree:     true,
		IsVegan:           true,
		IsFragranceFree:   true,
	}
	vitaminCSerum = skincare.Product{
		ID:                "serum-vitamin-c",
		Name:              "Bright C Serum",
		Brand:             "Lumen",
		Category:          skincare.CategorySerum,
		Price:             80,
		Rating:            4.2,
		ReviewCount:       999,
		KeyIngredients:    []string{"Vitamin C (L-Ascorbic Acid)", "Ferulic Acid"},
		TargetConcerns:    []skincare.Concern{skincare.ConcernDarkSpots, skincare.ConcernDullness},
		SuitableSkinTypes: []skincare.SkinType{skincare.SkinTypeNormal, skincare.SkinTypeDry, skincare.SkinTypeCombination},
		IsCrueltyFree:     true,
	}
	retinolSerum = skincare.Product{
		ID:                "serum-retinol",
		Name:              "Night Renewal",
		Brand:             "Maison Vale",
		Category:          skincare.CategorySerum,
		Price:             150,
		Rating:            4.5,
		ReviewCount:       0,
		KeyIngredients:    []string{"Retinol 0.5%", "Squalane"},
		TargetConcerns:    []skincare.Concern{skincare.ConcernFineLines, skincare.ConcernWrinkles},
		SuitableSkinTypes: []skincare.SkinType{skincare.SkinTypeNormal, skincare.SkinTypeDry},
		IsNatural:         true,
		IsCrueltyFree:     true,
		IsVegan:           true,
		IsFragranceFree:   true,
	}
	ceramideCream = skincare.Product{
		ID:                "moisturizer-ceramide",
		Name:              "Barrier Cream",
		Brand:             "Dermi",
		Category:          skincare.CategoryMoisturizer,
		Price:             18,
		Rating:            4.7,
		ReviewCount:       50000,
		KeyIngredients:    []string{"Ceramides", "Hyaluronic Acid"},
		TargetConcerns:    []skincare.Concern{skincare.ConcernDryness, skincare.ConcernSensitivity},
		SuitableSkinTypes: []skincare.SkinType{skincare.SkinTypeDry, skincare.SkinTypeNormal, skincare.SkinTypeSensitive},
		IsCrueltyFree:     true,
		IsFragranceFree:   true,
	}
	bhaCleanser = skincare.Product{
		ID:                "cleanser-bha",
		Name:              "Clarifying Wash",
		Brand:             "Plainlab",
		Category:          skincare.CategoryCleanser,
		Price:             10,
		Rating:            4.0,
		ReviewCount:       120,
		KeyIngredients:    []string{"Salicylic Acid 2%"},
		TargetConcerns:    []skincare.Concern{skincare.ConcernAcne, skincare.ConcernBlackheads},
		SuitableSkinTypes: []skincare.SkinType{skincare.SkinTypeOily},
	}
)

func testCatalog() staticCatalog {
	return staticCatalog{niacinamideSerum, vitaminCSerum, retinolSerum, ceramideCream, bhaCleanser}
}

func TestScoreFullMatch(t *testing.T) {
	profile := &skincare.UserProfile{
		SkinType: skincare.SkinTypeOily,
		Preferences: skincare.UserPreferences{
			BudgetRange:       "budget",
			PreferCrueltyFree: true,
			PreferVegan:       true,
		},
	}

	// 35 + 20 + 15 + 10 + 9.2 + 4.09 + 5
	got := Score(niacinamideSerum, []skincare.Concern{skincare.ConcernAcne, skincare.ConcernOiliness}, profile, nil)
	require.Equal(t, 98, got)
}

func TestScoreWithoutConcerns(t *testing.T) {
	// 7.5 neutral preference + 5 neutral budget + 9.2 rating + 4.09 popularity
	require.Equal(t, 26, Score(niacinamideSerum, nil, nil, nil))
	require.Equal(t, 26, Score(niacinamideSerum, []skincare.Concern{}, nil, nil))

	profile := &skincare.UserProfile{SkinType: skincare.SkinTypeOily}
	require.Equal(t, 46, Score(niacinamideSerum, nil, profile, nil))
}

func TestScoreBudgetTiers(t *testing.T) {
	withBudget := func(tier string) *skincare.UserProfile {
		return &skincare.UserProfile{
			SkinType:    skincare.SkinTypeNormal,
			Preferences: skincare.UserPreferences{BudgetRange: tier},
		}
	}

	// 20 skin type + 7.5 preference + budget term + 9 rating
	require.Equal(t, 47, Score(retinolSerum, nil, withBudget("luxury"), nil))
	require.Equal(t, 40, Score(retinolSerum, nil, withBudget("premium"), nil))
	require.Equal(t, 42, Score(retinolSerum, nil, withBudget(""), nil))
	require.Equal(t, 42, Score(retinolSerum, nil, withBudget("gold-tier"), nil))
}

func TestScorePrefersAnalysedSkinType(t *testing.T) {
	profile := &skincare.UserProfile{SkinType: skincare.SkinTypeDry}
	analysis := &skincare.SkinAnalysisResult{SkinTypeDetected: skincare.SkinTypeOily}

	withAnalysis := Score(bhaCleanser, nil, profile, analysis)
	withoutAnalysis := Score(bhaCleanser, nil, profile, nil)

	require.Equal(t, 20, withAnalysis-withoutAnalysis)
}

func TestScorePreferenceHitRate(t *testing.T) {
	profile := &skincare.UserProfile{
		Preferences: skincare.UserPreferences{PreferVegan: true, PreferNatural: true},
	}
	// vitamin C serum satisfies neither enabled preference.
	none := Score(vitaminCSerum, nil, profile, nil)
	neutral := Score(vitaminCSerum, nil, &skincare.UserProfile{}, nil)
	require.Equal(t, 8, neutral-none)
}

func TestScoreIgnoresDuplicateConcerns(t *testing.T) {
	once := Score(vitaminCSerum, []skincare.Concern{skincare.ConcernAcne, skincare.ConcernDullness}, nil, nil)
	twice := Score(vitaminCSerum, []skincare.Concern{skincare.ConcernAcne, skincare.ConcernDullness, skincare.ConcernDullness}, nil, nil)
	require.Equal(t, once, twice)
}

func TestMatchReasons(t *testing.T) {
	profile := &skincare.UserProfile{
		SkinType:    skincare.SkinTypeOily,
		Preferences: skincare.UserPreferences{PreferCrueltyFree: true, PreferVegan: true},
	}

	got := MatchReasons(niacinamideSerum, []skincare.Concern{skincare.ConcernAcne, skincare.ConcernOiliness}, profile)
	require.Equal(t, []string{
		"Targets your concerns: acne, oiliness",
		"Contains Niacinamide 10%, Zinc PCA (proven for acne)",
		"Contains Niacinamide 10%, Zinc PCA (proven for oiliness)",
		"Suitable for oily skin",
	}, got)

	got = MatchReasons(niacinamideSerum, nil, &skincare.UserProfile{
		Preferences: skincare.UserPreferences{PreferCrueltyFree: true, PreferVegan: true},
	})
	require.Equal(t, []string{"Highly rated (4.6/5 from 12,345 reviews)", "Cruelty-free", "Vegan"}, got)

	require.Empty(t, MatchReasons(bhaCleanser, []skincare.Concern{skincare.ConcernDryness}, nil))
}

func TestGetRecommendationsRanksAndLinksAlternatives(t *testing.T) {
	engine := NewEngine(testCatalog())
	concerns := []skincare.Concern{skincare.ConcernAcne}

	recs := engine.GetRecommendations(concerns, nil, nil, 0)
	require.Len(t, recs, 5)
	for i := 1; i < len(recs); i++ {
		require.GreaterOrEqual(t, recs[i-1].MatchScore, recs[i].MatchScore)
	}
	require.Equal(t, "serum-niacinamide", recs[0].Product.ID)

	byID := map[string]skincare.ProductRecommendation{}
	for _, r := range recs {
		byID[r.Product.ID] = r
	}
	require.ElementsMatch(t, []string{"serum-vitamin-c", "serum-retinol"}, byID["serum-niacinamide"].AlternativeIDs)
	require.Empty(t, byID["moisturizer-ceramide"].AlternativeIDs)

	top := engine.GetRecommendations(concerns, nil, nil, 2)
	require.Len(t, top, 2)
	require.Equal(t, recs[:2], top)
}

func TestGetRecommendationsKeepsCatalogOrderOnTies(t *testing.T) {
	a := skincare.Product{ID: "a", Category: skincare.CategoryToner}
	b := skincare.Product{ID: "b", Category: skincare.CategoryToner}
	c := skincare.Product{ID: "c", Category: skincare.CategoryToner}
	engine := NewEngine(staticCatalog{a, b, c})

	recs := engine.GetRecommendations(nil, nil, nil, 10)

	require.Equal(t, "a", recs[0].Product.ID)
	require.Equal(t, "b", recs[1].Product.ID)
	require.Equal(t, "c", recs[2].Product.ID)
	require.Equal(t, []string{"b", "c"}, recs[0].AlternativeIDs)
	require.Equal(t, []string{"a", "c"}, recs[1].AlternativeIDs)
}

func TestGetRecommendationsByCategory(t *testing.T) {
	engine := NewEngine(testCatalog())
	profile := &skincare.UserProfile{SkinType: skincare.SkinTypeDry}

	recs := engine.GetRecommendationsByCategory(skincare.CategorySerum, []skincare.Concern{skincare.ConcernFineLines}, profile, nil)

	require.Len(t, recs, 3)
	for i, r := range recs {
		require.Equal(t, skincare.CategorySerum, r.Product.Category)
		if i > 0 {
			require.GreaterOrEqual(t, recs[i-1].MatchScore, r.MatchScore)
		}
	}
	require.Equal(t, "serum-retinol", recs[0].Product.ID)
	require.Empty(t, engine.GetRecommendationsByCategory(skincare.CategoryLipCare, nil, nil, nil))
}

func TestGetRoutineRecommendations(t *testing.T) {
	engine := NewEngine(testCatalog())

	got := engine.GetRoutineRecommendations([]skincare.Concern{skincare.ConcernDryness}, nil, nil)

	require.Len(t, got, len(RoutineCategories))
	require.Len(t, got[skincare.CategorySerum], 3)
	require.Len(t, got[skincare.CategoryMoisturizer], 1)
	require.Empty(t, got[skincare.CategorySunscreen])
}

func TestProperty_RankingInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)
	engine := NewEngine(testCatalog())

	pick := func(idx []int) []skincare.Concern {
		out := make([]skincare.Concern, 0, len(idx))
		for _, i := range idx {
			out = append(out, skincare.AllConcerns[i%len(skincare.AllConcerns)])
		}
		return out
	}

	properties.Property("scores are bounded and repeatable", prop.ForAll(
		func(idx []int, withProfile bool) bool {
			concerns := pick(idx)
			var profile *skincare.UserProfile
			if withProfile {
				profile = &skincare.UserProfile{
					SkinType:    skincare.SkinTypeNormal,
					Preferences: skincare.UserPreferences{BudgetRange: "mid-range", PreferFragranceFree: true},
				}
			}
			for _, p := range testCatalog() {
				first := Score(p, concerns, profile, nil)
				if first < 0 || first > 100 || first != Score(p, concerns, profile, nil) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.IntRange(0, 100)),
		gen.Bool(),
	))

	properties.Property("output is sorted and alternatives stay in category", prop.ForAll(
		func(idx []int) bool {
			recs := engine.GetRecommendations(pick(idx), nil, nil, 10)
			category := map[string]skincare.ProductCategory{}
			for _, p := range testCatalog() {
				category[p.ID] = p.Category
			}
			for i, r := range recs {
				if i > 0 && recs[i-1].MatchScore < r.MatchScore {
					return false
				}
				if len(r.AlternativeIDs) > maxAlternatives || len(r.MatchReasons) > maxMatchReasons {
					return false
				}
				for _, alt := range r.AlternativeIDs {
					if alt == r.Product.ID || category[alt] != r.Product.Category {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(3, gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

package analysis

import "github.com/yanqian/glow-advisor/internal/domain/skincare"

type concernSet map[skincare.Concern]struct{}

func newConcernSet(concerns []skincare.DetectedConcern) concernSet {
	set := make(concernSet, len(concerns))
	for _, c := range concerns {
		set[c.Type] = struct{}{}
	}
	return set
}

func (s concernSet) any(kinds ...skincare.Concern) bool {
	for _, k := range kinds {
		if _, ok := s[k]; ok {
			return true
		}
	}
	return false
}

// BuildRoutine assembles the morning, evening and weekly templates.
// It is deterministic in its inputs.
func BuildRoutine(concerns []skincare.DetectedConcern, skinType skincare.SkinType) skincare.RoutineSuggestion {
	set := newConcernSet(concerns)
	return skincare.RoutineSuggestion{
		Morning: morningSteps(set, skinType),
		Evening: eveningSteps(set, skinType),
		Weekly:  weeklyTreatments(set),
	}
}

func morningSteps(set concernSet, skinType skincare.SkinType) []skincare.RoutineStep {
	cleanser := "Gentle gel cleanser"
	moisturizer := "Balanced lotion moisturizer"
	switch skinType {
	case skincare.SkinTypeOily:
		cleanser = "Gentle foaming cleanser"
		moisturizer = "Lightweight gel moisturizer"
	case skincare.SkinTypeDry:
		cleanser = "Cream or oil-based cleanser"
		moisturizer = "Rich cream moisturizer with ceramides"
	}

	serum := "Niacinamide serum (5-10%)"
	switch {
	case set.any(skincare.ConcernDarkSpots, skincare.ConcernDullness):
		serum = "Vitamin C serum (15-20%)"
	case set.any(skincare.ConcernDryness):
		serum = "Hyaluronic acid serum"
	}

	return []skincare.RoutineStep{
		{
			Order:       1,
			Category:    skincare.CategoryCleanser,
			Description: cleanser,
			Duration:    "60 seconds",
			Tips:        "Use lukewarm water. Massage in circular motions.",
		},
		{
			Order:       2,
			Category:    skincare.CategoryToner,
			Description: "Hydrating toner or essence",
			Duration:    "30 seconds",
			Tips:        "Pat into skin with hands rather than cotton pads to avoid waste.",
		},
		{
			Order:       3,
			Category:    skincare.CategorySerum,
			Description: serum,
			Duration:    "30 seconds",
			Tips:        "Apply to slightly damp skin for better absorption.",
		},
		{
			Order:       4,
			Category:    skincare.CategoryMoisturizer,
			Description: moisturizer,
			Duration:    "30 seconds",
			Tips:        "Don't forget your neck and decolletage!",
		},
		{
			Order:       5,
			Category:    skincare.CategorySunscreen,
			Description: "Broad-spectrum SPF 50+ sunscreen",
			Duration:    "30 seconds",
			Tips:        "Apply generously, most people use far too little. Reapply every 2 hours if outdoors.",
		},
	}
}

func eveningSteps(set concernSet, skinType skincare.SkinType) []skincare.RoutineStep {
	secondCleanse := "Gentle gel or cream cleanser (second cleanse)"
	if skinType == skincare.SkinTypeOily {
		secondCleanse = "Gentle foaming cleanser (second cleanse)"
	}

	treatment := "Peptide serum"
	switch {
	case set.any(skincare.ConcernFineLines, skincare.ConcernWrinkles):
		treatment = "Retinol serum (start with 0.3%, work up)"
	case set.any(skincare.ConcernAcne):
		treatment = "Salicylic acid or benzoyl peroxide treatment"
	case set.any(skincare.ConcernDarkSpots):
		treatment = "Azelaic acid or alpha arbutin serum"
	}

	nightCream := "Night moisturizer"
	if skinType == skincare.SkinTypeDry {
		nightCream = "Rich night cream or sleeping mask"
	}

	return []skincare.RoutineStep{
		{
			Order:       1,
			Category:    skincare.CategoryCleanser,
			Description: "Oil cleanser or micellar water (first cleanse)",
			Duration:    "60 seconds",
			Tips:        "This removes makeup and SPF. Essential even if you don't wear makeup.",
		},
		{
			Order:       2,
			Category:    skincare.CategoryCleanser,
			Description: secondCleanse,
			Duration:    "60 seconds",
			Tips:        "Double cleansing ensures your skin is truly clean.",
		},
		{
			Order:       3,
			Category:    skincare.CategoryToner,
			Description: "Hydrating toner",
			Duration:    "30 seconds",
			Tips:        "Preps skin to absorb your treatment products.",
		},
		{
			Order:       4,
			Category:    skincare.CategorySerum,
			Description: treatment,
			Duration:    "30 seconds",
			Tips:        "If using retinol, start 2-3x per week and build up tolerance.",
		},
		{
			Order:       5,
			Category:    skincare.CategoryEyeCream,
			Description: "Hydrating eye cream",
			Duration:    "15 seconds",
			Tips:        "Use your ring finger, it applies the least pressure.",
			IsOptional:  true,
		},
		{
			Order:       6,
			Category:    skincare.CategoryMoisturizer,
			Description: nightCream,
			Duration:    "30 seconds",
			Tips:        "Night is when your skin repairs, don't skip this step.",
		},
	}
}

func weeklyTreatments(set concernSet) []skincare.WeeklyTreatment {
	exfoliant := "AHA (glycolic/lactic acid) exfoliant for cell turnover and glow"
	if set.any(skincare.ConcernAcne, skincare.ConcernOiliness) {
		exfoliant = "BHA (salicylic acid) exfoliant to unclog pores"
	}

	mask := "Brightening or hydrating mask for overall skin health"
	switch {
	case set.any(skincare.ConcernDryness):
		mask = "Hydrating sheet mask or overnight sleeping mask"
	case set.any(skincare.ConcernOiliness):
		mask = "Clay mask to absorb excess oil and minimize pores"
	}

	return []skincare.WeeklyTreatment{
		{Name: "Chemical Exfoliation", Frequency: "2-3x per week", Description: exfoliant},
		{Name: "Face Mask", Frequency: "1-2x per week", Description: mask},
		{Name: "Facial Massage", Frequency: "3-5x per week", Description: "Gua sha or facial roller to boost circulation and reduce puffiness."},
	}
}

package skincare

import "strings"

// ProductCategory is the fixed catalog taxonomy.
type ProductCategory string

const (
	CategoryCleanser      ProductCategory = "cleanser"
	CategoryToner         ProductCategory = "toner"
	CategorySerum         ProductCategory = "serum"
	CategoryMoisturizer   ProductCategory = "moisturizer"
	CategorySunscreen     ProductCategory = "sunscreen"
	CategoryEyeCream      ProductCategory = "eye-cream"
	CategoryMask          ProductCategory = "mask"
	CategoryExfoliant     ProductCategory = "exfoliant"
	CategoryOil           ProductCategory = "oil"
	CategorySpotTreatment ProductCategory = "spot-treatment"
	CategoryEssence       ProductCategory = "essence"
	CategoryMist          ProductCategory = "mist"
	CategoryLipCare       ProductCategory = "lip-care"
	CategoryRetinol       ProductCategory = "retinol"
	CategoryVitaminC      ProductCategory = "vitamin-c"
)

// ParseCategory normalizes raw input into a known category.
func ParseCategory(raw string) (ProductCategory, bool) {
	c := ProductCategory(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CategoryCleanser, CategoryToner, CategorySerum, CategoryMoisturizer, CategorySunscreen,
		CategoryEyeCream, CategoryMask, CategoryExfoliant, CategoryOil, CategorySpotTreatment,
		CategoryEssence, CategoryMist, CategoryLipCare, CategoryRetinol, CategoryVitaminC:
		return c, true
	}
	return "", false
}

// Product is a read-only catalog entry.
type Product struct {
	ID                string          `json:"id" yaml:"id"`
	Name              string          `json:"name" yaml:"name"`
	Brand             string          `json:"brand" yaml:"brand"`
	Category          ProductCategory `json:"category" yaml:"category"`
	Description       string          `json:"description" yaml:"description"`
	Price             float64         `json:"price" yaml:"price"`
	Currency          string          `json:"currency" yaml:"currency"`
	PriceRange        PriceRange      `json:"priceRange" yaml:"priceRange"`
	Rating            float64         `json:"rating" yaml:"rating"`
	ReviewCount       int             `json:"reviewCount" yaml:"reviewCount"`
	Ingredients       []string        `json:"ingredients" yaml:"ingredients"`
	KeyIngredients    []string        `json:"keyIngredients" yaml:"keyIngredients"`
	TargetConcerns    []Concern       `json:"targetConcerns" yaml:"targetConcerns"`
	SuitableSkinTypes []SkinType      `json:"suitableSkinTypes" yaml:"suitableSkinTypes"`
	IsNatural         bool            `json:"isNatural" yaml:"isNatural"`
	IsCrueltyFree     bool            `json:"isCrueltyFree" yaml:"isCrueltyFree"`
	IsVegan           bool            `json:"isVegan" yaml:"isVegan"`
	IsFragranceFree   bool            `json:"isFragranceFree" yaml:"isFragranceFree"`
	HowToUse          string          `json:"howToUse" yaml:"howToUse"`
	Size              string          `json:"size" yaml:"size"`
}

// SuitsSkinType reports whether the product lists t.
func (p Product) SuitsSkinType(t SkinType) bool {
	for _, st := range p.SuitableSkinTypes {
		if st == t {
			return true
		}
	}
	return false
}

// TierForPrice derives the price tier from a numeric price.
func TierForPrice(price float64) PriceRange {
	switch {
	case price <= 25:
		return PriceBudget
	case price <= 60:
		return PriceMidRange
	case price <= 120:
		return PricePremium
	default:
		return PriceLuxury
	}
}

// ProductRecommendation is a scored catalog entry.
type ProductRecommendation struct {
	Product        Product  `json:"product"`
	MatchScore     int      `json:"matchScore"`
	MatchReasons   []string `json:"matchReasons"`
	AlternativeIDs []string `json:"alternativeIds"`
}

package skincare

import (
	"strings"
	"time"
)

// SkinType is the self-reported or detected skin type.
type SkinType string

const (
	SkinTypeOily        SkinType = "oily"
	SkinTypeDry         SkinType = "dry"
	SkinTypeCombination SkinType = "combination"
	SkinTypeNormal      SkinType = "normal"
	SkinTypeSensitive   SkinType = "sensitive"
)

// Valid reports whether t is a known skin type.
func (t SkinType) Valid() bool {
	switch t {
	case SkinTypeOily, SkinTypeDry, SkinTypeCombination, SkinTypeNormal, SkinTypeSensitive:
		return true
	}
	return false
}

// SkinTone buckets complexion from fair to deep.
type SkinTone string

const (
	SkinToneFair   SkinTone = "fair"
	SkinToneLight  SkinTone = "light"
	SkinToneMedium SkinTone = "medium"
	SkinToneOlive  SkinTone = "olive"
	SkinToneTan    SkinTone = "tan"
	SkinToneDark   SkinTone = "dark"
	SkinToneDeep   SkinTone = "deep"
)

// Valid reports whether t is a known tone.
func (t SkinTone) Valid() bool {
	switch t {
	case SkinToneFair, SkinToneLight, SkinToneMedium, SkinToneOlive, SkinToneTan, SkinToneDark, SkinToneDeep:
		return true
	}
	return false
}

// AgeRange is the quiz age bracket.
type AgeRange string

const (
	Age18To22 AgeRange = "18-22"
	Age23To27 AgeRange = "23-27"
	Age28To32 AgeRange = "28-32"
	Age33To35 AgeRange = "33-35"
	Age36Plus AgeRange = "36+"
)

// Valid reports whether a is a known bracket.
func (a AgeRange) Valid() bool {
	switch a {
	case Age18To22, Age23To27, Age28To32, Age33To35, Age36Plus:
		return true
	}
	return false
}

// Gender as collected by the quiz.
type Gender string

const (
	GenderFemale         Gender = "female"
	GenderMale           Gender = "male"
	GenderNonBinary      Gender = "non-binary"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// Valid reports whether g is a known option.
func (g Gender) Valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderNonBinary, GenderPreferNotToSay:
		return true
	}
	return false
}

// PriceRange is a budget tier shared by products and preferences.
type PriceRange string

const (
	PriceBudget   PriceRange = "budget"
	PriceMidRange PriceRange = "mid-range"
	PricePremium  PriceRange = "premium"
	PriceLuxury   PriceRange = "luxury"
)

// ParsePriceRange returns ok=false for anything outside the four tiers.
func ParsePriceRange(raw string) (PriceRange, bool) {
	p := PriceRange(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PriceBudget, PriceMidRange, PricePremium, PriceLuxury:
		return p, true
	}
	return "", false
}

// UserPreferences captures budget and formulation preferences.
// BudgetRange stays a raw string: unknown tiers mean "no preference".
type UserPreferences struct {
	BudgetRange         string   `json:"budgetRange"`
	PreferNatural       bool     `json:"preferNatural"`
	PreferFragranceFree bool     `json:"preferFragranceFree"`
	PreferCrueltyFree   bool     `json:"preferCrueltyFree"`
	PreferVegan         bool     `json:"preferVegan"`
	StylePreferences    []string `json:"stylePreferences"`
	SkinGoals           []string `json:"skinGoals"`
}

// UserProfile is the long-lived quiz result.
type UserProfile struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Age         AgeRange        `json:"age"`
	Gender      Gender          `json:"gender"`
	SkinType    SkinType        `json:"skinType"`
	SkinTone    SkinTone        `json:"skinTone"`
	Concerns    []Concern       `json:"concerns"`
	Allergies   []string        `json:"allergies"`
	Preferences UserPreferences `json:"preferences"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

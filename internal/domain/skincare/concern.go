package skincare

import "strings"

// Concern identifies a skin concern a user reports or an analysis detects.
type Concern string

const (
	ConcernAcne              Concern = "acne"
	ConcernDarkSpots         Concern = "dark-spots"
	ConcernFineLines         Concern = "fine-lines"
	ConcernWrinkles          Concern = "wrinkles"
	ConcernLargePores        Concern = "large-pores"
	ConcernUnevenTone        Concern = "uneven-tone"
	ConcernDullness          Concern = "dullness"
	ConcernDryness           Concern = "dryness"
	ConcernOiliness          Concern = "oiliness"
	ConcernRedness           Concern = "redness"
	ConcernSensitivity       Concern = "sensitivity"
	ConcernDarkCircles       Concern = "dark-circles"
	ConcernHyperpigmentation Concern = "hyperpigmentation"
	ConcernTexture           Concern = "texture"
	ConcernBlackheads        Concern = "blackheads"
	ConcernWhiteheads        Concern = "whiteheads"
	ConcernSunDamage         Concern = "sun-damage"
	ConcernScarring          Concern = "scarring"
	ConcernEczema            Concern = "eczema"
	ConcernRosacea           Concern = "rosacea"
	ConcernMelasma           Concern = "melasma"
)

// AllConcerns lists every concern kind in canonical order.
var AllConcerns = []Concern{
	ConcernAcne, ConcernDarkSpots, ConcernFineLines, ConcernWrinkles, ConcernLargePores,
	ConcernUnevenTone, ConcernDullness, ConcernDryness, ConcernOiliness, ConcernRedness,
	ConcernSensitivity, ConcernDarkCircles, ConcernHyperpigmentation, ConcernTexture,
	ConcernBlackheads, ConcernWhiteheads, ConcernSunDamage, ConcernScarring, ConcernEczema,
	ConcernRosacea, ConcernMelasma,
}

var concernIndex = func() map[Concern]struct{} {
	idx := make(map[Concern]struct{}, len(AllConcerns))
	for _, c := range AllConcerns {
		idx[c] = struct{}{}
	}
	return idx
}()

// ParseConcern normalizes raw input into a known concern.
func ParseConcern(raw string) (Concern, bool) {
	c := Concern(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := concernIndex[c]
	return c, ok
}

// Valid reports whether c is a known concern kind.
func (c Concern) Valid() bool {
	_, ok := concernIndex[c]
	return ok
}

// Label renders the concern for sentences, e.g. "dark spots".
func (c Concern) Label() string {
	return strings.ReplaceAll(string(c), "-", " ")
}

// ContainsConcern reports whether c is present in list.
func ContainsConcern(list []Concern, c Concern) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}

// UniqueConcerns drops duplicates while keeping first-seen order.
func UniqueConcerns(list []Concern) []Concern {
	out := make([]Concern, 0, len(list))
	seen := make(map[Concern]struct{}, len(list))
	for _, c := range list {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

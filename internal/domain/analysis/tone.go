package analysis

import "github.com/yanqian/glow-advisor/internal/domain/skincare"

// ToneProfile maps a lightness band to a tone.
type ToneProfile struct {
	Tone        skincare.SkinTone `json:"tone"`
	MinLight    float64           `json:"minLightness"`
	MaxLight    float64           `json:"maxLightness"`
	Undertone   string            `json:"undertone"`
	Fitzpatrick int               `json:"fitzpatrick"`
}

// ToneProfiles spans fair to deep; bands are [Min, Max) except fair, which includes 1.0.
var ToneProfiles = []ToneProfile{
	{Tone: skincare.SkinToneFair, MinLight: 0.78, MaxLight: 1.0, Undertone: "cool", Fitzpatrick: 1},
	{Tone: skincare.SkinToneLight, MinLight: 0.68, MaxLight: 0.78, Undertone: "neutral", Fitzpatrick: 2},
	{Tone: skincare.SkinToneMedium, MinLight: 0.55, MaxLight: 0.68, Undertone: "warm", Fitzpatrick: 3},
	{Tone: skincare.SkinToneOlive, MinLight: 0.45, MaxLight: 0.55, Undertone: "warm", Fitzpatrick: 3},
	{Tone: skincare.SkinToneTan, MinLight: 0.35, MaxLight: 0.45, Undertone: "warm", Fitzpatrick: 4},
	{Tone: skincare.SkinToneDark, MinLight: 0.22, MaxLight: 0.35, Undertone: "warm", Fitzpatrick: 5},
	{Tone: skincare.SkinToneDeep, MinLight: 0.0, MaxLight: 0.22, Undertone: "neutral", Fitzpatrick: 6},
}

const defaultToneIndex = 2

// DetectSkinTone looks up the band containing lightness, defaulting to medium.
func DetectSkinTone(lightness float64) ToneProfile {
	for i, p := range ToneProfiles {
		if lightness >= p.MinLight && (lightness < p.MaxLight || (i == 0 && lightness <= p.MaxLight)) {
			return p
		}
	}
	return ToneProfiles[defaultToneIndex]
}

// referenceLightness returns the lower bound of the declared tone's band.
func referenceLightness(tone skincare.SkinTone) (float64, bool) {
	for _, p := range ToneProfiles {
		if p.Tone == tone {
			return p.MinLight, true
		}
	}
	return 0, false
}

// DetectSkinType derives a skin type from metrics alone.
func DetectSkinType(m skincare.SkinMetrics) skincare.SkinType {
	switch {
	case m.Sensitivity > 70:
		return skincare.SkinTypeSensitive
	case m.Oiliness > 65 && m.Hydration < 45:
		return skincare.SkinTypeCombination
	case m.Oiliness > 60:
		return skincare.SkinTypeOily
	case m.Hydration < 40:
		return skincare.SkinTypeDry
	}
	return skincare.SkinTypeNormal
}

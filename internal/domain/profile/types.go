package profile

import (
	"context"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// Quiz defaults applied to unanswered steps.
const (
	DefaultName        = "Beautiful"
	DefaultAge         = skincare.Age23To27
	DefaultGender      = skincare.GenderPreferNotToSay
	DefaultSkinType    = skincare.SkinTypeNormal
	DefaultSkinTone    = skincare.SkinToneMedium
	DefaultBudgetRange = skincare.PriceMidRange

	// DefaultHistoryLimit caps the stored analysis history per profile.
	DefaultHistoryLimit = 50
)

// QuizAnswers is the collected onboarding quiz. Empty fields take defaults.
type QuizAnswers struct {
	Name                string   `json:"name"`
	Age                 string   `json:"age"`
	Gender              string   `json:"gender"`
	SkinType            string   `json:"skinType"`
	SkinTone            string   `json:"skinTone"`
	Concerns            []string `json:"concerns"`
	Allergies           []string `json:"allergies"`
	BudgetRange         string   `json:"budgetRange"`
	PreferNatural       bool     `json:"preferNatural"`
	PreferFragranceFree bool     `json:"preferFragranceFree"`
	PreferCrueltyFree   bool     `json:"preferCrueltyFree"`
	PreferVegan         bool     `json:"preferVegan"`
	StylePreferences    []string `json:"stylePreferences"`
	SkinGoals           []string `json:"skinGoals"`
}

// Update is a partial profile edit; nil fields are left untouched.
type Update struct {
	Name        *string                   `json:"name"`
	Age         *string                   `json:"age"`
	Gender      *string                   `json:"gender"`
	SkinType    *string                   `json:"skinType"`
	SkinTone    *string                   `json:"skinTone"`
	Concerns    *[]string                 `json:"concerns"`
	Allergies   *[]string                 `json:"allergies"`
	Preferences *skincare.UserPreferences `json:"preferences"`
}

// Repository persists profiles and the state hung off them.
type Repository interface {
	CreateProfile(ctx context.Context, p skincare.UserProfile) error
	GetProfile(ctx context.Context, id string) (skincare.UserProfile, bool, error)
	UpdateProfile(ctx context.Context, p skincare.UserProfile) error

	// AppendAnalysis prepends result and trims history to limit entries.
	AppendAnalysis(ctx context.Context, profileID string, result skincare.SkinAnalysisResult, limit int) error
	ListAnalyses(ctx context.Context, profileID string, limit int) ([]skincare.SkinAnalysisResult, error)
	GetAnalysis(ctx context.Context, profileID, analysisID string) (skincare.SkinAnalysisResult, bool, error)

	// SaveRoutine stores routine as the only active routine of its profile.
	SaveRoutine(ctx context.Context, routine skincare.SavedRoutine) error
	ListRoutines(ctx context.Context, profileID string) ([]skincare.SavedRoutine, error)
	ActivateRoutine(ctx context.Context, profileID, routineID string) (skincare.SavedRoutine, bool, error)
}

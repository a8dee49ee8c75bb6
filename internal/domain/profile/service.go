package profile

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
	"github.com/yanqian/glow-advisor/pkg/util"
)

// Config tunes profile state retention.
type Config struct {
	HistoryLimit int
}

// Service owns the caller-side state around the engines: profiles,
// analysis history and saved routines.
type Service interface {
	FinalizeQuiz(ctx context.Context, answers QuizAnswers) (skincare.UserProfile, error)
	Get(ctx context.Context, id string) (skincare.UserProfile, error)
	Update(ctx context.Context, id string, update Update) (skincare.UserProfile, error)

	RecordAnalysis(ctx context.Context, profileID string, result skincare.SkinAnalysisResult) error
	History(ctx context.Context, profileID string, limit int) ([]skincare.SkinAnalysisResult, error)
	Analysis(ctx context.Context, profileID, analysisID string) (skincare.SkinAnalysisResult, error)
	LatestAnalysis(ctx context.Context, profileID string) (skincare.SkinAnalysisResult, bool, error)

	SaveRoutine(ctx context.Context, profileID, name string, routine skincare.RoutineSuggestion) (skincare.SavedRoutine, error)
	Routines(ctx context.Context, profileID string) ([]skincare.SavedRoutine, error)
	ActivateRoutine(ctx context.Context, profileID, routineID string) (skincare.SavedRoutine, error)
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires the profile domain.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "profile.service"),
		now:    util.NowUTC,
		newID:  uuid.NewString,
	}
}

func (s *service) FinalizeQuiz(ctx context.Context, answers QuizAnswers) (skincare.UserProfile, error) {
	p := skincare.UserProfile{
		ID:       s.newID(),
		Name:     DefaultName,
		Age:      DefaultAge,
		Gender:   DefaultGender,
		SkinType: DefaultSkinType,
		SkinTone: DefaultSkinTone,
		Preferences: skincare.UserPreferences{
			BudgetRange:         string(DefaultBudgetRange),
			PreferNatural:       answers.PreferNatural,
			PreferFragranceFree: answers.PreferFragranceFree,
			PreferCrueltyFree:   answers.PreferCrueltyFree,
			PreferVegan:         answers.PreferVegan,
			StylePreferences:    cleanList(answers.StylePreferences),
			SkinGoals:           cleanList(answers.SkinGoals),
		},
	}
	if name := strings.TrimSpace(answers.Name); name != "" {
		p.Name = name
	}
	if strings.TrimSpace(answers.BudgetRange) != "" {
		p.Preferences.BudgetRange = strings.TrimSpace(answers.BudgetRange)
	}
	if err := applyEnums(&p, optional(answers.Age), optional(answers.Gender), optional(answers.SkinType), optional(answers.SkinTone)); err != nil {
		return skincare.UserProfile{}, err
	}
	concerns, err := parseConcerns(answers.Concerns)
	if err != nil {
		return skincare.UserProfile{}, err
	}
	p.Concerns = concerns
	p.Allergies = cleanList(answers.Allergies)

	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return skincare.UserProfile{}, apperrors.Wrap("storage_error", "failed to create profile", err)
	}
	s.logger.Info("profile created", "profile_id", p.ID, "skin_type", p.SkinType, "concerns", len(p.Concerns))
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (skincare.UserProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return skincare.UserProfile{}, apperrors.Wrap("invalid_input", "profile id is required", nil)
	}
	p, ok, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return skincare.UserProfile{}, apperrors.Wrap("storage_error", "failed to load profile", err)
	}
	if !ok {
		return skincare.UserProfile{}, apperrors.Wrap("not_found", "profile not found", nil)
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, update Update) (skincare.UserProfile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return skincare.UserProfile{}, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return skincare.UserProfile{}, apperrors.Wrap("invalid_input", "name cannot be empty", nil)
		}
		p.Name = name
	}
	if err := applyEnums(&p, update.Age, update.Gender, update.SkinType, update.SkinTone); err != nil {
		return skincare.UserProfile{}, err
	}
	if update.Concerns != nil {
		concerns, err := parseConcerns(*update.Concerns)
		if err != nil {
			return skincare.UserProfile{}, err
		}
		p.Concerns = concerns
	}
	if update.Allergies != nil {
		p.Allergies = cleanList(*update.Allergies)
	}
	if update.Preferences != nil {
		prefs := *update.Preferences
		prefs.BudgetRange = strings.TrimSpace(prefs.BudgetRange)
		prefs.StylePreferences = cleanList(prefs.StylePreferences)
		prefs.SkinGoals = cleanList(prefs.SkinGoals)
		p.Preferences = prefs
	}

	p.UpdatedAt = s.now()
	if !p.UpdatedAt.After(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt.Add(time.Nanosecond)
	}
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return skincare.UserProfile{}, apperrors.Wrap("storage_error", "failed to update profile", err)
	}
	return p, nil
}

func (s *service) RecordAnalysis(ctx context.Context, profileID string, result skincare.SkinAnalysisResult) error {
	if _, err := s.Get(ctx, profileID); err != nil {
		return err
	}
	if err := s.repo.AppendAnalysis(ctx, profileID, result, s.cfg.HistoryLimit); err != nil {
		return apperrors.Wrap("storage_error", "failed to record analysis", err)
	}
	s.logger.Debug("analysis recorded", "profile_id", profileID, "analysis_id", result.ID)
	return nil
}

func (s *service) History(ctx context.Context, profileID string, limit int) ([]skincare.SkinAnalysisResult, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	limit = util.ClampInt(limit, 1, s.cfg.HistoryLimit)
	items, err := s.repo.ListAnalyses(ctx, profileID, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list analyses", err)
	}
	return items, nil
}

func (s *service) Analysis(ctx context.Context, profileID, analysisID string) (skincare.SkinAnalysisResult, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return skincare.SkinAnalysisResult{}, err
	}
	result, ok, err := s.repo.GetAnalysis(ctx, profileID, strings.TrimSpace(analysisID))
	if err != nil {
		return skincare.SkinAnalysisResult{}, apperrors.Wrap("storage_error", "failed to load analysis", err)
	}
	if !ok {
		return skincare.SkinAnalysisResult{}, apperrors.Wrap("not_found", "analysis not found", nil)
	}
	return result, nil
}

func (s *service) LatestAnalysis(ctx context.Context, profileID string) (skincare.SkinAnalysisResult, bool, error) {
	items, err := s.History(ctx, profileID, 1)
	if err != nil {
		return skincare.SkinAnalysisResult{}, false, err
	}
	if len(items) == 0 {
		return skincare.SkinAnalysisResult{}, false, nil
	}
	return items[0], true, nil
}

func (s *service) SaveRoutine(ctx context.Context, profileID, name string, routine skincare.RoutineSuggestion) (skincare.SavedRoutine, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return skincare.SavedRoutine{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return skincare.SavedRoutine{}, apperrors.Wrap("invalid_input", "routine name cannot be empty", nil)
	}
	if len(routine.Morning) == 0 && len(routine.Evening) == 0 {
		return skincare.SavedRoutine{}, apperrors.Wrap("invalid_input", "routine needs at least one step", nil)
	}
	saved := skincare.SavedRoutine{
		ID:        s.newID(),
		ProfileID: profileID,
		Name:      name,
		CreatedAt: s.now(),
		Routine:   routine,
		IsActive:  true,
	}
	if err := s.repo.SaveRoutine(ctx, saved); err != nil {
		return skincare.SavedRoutine{}, apperrors.Wrap("storage_error", "failed to save routine", err)
	}
	s.logger.Info("routine saved", "profile_id", profileID, "routine_id", saved.ID)
	return saved, nil
}

func (s *service) Routines(ctx context.Context, profileID string) ([]skincare.SavedRoutine, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListRoutines(ctx, profileID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list routines", err)
	}
	return items, nil
}

func (s *service) ActivateRoutine(ctx context.Context, profileID, routineID string) (skincare.SavedRoutine, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return skincare.SavedRoutine{}, err
	}
	routine, ok, err := s.repo.ActivateRoutine(ctx, profileID, strings.TrimSpace(routineID))
	if err != nil {
		return skincare.SavedRoutine{}, apperrors.Wrap("storage_error", "failed to activate routine", err)
	}
	if !ok {
		return skincare.SavedRoutine{}, apperrors.Wrap("not_found", "routine not found", nil)
	}
	return routine, nil
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// applyEnums validates and sets the enum fields that are present.
func applyEnums(p *skincare.UserProfile, age, gender, skinType, skinTone *string) error {
	if age != nil {
		v := skincare.AgeRange(strings.TrimSpace(*age))
		if !v.Valid() {
			return apperrors.Wrap("invalid_input", "unknown age range: "+*age, nil)
		}
		p.Age = v
	}
	if gender != nil {
		v := skincare.Gender(strings.ToLower(strings.TrimSpace(*gender)))
		if !v.Valid() {
			return apperrors.Wrap("invalid_input", "unknown gender: "+*gender, nil)
		}
		p.Gender = v
	}
	if skinType != nil {
		v := skincare.SkinType(strings.ToLower(strings.TrimSpace(*skinType)))
		if !v.Valid() {
			return apperrors.Wrap("invalid_input", "unknown skin type: "+*skinType, nil)
		}
		p.SkinType = v
	}
	if skinTone != nil {
		v := skincare.SkinTone(strings.ToLower(strings.TrimSpace(*skinTone)))
		if !v.Valid() {
			return apperrors.Wrap("invalid_input", "unknown skin tone: "+*skinTone, nil)
		}
		p.SkinTone = v
	}
	return nil
}

func parseConcerns(raw []string) ([]skincare.Concern, error) {
	out := make([]skincare.Concern, 0, len(raw))
	for _, r := range raw {
		c, ok := skincare.ParseConcern(r)
		if !ok {
			return nil, apperrors.Wrap("invalid_input", "unknown skin concern: "+r, nil)
		}
		out = append(out, c)
	}
	return skincare.UniqueConcerns(out), nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

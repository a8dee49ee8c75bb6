package profilerepo

import (
	"context"
	"errors"
	"sync"

	"github.com/yanqian/glow-advisor/internal/domain/profile"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

var errUnknownProfile = errors.New("unknown profile")

// MemoryRepository keeps profiles, history and routines in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]skincare.UserProfile
	history  map[string][]skincare.SkinAnalysisResult
	routines map[string][]skincare.SavedRoutine
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: make(map[string]skincare.UserProfile),
		history:  make(map[string][]skincare.SkinAnalysisResult),
		routines: make(map[string][]skincare.SavedRoutine),
	}
}

// CreateProfile stores a new profile.
func (r *MemoryRepository) CreateProfile(_ context.Context, p skincare.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.ID]; exists {
		return errors.New("profile already exists")
	}
	r.profiles[p.ID] = p
	return nil
}

// GetProfile fetches by id.
func (r *MemoryRepository) GetProfile(_ context.Context, id string) (skincare.UserProfile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok, nil
}

// UpdateProfile replaces an existing profile.
func (r *MemoryRepository) UpdateProfile(_ context.Context, p skincare.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return errUnknownProfile
	}
	r.profiles[p.ID] = p
	return nil
}

// AppendAnalysis prepends and trims to limit.
func (r *MemoryRepository) AppendAnalysis(_ context.Context, profileID string, result skincare.SkinAnalysisResult, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profileID]; !ok {
		return errUnknownProfile
	}
	items := append([]skincare.SkinAnalysisResult{result}, r.history[profileID]...)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	r.history[profileID] = items
	return nil
}

// ListAnalyses returns up to limit entries, most recent first.
func (r *MemoryRepository) ListAnalyses(_ context.Context, profileID string, limit int) ([]skincare.SkinAnalysisResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.history[profileID]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]skincare.SkinAnalysisResult, len(items))
	copy(out, items)
	return out, nil
}

// GetAnalysis finds one history entry.
func (r *MemoryRepository) GetAnalysis(_ context.Context, profileID, analysisID string) (skincare.SkinAnalysisResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.history[profileID] {
		if item.ID == analysisID {
			return item, true, nil
		}
	}
	return skincare.SkinAnalysisResult{}, false, nil
}

// SaveRoutine prepends the routine and makes it the only active one.
func (r *MemoryRepository) SaveRoutine(_ context.Context, routine skincare.SavedRoutine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[routine.ProfileID]; !ok {
		return errUnknownProfile
	}
	existing := r.routines[routine.ProfileID]
	items := make([]skincare.SavedRoutine, 0, len(existing)+1)
	routine.IsActive = true
	items = append(items, routine)
	for _, item := range existing {
		item.IsActive = false
		items = append(items, item)
	}
	r.routines[routine.ProfileID] = items
	return nil
}

// ListRoutines returns saved routines, newest first.
func (r *MemoryRepository) ListRoutines(_ context.Context, profileID string) ([]skincare.SavedRoutine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.routines[profileID]
	out := make([]skincare.SavedRoutine, len(items))
	copy(out, items)
	return out, nil
}

// ActivateRoutine flips the active flag onto routineID.
func (r *MemoryRepository) ActivateRoutine(_ context.Context, profileID, routineID string) (skincare.SavedRoutine, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.routines[profileID]
	found := -1
	for i := range items {
		if items[i].ID == routineID {
			found = i
		}
	}
	if found < 0 {
		return skincare.SavedRoutine{}, false, nil
	}
	for i := range items {
		items[i].IsActive = i == found
	}
	return items[found], true, nil
}

var _ profile.Repository = (*MemoryRepository)(nil)

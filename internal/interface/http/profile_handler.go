package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/glow-advisor/internal/domain/profile"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// CreateProfile finalizes the onboarding quiz.
func (h *Handler) CreateProfile(c *gin.Context) {
	var answers profile.QuizAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	p, err := h.profiles.FinalizeQuiz(c.Request.Context(), answers)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetProfile returns one profile.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile applies a partial edit.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var update profile.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	p, err := h.profiles.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListAnalyses returns the profile's history, newest first.
func (h *Handler) ListAnalyses(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	items, err := h.profiles.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if items == nil {
		items = []skincare.SkinAnalysisResult{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAnalysis returns one history entry.
func (h *Handler) GetAnalysis(c *gin.Context) {
	result, err := h.profiles.Analysis(c.Request.Context(), c.Param("id"), c.Param("analysisId"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

type saveRoutinePayload struct {
	Name       string                      `json:"name"`
	Routine    *skincare.RoutineSuggestion `json:"routine"`
	AnalysisID string                      `json:"analysisId"`
}

// SaveRoutine stores a routine, either given inline or copied from an analysis.
func (h *Handler) SaveRoutine(c *gin.Context) {
	var payload saveRoutinePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	ctx := c.Request.Context()
	profileID := c.Param("id")

	var routine skincare.RoutineSuggestion
	switch {
	case payload.Routine != nil:
		routine = *payload.Routine
	case payload.AnalysisID != "":
		result, err := h.profiles.Analysis(ctx, profileID, payload.AnalysisID)
		if err != nil {
			abortWithError(c, asHTTPError(err))
			return
		}
		routine = result.Routine
	default:
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "routine or analysisId is required", nil))
		return
	}

	saved, err := h.profiles.SaveRoutine(ctx, profileID, payload.Name, routine)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListRoutines returns saved routines, newest first.
func (h *Handler) ListRoutines(c *gin.Context) {
	items, err := h.profiles.Routines(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if items == nil {
		items = []skincare.SavedRoutine{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ActivateRoutine marks one saved routine as active.
func (h *Handler) ActivateRoutine(c *gin.Context) {
	routine, err := h.profiles.ActivateRoutine(c.Request.Context(), c.Param("id"), c.Param("routineId"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, routine)
}

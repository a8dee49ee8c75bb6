package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

type analysisPayload struct {
	ImageRef  string `json:"imageRef"`
	ProfileID string `json:"profileId"`
}

// Analyze runs a synchronous skin analysis. The image is either uploaded as
// multipart "image" or referenced by an existing imageRef.
func (h *Handler) Analyze(c *gin.Context) {
	input, httpErr := h.readAnalysisInput(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	ctx := c.Request.Context()

	var p *skincare.UserProfile
	if input.ProfileID != "" {
		loaded, err := h.profiles.Get(ctx, input.ProfileID)
		if err != nil {
			abortWithError(c, asHTTPError(err))
			return
		}
		p = &loaded
	}

	result, err := h.analyzer.AnalyzeSkin(ctx, input.ImageRef, p)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if p != nil {
		if err := h.profiles.RecordAnalysis(ctx, p.ID, result); err != nil {
			h.logger.Warn("record analysis history failed", "profile_id", p.ID, "analysis_id", result.ID, "error", err)
		}
	}
	c.JSON(http.StatusOK, result)
}

// SubmitAnalysisJob queues an analysis and returns immediately.
func (h *Handler) SubmitAnalysisJob(c *gin.Context) {
	input, httpErr := h.readAnalysisInput(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	job, err := h.jobs.Submit(c.Request.Context(), analysisjob.SubmitRequest{
		ImageRef:  input.ImageRef,
		ProfileID: input.ProfileID,
	})
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// GetAnalysisJob polls a queued analysis.
func (h *Handler) GetAnalysisJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) readAnalysisInput(c *gin.Context) (analysisPayload, *HTTPError) {
	var input analysisPayload
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&input); err != nil {
			return input, badRequest(err)
		}
		input.ImageRef = strings.TrimSpace(input.ImageRef)
		input.ProfileID = strings.TrimSpace(input.ProfileID)
		return input, nil
	}

	input.ProfileID = strings.TrimSpace(c.PostForm("profileId"))
	input.ImageRef = strings.TrimSpace(c.PostForm("imageRef"))
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if input.ImageRef == "" {
			return input, NewHTTPError(http.StatusBadRequest, "invalid_request", "image or imageRef is required", err)
		}
		return input, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return input, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err)
	}
	defer file.Close()
	data, httpErr := readLimited(file, h.selfies.MaxBytes())
	if httpErr != nil {
		return input, httpErr
	}
	obj, err := h.selfies.Store(c.Request.Context(), data)
	if err != nil {
		return input, asHTTPError(err)
	}
	input.ImageRef = obj.Key
	return input, nil
}

// readLimited reads at most limit+1 bytes so an oversized upload is
// rejected without buffering all of it.
func readLimited(r io.Reader, limit int64) ([]byte, *HTTPError) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err)
	}
	if int64(len(data)) > limit {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid_input", fmt.Sprintf("image exceeds %d bytes", limit), nil)
	}
	return data, nil
}

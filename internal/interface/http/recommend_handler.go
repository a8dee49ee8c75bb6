package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/glow-advisor/internal/domain/recommend"
)

// Recommend ranks the catalog for the caller.
func (h *Handler) Recommend(c *gin.Context) {
	req, err := bindRecommendRequest(c)
	if err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	resp, err := h.recs.Recommend(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecommendByCategory ranks one catalog category without truncation.
func (h *Handler) RecommendByCategory(c *gin.Context) {
	req, err := bindRecommendRequest(c)
	if err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	resp, err := h.recs.RecommendByCategory(c.Request.Context(), c.Param("category"), req)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecommendRoutine ranks every core routine category.
func (h *Handler) RecommendRoutine(c *gin.Context) {
	req, err := bindRecommendRequest(c)
	if err != nil {
		abortWithError(c, badRequest(err))
		return
	}
	resp, err := h.recs.RecommendRoutine(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bindRecommendRequest accepts an empty body as a request without context.
func bindRecommendRequest(c *gin.Context) (recommend.Request, error) {
	var req recommend.Request
	if c.Request.ContentLength == 0 {
		return req, nil
	}
	err := c.ShouldBindJSON(&req)
	return req, err
}

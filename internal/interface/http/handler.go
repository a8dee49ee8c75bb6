package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/glow-advisor/internal/domain/analysis"
	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
	"github.com/yanqian/glow-advisor/internal/domain/profile"
	"github.com/yanqian/glow-advisor/internal/domain/recommend"
	"github.com/yanqian/glow-advisor/internal/domain/selfie"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// ProductCatalog exposes the read-only catalog to clients.
type ProductCatalog interface {
	Products() []skincare.Product
	Product(id string) (skincare.Product, bool)
}

// ReadinessProbe reports whether the analysis model finished warming up.
type ReadinessProbe interface {
	Ready() bool
}

// BreakerStatus reports the inference circuit breaker state: closed,
// half-open or open.
type BreakerStatus interface {
	State() string
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	profiles  profile.Service
	analyzer  analysis.Service
	jobs      analysisjob.Service
	recs      recommend.Service
	selfies   selfie.Service
	catalog   ProductCatalog
	readiness ReadinessProbe
	breaker   BreakerStatus
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	profiles profile.Service,
	analyzer analysis.Service,
	jobs analysisjob.Service,
	recs recommend.Service,
	selfies selfie.Service,
	catalog ProductCatalog,
	readiness ReadinessProbe,
	breaker BreakerStatus,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		profiles:  profiles,
		analyzer:  analyzer,
		jobs:      jobs,
		recs:      recs,
		selfies:   selfies,
		catalog:   catalog,
		readiness: readiness,
		breaker:   breaker,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports model readiness and the inference breaker. An open
// breaker means analyses are being shed, so the instance reports degraded.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK
	if h.breaker != nil {
		state := h.breaker.State()
		body["breaker"] = state
		if state == "open" {
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	if h.readiness != nil && !h.readiness.Ready() {
		body["status"] = "warming_up"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}

// ListProducts returns the catalog, optionally filtered by category.
func (h *Handler) ListProducts(c *gin.Context) {
	items := h.catalog.Products()
	if raw := c.Query("category"); raw != "" {
		category, ok := skincare.ParseCategory(raw)
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "unknown category "+strconv.Quote(raw), nil))
			return
		}
		filtered := make([]skincare.Product, 0, len(items))
		for _, p := range items {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetProduct returns one catalog entry.
func (h *Handler) GetProduct(c *gin.Context) {
	p, ok := h.catalog.Product(c.Param("id"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "product not found", nil))
		return
	}
	c.JSON(http.StatusOK, p)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

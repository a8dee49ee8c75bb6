package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/glow-advisor/internal/infra/config"
	"github.com/yanqian/glow-advisor/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Storage.MaxImageBytes
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.POST("/profiles", handler.CreateProfile)
		api.GET("/profiles/:id", handler.GetProfile)
		api.PATCH("/profiles/:id", handler.UpdateProfile)
		api.GET("/profiles/:id/analyses", handler.ListAnalyses)
		api.GET("/profiles/:id/analyses/:analysisId", handler.GetAnalysis)
		api.POST("/profiles/:id/routines", handler.SaveRoutine)
		api.GET("/profiles/:id/routines", handler.ListRoutines)
		api.POST("/profiles/:id/routines/:routineId/activate", handler.ActivateRoutine)

		api.POST("/analyses", handler.Analyze)
		api.POST("/analyses/jobs", handler.SubmitAnalysisJob)
		api.GET("/analyses/jobs/:id", handler.GetAnalysisJob)

		api.POST("/recommendations", handler.Recommend)
		api.POST("/recommendations/categories/:category", handler.RecommendByCategory)
		api.POST("/recommendations/routine", handler.RecommendRoutine)

		api.GET("/products", handler.ListProducts)
		api.GET("/products/:id", handler.GetProduct)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), latency)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}

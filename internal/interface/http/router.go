package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linwei/smartliving/internal/domain/auth"
	"github.com/linwei/smartliving/internal/infra/config"
	"github.com/linwei/smartliving/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(
	cfg *config.Config,
	handler *Handler,
	gardenHandler *GardenHandler,
	communityHandler *CommunityHandler,
	wsHandler *TelemetryWSHandler,
	authSvc auth.Service,
	reg *metrics.Registry,
	logger *slog.Logger,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger, reg),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})))
	router.GET("/ws/telemetry", wsHandler.Serve)

	// Token verification runs for the whole API so guest-readable routes see
	// the caller identity when a token is sent; writes additionally require one.
	api := router.Group("/api/v1", authMiddleware(authSvc))
	{
		api.GET("/environment", handler.Environment)
		api.GET("/environment/last", handler.LastReading)
		api.GET("/environment/trending", handler.TrendingCities)
		api.GET("/photos/city-background", handler.CityBackground)
		api.GET("/telemetry", handler.Telemetry)

		api.POST("/assistant/chat", handler.Chat)
		api.POST("/assistant/outfit-advice", handler.OutfitAdvice)
		api.POST("/assistant/plant-care-advice", handler.PlantCareAdvice)
		api.POST("/assistant/care-guide", handler.CareGuide)

		api.GET("/plants", gardenHandler.PlantCatalog)
		api.GET("/plants/featured", gardenHandler.FeaturedPlant)
		api.GET("/plants/:id/care-guide", gardenHandler.PlantCareGuide)

		api.GET("/forum/posts", communityHandler.Posts)
		api.GET("/forum/posts/:id/comments", communityHandler.Comments)
		api.GET("/forum/search", communityHandler.SearchPosts)
		api.POST("/feedback", communityHandler.SubmitFeedback)

		authed := api.Group("", requireAuth())
		{
			authed.GET("/garden", gardenHandler.Garden)
			authed.POST("/garden", gardenHandler.AddToGarden)
			authed.DELETE("/garden/:id", gardenHandler.RemoveFromGarden)
			authed.GET("/garden/:id/records", gardenHandler.CareLog)
			authed.POST("/garden/:id/records", gardenHandler.LogCare)

			authed.GET("/devices", gardenHandler.ListDevices)
			authed.POST("/devices", gardenHandler.RegisterDevice)
			authed.DELETE("/devices/:id", gardenHandler.RemoveDevice)

			authed.POST("/forum/posts", communityHandler.CreatePost)
			authed.POST("/forum/posts/:id/like", communityHandler.ToggleLike)
			authed.POST("/forum/posts/:id/comments", communityHandler.AddComment)

			authed.GET("/feedback", communityHandler.RecentFeedback)
			authed.POST("/uploads/images", communityHandler.UploadImage)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger, reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		if reg != nil {
			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			reg.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		}
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "latency_ms", latency.Milliseconds())
	}
}

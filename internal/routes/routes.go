// Package routes defines HTTP routes for the paper repository service.
package routes

import (
	"net/http"

	"github.com/GunarsK-portfolio/paper-repository/docs"
	"github.com/GunarsK-portfolio/paper-repository/internal/config"
	"github.com/GunarsK-portfolio/paper-repository/internal/handlers"
	"github.com/GunarsK-portfolio/paper-repository/internal/metrics"
	"github.com/GunarsK-portfolio/paper-repository/internal/middleware"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Paper     *handlers.PaperHandler
	Admin     *handlers.AdminHandler
	Search    *handlers.SearchHandler
	Reference *handlers.ReferenceHandler
	Health    *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, jwtService service.JWTService, cfg *config.Config, metricsCollector *metrics.Metrics, log *logrus.Logger) {
	router.Use(middleware.RequestLogger(log), metricsCollector.Middleware())

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(metricsCollector.Handler()))
	// Uploaded PDFs
	router.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	authenticate := middleware.Authenticate(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/profile", authenticate, h.Auth.GetProfile)
		auth.PUT("/profile", authenticate, h.Auth.UpdateProfile)
	}

	papers := api.Group("/papers")
	{
		papers.GET("", h.Paper.List)
		papers.GET("/:id", optionalAuth, h.Paper.Get)
		papers.POST("", authenticate, middleware.RequireAuthor(), h.Paper.Create)
		papers.PUT("/:id", authenticate, h.Paper.Update)
		papers.DELETE("/:id", authenticate, h.Paper.Delete)
	}

	api.GET("/search", h.Search.Search)
	api.GET("/departments", h.Reference.Departments)
	api.GET("/faculties", h.Reference.Faculties)
	api.GET("/categories", h.Reference.Categories)
	api.GET("/stats", h.Reference.Stats)

	admin := api.Group("/admin", authenticate, middleware.RequireAdmin())
	{
		admin.GET("/papers", h.Admin.ListPapers)
		admin.PUT("/papers/:id/status", h.Admin.SetStatus)
		admin.GET("/papers/:id/history", h.Admin.History)
		admin.GET("/pending-count", h.Admin.PendingCount)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, http.StatusNotFound, "Not found")
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/cache"
	"github.com/GunarsK-portfolio/paper-repository/internal/database"
	"github.com/GunarsK-portfolio/paper-repository/internal/handlers"
	"github.com/GunarsK-portfolio/paper-repository/internal/jobs"
	"github.com/GunarsK-portfolio/paper-repository/internal/metrics"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/GunarsK-portfolio/paper-repository/internal/routes"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/GunarsK-portfolio/paper-repository/internal/storage"
	redisclient "github.com/GunarsK-portfolio/paper-repository/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	cachePrefix     = "paper-repository:"
)

func init() {
	RootCmd.AddCommand(&ServeCommand)
}

var ServeCommand = cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Run the HTTP API and the orphan file janitor until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	// Initialize database
	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("failed to close database")
		}
	}()

	if cfg.MigrateOnStart {
		if err := migrateUp(); err != nil {
			return err
		}
	}

	// Initialize Redis, degrading to no caching when it is unreachable
	var redisClient *redis.Client
	appCache := cache.NewNoop()
	if cfg.RedisEnabled() {
		redisClient, err = redisclient.NewClient(cfg)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, caching disabled")
		} else {
			defer redisClient.Close()
			appCache = cache.NewRedisCache(redisClient, cachePrefix, cfg.CacheTTL)
		}
	}

	m := metrics.New()

	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	paperRepo := repository.NewPaperRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, cfg.AllowAdminRegistration, m, log)
	paperService := service.NewPaperService(paperRepo, store, appCache, m, log, cfg.MaxFileSize)
	moderationService := service.NewModerationService(paperRepo, appCache, m, log)
	searchService := service.NewSearchService(paperRepo)
	referenceService := service.NewReferenceService(referenceRepo, paperRepo, appCache, log, cfg.FoundingYear)

	janitor := jobs.NewJanitor(paperRepo, store, cfg.OrphanGracePeriod, m, log)
	if err := janitor.Start(cfg.JanitorSchedule); err != nil {
		return err
	}

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	routes.Setup(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		Paper:     handlers.NewPaperHandler(paperService, cfg.MaxFileSize, log),
		Admin:     handlers.NewAdminHandler(moderationService, log),
		Search:    handlers.NewSearchHandler(searchService, log),
		Reference: handlers.NewReferenceHandler(referenceService, log),
		Health:    handlers.NewHealthHandler(db, redisClient, log),
	}, jwtService, cfg, m, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("starting paper repository service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		janitor.Stop(context.Background())
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	janitor.Stop(shutdownCtx)
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_analytics/internal/auth"
	"task_analytics/internal/config"
	"task_analytics/internal/database"
	"task_analytics/internal/handlers"
	"task_analytics/internal/middleware"
	"task_analytics/internal/migrations"
	"task_analytics/internal/redis"
	"task_analytics/internal/repository"
	"task_analytics/internal/services"
	"task_analytics/pkg/supabase"
	"task_analytics/pkg/translator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{TranslationFolder: os.Getenv("TRANSLATION_FOLDER")})

	cfg := config.Load()
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	db, err := database.Open(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := migrations.RunMigrations(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Both stay nil interfaces when Redis is not configured.
	var identityCache auth.IdentityCache
	var redisPinger handlers.Pinger
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("failed to close redis connection", zap.Error(err))
			}
		}()
		identityCache = redisClient
		redisPinger = redisClient
	} else {
		logger.Info("REDIS_URL not set, identity cache disabled")
	}

	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.AuthTimeout)
	verifier := auth.NewCachedVerifier(auth.NewSupabaseVerifier(supabaseClient), identityCache, cfg.IdentityCacheTTL)

	store := repository.NewStore(db)
	userService := services.NewUserService(store, nil)
	taskService := services.NewTaskService(store, nil)
	projectService := services.NewProjectService(store, nil)
	tagService := services.NewTagService(store, nil)
	activityService := services.NewActivityService(store, nil)
	goalService := services.NewGoalService(store, nil)
	preferenceService := services.NewPreferenceService(store, nil)
	analyticsService := services.NewAnalyticsService(store, loc, nil)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.GinZapMiddleware(logger),
		middleware.LanguageMiddleware(),
	)
	handlers.RegisterRoutes(r, handlers.Handlers{
		Health:    handlers.NewHealthHandler(store, redisPinger),
		Tasks:     handlers.NewTaskHandler(taskService, userService, analyticsService),
		Projects:  handlers.NewProjectHandler(projectService, userService),
		Tags:      handlers.NewTagHandler(tagService, userService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, activityService, preferenceService),
		Goals:     handlers.NewGoalHandler(goalService, analyticsService),
		Profile:   handlers.NewProfileHandler(userService, verifier),
	}, verifier)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studyquest/gamification/internal/api"
	"github.com/studyquest/gamification/internal/cache"
	"github.com/studyquest/gamification/internal/metrics"
	"github.com/studyquest/gamification/internal/middleware"
	"github.com/studyquest/gamification/internal/repository"
	"github.com/studyquest/gamification/internal/service"
	"github.com/studyquest/gamification/pkg/logger"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	documentCache := cache.New(ctx, cfg.Redis)
	defer documentCache.Close()

	loc, err := cfg.Location()
	if err != nil {
		zapLogger.Fatal("Invalid streak configuration", zap.Error(err))
	}
	streak, err := service.NewStreakCalculator(service.SameDayPolicy(cfg.Streak.SameDayPolicy), loc)
	if err != nil {
		zapLogger.Fatal("Invalid streak configuration", zap.Error(err))
	}

	evaluator := service.NewRequirementEvaluator(repo, streak)
	achievementService := service.NewAchievementService(repo, repo, evaluator)
	bossService := service.NewBossService(repo)
	relay := service.NewSyncRelay(repo, documentCache, service.SyncRelayConfig{
		Interval:    cfg.Sync.Interval,
		BatchSize:   cfg.Sync.BatchSize,
		MaxAttempts: cfg.Sync.MaxAttempts,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)
	middleware.RegisterHTTPMetrics(registry)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Monitor())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	authz := middleware.NewAuthorization(cfg.Server.AdminToken)

	a := router.Group("/api/v1")
	api.NewAchievementRoutes(a, achievementService)
	api.NewBossRoutes(a, bossService, authz)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		zapLogger.Info("Starting cache sync relay", zap.Duration("interval", cfg.Sync.Interval))
		return relay.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/review-desk-api/api/swagger"
	"github.com/noah-isme/review-desk-api/internal/authz"
	"github.com/noah-isme/review-desk-api/internal/handler"
	internalmiddleware "github.com/noah-isme/review-desk-api/internal/middleware"
	"github.com/noah-isme/review-desk-api/internal/repository"
	"github.com/noah-isme/review-desk-api/internal/service"
	"github.com/noah-isme/review-desk-api/pkg/cache"
	"github.com/noah-isme/review-desk-api/pkg/config"
	"github.com/noah-isme/review-desk-api/pkg/database"
	"github.com/noah-isme/review-desk-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/review-desk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/review-desk-api/pkg/middleware/requestid"
	"github.com/noah-isme/review-desk-api/pkg/token"
)

// @title Review Desk API
// @version 1.0.0
// @description Students submit work items; teachers review them.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Migrations.Enabled {
		if err := database.Migrate(db, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	checks := map[string]handler.Pinger{"postgres": db}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, account cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			checks["redis"] = redisPinger{redisClient}
		}
	}

	tokens, err := token.NewManager(token.Config{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	if err != nil {
		logr.Fatal("failed to init token manager", zap.Error(err))
	}
	if cfg.Admin.Key == "" {
		logr.Warn("ADMIN_KEY is empty, admin routes are disabled")
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()
	gate := authz.NewGate(cfg.Admin.Key)
	accountRepo := repository.NewAccountRepository(db)
	workItemRepo := repository.NewWorkItemRepository(db)
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, cfg.Cache.Namespace), metricsSvc, cfg.Cache.TTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(accountRepo, tokens, cacheSvc, metricsSvc, validate, logr)
	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		WorkItem: handler.NewWorkItemHandler(service.NewWorkItemService(workItemRepo, accountRepo, gate, metricsSvc, validate, logr)),
		Account:  handler.NewAccountHandler(service.NewAccountService(accountRepo, gate, logr)),
		Export:   handler.NewExportHandler(service.NewExportService(workItemRepo, accountRepo, gate, logr, nil, nil)),
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, cfg.Metrics.Path, "/health", "/ready"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, authSvc, gate)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusdeals/campus-deals-api/internal/di"
	"github.com/campusdeals/campus-deals-api/internal/middleware"
	"github.com/campusdeals/campus-deals-api/internal/service"
	"github.com/campusdeals/campus-deals-api/pkg/config"
	"github.com/campusdeals/campus-deals-api/pkg/database"
	"github.com/campusdeals/campus-deals-api/pkg/logger"
	"github.com/campusdeals/campus-deals-api/pkg/redis"
	"github.com/campusdeals/campus-deals-api/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  10 * time.Second,
		MaxRetries:      5,
		RetryInterval:   2 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()
	log.Info("Connected to PostgreSQL", zap.String("host", cfg.Database.Host))

	// Redis backs rate limiting and idempotency; the API still serves
	// without it, so a failed connection is a warning, not a fatal.
	var redisClient *redis.Client
	redisClient, err = redis.NewClient(ctx, &redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		MaxRetries:   3,
	})
	if err != nil {
		log.Warn("Redis unavailable, rate limiting and idempotency disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:    db,
		Redis: redisClient,
		ServiceConfig: &service.AuthServiceConfig{
			JWTSecret:          cfg.JWT.Secret,
			Issuer:             cfg.JWT.Issuer,
			AccessTokenExpiry:  cfg.JWT.AccessTokenTTL,
			RefreshTokenExpiry: cfg.JWT.RefreshTokenTTL,
		},
	})

	router := setupRouter(cfg, container, redisClient)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func setupRouter(cfg *config.Config, c *di.Container, redisClient *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger.Get()))
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	// A nil *redis.Client must stay a nil interface so the middleware
	// fail-open checks keep working.
	var store middleware.RedisStore
	if redisClient != nil {
		store = redisClient
	}

	credLimit := middleware.RateLimit(store, middleware.DefaultRateLimitConfig())
	requireAuth := middleware.RequireAuth(c.AuthService)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", credLimit, c.AuthHandler.Signup)
		auth.POST("/login", credLimit, c.AuthHandler.Login)
		auth.POST("/refresh", c.AuthHandler.Refresh)
		auth.POST("/logout", c.AuthHandler.Logout)
		auth.GET("/me", requireAuth, c.AuthHandler.Me)
		auth.PUT("/me", requireAuth, c.AuthHandler.UpdateMe)
	}

	// The admin listing applies its conditional gate inside the handler:
	// open while no admin exists, admin-token only once one does.
	router.GET("/admins", c.AdminHandler.List)
	router.POST("/admins/bootstrap", credLimit, c.AdminHandler.Bootstrap)
	router.POST("/admin-login", credLimit, c.AdminHandler.Login)

	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/orders", requireAuth)
		orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Redis:     store,
			KeyPrefix: "idempotency:orders:",
		}), c.OrderHandler.Place)
		orders.GET("", c.OrderHandler.List)
	}

	return router
}

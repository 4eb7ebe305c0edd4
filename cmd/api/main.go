package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"medai-lite/internal/agent"
	"medai-lite/internal/config"
	"medai-lite/internal/db"
	apihttp "medai-lite/internal/http"
	"medai-lite/internal/repository"
	"medai-lite/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	auditRepo := repository.NewPgAuditRepository(pool)

	rateWindow := time.Duration(cfg.AssessRateWindowSeconds) * time.Second
	var (
		limiter    service.RateLimiter
		tokenStore service.RefreshTokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, rateWindow, cfg.AssessRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewMemoryRateLimiter(rateWindow, cfg.AssessRateMax)
	}

	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	aggregator, err := agent.NewAggregator(agent.DefaultWeights)
	if err != nil {
		logger.Fatal("aggregator init", zap.Error(err))
	}

	auditSvc := service.NewAuditService(logger, auditRepo)
	assessmentSvc := service.NewAssessmentService(logger, aggregator, assessmentRepo, auditSvc)
	userSvc := service.NewUserService(logger, userRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	assessHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc, aggregator, limiter)
	adminHandler := apihttp.NewAdminHandler(logger, assessmentSvc, auditSvc)
	watchHandler := apihttp.NewWatchHandler(logger)
	router := apihttp.NewRouter(logger, userHandler, assessHandler, adminHandler, watchHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

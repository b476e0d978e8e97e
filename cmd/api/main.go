package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"citizen-services/internal/config"
	"citizen-services/internal/db"
	"citizen-services/internal/email"
	"citizen-services/internal/esewa"
	apihttp "citizen-services/internal/http"
	"citizen-services/internal/repository"
	"citizen-services/internal/service"

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
	otpRepo := repository.NewPgOtpRepository(pool)
	adminRepo := repository.NewPgAdminRepository(pool)
	paymentRepo := repository.NewPgPaymentRepository(pool)
	notificationRepo := repository.NewPgNotificationRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter service.OTPRateLimiter
		publisher  service.NotificationPublisher
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
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 10*time.Minute, 3)
			publisher = service.NewRedisNotificationPublisher(redisClient)
		}
		cancel()
	}

	notifier := service.NewNotificationService(logger, notificationRepo, publisher)
	userSvc := service.NewUserService(logger, userRepo, otpRepo, emailSender, notifier, otpLimiter)
	adminSvc := service.NewAdminService(logger, adminRepo, userRepo, notifier)
	gateway := esewa.NewClient(cfg.EsewaVerifyURL, cfg.EsewaMerchant)
	paymentSvc := service.NewPaymentService(logger, paymentRepo, userRepo, gateway, notifier)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	adminHandler := apihttp.NewAdminHandler(logger, adminSvc, jwtSvc)
	paymentHandler := apihttp.NewPaymentHandler(logger, paymentSvc)
	notificationHandler := apihttp.NewNotificationHandler(logger, notifier)
	healthHandler := apihttp.NewHealthHandler(pool)
	router := apihttp.NewRouter(logger, jwtSvc, userHandler, adminHandler, paymentHandler, notificationHandler, healthHandler)

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

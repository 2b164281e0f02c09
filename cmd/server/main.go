package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/glebfedorov911/wb-bidder-auth/internal/config"
	"github.com/glebfedorov911/wb-bidder-auth/internal/db"
	"github.com/glebfedorov911/wb-bidder-auth/internal/goroutine"
	httpHandlers "github.com/glebfedorov911/wb-bidder-auth/internal/http/handlers"
	httpRouter "github.com/glebfedorov911/wb-bidder-auth/internal/http/router"
	"github.com/glebfedorov911/wb-bidder-auth/internal/logger"
	"github.com/glebfedorov911/wb-bidder-auth/internal/repository"
	"github.com/glebfedorov911/wb-bidder-auth/internal/security"
	"github.com/glebfedorov911/wb-bidder-auth/internal/service"
	"github.com/glebfedorov911/wb-bidder-auth/internal/sms"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Криптографические примитивы.
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	codeGen := security.NewCodeGenerator()
	fingerprinter := security.NewFingerprinter()
	tokenDigest := security.NewTokenDigest(cfg.TokenDigestSecret)

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, fingerprinter)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	tokenRepo := repository.NewTokenRepository(dbConn)
	verificationRepo := repository.NewVerificationRepository(dbConn)

	// SMS шлюз.
	smsClient := sms.NewClient(cfg.SMSCURL, cfg.SMSCLogin, cfg.SMSCPassword, cfg.SMSTimeout)

	// Сервисы.
	userService := service.NewUserService(userRepo, hasher)
	verificationService := service.NewVerificationService(verificationRepo, codeGen, cfg.CodeTTL, cfg.CodeLength)
	authService := service.NewAuthService(userService, verificationService, tokenManager, tokenRepo, smsClient, tokenDigest)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	})

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

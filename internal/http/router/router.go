package router

import (
	"github.com/gin-gonic/gin"

	"github.com/glebfedorov911/wb-bidder-auth/internal/config"
	"github.com/glebfedorov911/wb-bidder-auth/internal/http/handlers"
	"github.com/glebfedorov911/wb-bidder-auth/internal/http/middleware"
	"github.com/glebfedorov911/wb-bidder-auth/internal/service"
)

// SetupRouter собирает gin.Engine со всеми маршрутами сервиса.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Публичные маршруты аутентификации идут под rate limit: подбор
	// паролей и кодов не должен стоить дешевле SMS.
	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/send-sms", authHandler.SendSMS)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/verify-sms", authHandler.VerifySMS)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	// Защищённые маршруты: токен и отпечаток клиента проверяет middleware.
	protected := api.Group("/auth")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/current-user", authHandler.CurrentUser)
	}

	return r
}

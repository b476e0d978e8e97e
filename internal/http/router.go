package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-services/internal/service"
)

// NewRouter configures the Gin router with middlewares and routes.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	adminH *AdminHandler,
	paymentH *PaymentHandler,
	notificationH *NotificationHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Check)

	users := r.Group("/api/users")
	users.POST("/activate", userH.Activate)
	users.POST("/verify-activation-otp", userH.VerifyActivationOTP)
	users.POST("/login", userH.Login)
	users.POST("/verify-login-otp", userH.VerifyLoginOTP)

	admin := r.Group("/api/admin")
	admin.POST("/admin-login", adminH.Login)
	admin.POST("/verify-otp", adminH.VerifyOTP)

	adminAuth := admin.Group("", JWTAuthMiddleware(jwtSvc), RequireTokenType(service.TokenTypeAdmin))
	adminAuth.POST("/users", adminH.CreateUser)
	adminAuth.GET("/users/lookup", adminH.LookupUser)
	adminAuth.POST("/payments/:id/verify", paymentH.ResolveByAdmin)

	userAuth := r.Group("/api", JWTAuthMiddleware(jwtSvc), RequireTokenType(service.TokenTypeUser))
	userAuth.GET("/users/me", userH.Me)
	userAuth.POST("/payments", paymentH.Create)
	userAuth.GET("/payments", paymentH.List)
	userAuth.GET("/notifications", notificationH.List)

	return r
}

// zapLoggerMiddleware creates a simple request logging middleware.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware forces Content-Type: application/json on responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

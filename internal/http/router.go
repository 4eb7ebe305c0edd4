package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medai-lite/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	assessH *AssessmentHandler,
	adminH *AdminHandler,
	watchH *WatchHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	users := r.Group("/users")
	users.POST("", userH.CreateUser)

	auth := r.Group("/auth")
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	api := r.Group("/api")
	api.GET("/health", healthCheck)
	api.POST("/aggregate", assessH.Assess)
	api.GET("/aggregate/agents", assessH.Agents)
	api.GET("/history", assessH.History)
	api.GET("/history/:id", assessH.GetAssessment)
	api.GET("/history/:id/similar", assessH.Similar)
	api.GET("/statistics", assessH.Statistics)

	watch := api.Group("/watch")
	watch.POST("/connect", watchH.Connect)
	watch.POST("/disconnect", watchH.Disconnect)
	watch.GET("/vitals", watchH.Vitals)
	watch.GET("/activity", watchH.Activity)
	watch.GET("/sleep", watchH.Sleep)
	watch.GET("/workouts", watchH.Workouts)
	watch.GET("/export", watchH.Export)
	watch.GET("/sample-profile", watchH.SampleProfile)

	// Rutas protegidas por JWT.
	protected := api.Group("")
	protected.Use(JWTAuthMiddleware(jwtSvc))
	protected.DELETE("/history/:id", assessH.DeleteAssessment)
	protected.GET("/admin/system/status", adminH.SystemStatus)
	protected.GET("/admin/audit-logs", adminH.AuditLogs)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medai-lite",
	})
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
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

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/grievance_system/docs"
	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/handlers"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Complaint    *handlers.ComplaintHandler
	Admin        *handlers.AdminHandler
	Notification *handlers.NotificationHandler
	Health       *handlers.HealthHandler
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	Logger         *logger.Logger
	Tokens         *auth.TokenManager
}

// SetupRouter builds the gin engine with middleware and every route.
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	if opts.Logger != nil {
		router.Use(gin.LoggerWithWriter(opts.Logger.Writer().Writer()))
	} else {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.AllowedOrigins))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.NoRoute(func(c *gin.Context) {
		utils.RespondNotFoundError(c, "Route")
	})

	api := router.Group("/api")
	api.GET("/health", h.Health.Health)

	authenticated := auth.Authenticate(opts.Tokens)
	SetupAuthRoutes(api, h.Auth, authenticated)
	SetupComplaintRoutes(api, h.Complaint, h.Notification, authenticated)
	SetupAdminRoutes(api, h.Admin, authenticated)
	return router
}

// corsMiddleware allows the configured browser origins.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (utils.ContainsString(allowedOrigins, "*") || utils.ContainsString(allowedOrigins, origin)) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/husainasfak/QuickBite-auth-service/internal/config"
	"github.com/husainasfak/QuickBite-auth-service/internal/domain"
	"github.com/husainasfak/QuickBite-auth-service/internal/http/handler"
	"github.com/husainasfak/QuickBite-auth-service/internal/http/middleware"
)

// NewRouter assembles the HTTP surface: global middleware, the public auth
// flows, the key discovery endpoint, and the admin-only management routes.
func NewRouter(
	cfg config.Config,
	logger *zap.Logger,
	pool *pgxpool.Pool,
	auth *middleware.Auth,
	authHandler *handler.AuthHandler,
	tenantHandler *handler.TenantHandler,
	userHandler *handler.UserHandler,
) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.NewRateLimiter(cfg.RateLimitRPM).Handler())
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/.well-known/jwks.json", authHandler.JWKS)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/self", auth.Authenticate, authHandler.Self)
		authGroup.POST("/refresh", auth.RefreshGuard, authHandler.Refresh)
		authGroup.POST("/logout", auth.Authenticate, auth.ParseRefresh, authHandler.Logout)
	}

	adminOnly := []gin.HandlerFunc{auth.Authenticate, middleware.Authorize(domain.RoleAdmin)}

	tenants := router.Group("/tenants", adminOnly...)
	{
		tenants.POST("", tenantHandler.Create)
		tenants.GET("", tenantHandler.List)
		tenants.GET("/:id", tenantHandler.Get)
		tenants.PATCH("/:id", tenantHandler.Update)
		tenants.DELETE("/:id", tenantHandler.Delete)
	}

	users := router.Group("/users", adminOnly...)
	{
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	return router
}

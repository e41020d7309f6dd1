// api/router.go
package api

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campustrade/campustrade-api/api/handlers"
	"github.com/campustrade/campustrade-api/api/middleware"
	"github.com/campustrade/campustrade-api/config"
	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/files"
	"github.com/campustrade/campustrade-api/internal/metrics"
	"github.com/campustrade/campustrade-api/internal/webroute"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// SetupRouter initializes the Gin router and sets up all routes.
// A nil blacklist falls back to an in-memory one.
func SetupRouter(metaDB *sql.DB, cfg *config.Config, blacklist auth.Blacklist) (*gin.Engine, error) {
	tokens, err := auth.NewTokenService(cfg.Jwt, blacklist)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	fileService, err := files.NewFileService(cfg.FileStorage)
	if err != nil {
		return nil, fmt.Errorf("file service: %w", err)
	}

	m := metrics.New("campustrade-api")
	policies := auth.DefaultPolicies()
	corsPolicies := middleware.CorsPolicies(cfg.Cors)

	router := gin.Default() // Includes Logger and Recovery
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(corsPolicies, middleware.CorsPolicyName(cfg.IsDevelopment())))
	// Renders errors attached by handlers; must wrap every route.
	router.Use(middleware.ErrorHandler())

	authHandler := handlers.NewAuthHandler(metaDB, tokens, !cfg.IsDevelopment())
	fileHandler := handlers.NewFileHandler(metaDB, fileService, files.NewThumbnailService(fileService), m)
	spaHandler := handlers.NewSPAHandler(webroute.DefaultRoutes(), tokens, cfg.SPADistDir)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))
	if base := strings.TrimRight(cfg.FileStorage.BaseURL, "/"); strings.HasPrefix(base, "/") && base != "" {
		router.Static(base, fileService.Root())
	}
	if cfg.SPADistDir != "" {
		router.Static("/assets", cfg.SPADistDir+"/assets")
	}

	limiter := middleware.NewRateLimiter(authRateLimit, authRateWindow)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", middleware.RateLimitMiddleware(limiter), authHandler.Register)
		authRoutes.POST("/login", middleware.RateLimitMiddleware(limiter), authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}

	router.GET("/api/v1/client-routes", spaHandler.ClientRoutes)

	// --- Protected Routes ---
	apiRoutes := router.Group("/api/v1")
	apiRoutes.Use(middleware.JWTBearer(middleware.NewBearerOptions(tokens, m)))
	apiRoutes.Use(middleware.RequirePolicy(policies, auth.PolicyRequireAuthenticatedUser))
	{
		apiRoutes.POST("/auth/logout", authHandler.Logout)
		apiRoutes.GET("/me", middleware.RequirePolicy(policies, auth.PolicyRequireActiveUser), authHandler.Me)

		apiRoutes.POST("/files", middleware.RequirePolicy(policies, auth.PolicyRequireEmailVerified), fileHandler.Upload)
		apiRoutes.GET("/files", fileHandler.List)
		apiRoutes.DELETE("/files/:id", fileHandler.Delete)
	}

	router.NoRoute(spaHandler.Serve)

	return router, nil
}

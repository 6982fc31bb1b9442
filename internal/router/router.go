package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recetas/backend/internal/api"
	"github.com/pageza/recetas/backend/internal/finder"
	"github.com/pageza/recetas/backend/internal/middleware"
	"github.com/pageza/recetas/backend/internal/service"
)

// Dependencies are the components the routes are built from. DB, Redis and
// Limiter may be nil.
type Dependencies struct {
	Store       *finder.Store
	Tokens      service.ITokenService
	Translator  service.Translator
	DB          *gorm.DB
	Redis       *redis.Client
	Limiter     *middleware.RateLimiter
	CORSOrigins []string
	SourceLang  string
	TargetLang  string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	// match on the escaped path so "%2F" stays inside one parameter
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Logger(), middleware.Recovery())

	// CORS middleware
	router.Use(middleware.CORS(deps.CORSOrigins))

	health := api.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/", api.Index)
	router.GET("/health", health.HealthCheck)
	router.GET("/metrics", gin.WrapH(middleware.ErrorHandler(promhttp.Handler())))

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Session creation is limited per client IP
	public := v1.Group("")
	if deps.Limiter != nil {
		public.Use(deps.Limiter.RateLimitMiddleware())
	}

	// Session routes, limited per session
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	if deps.Limiter != nil {
		protected.Use(deps.Limiter.RateLimitMiddleware())
	}

	api.NewSessionHandler(deps.Store, deps.Tokens).RegisterRoutes(public, protected)
	api.NewTranslateHandler(deps.Translator, deps.SourceLang, deps.TargetLang).RegisterRoutes(protected)

	return router
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recetas/backend/config"
	"github.com/pageza/recetas/backend/internal/database"
	"github.com/pageza/recetas/backend/internal/finder"
	"github.com/pageza/recetas/backend/internal/httpclient"
	"github.com/pageza/recetas/backend/internal/middleware"
	"github.com/pageza/recetas/backend/internal/router"
	"github.com/pageza/recetas/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	store  *finder.Store
	db     *gorm.DB
	redis  *redis.Client
}

// New wires the database, Redis, the provider clients and the routes.
// Redis is optional: without it translations are cached in process only
// and requests are not rate limited.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var redisClient *redis.Client
	if database.RedisEnabled(cfg) {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("[Server] Redis unavailable, continuing without shared cache and rate limiting: %v", err)
			redisClient = nil
		}
	}

	translator, searcher, err := NewProviders(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}

	store := finder.NewStore(translator, searcher, FinderOptions(cfg), cfg.MaxSessions, cfg.SessionTTL)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)

	var limiter *middleware.RateLimiter
	if redisClient != nil && cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewSessionRateLimiter(redisClient, cfg.RateLimitPerMinute)
	}

	engine := router.SetupRouter(router.Dependencies{
		Store:       store,
		Tokens:      tokens,
		Translator:  translator,
		DB:          db,
		Redis:       redisClient,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
		SourceLang:  cfg.SourceLang,
		TargetLang:  cfg.TargetLang,
	})

	return &Server{
		cfg:    cfg,
		router: engine,
		store:  store,
		db:     db,
		redis:  redisClient,
	}, nil
}

// NewProviders builds the translation and recipe search clients. db and
// redisClient add cache tiers when non-nil.
func NewProviders(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*service.TranslationService, *service.RecipeSearchService, error) {
	client := httpclient.New(cfg.HTTPTimeout, cfg.OutboundInterval)

	lruCache, err := service.NewLRUTranslationCache(cfg.TranslationLRUSize)
	if err != nil {
		return nil, nil, err
	}
	tiers := []service.TranslationCache{lruCache}
	if redisClient != nil {
		tiers = append(tiers, service.NewRedisTranslationCache(redisClient, cfg.TranslationTTL))
	}
	if db != nil {
		tiers = append(tiers, service.NewTranslationMemory(db))
	}

	translator := service.NewTranslationService(cfg.TranslatorURL, cfg.TranslatorEmail, client, service.NewTieredCache(tiers...))
	searcher := service.NewRecipeSearchService(cfg.SpoonacularAPIKey, cfg.SpoonacularURL, cfg.SpoonacularSiteURL, client)
	return translator, searcher, nil
}

// FinderOptions maps the configuration onto session options
func FinderOptions(cfg *config.Config) finder.Options {
	return finder.Options{
		SourceLang:       cfg.SourceLang,
		TargetLang:       cfg.TargetLang,
		PageSize:         cfg.PageSize,
		TitleConcurrency: cfg.TitleConcurrency,
	}
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until the server stops
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler: s.router,
	}

	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and releases the sessions and
// connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	s.store.Close()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package server contains the HTTP handlers for the feed API.
package server

import (
	"context"
	"log"
	"time"

	_ "pawfeed/docs" // swagger docs
	"pawfeed/internal/cache"
	"pawfeed/internal/config"
	"pawfeed/internal/featureflags"
	"pawfeed/internal/middleware"
	"pawfeed/internal/models"
	"pawfeed/internal/repository"
	"pawfeed/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	store          repository.Storage
	featureFlags   *featureflags.Manager
	postService    *service.PostService
	commentService *service.CommentService
	engagement     *service.EngagementService
	feedService    *service.FeedService
}

// NewServer creates a Server using already-initialized dependencies.
// redisClient may be nil; feed caching and toggle rate limiting are then off.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)
	store := repository.NewStorage(db)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	var invalidator service.FeedInvalidator
	var reader service.FeedReader
	if redisClient != nil && flags.EnabledGlobally(featureflags.FeedCache) {
		feedCache := cache.NewFeedCache(redisClient, cfg.FeedCacheTTL())
		invalidator = feedCache
		reader = feedCache
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("pawfeed-api"),
		store:          store,
		featureFlags:   flags,
		postService:    service.NewPostService(store, invalidator),
		commentService: service.NewCommentService(store, invalidator),
		engagement:     service.NewEngagementService(store, invalidator),
		feedService: service.NewFeedService(store.Posts(), reader, service.FeedLimits{
			Default: cfg.FeedDefaultLimit,
			Max:     cfg.FeedMaxLimit,
		}),
	}, nil
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "PawFeed API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
			return respondError(c, err)
		},
	})
	s.app = app
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	toggleLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Redis:    s.redis,
		Resource: "toggle",
		Limit:    s.config.ToggleRateLimit,
		Window:   time.Minute,
		Policy:   middleware.FailOpen,
		Skip: func(c *fiber.Ctx) bool {
			uid, _ := middleware.UserID(c)
			return !s.featureFlags.Enabled(featureflags.ToggleRateLimit, uid)
		},
	})

	community := api.Group("/community", middleware.OptionalAuth)
	community.Get("/", s.ListCommunityPosts)
	community.Post("/", middleware.AuthRequired, s.CreateCommunityPost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	isCommunity := s.matchVariant(models.VariantCommunity)
	community.Get("/:id/comments", isCommunity, s.ListComments)
	community.Post("/:id/comments", middleware.AuthRequired, isCommunity, s.AddComment)
	community.Get("/:id/like", middleware.AuthRequired, isCommunity, s.GetLikeStatus)
	community.Post("/:id/like", middleware.AuthRequired, isCommunity, toggleLimit, s.ToggleLike)
	community.Get("/:id", s.GetPost(models.VariantCommunity))
	community.Patch("/:id", middleware.AuthRequired, s.EditPost(models.VariantCommunity))
	community.Delete("/:id", middleware.AuthRequired, s.DeletePost(models.VariantCommunity))

	playdates := api.Group("/playdates", middleware.OptionalAuth)
	playdates.Get("/", s.ListPlaydatePosts)
	playdates.Post("/", middleware.AuthRequired, s.CreatePlaydatePost)
	isPlaydate := s.matchVariant(models.VariantPlaydate)
	playdates.Get("/:id/comments", isPlaydate, s.ListComments)
	playdates.Post("/:id/comments", middleware.AuthRequired, isPlaydate, s.AddComment)
	playdates.Get("/:id/like", middleware.AuthRequired, isPlaydate, s.GetLikeStatus)
	playdates.Post("/:id/like", middleware.AuthRequired, isPlaydate, toggleLimit, s.ToggleLike)
	playdates.Get("/:id/join", middleware.AuthRequired, s.GetJoinStatus)
	playdates.Post("/:id/join", middleware.AuthRequired, toggleLimit, s.ToggleJoin)
	playdates.Get("/:id/participants", s.ListParticipants)
	playdates.Get("/:id", s.GetPost(models.VariantPlaydate))
	playdates.Patch("/:id", middleware.AuthRequired, s.EditPost(models.VariantPlaydate))
	playdates.Delete("/:id", middleware.AuthRequired, s.DeletePost(models.VariantPlaydate))

	comments := api.Group("/comments", middleware.AuthRequired)
	comments.Patch("/:id", s.EditComment)
	comments.Delete("/:id", s.DeleteComment)

	api.Get("/feature-flags", middleware.OptionalAuth, s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: when
// it is not configured the service is still ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

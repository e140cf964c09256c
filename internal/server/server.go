// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"roastarena/internal/cache"
	"roastarena/internal/config"
	"roastarena/internal/database"
	"roastarena/internal/middleware"
	"roastarena/internal/moderation"
	"roastarena/internal/notifications"
	"roastarena/internal/repository"
	"roastarena/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	sessionRepo    repository.SessionRepository
	arenaRepo      repository.ArenaRepository
	submissionRepo repository.SubmissionRepository
	challengeRepo  repository.ChallengeRepository

	sessionService    *service.SessionService
	imageService      *service.ImageService
	arenaService      *service.ArenaService
	submissionService *service.SubmissionService
	challengeService  *service.ChallengeService

	gate    moderation.Gate
	feedHub *notifications.FeedHub
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	sessionRepo := repository.NewSessionRepository(db)
	arenaRepo := repository.NewArenaRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)

	prom := middleware.InitMetrics("roastarena-api")

	timeout := time.Duration(cfg.ModerationTimeoutMS) * time.Millisecond
	var inner moderation.Gate
	if cfg.ModerationURL != "" {
		inner = moderation.NewRemoteGate(cfg.ModerationURL, timeout)
	} else {
		inner = moderation.NewHeuristicGate()
	}
	gate := moderation.NewGuarded(inner, timeout)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessionRepo:    sessionRepo,
		arenaRepo:      arenaRepo,
		submissionRepo: submissionRepo,
		challengeRepo:  challengeRepo,
		gate:           gate,
		feedHub:        notifications.NewFeedHub(),
	}

	server.sessionService = service.NewSessionService(sessionRepo, cfg.AuthorSalt)
	server.imageService = service.NewImageService(cfg)
	server.arenaService = service.NewArenaService(
		arenaRepo, challengeRepo, server.sessionService, server.imageService,
		gate, time.Duration(cfg.ArenaWindowHours)*time.Hour)
	server.submissionService = service.NewSubmissionService(
		submissionRepo, arenaRepo, challengeRepo, server.sessionService, gate)
	server.challengeService = service.NewChallengeService(
		challengeRepo, submissionRepo, cfg.TopicRotation())

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Tracing (no-op unless enabled in config)
	app.Use(middleware.TracingMiddleware())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400, // 24 hours
	}))

	// Global rate limiting (120 requests per minute per IP), sized for the
	// client's 5s feed polling cadence.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Stored images
	app.Static("/images", s.imageService.UploadDir())

	// Session bootstrap
	app.Post("/session", s.CreateSession)

	// Upload -> new arena
	app.Post("/upload", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "upload"), s.Upload)

	// Arena routes. Specific /:id/:resource routes go before the generic /:id.
	app.Get("/roast/:id/feed", s.GetFeed)
	app.Post("/roast/:id/submit", middleware.RateLimit(
		s.redis, 10, time.Minute, "submit"), s.SubmitRoast)
	app.Get("/roast/:id", s.GetRoastSession)

	// Daily challenge
	app.Get("/daily", s.GetDailyChallenge)

	// Live feed push (optional extension over polling)
	app.Use("/ws", s.WebSocketUpgrade)
	app.Get("/ws/roast/:id", s.WebSocketFeedHandler())
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "status": "alive"})
}

// ReadinessCheck reports whether the service can reach its dependencies.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "database unavailable",
		})
	}
	return c.JSON(fiber.Map{"success": true, "status": "ready"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

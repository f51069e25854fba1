// Package server contains the HTTP layer: dependency wiring, middleware,
// routes, and handlers.
package server

import (
	"context"
	"log"
	"time"

	"storyforge/internal/ai"
	"storyforge/internal/auth"
	"storyforge/internal/cache"
	"storyforge/internal/config"
	"storyforge/internal/database"
	"storyforge/internal/middleware"
	"storyforge/internal/models"
	"storyforge/internal/repository"
	"storyforge/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
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
	tokens         *auth.TokenManager
	authSvc        *service.AuthService
	characters     *service.CharacterService
	stories        *service.StoryService
}

// NewServer creates a server with live database, Redis, and generator
// connections.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	generator := ai.NewOpenAIGenerator(
		cfg.OpenAIBaseURL,
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		ai.SamplingParams{
			Temperature:      cfg.GenTemperature,
			MaxTokens:        cfg.GenMaxTokens,
			TopP:             cfg.GenTopP,
			FrequencyPenalty: cfg.GenFrequencyPenalty,
			PresencePenalty:  cfg.GenPresencePenalty,
		},
		time.Duration(cfg.GenTimeoutSeconds)*time.Second,
	)

	srv, err := New(cfg, db, cache.GetClient(), generator)
	if err != nil {
		return nil, err
	}

	// Prometheus collectors register globally, so only the live
	// constructor builds them. Tests run without the collector.
	srv.promMiddleware = middleware.InitMetrics("storyforge-api")

	return srv, nil
}

// New wires a server from explicit dependencies. Tests use this with an
// in-memory database and a stub generator.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, generator ai.Generator) (*Server, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	return &Server{
		config:     cfg,
		db:         db,
		redis:      rdb,
		tokens:     tokens,
		authSvc:    service.NewAuthService(userRepo, tokens),
		characters: service.NewCharacterService(characterRepo),
		stories:    service.NewStoryService(storyRepo, characterRepo, generator),
	}, nil
}

// App builds the Fiber application with middleware and routes configured.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Storyforge API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, err)
		},
	})

	s.setupMiddleware(app)
	s.setupRoutes(app)
	return app
}

func (s *Server) setupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// OpenTelemetry request spans
	app.Use(middleware.Tracing())

	// Prometheus HTTP metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

func (s *Server) setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Storyforge Backend Metrics",
	}))

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Get("/me", middleware.Auth(s.tokens), s.Me)

	// Protected routes
	protected := api.Group("", middleware.Auth(s.tokens))

	characters := protected.Group("/characters")
	characters.Get("/", s.ListCharacters)
	characters.Post("/", s.CreateCharacter)
	characters.Get("/:id", s.GetCharacter)
	characters.Put("/:id", s.UpdateCharacter)
	characters.Delete("/:id", s.DeleteCharacter)

	stories := protected.Group("/stories")
	stories.Get("/", s.ListStories)
	stories.Post("/", middleware.RateLimit(s.redis, 5, 5*time.Minute, "generate_story"), s.GenerateStory)
	stories.Get("/:id", s.GetStory)
	stories.Delete("/:id", s.DeleteStory)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Storyforge",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

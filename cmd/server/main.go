package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/task-marketplace-api/internal/cache"
	"github.com/yukikurage/task-marketplace-api/internal/config"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
	"github.com/yukikurage/task-marketplace-api/internal/database"
	"github.com/yukikurage/task-marketplace-api/internal/handlers"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"github.com/yukikurage/task-marketplace-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "task-marketplace-api").Logger()
	if cfg.GinMode != gin.ReleaseMode {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = logger

	if err := run(cfg, logger); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run wires the server and blocks until it stops. Connections opened here
// are closed before it returns.
func run(cfg *config.Config, logger zerolog.Logger) error {
	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	tokens, err := identity.NewTokenIssuer(identity.Config{Secret: cfg.TokenSecret, TTL: cfg.TokenTTL})
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	listCache := cache.NewRedisCache(redisClient, constants.TaskListCachePrefix, cfg.TaskListCacheTTL)

	// Task drafting is optional
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, task drafting disabled")
	}

	db := database.GetDB()
	stores := repository.NewStores(db)
	tx := repository.NewTransactor(db)

	taskService := services.NewTaskService(stores, tx, listCache, drafter, logger)
	authService := services.NewAuthService(stores, tx, tokens, logger.With().Str("component", "auth").Logger())
	catalogService := services.NewCatalogService(stores, tx, listCache, logger)
	skillService := services.NewSkillService(stores, tx, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisAddr(),
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		return fmt.Errorf("create Redis session store: %w", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Category: handlers.NewCategoryHandler(catalogService),
		Task:     handlers.NewTaskHandler(taskService),
		Offer:    handlers.NewOfferHandler(taskService),
		Progress: handlers.NewProgressHandler(taskService),
		Skill:    handlers.NewSkillHandler(skillService),
	}, tokens)

	// Start server
	log.Info().Str("addr", cfg.ServerAddr).Msg("server starting")
	if err := r.Run(cfg.ServerAddr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

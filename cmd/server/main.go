package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"rove/internal/auth"
	"rove/internal/capabilities"
	"rove/internal/config"
	"rove/internal/domain/repositories"
	"rove/internal/handler"
	"rove/internal/middleware"
	"rove/internal/metrics"
	"rove/internal/repository/postgres"
	redisrepo "rove/internal/repository/redis"
	"rove/internal/retry"
	serviceLLM "rove/internal/service/llm"
	"rove/internal/service/llm/tools"
	"rove/internal/service/planner"
	"rove/internal/service/profile"
	"rove/internal/service/search"
	"rove/internal/service/trip"
	"rove/internal/telemetry"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"cache_backend", cfg.CacheBackend,
	)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint, "rove", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	tripRepo := postgres.NewTripRepository(repoConfig)
	chatRepo := postgres.NewChatMessageRepository(repoConfig)
	profileRepo := postgres.NewUserProfileRepository(repoConfig)
	generationRepo := postgres.NewGenerationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	healthChecks := map[string]handler.Pinger{"postgres": pool}

	var cacheRepo repositories.DestinationCacheRepository
	switch cfg.CacheBackend {
	case "redis":
		client, err := redisrepo.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		cacheRepo = redisrepo.NewDestinationCacheRepository(client, cfg.TablePrefix, logger)
		healthChecks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	case "postgres":
		cacheRepo = postgres.NewDestinationCacheRepository(repoConfig)
	default:
		log.Fatalf("Unknown CACHE_BACKEND %q (expected postgres or redis)", cfg.CacheBackend)
	}

	// Setup LLM providers
	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}
	provider, model, err := serviceLLM.ResolveDefault(providerRegistry, cfg)
	if err != nil {
		log.Fatalf("Failed to resolve default model: %v", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	modelCaps, known := capabilityRegistry.Lookup(provider.Name(), model)
	if !known {
		logger.Warn("no capability entry for model, using defaults", "provider", provider.Name(), "model", model)
	}

	// Web search backs the research tools
	toolBuilder := tools.NewToolRegistryBuilder()
	if cfg.TavilyAPIKey != "" {
		policy, err := search.DefaultPolicy()
		if err != nil {
			log.Fatalf("Failed to load search policy: %v", err)
		}
		searcher := search.NewAdapter(search.NewTavilyClient(cfg.TavilyAPIKey), policy, retry.Policy{
			MaxAttempts:     cfg.RetryMaxAttempts,
			InitialInterval: cfg.RetryInitialInterval,
		}, logger)
		toolBuilder = toolBuilder.WithSearchTools(searcher)
	} else {
		logger.Warn("TAVILY_API_KEY not set - research disabled")
	}

	contextCache := planner.NewContextCache(cacheRepo, provider, model, cfg.CacheTTL, generationRepo, logger)
	pipeline := planner.NewPipeline(planner.Dependencies{
		Provider:              provider,
		Model:                 model,
		Capabilities:          modelCaps,
		Contexts:              contextCache,
		Tools:                 toolBuilder.Build(),
		ResearchEnabled:       cfg.ResearchEnabled,
		MaxResearchIterations: config.MaxResearchIterations,
		Generations:           generationRepo,
		Logger:                logger,
	})

	// Services
	profileService := profile.NewService(profileRepo, logger)
	chatService := trip.NewChatService(tripRepo, chatRepo, txManager, pipeline, profileService, logger)
	tripService := trip.NewTripService(tripRepo, chatRepo, logger)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService, logger)
	tripHandler := handler.NewTripHandler(tripService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	modelsHandler := handler.NewModelsHandler(capabilityRegistry, configuredProviders(cfg), modelCaps, logger)

	logger.Info("services initialized", "model", model, "provider", provider.Name())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.Handle("GET /health", handler.Health(healthChecks))
	mux.Handle("GET /metrics", metrics.Handler())

	// Chat is the only route that triggers model calls
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, logger)
	mux.Handle("POST /api/chat", limiter.Middleware(http.HandlerFunc(chatHandler.Chat)))

	// Trip routes
	mux.HandleFunc("GET /api/trips", tripHandler.ListTrips)
	mux.HandleFunc("GET /api/trips/{id}", tripHandler.GetTrip)

	// Profile routes
	mux.HandleFunc("GET /api/profile", profileHandler.GetProfile)
	mux.HandleFunc("POST /api/profile", profileHandler.CreateProfile)
	mux.HandleFunc("PATCH /api/profile", profileHandler.UpdateProfile)
	mux.HandleFunc("DELETE /api/profile", profileHandler.DeleteProfile)
	mux.HandleFunc("GET /api/profile/locations", profileHandler.ListLocations)

	// Model capabilities
	mux.HandleFunc("GET /api/models", modelsHandler.GetCapabilities)

	// Admin routes (only in dev environment)
	if cfg.Environment == "dev" {
		adminHandler := handler.NewAdminHandler(contextCache, logger)
		mux.HandleFunc("DELETE /api/admin/destination-cache", adminHandler.ClearDestinationCache)
		logger.Warn("Admin route registered: DELETE /api/admin/destination-cache")
	}

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Metrics → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Metrics(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Generation runs several model calls; the write timeout must cover all of them
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// configuredProviders lists providers that have credentials.
func configuredProviders(cfg *config.Config) []string {
	var out []string
	if cfg.AnthropicAPIKey != "" {
		out = append(out, serviceLLM.ProviderAnthropic)
	}
	if cfg.OpenAIAPIKey != "" {
		out = append(out, serviceLLM.ProviderOpenAI)
	}
	return append(out, serviceLLM.ProviderLorem)
}

package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"rove/internal/auth"
	"rove/internal/config"
	"rove/internal/domain/repositories"
	"rove/internal/repository/postgres"
	redisrepo "rove/internal/repository/redis"
	"rove/internal/seed"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before applying the schema (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	clearCache := flag.Bool("clear-cache", false, "Delete every cached destination context and exit")
	userID := flag.String("user-id", "", "Owner of the demo trip (defaults to the demo account)")
	demoEmail := flag.String("demo-email", "demo@rove.local", "Email of the demo account created through the Supabase admin API")
	demoPassword := flag.String("demo-password", "rove-demo-password", "Password of the demo account")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// Destructive operations are never allowed in production
	if cfg.Environment == "prod" && (*dropTables || *clearCache) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-cache are not allowed in production")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	if *clearCache {
		var cache repositories.DestinationCacheRepository = postgres.NewDestinationCacheRepository(repoConfig)
		if cfg.CacheBackend == "redis" {
			client, err := redisrepo.Connect(ctx, cfg.RedisURL)
			if err != nil {
				log.Fatalf("Failed to connect to redis: %v", err)
			}
			defer client.Close()
			cache = redisrepo.NewDestinationCacheRepository(client, cfg.TablePrefix, logger)
		}
		if err := cache.Clear(ctx); err != nil {
			log.Fatalf("Failed to clear destination cache: %v", err)
		}
		logger.Info("destination cache cleared", "backend", cfg.CacheBackend)
		return
	}

	schema := seed.NewSchema(pool, cfg.TablePrefix, logger)
	if *dropTables {
		if err := schema.DropAll(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}
	if err := schema.Apply(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	if *schemaOnly {
		return
	}

	owner := *userID
	if owner == "" {
		if cfg.SupabaseKey == "" {
			log.Fatalf("--user-id is required when SUPABASE_KEY is not set")
		}
		admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
		owner, err = admin.EnsureUser(ctx, *demoEmail, *demoPassword)
		if err != nil {
			log.Fatalf("Failed to provision demo user: %v", err)
		}
		logger.Info("demo user ready", "email", *demoEmail, "user_id", owner)
	}

	seeder := seed.NewDemoSeeder(
		postgres.NewTripRepository(repoConfig),
		postgres.NewChatMessageRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)
	if _, err := seeder.SeedTrip(ctx, owner); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
}

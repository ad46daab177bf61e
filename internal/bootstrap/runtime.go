// Package bootstrap wires database, cache and observability for the cmd
// entrypoints.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/observability"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// Runtime holds the initialized shared dependencies.
type Runtime struct {
	DB              *gorm.DB
	Redis           *redis.Client
	TracingShutdown func(context.Context) error
}

// InitRuntime connects to the database and Redis, initializes tracing and
// optionally seeds demo data. Redis being unreachable is not fatal; the
// returned client is nil and the app runs without cache, tickets and
// cross-instance chat.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)
	if redisClient == nil {
		log.Println("Redis unavailable; running without cache, tickets and pub/sub")
	}

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "yatube-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExport,
		OTLPEndpoint:   cfg.TracingOTLP,
		SamplerRatio:   cfg.TracingRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	if opts.SeedDemoData {
		seeder := seed.NewSeeder(db)
		if err := seeder.Seed(seed.Options{
			NumUsers:  20,
			NumGroups: 6,
			NumPosts:  100,
		}); err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return &Runtime{
		DB:              db,
		Redis:           redisClient,
		TracingShutdown: tracingShutdown,
	}, nil
}

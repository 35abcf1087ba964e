package main

import (
	"context"
	"fmt"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/cart/cache"
	cartrepo "github.com/fjod/go_storefront/internal/cart/repository"
	"github.com/fjod/go_storefront/internal/config"
	ordersrepo "github.com/fjod/go_storefront/internal/orders/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// openCartPersister connects the configured cart backend. The returned func
// releases it.
func openCartPersister(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cart.Persister, func(), error) {
	switch cfg.CartBackend {
	case "mongo":
		db, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		repo := cartrepo.NewMongoRepository(db, cfg.CartStorageName)
		if err := repo.CreateIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create cart indexes")
		}
		log.Info().Str("uri", cfg.MongoURI).Msg("cart stored in MongoDB")
		return repo, func() { _ = db.Client().Disconnect(context.Background()) }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("cart stored in Redis")
		return cache.NewRedisPersister(client, cfg.CartStorageName), func() { _ = client.Close() }, nil

	default:
		repo, err := cartrepo.NewSQLiteRepository(cfg.CartDBPath, cfg.CartStorageName)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.RunMigrations(cfg.CartMigrationsPath); err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		log.Info().Str("path", cfg.CartDBPath).Msg("cart stored in SQLite")
		return repo, func() { _ = repo.Close() }, nil
	}
}

func openOrders(cfg *config.Config, log zerolog.Logger) (ordersrepo.OrderRepository, error) {
	if cfg.OrdersBackend == "memory" {
		log.Warn().Msg("orders kept in memory, they are lost on restart")
		return ordersrepo.NewMemoryRepository(), nil
	}

	repo, err := ordersrepo.NewRepository(&cfg.OrdersDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repo.RunMigrations(&cfg.OrdersDB); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Msg("orders database migrations completed")
	return repo, nil
}

// internal/infrastructure/storage/storage.go
package storage

import (
	"fmt"
	"log"

	goredis "github.com/redis/go-redis/v9"
	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/infrastructure/database/postgres"
	"github.com/your-org/product-cart/internal/infrastructure/database/redis"
	"github.com/your-org/product-cart/internal/infrastructure/storage/bolt"
	"github.com/your-org/product-cart/internal/infrastructure/storage/memory"
)

// Backends groups the opened cart backend with the shared clients other
// components may reuse. Redis is nil unless the redis backend is selected.
type Backends struct {
	Cart  cart.Backend
	Redis *goredis.Client
}

// Open connects to the configured backend
func Open(cfg *config.Config) (*Backends, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Println("⚠️ Using in-memory cart storage; carts are lost on restart")
		return &Backends{Cart: memory.NewStore()}, nil

	case config.BackendBolt:
		store, err := bolt.Open(cfg.Storage.BoltPath)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Bolt cart storage opened at %s", cfg.Storage.BoltPath)
		return &Backends{Cart: store}, nil

	case config.BackendRedis:
		client, err := redis.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return &Backends{
			Cart:  redis.NewCartStore(client.GetClient(), cfg.Storage.CartTTL),
			Redis: client.GetClient(),
		}, nil

	case config.BackendPostgres:
		db, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		migration := postgres.NewMigration(db.GetDB())
		if err := migration.RunAutoMigrations(); err != nil {
			_ = db.Close()
			return nil, err
		}
		if _, err := migration.PurgeExpired(cfg.Storage.CartTTL); err != nil {
			log.Printf("Warning: cart purge failed: %v", err)
		}
		return &Backends{Cart: postgres.NewCartStore(db, cfg.Storage.CartTTL)}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Close releases the backend
func (b *Backends) Close() error {
	if b == nil || b.Cart == nil {
		return nil
	}
	return b.Cart.Close()
}

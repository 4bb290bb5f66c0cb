// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/product-cart/internal/domain/cart"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&cart.StoredCart{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// PurgeExpired deletes carts that have not been written for longer than ttl.
// A zero ttl keeps everything.
func (m *Migration) PurgeExpired(ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-ttl)
	result := m.db.Where("updated_at < ?", cutoff).Delete(&cart.StoredCart{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired carts: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Printf("🗑️ Purged %d expired carts", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

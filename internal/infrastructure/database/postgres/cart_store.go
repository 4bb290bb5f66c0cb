// internal/infrastructure/database/postgres/cart_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/product-cart/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStore persists carts as rows of cart_entries
type CartStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewCartStore creates a cart backend. Rows older than ttl read as missing;
// a zero ttl disables expiry.
func NewCartStore(db *DB, ttl time.Duration) *CartStore {
	return &CartStore{
		db:  db,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get retrieves a cart by key
func (s *CartStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row cart.StoredCart
	err := s.db.GetDB().WithContext(ctx).Where("cart_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", key, err)
	}

	if s.ttl > 0 && row.UpdatedAt.Before(s.now().Add(-s.ttl)) {
		return nil, cart.ErrNotFound
	}
	return row.Value, nil
}

// Set upserts a cart
func (s *CartStore) Set(ctx context.Context, key string, value []byte) error {
	row := cart.StoredCart{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now(),
	}

	err := s.db.GetDB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", key, err)
	}
	return nil
}

// Delete removes a cart
func (s *CartStore) Delete(ctx context.Context, key string) error {
	err := s.db.GetDB().WithContext(ctx).Where("cart_key = ?", key).Delete(&cart.StoredCart{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", key, err)
	}
	return nil
}

// Ping checks the database connection
func (s *CartStore) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

// Close closes the database
func (s *CartStore) Close() error {
	return s.db.Close()
}

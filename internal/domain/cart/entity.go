// internal/domain/cart/entity.go
package cart

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Backend when no value is stored under a key
var ErrNotFound = errors.New("cart: key not found")

// ProductID identifies a catalog product. Catalog ids are normalized to strings
// before they reach the cart.
type ProductID string

// Snapshot is a read-only copy of a cart: product id to quantity.
// Every quantity is strictly positive.
type Snapshot map[ProductID]int

// Count returns the sum of all quantities
func (s Snapshot) Count() int {
	total := 0
	for _, qty := range s {
		total += qty
	}
	return total
}

// Qty returns the quantity for id, or zero if absent
func (s Snapshot) Qty(id ProductID) int {
	return s[id]
}

// Has reports whether id is in the cart
func (s Snapshot) Has(id ProductID) bool {
	_, ok := s[id]
	return ok
}

// Backend is the key-value byte store carts are persisted in
type Backend interface {
	// Get returns ErrNotFound when nothing is stored under key
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// StoredCart is the SQL row a cart is persisted as by the database backend
type StoredCart struct {
	Key       string    `gorm:"primaryKey;size:255;column:cart_key" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// TableName overrides the table name
func (StoredCart) TableName() string {
	return "cart_entries"
}

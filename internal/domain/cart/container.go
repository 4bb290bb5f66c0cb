// internal/domain/cart/container.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultKey is the storage key used when a container is created without one
const DefaultKey = "cart"

// Container owns a single cart and keeps it in sync with its backend.
// Every mutation is written through before it returns; if the write fails the
// in-memory state is rolled back.
type Container struct {
	mu      sync.Mutex
	backend Backend
	key     string
	items   map[ProductID]int
	log     logrus.FieldLogger
}

// NewContainer creates an empty container persisted under key
func NewContainer(backend Backend, key string, log logrus.FieldLogger) *Container {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Container{
		backend: backend,
		key:     key,
		items:   make(map[ProductID]int),
		log:     log.WithField("cart_key", key),
	}
}

// Key returns the storage key of this container
func (c *Container) Key() string {
	return c.key
}

// Load replaces the in-memory cart with the persisted one. A missing key or
// unreadable content yields an empty cart. Only a backend read failure is
// returned, and the cart is left empty in that case too. The memory and bolt
// backends never fail reads, so with them Load always returns nil.
func (c *Container) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[ProductID]int)

	raw, err := c.backend.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	items, ok := decode(raw)
	if !ok {
		c.log.Warn("discarding unreadable persisted cart")
		return nil
	}
	c.items = items
	return nil
}

// Save writes the current cart to the backend
func (c *Container) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx)
}

// Snapshot returns a copy of the cart
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot(maps.Clone(c.items))
}

// Count returns the sum of all quantities
func (c *Container) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot(c.items).Count()
}

// Qty returns the quantity for id, or zero if absent
func (c *Container) Qty(id ProductID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[id]
}

// Add increments the quantity for id, creating it at 1 when absent
func (c *Container) Add(ctx context.Context, id ProductID) error {
	return c.mutate(ctx, func(items map[ProductID]int) bool {
		items[id]++
		return true
	})
}

// Inc increments the quantity for id only if it is already in the cart.
// Inc never creates an entry; that is Add's job.
func (c *Container) Inc(ctx context.Context, id ProductID) error {
	return c.mutate(ctx, func(items map[ProductID]int) bool {
		if items[id] <= 0 {
			return false
		}
		items[id]++
		return true
	})
}

// Dec decrements the quantity for id, removing the entry when it reaches zero
func (c *Container) Dec(ctx context.Context, id ProductID) error {
	return c.mutate(ctx, func(items map[ProductID]int) bool {
		qty, ok := items[id]
		if !ok {
			return false
		}
		if qty-1 <= 0 {
			delete(items, id)
		} else {
			items[id] = qty - 1
		}
		return true
	})
}

// Remove deletes id regardless of its quantity
func (c *Container) Remove(ctx context.Context, id ProductID) error {
	return c.mutate(ctx, func(items map[ProductID]int) bool {
		delete(items, id)
		return true
	})
}

// Reset empties the cart
func (c *Container) Reset(ctx context.Context) error {
	return c.mutate(ctx, func(items map[ProductID]int) bool {
		clear(items)
		return true
	})
}

// replace swaps the whole mapping for items and persists it
func (c *Container) replace(ctx context.Context, items Snapshot) error {
	return c.mutate(ctx, func(current map[ProductID]int) bool {
		clear(current)
		maps.Copy(current, items)
		return true
	})
}

// mutate applies fn and persists the result. fn reports whether anything
// should be written; when it returns false the backend is not touched.
func (c *Container) mutate(ctx context.Context, fn func(items map[ProductID]int) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous := maps.Clone(c.items)
	if !fn(c.items) {
		return nil
	}

	if err := c.save(ctx); err != nil {
		c.items = previous
		return err
	}
	return nil
}

func (c *Container) save(ctx context.Context) error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := c.backend.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// decode parses the persisted form. It reports false for anything that is not
// a JSON object of integer quantities. Non-positive quantities are dropped.
func decode(raw []byte) (map[ProductID]int, bool) {
	var stored map[ProductID]int
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false
	}

	items := make(map[ProductID]int, len(stored))
	for id, qty := range stored {
		if qty > 0 {
			items[id] = qty
		}
	}
	return items, true
}

// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const lockStripes = 64

// Owner prefixes for guest sessions and signed-in users
const (
	SessionOwnerPrefix = "session:"
	UserOwnerPrefix    = "user:"
)

// SessionOwner returns the owner name of a guest session cart
func SessionOwner(sessionID string) string {
	return SessionOwnerPrefix + sessionID
}

// UserOwner returns the owner name of a user cart
func UserOwner(userID string) string {
	return UserOwnerPrefix + userID
}

// Service hands out one container per cart owner and serializes work on the
// same owner, so load-mutate-save sequences never interleave in this process.
type Service struct {
	backend   Backend
	keyPrefix string
	log       logrus.FieldLogger
	locks     [lockStripes]sync.Mutex
}

// NewService creates a new cart service
func NewService(backend Backend, keyPrefix string, log logrus.FieldLogger) *Service {
	if keyPrefix == "" {
		keyPrefix = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		backend:   backend,
		keyPrefix: keyPrefix,
		log:       log,
	}
}

// Key returns the storage key for owner
func (s *Service) Key(owner string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, owner)
}

// Open returns a loaded container for owner. Callers that mutate the result
// directly should hold the owner lock via Do instead.
func (s *Service) Open(ctx context.Context, owner string) (*Container, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("cart owner is required")
	}

	c := NewContainer(s.backend, s.Key(owner), s.log)
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Do runs fn against the owner's container while holding the owner lock and
// returns the resulting snapshot
func (s *Service) Do(ctx context.Context, owner string, fn func(c *Container) error) (Snapshot, error) {
	mu := s.lockFor(owner)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.Open(ctx, owner)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(c); err != nil {
			return nil, err
		}
	}
	return c.Snapshot(), nil
}

// Get returns the owner's cart
func (s *Service) Get(ctx context.Context, owner string) (Snapshot, error) {
	return s.Do(ctx, owner, nil)
}

// Count returns the total quantity in the owner's cart
func (s *Service) Count(ctx context.Context, owner string) (int, error) {
	snapshot, err := s.Get(ctx, owner)
	if err != nil {
		return 0, err
	}
	return snapshot.Count(), nil
}

// Qty returns the quantity of id in the owner's cart
func (s *Service) Qty(ctx context.Context, owner string, id ProductID) (int, error) {
	snapshot, err := s.Get(ctx, owner)
	if err != nil {
		return 0, err
	}
	return snapshot.Qty(id), nil
}

// Add adds one unit of id to the owner's cart
func (s *Service) Add(ctx context.Context, owner string, id ProductID) (Snapshot, error) {
	return s.Do(ctx, owner, func(c *Container) error { return c.Add(ctx, id) })
}

// Inc increments id only if it is already in the owner's cart
func (s *Service) Inc(ctx context.Context, owner string, id ProductID) (Snapshot, error) {
	return s.Do(ctx, owner, func(c *Container) error { return c.Inc(ctx, id) })
}

// Dec decrements id, dropping it at zero
func (s *Service) Dec(ctx context.Context, owner string, id ProductID) (Snapshot, error) {
	return s.Do(ctx, owner, func(c *Container) error { return c.Dec(ctx, id) })
}

// Remove removes id from the owner's cart
func (s *Service) Remove(ctx context.Context, owner string, id ProductID) (Snapshot, error) {
	return s.Do(ctx, owner, func(c *Container) error { return c.Remove(ctx, id) })
}

// Reset empties the owner's cart
func (s *Service) Reset(ctx context.Context, owner string) (Snapshot, error) {
	return s.Do(ctx, owner, func(c *Container) error { return c.Reset(ctx) })
}

// Merge moves every item of from into to, adding quantities, then empties from.
// It is used when a guest signs in.
func (s *Service) Merge(ctx context.Context, from, to string) (Snapshot, error) {
	if from == to {
		return s.Get(ctx, to)
	}

	// Lock both owners in stripe order so concurrent merges cannot deadlock
	first, second := s.stripe(from), s.stripe(to)
	if first > second {
		first, second = second, first
	}
	s.locks[first].Lock()
	defer s.locks[first].Unlock()
	if second != first {
		s.locks[second].Lock()
		defer s.locks[second].Unlock()
	}

	source, err := s.Open(ctx, from)
	if err != nil {
		return nil, err
	}
	target, err := s.Open(ctx, to)
	if err != nil {
		return nil, err
	}

	incoming := source.Snapshot()
	if len(incoming) == 0 {
		return target.Snapshot(), nil
	}
	before := target.Snapshot()

	err = target.mutate(ctx, func(items map[ProductID]int) bool {
		for id, qty := range incoming {
			items[id] += qty
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	// The guest cart is dropped rather than emptied. If that fails the target
	// is put back so a retry cannot count the guest items twice.
	if err := s.backend.Delete(ctx, source.Key()); err != nil {
		if rerr := target.replace(ctx, before); rerr != nil {
			s.log.WithError(rerr).WithFields(logrus.Fields{
				"from": from,
				"to":   to,
			}).Error("failed to undo cart merge")
		}
		return nil, fmt.Errorf("failed to clear merged cart: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"from":  from,
		"to":    to,
		"items": len(incoming),
	}).Info("merged guest cart")

	return target.Snapshot(), nil
}

func (s *Service) lockFor(owner string) *sync.Mutex {
	return &s.locks[s.stripe(owner)]
}

func (s *Service) stripe(owner string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(owner))
	return int(h.Sum32() % lockStripes)
}

// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
)

// Publisher announces confirmed orders to other systems
type Publisher interface {
	PublishCartCheckedOut(ctx context.Context, c *Confirmation) error
}

// Service handles order confirmation on top of the cart service
type Service struct {
	carts     *cart.Service
	catalog   *catalog.Catalog
	publisher Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService creates a new order service. A nil publisher disables events.
func NewService(carts *cart.Service, c *catalog.Catalog, publisher Publisher, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		carts:     carts,
		catalog:   c,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Summary prices the owner's current cart
func (s *Service) Summary(ctx context.Context, owner string) (Summary, error) {
	snapshot, err := s.carts.Get(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(s.catalog, snapshot), nil
}

// Confirm turns the owner's cart into a confirmation. The cart itself is
// left untouched until StartNew.
func (s *Service) Confirm(ctx context.Context, owner string) (*Confirmation, error) {
	summary, err := s.Summary(ctx, owner)
	if err != nil {
		return nil, err
	}
	if summary.Empty {
		return nil, ErrEmptyCart
	}

	id := uuid.New()
	at := s.now()
	confirmation := &Confirmation{
		OrderID:     id.String(),
		OrderNumber: generateOrderNumber(id, at),
		Owner:       owner,
		Summary:     summary,
		ConfirmedAt: at,
	}

	fields := logrus.Fields{
		"order_id":     confirmation.OrderID,
		"order_number": confirmation.OrderNumber,
		"owner":        owner,
		"count":        summary.Count,
		"total":        summary.Total.StringFixed(2),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCartCheckedOut(ctx, confirmation); err != nil {
			s.log.WithFields(fields).WithError(err).Error("failed to publish CartCheckedOut")
		}
	}

	s.log.WithFields(fields).Info("order confirmed")
	return confirmation, nil
}

// StartNew empties the owner's cart for a fresh order
func (s *Service) StartNew(ctx context.Context, owner string) (cart.Snapshot, error) {
	snapshot, err := s.carts.Reset(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to start new order: %w", err)
	}
	return snapshot, nil
}

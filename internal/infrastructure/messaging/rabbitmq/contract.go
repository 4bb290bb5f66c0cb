// internal/infrastructure/messaging/rabbitmq/contract.go
package rabbitmq

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/product-cart/internal/domain/order"
)

const (
	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	CartCheckedOutRoutingKey   = "cart.checkedout.v1"
	ProducerName               = "product-cart"
)

// EventEnvelope wraps every published event
type EventEnvelope struct {
	EventName     string                `json:"eventName"`
	EventVersion  int                   `json:"eventVersion"`
	EventID       string                `json:"eventId"`
	CorrelationID string                `json:"correlationId,omitempty"`
	Producer      string                `json:"producer"`
	PartitionKey  string                `json:"partitionKey"`
	OccurredAt    time.Time             `json:"occurredAt"`
	Payload       CartCheckedOutPayload `json:"payload"`
}

type CartCheckedOutPayload struct {
	OrderID     string               `json:"orderId"`
	OrderNumber string               `json:"orderNumber"`
	Owner       string               `json:"owner"`
	Items       []CartCheckedOutItem `json:"items"`
	TotalAmount string               `json:"totalAmount"`
	Timestamp   time.Time            `json:"timestamp"`
}

type CartCheckedOutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type EnvelopeOptions struct {
	EventID       string
	CorrelationID string
	OccurredAt    time.Time
}

// BuildCartCheckedOutEvent converts a confirmation into its wire envelope.
// Amounts are decimal strings so no precision is lost in transit.
func BuildCartCheckedOutEvent(c *order.Confirmation, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payload := CartCheckedOutPayload{
		OrderID:     c.OrderID,
		OrderNumber: c.OrderNumber,
		Owner:       c.Owner,
		Items:       make([]CartCheckedOutItem, 0, len(c.Summary.Lines)),
		TotalAmount: c.Summary.Total.StringFixed(2),
		Timestamp:   c.ConfirmedAt,
	}

	for _, line := range c.Summary.Lines {
		payload.Items = append(payload.Items, CartCheckedOutItem{
			ProductID: string(line.ProductID),
			Quantity:  line.Quantity,
			Price:     line.UnitPrice.StringFixed(2),
		})
	}

	return EventEnvelope{
		EventName:     CartCheckedOutEventName,
		EventVersion:  CartCheckedOutEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		Producer:      ProducerName,
		PartitionKey:  c.Owner,
		OccurredAt:    occurredAt,
		Payload:       payload,
	}
}

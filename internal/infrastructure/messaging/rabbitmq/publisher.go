// internal/infrastructure/messaging/rabbitmq/publisher.go
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/product-cart/internal/domain/order"
)

const publishTimeout = 3 * time.Second

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends CartCheckedOut events
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      logrus.FieldLogger
	mu       sync.Mutex
}

// NewPublisher dials url and declares the durable topic exchange
func NewPublisher(url, exchange string, log logrus.FieldLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// PublishCartCheckedOut implements order.Publisher
func (p *Publisher) PublishCartCheckedOut(ctx context.Context, c *order.Confirmation) error {
	envelope := BuildCartCheckedOutEvent(c, EnvelopeOptions{
		CorrelationID: correlationID(ctx),
	})

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal CartCheckedOut: %w", err)
	}

	if err := p.publishJSON(ctx, CartCheckedOutRoutingKey, envelope.EventID, body); err != nil {
		return err
	}

	p.log.WithFields(logrus.Fields{
		"event_id": envelope.EventID,
		"order_id": c.OrderID,
		"exchange": p.exchange,
	}).Debug("published CartCheckedOut")
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type correlationKey struct{}

// WithCorrelationID tags ctx so published events carry the request id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

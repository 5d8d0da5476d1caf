package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/service"
)

// PaymentEventType represents the type of payment event.
type PaymentEventType string

const (
	PaymentEventCompleted PaymentEventType = "payment.completed"
	PaymentEventFailed    PaymentEventType = "payment.failed"
	PaymentEventRefunded  PaymentEventType = "payment.refunded"
)

// PaymentEvent represents a payment-related event.
type PaymentEvent struct {
	ID        string           `json:"id"`
	Type      PaymentEventType `json:"type"`
	PaymentID string           `json:"payment_id"`
	OrderID   string           `json:"order_id"`
	Status    string           `json:"status"`
	Data      json.RawMessage  `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// KafkaConsumer consumes payment events from Kafka and applies them to orders.
type KafkaConsumer struct {
	reader       *kafka.Reader
	orderService *service.OrderService
	logger       *logging.LoggerV2
	stopCh       chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, orderService *service.OrderService, logger *logging.LoggerV2) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:       reader,
		orderService: orderService,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start begins consuming events.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	switch event.Type {
	case PaymentEventCompleted:
		c.handlePaymentCompleted(ctx, &event)
	case PaymentEventFailed:
		c.handlePaymentFailed(ctx, &event)
	case PaymentEventRefunded:
		c.handlePaymentRefunded(ctx, &event)
	default:
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
	}
}

func (c *KafkaConsumer) handlePaymentCompleted(ctx context.Context, event *PaymentEvent) {
	c.logger.Info("Handling payment completed event", logging.Fields{
		"payment_id": event.PaymentID,
		"order_id":   event.OrderID,
	})

	if _, err := c.orderService.MarkOrderPaid(ctx, event.OrderID, event.PaymentID); err != nil {
		c.logger.Error("Failed to mark order paid", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}

func (c *KafkaConsumer) handlePaymentFailed(ctx context.Context, event *PaymentEvent) {
	c.logger.Info("Handling payment failed event", logging.Fields{
		"payment_id": event.PaymentID,
		"order_id":   event.OrderID,
	})

	if _, err := c.orderService.CancelOrder(ctx, event.OrderID, "payment failed"); err != nil {
		c.logger.Error("Failed to cancel order", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}

func (c *KafkaConsumer) handlePaymentRefunded(ctx context.Context, event *PaymentEvent) {
	c.logger.Info("Handling payment refunded event", logging.Fields{
		"payment_id": event.PaymentID,
		"order_id":   event.OrderID,
	})

	if err := c.orderService.MarkOrderRefunded(ctx, event.OrderID); err != nil {
		c.logger.Error("Failed to mark order refunded", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}

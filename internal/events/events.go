// Package events describes order lifecycle events and how they leave the service.
package events

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/restaurantchain/order-backend/internal/domain"
)

const TypeOrderCreated = "order.created"

// OrderEvent is published whenever an order is created or changes status
type OrderEvent struct {
	ID         uuid.UUID     `json:"id"`
	Type       string        `json:"type"`
	OrderID    int64         `json:"order_id"`
	Status     domain.Status `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher delivers order events to interested parties
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NewOrderEvent stamps an event with a fresh id and the current time.
func NewOrderEvent(eventType string, orderID int64, status domain.Status) OrderEvent {
	return OrderEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OrderID:    orderID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

// StatusEventType returns the event type emitted when an order reaches status.
func StatusEventType(status domain.Status) string {
	return "order." + strings.ToLower(string(status))
}

// LogPublisher only writes events to the log
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs every event at info level
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event OrderEvent) error {
	p.logger.InfoContext(ctx, "Order event",
		"event_id", event.ID,
		"type", event.Type,
		"order_id", event.OrderID,
		"status", event.Status,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

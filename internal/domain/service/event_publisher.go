package service

import (
	"context"
	"time"
)

// OrderEvent represents a placed order to be processed by the order worker
type OrderEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	StoreSlug  string    `json:"store_slug"`
	StoreName  string    `json:"store_name"`
	GrandTotal string    `json:"grand_total"` // Decimal string, e.g., "57.49"
	LineCount  int       `json:"line_count"`
	PlacedAt   time.Time `json:"placed_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderActivityLogger writes one structured log line per order event.
// It subscribes as a wildcard handler.
type OrderActivityLogger struct {
	logger *zap.Logger
}

// NewOrderActivityLogger creates an OrderActivityLogger
func NewOrderActivityLogger(logger *zap.Logger) *OrderActivityLogger {
	return &OrderActivityLogger{logger: logger.Named("order_activity")}
}

// EventTypes returns nil so the bus delivers every event
func (l *OrderActivityLogger) EventTypes() []string {
	return nil
}

// Handle logs the event with its type-specific fields
func (l *OrderActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("order_id", event.AggregateID().String()),
		zap.String("user_id", event.PrincipalID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("payment_method", string(e.PaymentMethod)),
			zap.String("total", e.Total.StringFixed(2)),
			zap.Int("item_count", e.ItemCount),
		)
	case *order.StatusChangedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
		)
	case *order.PaymentCapturedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("payment_id", e.PaymentID),
			zap.String("amount", e.Amount.StringFixed(2)),
		)
	case *order.PaymentFailedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("reason", e.Reason),
		)
	case *order.PaymentRefundedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.String("reason", e.Reason),
		)
	}

	l.logger.Info("order event", fields...)
	return nil
}

var _ shared.EventHandler = (*OrderActivityLogger)(nil)

package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// CheckoutMetricsHandler turns committed order events into checkout metrics
type CheckoutMetricsHandler struct {
	metrics *telemetry.CheckoutMetrics
}

// NewCheckoutMetricsHandler creates a CheckoutMetricsHandler.
// A nil metrics value produces a handler that records nothing.
func NewCheckoutMetricsHandler(metrics *telemetry.CheckoutMetrics) *CheckoutMetricsHandler {
	return &CheckoutMetricsHandler{metrics: metrics}
}

// EventTypes returns the order events that carry metric signal
func (h *CheckoutMetricsHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypePaymentFailed,
		order.EventTypePaymentRefunded,
	}
}

// Handle records the metric matching the event
func (h *CheckoutMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.metrics == nil {
		return nil
	}

	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.metrics.RecordOrderPlaced(ctx, string(e.PaymentMethod), e.Total)
	case *order.StatusChangedEvent:
		h.metrics.RecordStatusTransition(ctx, string(e.To))
	case *order.PaymentFailedEvent:
		if e.Reason == order.FailureReasonIntentExpired {
			h.metrics.RecordIntentsExpired(ctx, 1)
		}
	case *order.PaymentRefundedEvent:
		h.metrics.RecordRefund(ctx, string(e.PaymentMethod))
	}
	return nil
}

var _ shared.EventHandler = (*CheckoutMetricsHandler)(nil)

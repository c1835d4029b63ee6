package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Verification outcomes.
const (
	OutcomeCaptured          = "captured"
	OutcomeDuplicate         = "duplicate"
	OutcomeSignatureMismatch = "signature_mismatch"
	OutcomeError             = "error"
)

// PaymentStatusProvider reports how many orders sit in each payment status.
type PaymentStatusProvider interface {
	CountByPaymentStatus(ctx context.Context) (map[string]int64, error)
}

// CheckoutMetrics records order placement and payment reconciliation activity.
type CheckoutMetrics struct {
	logger *zap.Logger

	ordersPlaced      *Counter
	orderAmount       *Histogram
	placementFailures *Counter
	intentsCreated    *Counter
	verifications     *Counter
	refunds           *Counter
	intentsExpired    *Counter
	statusTransitions *Counter
	ordersByPayStatus *Gauge
	placementDuration *Histogram

	statusProvider PaymentStatusProvider
	stopChan       chan struct{}
	stopOnce       sync.Once
	collectOnce    sync.Once
}

// CheckoutMetricsConfig holds the dependencies of CheckoutMetrics.
type CheckoutMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	StatusProvider PaymentStatusProvider
}

// NewCheckoutMetrics creates the checkout instruments on the given meter.
func NewCheckoutMetrics(cfg CheckoutMetricsConfig) (*CheckoutMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CheckoutMetrics{
		logger:         logger,
		statusProvider: cfg.StatusProvider,
		stopChan:       make(chan struct{}),
	}

	ins := NewInstruments(cfg.Meter)
	cm.ordersPlaced = ins.Counter("storefront_orders_placed_total", "Total number of orders placed", "{orders}")
	cm.orderAmount = ins.Histogram("storefront_order_amount", "Distribution of order totals", "{currency}", OrderAmountBuckets...)
	cm.placementFailures = ins.Counter("storefront_order_placement_failures_total", "Rejected order placements by error code", "{orders}")
	cm.placementDuration = ins.Histogram("storefront_order_placement_duration_seconds", "Time spent committing a checkout", "s", DurationBuckets...)
	cm.intentsCreated = ins.Counter("storefront_payment_intents_total", "Payment intents requested from the gateway", "{intents}")
	cm.verifications = ins.Counter("storefront_payment_verifications_total", "Payment verification attempts by outcome", "{verifications}")
	cm.refunds = ins.Counter("storefront_payment_refunds_total", "Refunded orders", "{orders}")
	cm.intentsExpired = ins.Counter("storefront_payment_intents_expired_total", "Pending intents failed by the expiry sweep", "{intents}")
	cm.statusTransitions = ins.Counter("storefront_order_status_transitions_total", "Fulfilment status changes by target status", "{transitions}")
	cm.ordersByPayStatus = ins.Gauge("storefront_orders_by_payment_status", "Current number of orders in each payment status", "{orders}")
	if err := ins.Err(); err != nil {
		return nil, err
	}

	return cm, nil
}

// RecordOrderPlaced counts a committed order and its total.
func (cm *CheckoutMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, total decimal.Decimal) {
	method := AttrPaymentMethod.String(paymentMethod)
	cm.ordersPlaced.Inc(ctx, method)
	cm.orderAmount.Record(ctx, total.InexactFloat64(), method)
}

// RecordPlacementDuration records how long a placement took, successful or not.
func (cm *CheckoutMetrics) RecordPlacementDuration(ctx context.Context, d time.Duration, outcome string) {
	cm.placementDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// RecordPlacementFailure counts a rejected placement by error code.
func (cm *CheckoutMetrics) RecordPlacementFailure(ctx context.Context, code string) {
	if code == "" {
		code = "internal"
	}
	cm.placementFailures.Inc(ctx, AttrReason.String(code))
}

// RecordIntent counts a gateway intent request.
func (cm *CheckoutMetrics) RecordIntent(ctx context.Context, gateway string, ok bool) {
	outcome := "created"
	if !ok {
		outcome = "failed"
	}
	cm.intentsCreated.Inc(ctx, AttrGateway.String(gateway), AttrOutcome.String(outcome))
}

// RecordVerification counts a verification attempt by outcome.
func (cm *CheckoutMetrics) RecordVerification(ctx context.Context, gateway, outcome string) {
	cm.verifications.Inc(ctx,
		AttrGateway.String(gateway),
		AttrOutcome.String(outcome),
	)
}

// RecordRefund counts a refunded order.
func (cm *CheckoutMetrics) RecordRefund(ctx context.Context, paymentMethod string) {
	cm.refunds.Inc(ctx, AttrPaymentMethod.String(paymentMethod))
}

// RecordIntentsExpired adds the result of one expiry sweep.
func (cm *CheckoutMetrics) RecordIntentsExpired(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	cm.intentsExpired.Add(ctx, int64(count))
}

// RecordStatusTransition counts a fulfilment status change.
func (cm *CheckoutMetrics) RecordStatusTransition(ctx context.Context, to string) {
	cm.statusTransitions.Inc(ctx, AttrOrderStatus.String(to))
}

// StartPeriodicCollection samples the payment status gauge every interval
// until Stop is called or ctx ends. It is a no-op without a status provider.
func (cm *CheckoutMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if cm.statusProvider == nil {
		return
	}
	cm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go cm.runPeriodicCollection(ctx, interval)
	})
}

func (cm *CheckoutMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cm.collectPaymentStatus(ctx)
	for {
		select {
		case <-cm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			cm.collectPaymentStatus(ctx)
		}
	}
}

func (cm *CheckoutMetrics) collectPaymentStatus(ctx context.Context) {
	counts, err := cm.statusProvider.CountByPaymentStatus(ctx)
	if err != nil {
		cm.logger.Warn("Failed to collect payment status counts", zap.Error(err))
		return
	}
	for status, n := range counts {
		cm.ordersByPayStatus.Record(ctx, n, AttrPaymentStatus.String(status))
	}
}

// Stop ends periodic collection.
func (cm *CheckoutMetrics) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
}

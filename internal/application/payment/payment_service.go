package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Config holds payment reconciliation settings
type Config struct {
	Currency       string
	IdempotencyTTL time.Duration
	StoreTimeout   time.Duration
	ExpiryBatch    int
}

// DefaultConfig returns the default payment settings
func DefaultConfig() Config {
	return Config{
		Currency:       "INR",
		IdempotencyTTL: 24 * time.Hour,
		StoreTimeout:   2 * time.Second,
		ExpiryBatch:    100,
	}
}

// PaymentService runs the two-phase payment protocol: CreateIntent binds a
// gateway correlation token to an order, VerifyPayment checks the gateway
// result against that binding and settles the order exactly once.
type PaymentService struct {
	orderRepo      order.Repository
	txScope        TransactionScope
	gateway        payment.Gateway
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	metrics        *telemetry.CheckoutMetrics
	cfg            Config
	logger         *zap.Logger
	now            func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	orderRepo order.Repository,
	txScope TransactionScope,
	gateway payment.Gateway,
	idempotency shared.IdempotencyStore,
	cfg Config,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 2 * time.Second
	}
	if cfg.ExpiryBatch <= 0 {
		cfg.ExpiryBatch = 100
	}
	return &PaymentService{
		orderRepo:   orderRepo,
		txScope:     txScope,
		gateway:     gateway,
		idempotency: idempotency,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher that receives payment events after commit
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCheckoutMetrics sets the checkout metrics collector
func (s *PaymentService) SetCheckoutMetrics(metrics *telemetry.CheckoutMetrics) {
	s.metrics = metrics
}

// Methods lists the supported payment methods
func (s *PaymentService) Methods() []payment.MethodInfo {
	return payment.Methods()
}

// CreateIntent opens a gateway payment intent. When an order is given the
// intent is bound to it and the amount must equal the order total.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uuid.UUID, req CreateIntentRequest) (*IntentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create_intent",
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount.String()),
	)
	defer span.End()

	resp, err := s.createIntent(ctx, userID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrGatewayOrderID, resp.GatewayOrderID)
	return resp, nil
}

func (s *PaymentService) createIntent(ctx context.Context, userID uuid.UUID, req CreateIntentRequest) (*IntentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, payment.ErrInvalidAmount
	}
	if !shared.FitsMoneyScale(req.Amount) {
		return nil, shared.ErrAmountPrecision
	}

	intentReq := &payment.IntentRequest{
		Amount:   req.Amount,
		Currency: s.cfg.Currency,
		Receipt:  "rcpt_" + uuid.NewString()[:8],
		Notes:    map[string]string{"user_id": userID.String()},
	}

	if req.OrderID != nil {
		o, err := s.orderRepo.FindByIDForUser(ctx, userID, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if err := o.CheckIntent(req.Amount); err != nil {
			return nil, err
		}
		intentReq.OrderID = o.ID
		intentReq.Receipt = o.OrderNumber
		intentReq.Notes["order_id"] = o.ID.String()
	}

	intent, err := s.gateway.CreateIntent(ctx, intentReq)
	if s.metrics != nil {
		s.metrics.RecordIntent(ctx, s.gateway.Name(), err == nil)
	}
	if err != nil {
		s.log(ctx).Error("payment intent creation failed",
			zap.String("gateway", s.gateway.Name()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, payment.ErrGatewayFailure
	}

	if req.OrderID != nil {
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			o, err := repos.OrderRepo().FindByIDForUserForUpdate(ctx, userID, *req.OrderID)
			if err != nil {
				return err
			}
			if err := o.BindPaymentIntent(intent.GatewayOrderID, req.Amount, s.now()); err != nil {
				return err
			}
			return repos.OrderRepo().SaveState(ctx, o)
		})
		if err != nil {
			return nil, err
		}
		s.log(ctx).Info("payment intent bound to order",
			zap.String("order_id", req.OrderID.String()),
			zap.String("gateway_order_id", intent.GatewayOrderID),
		)
	}

	return &IntentResponse{
		GatewayOrderID: intent.GatewayOrderID,
		Amount:         req.Amount,
		Currency:       s.cfg.Currency,
		KeyID:          s.gateway.KeyID(),
		OrderID:        req.OrderID,
	}, nil
}

// VerifyPayment applies a gateway result to an order. Repeating a verified
// call is a no-op success; a bad signature fails the payment and the failure
// is committed before SIGNATURE_MISMATCH is returned.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "verify",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, req.OrderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentID, req.PaymentID),
	)
	defer span.End()

	resp, err := s.verifyPayment(ctx, userID, req)
	if s.metrics != nil {
		s.metrics.RecordVerification(ctx, s.gateway.Name(), verificationOutcome(resp, err))
	}
	if err != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, shared.CodeOf(err))
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

func verificationOutcome(resp *VerifyPaymentResponse, err error) string {
	switch {
	case errors.Is(err, payment.ErrSignatureMismatch):
		return telemetry.OutcomeSignatureMismatch
	case err != nil:
		return telemetry.OutcomeError
	case resp.AlreadyProcessed:
		return telemetry.OutcomeDuplicate
	default:
		return telemetry.OutcomeCaptured
	}
}

func (s *PaymentService) verifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	key := payment.VerifyKey(req.OrderID.String(), req.PaymentID)
	recorded := s.isRecorded(ctx, key)

	o, err := s.orderRepo.FindByIDForUser(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.HasCaptured(req.PaymentID) {
		if !recorded {
			s.recordCapture(ctx, key)
		}
		return toVerifyResponse(o, true), nil
	}

	// the row lock in verify serializes concurrent deliveries; the store only
	// learns about a capture once it has committed
	resp, err := s.verify(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.recordCapture(ctx, key)
	return resp, nil
}

// isRecorded reports whether a capture for key was already recorded. Store
// errors are logged and treated as not recorded.
func (s *PaymentService) isRecorded(ctx context.Context, key string) bool {
	if s.idempotency == nil {
		return false
	}
	recorded, err := s.idempotency.IsProcessed(ctx, key)
	if err != nil {
		s.log(ctx).Warn("failed to read payment verification key",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return recorded
}

// recordCapture notes a committed capture. It runs detached from the request
// context so a client that hangs up after the commit still leaves the record.
func (s *PaymentService) recordCapture(ctx context.Context, key string) {
	if s.idempotency == nil {
		return
	}
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.StoreTimeout)
	defer cancel()
	if _, err := s.idempotency.MarkProcessed(storeCtx, key, s.cfg.IdempotencyTTL); err != nil {
		s.log(ctx).Warn("failed to record payment verification key",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (s *PaymentService) verify(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	var (
		result           *order.Order
		alreadyProcessed bool
		mismatch         bool
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUserForUpdate(ctx, userID, req.OrderID)
		if err != nil {
			return err
		}
		result = o
		if o.HasCaptured(req.PaymentID) {
			alreadyProcessed = true
			return nil
		}
		if err := o.CheckVerifiable(req.PaymentID); err != nil {
			return err
		}

		now := s.now()
		if !s.gateway.VerifySignature(o.GatewayOrderRef, req.PaymentID, req.Signature) {
			mismatch = true
			if err := o.FailPayment(order.FailureReasonSignatureMismatch, now); err != nil {
				return err
			}
			return repos.OrderRepo().SaveState(ctx, o)
		}

		if err := o.CapturePayment(order.GatewayCapture{
			PaymentID:      req.PaymentID,
			GatewayOrderID: o.GatewayOrderRef,
			Signature:      req.Signature,
			PaidAt:         now,
		}); err != nil {
			return err
		}
		return repos.OrderRepo().SaveState(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result)
	if mismatch {
		s.log(ctx).Warn("payment signature mismatch",
			zap.String("order_id", result.ID.String()),
			zap.String("payment_id", req.PaymentID),
		)
		return nil, payment.ErrSignatureMismatch
	}
	if !alreadyProcessed {
		s.log(ctx).Info("payment captured",
			zap.String("order_id", result.ID.String()),
			zap.String("order_number", result.OrderNumber),
			zap.String("payment_id", req.PaymentID),
		)
	}
	return toVerifyResponse(result, alreadyProcessed), nil
}

// RefundPayment moves a paid order to refunded. Only administrators call it.
func (s *PaymentService) RefundPayment(ctx context.Context, actorID, orderID uuid.UUID, req RefundRequest) (*RefundResponse, error) {
	var refunded *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.RefundPayment(req.Reason, s.now()); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveState(ctx, o); err != nil {
			return err
		}
		refunded = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("payment refunded",
		zap.String("order_id", orderID.String()),
		zap.String("actor_id", actorID.String()),
	)
	s.publishEvents(ctx, refunded)
	return &RefundResponse{
		OrderID:       refunded.ID,
		OrderNumber:   refunded.OrderNumber,
		PaymentStatus: refunded.PaymentStatus.String(),
	}, nil
}

// ExpireStaleIntents fails pending payments whose intent was created before
// cutoff. It is the expiry sweep hook and is only driven by the scheduler.
func (s *PaymentService) ExpireStaleIntents(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.orderRepo.FindStaleIntents(ctx, cutoff, s.cfg.ExpiryBatch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		id := stale[i].ID
		var o *order.Order
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			o, err = repos.OrderRepo().FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// Re-check under the lock: a verification may have won the race
			if o.PaymentStatus != order.PaymentStatusPending || o.IntentCreatedAt == nil || !o.IntentCreatedAt.Before(cutoff) {
				o = nil
				return nil
			}
			if err := o.ExpireIntent(s.now()); err != nil {
				return err
			}
			return repos.OrderRepo().SaveState(ctx, o)
		})
		if err != nil {
			s.log(ctx).Warn("failed to expire payment intent",
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
			continue
		}
		if o != nil {
			expired++
			s.publishEvents(ctx, o)
		}
	}

	if expired > 0 {
		s.log(ctx).Info("expired stale payment intents",
			zap.Int("count", expired),
			zap.Time("cutoff", cutoff),
		)
	}
	return expired, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.log(ctx).Warn("failed to publish payment events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
}

// log returns the service logger enriched with the request and trace ids in ctx.
func (s *PaymentService) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}

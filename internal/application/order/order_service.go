package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PriceCatalog re-prices cart lines against a trusted product catalog.
// When no catalog is configured, client price snapshots are accepted and only
// the subtotal and total arithmetic is verified.
type PriceCatalog interface {
	UnitPrice(ctx context.Context, productID, size, color string) (decimal.Decimal, error)
}

// Config holds order placement settings
type Config struct {
	DeliveryLeadTime  time.Duration
	TotalEpsilon      decimal.Decimal
	MaxNumberAttempts int
}

// DefaultConfig returns the default order placement settings
func DefaultConfig() Config {
	return Config{
		DeliveryLeadTime:  order.DefaultDeliveryLeadTime,
		TotalEpsilon:      decimal.Zero,
		MaxNumberAttempts: 3,
	}
}

// OrderService handles checkout and order lifecycle operations
type OrderService struct {
	orderRepo      order.Repository
	txScope        TransactionScope
	numbers        order.NumberGenerator
	catalog        PriceCatalog
	eventPublisher shared.EventPublisher
	metrics        *telemetry.CheckoutMetrics
	cfg            Config
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, txScope TransactionScope, numbers order.NumberGenerator, cfg Config, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if numbers == nil {
		numbers = order.TimestampNumberGenerator{}
	}
	if cfg.MaxNumberAttempts < 1 {
		cfg.MaxNumberAttempts = 1
	}
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		numbers:   numbers,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the publisher that receives order events after commit
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCheckoutMetrics sets the checkout metrics collector
func (s *OrderService) SetCheckoutMetrics(metrics *telemetry.CheckoutMetrics) {
	s.metrics = metrics
}

// SetPriceCatalog enables server-side re-pricing of submitted lines
func (s *OrderService) SetPriceCatalog(catalog PriceCatalog) {
	s.catalog = catalog
}

// PlaceOrder materialises a checkout into an order. Order, items and the
// cart deletion commit in one transaction; any failure leaves the cart intact.
// A collision on the order number is retried with a fresh number.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentMethod, req.PaymentMethod),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(req.Items)),
	)
	defer span.End()

	started := s.now()
	resp, err := s.placeOrder(ctx, userID, req)
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
			s.metrics.RecordPlacementFailure(ctx, shared.CodeOf(err))
		}
		s.metrics.RecordPlacementDuration(ctx, s.now().Sub(started), outcome)
	}
	if err != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, shared.CodeOf(err))
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, resp.ID.String(),
		telemetry.SpanAttrOrderNumber, resp.OrderNumber,
	)
	return resp, nil
}

func (s *OrderService) placeOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	method := order.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, order.ErrInvalidMethod
	}
	items := make([]order.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Size:      it.Size,
			Color:     it.Color,
		})
	}
	if err := s.verifyPrices(ctx, items); err != nil {
		return nil, err
	}
	amounts := order.Amounts{
		Subtotal:     req.Subtotal,
		ShippingCost: req.ShippingCost,
		Tax:          req.Tax,
		Total:        req.Total,
	}

	var placed *order.Order
	var err error
	for attempt := 1; attempt <= s.cfg.MaxNumberAttempts; attempt++ {
		placed, err = s.placeOnce(ctx, userID, req, method, items, amounts)
		if !errors.Is(err, order.ErrOrderNumberTaken) {
			break
		}
		s.log(ctx).Warn("order number collision, retrying",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		if shared.CodeOf(err) == "" {
			s.log(ctx).Error("order placement failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.log(ctx).Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("order_number", placed.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", placed.PaymentMethod.String()),
		zap.String("total", placed.Amounts.Total.StringFixed(2)),
	)
	s.publishEvents(ctx, placed)

	resp := ToOrderResponse(placed)
	return &resp, nil
}

func (s *OrderService) placeOnce(
	ctx context.Context,
	userID uuid.UUID,
	req PlaceOrderRequest,
	method order.PaymentMethod,
	items []order.ItemInput,
	amounts order.Amounts,
) (*order.Order, error) {
	var placed *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		shipping, err := s.resolveShipping(ctx, repos.AddressRepo(), userID, req)
		if err != nil {
			return err
		}

		now := s.now()
		o, err := order.Place(order.PlaceParams{
			UserID:           userID,
			OrderNumber:      s.numbers.Next(now),
			PaymentMethod:    method,
			Items:            items,
			Shipping:         shipping,
			Amounts:          amounts,
			PlacedAt:         now,
			DeliveryLeadTime: s.cfg.DeliveryLeadTime,
			TotalEpsilon:     s.cfg.TotalEpsilon,
		})
		if err != nil {
			return err
		}

		if _, err := repos.CartRepo().LockByUser(ctx, userID); err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		if _, err := repos.CartRepo().DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// resolveShipping copies the shipping address into the order inside the
// checkout transaction: an explicit body wins, then addressId, then the default address.
func (s *OrderService) resolveShipping(ctx context.Context, repo address.Repository, userID uuid.UUID, req PlaceOrderRequest) (order.ShippingInfo, error) {
	if req.ShippingInfo != nil {
		b := req.ShippingInfo
		return order.ShippingInfo{
			FullName:      b.FullName,
			Phone:         b.Phone,
			PostalCode:    b.PostalCode,
			StreetAddress: b.StreetAddress,
			City:          b.City,
			State:         b.State,
			AddressType:   b.AddressType,
		}, nil
	}

	list, err := repo.LockByUser(ctx, userID)
	if err != nil {
		return order.ShippingInfo{}, err
	}
	book := address.NewBook(userID, list)
	var chosen *address.Address
	if req.AddressID != nil {
		chosen, err = book.Find(*req.AddressID)
		if err != nil {
			return order.ShippingInfo{}, err
		}
	} else {
		chosen = book.Default()
	}
	if chosen == nil {
		return order.ShippingInfo{}, shared.NewDomainError("INVALID_SHIPPING_INFO", "Shipping info is required")
	}
	return order.ShippingInfo{
		FullName:      chosen.FullName,
		Phone:         chosen.Phone,
		PostalCode:    chosen.PostalCode,
		StreetAddress: chosen.StreetAddress,
		City:          chosen.City,
		State:         chosen.State,
		AddressType:   chosen.Type.String(),
	}, nil
}

func (s *OrderService) verifyPrices(ctx context.Context, items []order.ItemInput) error {
	if s.catalog == nil {
		return nil
	}
	for _, it := range items {
		want, err := s.catalog.UnitPrice(ctx, it.ProductID, it.Size, it.Color)
		if err != nil {
			return err
		}
		if !it.UnitPrice.Equal(want) {
			return order.PriceMismatchError("price of "+it.ProductID, it.UnitPrice, want)
		}
	}
	return nil
}

// ListOrders returns the principal's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, filter ListOrdersFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}

	orders, total, err := s.orderRepo.FindByUser(ctx, userID, domainFilter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out, total, nil
}

// GetOrder returns one of the principal's orders
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetPaymentStatus returns the payment view of one of the principal's orders
func (s *OrderService) GetPaymentStatus(ctx context.Context, userID, orderID uuid.UUID) (*PaymentStatusResponse, error) {
	o, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentStatusResponse(o)
	return &resp, nil
}

// UpdateStatus applies an administrative status change to any order
func (s *OrderService) UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	var updated *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.ChangeStatus(order.Status(req.Status), req.Reason, actorID.String(), s.now()); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveState(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("status", req.Status),
		zap.String("actor_id", actorID.String()),
	)
	s.publishEvents(ctx, updated)
	resp := ToOrderResponse(updated)
	return &resp, nil
}

// CancelOrder lets the owner cancel an order that has not shipped
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUserForUpdate(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if err := o.Cancel(req.Reason, s.now()); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveState(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, cancelled)
	resp := ToOrderResponse(cancelled)
	return &resp, nil
}

// publishEvents hands the aggregate's events to the publisher after commit.
// Publishing failures are logged; the committed state is authoritative.
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.log(ctx).Warn("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
}

// log returns the service logger enriched with the request and trace ids in ctx.
func (s *OrderService) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}

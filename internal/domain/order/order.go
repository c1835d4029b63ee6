package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateType names the order aggregate in domain events
const AggregateType = "Order"

// DefaultDeliveryLeadTime is added to the placement time to derive the expected delivery date
const DefaultDeliveryLeadTime = 7 * 24 * time.Hour

// ShippingInfo is a copied snapshot of the shipping address.
// Later edits to the address book never change a placed order.
type ShippingInfo struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postalCode"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	AddressType   string `json:"addressType,omitempty"`
}

// Validate checks that every address field is present
func (s ShippingInfo) Validate() error {
	fields := map[string]string{
		"fullName":      s.FullName,
		"phone":         s.Phone,
		"postalCode":    s.PostalCode,
		"streetAddress": s.StreetAddress,
		"city":          s.City,
		"state":         s.State,
	}
	for _, name := range []string{"fullName", "phone", "postalCode", "streetAddress", "city", "state"} {
		if strings.TrimSpace(fields[name]) == "" {
			return shared.NewDomainError("INVALID_SHIPPING_INFO", "Shipping info is missing "+name)
		}
	}
	return nil
}

// ItemInput is one submitted line of a checkout
type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Size      string
	Color     string
}

// Item is an immutable order line
type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Size      string
	Color     string
	CreatedAt time.Time
}

// LineTotal returns quantity x unit price
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the receipt of a completed checkout. It owns its items and
// tracks fulfilment status and payment status independently.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber          string
	Status               Status
	PaymentMethod        PaymentMethod
	PaymentStatus        PaymentStatus
	PaymentDetails       *PaymentDetails
	GatewayOrderRef      string // correlation token of the bound payment intent
	IntentCreatedAt      *time.Time
	Amounts              Amounts
	ShippingInfo         ShippingInfo
	Items                []Item
	ExpectedDeliveryDate time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
	CancellationReason   string
	PaymentFailureReason string
}

// PlaceParams holds everything needed to materialise a checkout into an order
type PlaceParams struct {
	UserID           uuid.UUID
	OrderNumber      string
	PaymentMethod    PaymentMethod
	Items            []ItemInput
	Shipping         ShippingInfo
	Amounts          Amounts
	PlacedAt         time.Time
	DeliveryLeadTime time.Duration
	TotalEpsilon     decimal.Decimal
}

// Place validates a checkout and creates a pending order with pending payment.
// Cash-on-delivery orders start pending too.
func Place(p PlaceParams) (*Order, error) {
	if p.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}
	if p.OrderNumber == "" || len(p.OrderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number must be 1-50 characters")
	}
	if !p.PaymentMethod.IsValid() {
		return nil, ErrInvalidMethod
	}
	if len(p.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range p.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitPrice.IsNegative() {
			return nil, ErrInvalidPrice
		}
		if !shared.FitsMoneyScale(it.UnitPrice) {
			return nil, shared.ErrAmountPrecision
		}
	}
	if err := p.Shipping.Validate(); err != nil {
		return nil, err
	}
	if err := p.Amounts.Verify(p.TotalEpsilon); err != nil {
		return nil, err
	}
	if err := p.Amounts.VerifySubtotal(p.Items, p.TotalEpsilon); err != nil {
		return nil, err
	}

	placedAt := p.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	lead := p.DeliveryLeadTime
	if lead <= 0 {
		lead = DefaultDeliveryLeadTime
	}

	o := &Order{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(p.UserID),
		OrderNumber:          p.OrderNumber,
		Status:               StatusPending,
		PaymentMethod:        p.PaymentMethod,
		PaymentStatus:        PaymentStatusPending,
		Amounts:              p.Amounts,
		ShippingInfo:         p.Shipping,
		ExpectedDeliveryDate: placedAt.Add(lead),
	}
	o.CreatedAt = placedAt
	o.UpdatedAt = placedAt

	o.Items = make([]Item, 0, len(p.Items))
	for _, it := range p.Items {
		o.Items = append(o.Items, Item{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: strings.TrimSpace(it.ProductID),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Size:      strings.TrimSpace(it.Size),
			Color:     strings.TrimSpace(it.Color),
			CreatedAt: placedAt,
		})
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// CheckIntent reports whether a payment intent for amount may be bound to the order
func (o *Order) CheckIntent(amount decimal.Decimal) error {
	if !o.PaymentMethod.RequiresGateway() {
		return ErrIntentNotAllowed
	}
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Order is cancelled")
	}
	if o.PaymentStatus != PaymentStatusPending {
		return paymentTransitionError(o.PaymentStatus, PaymentStatusPending)
	}
	if !amount.Equal(o.Amounts.Total) {
		return ErrIntentAmount
	}
	return nil
}

// BindPaymentIntent stores the gateway correlation token for this order.
// A pending order may be re-bound when the customer retries checkout.
func (o *Order) BindPaymentIntent(gatewayOrderRef string, amount decimal.Decimal, at time.Time) error {
	if err := o.CheckIntent(amount); err != nil {
		return err
	}
	if gatewayOrderRef == "" {
		return shared.NewDomainError("INVALID_INPUT", "Gateway order reference is required")
	}
	o.GatewayOrderRef = gatewayOrderRef
	o.IntentCreatedAt = &at
	o.UpdatedAt = at
	return nil
}

// HasCaptured reports whether the order is already paid by paymentID
func (o *Order) HasCaptured(paymentID string) bool {
	return o.PaymentStatus == PaymentStatusPaid &&
		o.PaymentDetails != nil &&
		o.PaymentDetails.PaymentID == paymentID
}

// CheckVerifiable returns nil when a gateway result may be applied to the order
func (o *Order) CheckVerifiable(paymentID string) error {
	switch o.PaymentStatus {
	case PaymentStatusPending:
	case PaymentStatusPaid:
		if o.HasCaptured(paymentID) {
			return nil
		}
		return ErrPaymentIDConflict
	default:
		return paymentTransitionError(o.PaymentStatus, PaymentStatusPaid)
	}
	if o.GatewayOrderRef == "" {
		return ErrIntentMissing
	}
	return nil
}

// CapturePayment moves payment from pending to paid with verified gateway details
func (o *Order) CapturePayment(capture GatewayCapture) error {
	if err := o.transitionPayment(PaymentStatusPaid); err != nil {
		return err
	}
	details, err := NewGatewayPaymentDetails(o.PaymentMethod, capture)
	if err != nil {
		return err
	}
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentDetails = &details
	o.PaymentFailureReason = ""
	o.UpdatedAt = capture.PaidAt
	o.AddDomainEvent(NewPaymentCapturedEvent(o))
	return nil
}

// FailPayment moves payment from pending to failed
func (o *Order) FailPayment(reason string, at time.Time) error {
	if err := o.transitionPayment(PaymentStatusFailed); err != nil {
		return err
	}
	o.PaymentStatus = PaymentStatusFailed
	o.PaymentFailureReason = reason
	o.UpdatedAt = at
	o.AddDomainEvent(NewPaymentFailedEvent(o, reason))
	return nil
}

// ExpireIntent fails a pending payment whose intent was never verified.
// Only the expiry sweep calls it; reconciliation never does.
func (o *Order) ExpireIntent(at time.Time) error {
	if o.GatewayOrderRef == "" {
		return ErrIntentMissing
	}
	return o.FailPayment(FailureReasonIntentExpired, at)
}

// RefundPayment moves payment from paid to refunded
func (o *Order) RefundPayment(reason string, at time.Time) error {
	if err := o.transitionPayment(PaymentStatusRefunded); err != nil {
		return err
	}
	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = at
	o.AddDomainEvent(NewPaymentRefundedEvent(o, reason))
	return nil
}

func (o *Order) transitionPayment(target PaymentStatus) error {
	if !o.PaymentStatus.CanTransitionTo(target) {
		return paymentTransitionError(o.PaymentStatus, target)
	}
	return nil
}

// ChangeStatus applies an administrative fulfilment status change.
// Delivering a cash-on-delivery order settles its payment.
func (o *Order) ChangeStatus(target Status, reason, actor string, at time.Time) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid status value")
	}
	if !o.Status.CanTransitionTo(target) {
		return statusTransitionError(o.Status, target)
	}
	from := o.Status
	o.Status = target
	o.UpdatedAt = at

	switch target {
	case StatusDelivered:
		o.DeliveredAt = &at
		if o.PaymentMethod == PaymentMethodCOD && o.PaymentStatus == PaymentStatusPending {
			details := NewCODPaymentDetails("COD-"+o.OrderNumber, actor, at)
			o.PaymentStatus = PaymentStatusPaid
			o.PaymentDetails = &details
			o.AddDomainEvent(NewPaymentCapturedEvent(o))
		}
	case StatusCancelled:
		o.CancelledAt = &at
		o.CancellationReason = reason
	}

	o.AddDomainEvent(NewStatusChangedEvent(o, from, target))
	return nil
}

// Cancel lets the owner cancel an order that has not shipped yet
func (o *Order) Cancel(reason string, at time.Time) error {
	if o.Status != StatusPending && o.Status != StatusProcessing {
		return ErrCancelNotPermitted
	}
	return o.ChangeStatus(StatusCancelled, reason, "customer", at)
}

// ItemCount returns the total quantity across all items
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

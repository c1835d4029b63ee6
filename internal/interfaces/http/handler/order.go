package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
)

const defaultOrderPageSize = 20

// OrderHandler handles the customer order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// PlaceOrder godoc
// @ID           placeOrder
//
//	@Summary		Place an order
//	@Description	Create an order from the submitted items and empty the caller's cart in the same transaction.
//	@Description	Either shippingInfo or addressId must be given. The submitted total is checked against the items.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orderapp.PlaceOrderRequest	true	"Checkout request"
//	@Success		201		{object}	APIResponse[orderapp.OrderResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req orderapp.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// ListOrders godoc
// @ID           listOrders
//
//	@Summary		List the caller's orders
//	@Description	Newest first, with pagination meta
//	@Tags			orders
//	@Produce		json
//	@Param			page			query		int		false	"Page number"	default(1)
//	@Param			page_size		query		int		false	"Page size"		default(20)	maximum(100)
//	@Param			status			query		string	false	"Order status"	Enums(pending, processing, shipped, delivered, cancelled)
//	@Param			payment_status	query		string	false	"Payment status"	Enums(pending, paid, failed, refunded)
//	@Success		200				{object}	APIResponse[[]orderapp.OrderResponse]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var filter orderapp.ListOrdersFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultOrderPageSize
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetOrder godoc
// @ID           getOrder
//
//	@Summary		Get an order
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"	format(uuid)
//	@Success		200	{object}	APIResponse[orderapp.OrderResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetPaymentStatus godoc
// @ID           getOrderPaymentStatus
//
//	@Summary		Get the payment state of an order
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"	format(uuid)
//	@Success		200	{object}	APIResponse[orderapp.PaymentStatusResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders/{id}/payment [get]
func (h *OrderHandler) GetPaymentStatus(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	status, err := h.orderService.GetPaymentStatus(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// CancelOrder godoc
// @ID           cancelOrder
//
//	@Summary		Cancel an order
//	@Description	Only orders that have not shipped can be cancelled
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order ID"	format(uuid)
//	@Param			request	body		orderapp.CancelOrderRequest	false	"Cancellation reason"
//	@Success		200		{object}	APIResponse[orderapp.OrderResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req orderapp.CancelOrderRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// AdminOrderHandler handles the back-office order endpoints
type AdminOrderHandler struct {
	BaseHandler
	orderService   *orderapp.OrderService
	paymentService *paymentapp.PaymentService
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(orderService *orderapp.OrderService, paymentService *paymentapp.PaymentService) *AdminOrderHandler {
	return &AdminOrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// UpdateStatus godoc
// @ID           adminUpdateOrderStatus
//
//	@Summary		Change an order's fulfilment status
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID"	format(uuid)
//	@Param			request	body		orderapp.UpdateStatusRequest	true	"New status"
//	@Success		200		{object}	APIResponse[orderapp.OrderResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/status [put]
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), actorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Refund godoc
// @ID           adminRefundOrder
//
//	@Summary		Refund a paid order
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Order ID"	format(uuid)
//	@Param			request	body		paymentapp.RefundRequest	false	"Refund reason"
//	@Success		200		{object}	APIResponse[paymentapp.RefundResponse]
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/refund [post]
func (h *AdminOrderHandler) Refund(c *gin.Context) {
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req paymentapp.RefundRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.RefundPayment(c.Request.Context(), actorID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

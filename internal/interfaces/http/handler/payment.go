package handler

import (
	"github.com/gin-gonic/gin"
	paymentapp "github.com/storefront/backend/internal/application/payment"
)

// PaymentHandler handles the online payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateIntent godoc
// @ID           createPaymentIntent
//
//	@Summary		Create a gateway payment intent
//	@Description	Open a gateway order for the amount. When orderId is given the intent is bound to that order
//	@Description	and the amount must equal the order total.
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Param			request	body		paymentapp.CreateIntentRequest	true	"Intent request"
//	@Success		200		{object}	APIResponse[paymentapp.IntentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payment/create [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req paymentapp.CreateIntentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	intent, err := h.paymentService.CreateIntent(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, intent)
}

// Verify godoc
// @ID           verifyPayment
//
//	@Summary		Verify a gateway payment
//	@Description	Check the gateway signature and mark the order paid. Repeating a successful call is a no-op.
//	@Description	A bad signature marks the payment failed and answers SIGNATURE_MISMATCH.
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Param			request	body		paymentapp.VerifyPaymentRequest	true	"Gateway result"
//	@Success		200		{object}	APIResponse[paymentapp.VerifyPaymentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payment/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req paymentapp.VerifyPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.VerifyPayment(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Methods godoc
// @ID           listPaymentMethods
//
//	@Summary		List payment methods
//	@Tags			payment
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]payment.MethodInfo]
//	@Security		BearerAuth
//	@Router			/payment/methods [get]
func (h *PaymentHandler) Methods(c *gin.Context) {
	h.Success(c, h.paymentService.Methods())
}

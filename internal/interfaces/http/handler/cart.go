package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles the shopping cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// List godoc
// @ID           listCartItems
//
//	@Summary		Get the cart
//	@Description	Return every line in the caller's cart with the running subtotal
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	APIResponse[cartapp.CartResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	cart, err := h.cartService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
//
//	@Summary		Add an item to the cart
//	@Description	Add a product variant. Adding a variant that is already in the cart increases its quantity.
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		cartapp.AddItemRequest	true	"Cart item"
//	@Success		201		{object}	APIResponse[cartapp.CartResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, cart)
}

// UpdateQuantity godoc
// @ID           updateCartItem
//
//	@Summary		Change a cart line quantity
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Cart line ID"	format(uuid)
//	@Param			request	body		cartapp.UpdateQuantityRequest	true	"New quantity"
//	@Success		200		{object}	APIResponse[cartapp.LineResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	lineID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req cartapp.UpdateQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line, err := h.cartService.UpdateQuantity(c.Request.Context(), userID, lineID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, line)
}

// RemoveItem godoc
// @ID           removeCartItem
//
//	@Summary		Remove a cart line
//	@Tags			cart
//	@Param			id	path	string	true	"Cart line ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	lineID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), userID, lineID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Clear godoc
// @ID           clearCart
//
//	@Summary		Empty the cart
//	@Tags			cart
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

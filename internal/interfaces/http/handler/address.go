package handler

import (
	"github.com/gin-gonic/gin"
	addressapp "github.com/storefront/backend/internal/application/address"
)

// AddressHandler handles the address book endpoints
type AddressHandler struct {
	BaseHandler
	addressService *addressapp.AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService *addressapp.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// List godoc
// @ID           listAddresses
//
//	@Summary		List saved addresses
//	@Description	The default address is listed first, the rest newest first
//	@Tags			addresses
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]addressapp.AddressResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addresses)
}

// Get godoc
// @ID           getAddress
//
//	@Summary		Get an address
//	@Tags			addresses
//	@Produce		json
//	@Param			id	path		string	true	"Address ID"	format(uuid)
//	@Success		200	{object}	APIResponse[addressapp.AddressResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/addresses/{id} [get]
func (h *AddressHandler) Get(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	addr, err := h.addressService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addr)
}

// Create godoc
// @ID           createAddress
//
//	@Summary		Save a new address
//	@Description	The first address a user saves becomes the default regardless of isDefault
//	@Tags			addresses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		addressapp.CreateAddressRequest	true	"Address"
//	@Success		201		{object}	APIResponse[addressapp.AddressResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req addressapp.CreateAddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	addr, err := h.addressService.Add(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, addr)
}

// Update godoc
// @ID           updateAddress
//
//	@Summary		Update an address
//	@Description	Partial update. Setting isDefault=true moves the default flag here.
//	@Tags			addresses
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Address ID"	format(uuid)
//	@Param			request	body		addressapp.UpdateAddressRequest	true	"Fields to change"
//	@Success		200		{object}	APIResponse[addressapp.AddressResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req addressapp.UpdateAddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	addr, err := h.addressService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addr)
}

// SetDefault godoc
// @ID           setDefaultAddress
//
//	@Summary		Make an address the default
//	@Tags			addresses
//	@Produce		json
//	@Param			id	path		string	true	"Address ID"	format(uuid)
//	@Success		200	{object}	APIResponse[addressapp.AddressResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/addresses/{id}/default [put]
func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	addr, err := h.addressService.SetDefault(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addr)
}

// Delete godoc
// @ID           deleteAddress
//
//	@Summary		Delete an address
//	@Description	The default address cannot be deleted while other addresses exist
//	@Tags			addresses
//	@Param			id	path	string	true	"Address ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/user/addresses/{id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

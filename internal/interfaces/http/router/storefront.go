package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// StorefrontHandlers are the handlers served under the API prefix
type StorefrontHandlers struct {
	System     *handler.SystemHandler
	Cart       *handler.CartHandler
	Address    *handler.AddressHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	Payment    *handler.PaymentHandler
}

// StorefrontRoutes builds the route groups of the storefront API.
// adminOnly guards the /admin group, typically middleware.RequireAdmin().
func StorefrontRoutes(h StorefrontHandlers, adminOnly ...gin.HandlerFunc) []RouteRegistrar {
	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/ready", h.System.Ready)
	system.GET("/system/info", h.System.GetSystemInfo)

	cart := NewDomainGroup("cart", "/cart")
	cart.GET("", h.Cart.List)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:id", h.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)

	addresses := NewDomainGroup("addresses", "/user/addresses")
	addresses.GET("", h.Address.List)
	addresses.POST("", h.Address.Create)
	addresses.GET("/:id", h.Address.Get)
	addresses.PUT("/:id", h.Address.Update)
	addresses.DELETE("/:id", h.Address.Delete)
	addresses.PUT("/:id/default", h.Address.SetDefault)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Order.PlaceOrder)
	orders.GET("", h.Order.ListOrders)
	orders.GET("/:id", h.Order.GetOrder)
	orders.GET("/:id/payment", h.Order.GetPaymentStatus)
	orders.POST("/:id/cancel", h.Order.CancelOrder)

	payment := NewDomainGroup("payment", "/payment")
	payment.GET("/methods", h.Payment.Methods)
	payment.POST("/create", h.Payment.CreateIntent)
	payment.POST("/verify", h.Payment.Verify)

	admin := NewDomainGroup("admin", "/admin").Use(adminOnly...)
	adminOrders := admin.Group("admin-orders", "/orders")
	adminOrders.PUT("/:id/status", h.AdminOrder.UpdateStatus)
	adminOrders.POST("/:id/refund", h.AdminOrder.Refund)

	return []RouteRegistrar{system, cart, addresses, orders, payment, admin}
}

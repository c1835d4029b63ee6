// Package docs registers the storefront OpenAPI document with swag.
// Regenerate with: swag init -g cmd/server/main.go -o docs --v3.1
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "openapi": "3.1.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Storefront Backend Team"
        },
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "{{.Host}}{{.BasePath}}"
        }
    ],
    "paths": {
        "/health": {"get": {"operationId": "getHealth", "summary": "Liveness probe", "tags": ["system"]}},
        "/ready": {"get": {"operationId": "getReady", "summary": "Readiness probe", "tags": ["system"]}},
        "/system/info": {"get": {"operationId": "getSystemInfo", "summary": "Build and runtime information", "tags": ["system"]}},
        "/cart": {
            "get": {"operationId": "listCartItems", "summary": "List the caller's cart", "tags": ["cart"], "security": [{"BearerAuth": []}]},
            "delete": {"operationId": "clearCart", "summary": "Empty the caller's cart", "tags": ["cart"], "security": [{"BearerAuth": []}]}
        },
        "/cart/items": {
            "post": {"operationId": "addCartItem", "summary": "Add an item or merge it into an existing line", "tags": ["cart"], "security": [{"BearerAuth": []}]}
        },
        "/cart/items/{id}": {
            "put": {"operationId": "updateCartItem", "summary": "Set a line's quantity", "tags": ["cart"], "security": [{"BearerAuth": []}]},
            "delete": {"operationId": "removeCartItem", "summary": "Remove a line", "tags": ["cart"], "security": [{"BearerAuth": []}]}
        },
        "/user/addresses": {
            "get": {"operationId": "listAddresses", "summary": "List saved addresses, default first", "tags": ["addresses"], "security": [{"BearerAuth": []}]},
            "post": {"operationId": "createAddress", "summary": "Save a new address", "tags": ["addresses"], "security": [{"BearerAuth": []}]}
        },
        "/user/addresses/{id}": {
            "get": {"operationId": "getAddress", "summary": "Get one saved address", "tags": ["addresses"], "security": [{"BearerAuth": []}]},
            "put": {"operationId": "updateAddress", "summary": "Update a saved address", "tags": ["addresses"], "security": [{"BearerAuth": []}]},
            "delete": {"operationId": "deleteAddress", "summary": "Delete a saved address", "tags": ["addresses"], "security": [{"BearerAuth": []}]}
        },
        "/user/addresses/{id}/default": {
            "put": {"operationId": "setDefaultAddress", "summary": "Make an address the default", "tags": ["addresses"], "security": [{"BearerAuth": []}]}
        },
        "/orders": {
            "get": {"operationId": "listOrders", "summary": "List the caller's orders", "tags": ["orders"], "security": [{"BearerAuth": []}]},
            "post": {"operationId": "placeOrder", "summary": "Place an order from a checkout", "tags": ["orders"], "security": [{"BearerAuth": []}]}
        },
        "/orders/{id}": {
            "get": {"operationId": "getOrder", "summary": "Get one order", "tags": ["orders"], "security": [{"BearerAuth": []}]}
        },
        "/orders/{id}/payment": {
            "get": {"operationId": "getOrderPaymentStatus", "summary": "Get an order's payment status", "tags": ["orders"], "security": [{"BearerAuth": []}]}
        },
        "/orders/{id}/cancel": {
            "post": {"operationId": "cancelOrder", "summary": "Cancel a pending or processing order", "tags": ["orders"], "security": [{"BearerAuth": []}]}
        },
        "/payment/methods": {
            "get": {"operationId": "listPaymentMethods", "summary": "List supported payment methods", "tags": ["payment"], "security": [{"BearerAuth": []}]}
        },
        "/payment/create": {
            "post": {"operationId": "createPaymentIntent", "summary": "Open a gateway payment intent", "tags": ["payment"], "security": [{"BearerAuth": []}]}
        },
        "/payment/verify": {
            "post": {"operationId": "verifyPayment", "summary": "Verify a gateway payment and settle the order", "tags": ["payment"], "security": [{"BearerAuth": []}]}
        },
        "/admin/orders/{id}/status": {
            "put": {"operationId": "adminUpdateOrderStatus", "summary": "Advance an order's status", "tags": ["admin"], "security": [{"BearerAuth": []}]}
        },
        "/admin/orders/{id}/refund": {
            "post": {"operationId": "adminRefundOrder", "summary": "Mark a paid order refunded", "tags": ["admin"], "security": [{"BearerAuth": []}]}
        }
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "description": "Bearer token authentication. Format: \"Bearer {token}\"",
                "type": "apiKey",
                "name": "Authorization",
                "in": "header"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Cart, address book, checkout and payment reconciliation for the storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

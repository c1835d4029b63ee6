package event

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler, "OrderPlaced", "PaymentCaptured")

	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("OrderPlaced"))
	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("PaymentCaptured"))
	assert.Empty(t, registry.GetHandlers("PaymentRefunded"))
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("OrderPlaced"), 1)
	assert.Len(t, registry.GetHandlers("Anything"), 1)
}

func TestHandlerRegistry_Register_Twice(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler, "OrderPlaced")
	registry.Register(handler, "OrderPlaced")
	registry.Register(handler)
	registry.Register(handler)

	// one typed entry plus one wildcard entry
	assert.Len(t, registry.GetHandlers("OrderPlaced"), 2)
	assert.Len(t, registry.GetAllHandlers(), 1)
}

func TestHandlerRegistry_GetHandlers_TypedBeforeWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newRecordingHandler()
	wildcard := newRecordingHandler()

	registry.Register(wildcard)
	registry.Register(typed, "OrderPlaced")

	handlers := registry.GetHandlers("OrderPlaced")
	assert.Equal(t, []shared.EventHandler{typed, wildcard}, handlers)
	assert.Equal(t, []shared.EventHandler{wildcard}, registry.GetHandlers("PaymentFailed"))
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := newRecordingHandler()
	second := newRecordingHandler()
	wildcard := newRecordingHandler()

	registry.Register(first, "OrderPlaced")
	registry.Register(second, "OrderPlaced")
	registry.Register(wildcard)

	registry.Unregister(first)
	assert.Equal(t, []shared.EventHandler{second, wildcard}, registry.GetHandlers("OrderPlaced"))

	registry.Unregister(wildcard)
	assert.Equal(t, []shared.EventHandler{second}, registry.GetHandlers("OrderPlaced"))

	registry.Unregister(second)
	assert.Empty(t, registry.GetHandlers("OrderPlaced"))
	assert.Empty(t, registry.GetAllHandlers())
}

func TestHandlerRegistry_GetHandlers_ReturnsCopy(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()
	registry.Register(handler, "OrderPlaced")

	handlers := registry.GetHandlers("OrderPlaced")
	handlers[0] = nil

	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("OrderPlaced"))
}

func TestHandlerRegistry_GetAllHandlers_NoDuplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()
	other := newRecordingHandler()

	registry.Register(handler, "OrderPlaced", "OrderStatusChanged")
	registry.Register(other, "PaymentCaptured")

	assert.Len(t, registry.GetAllHandlers(), 2)
}

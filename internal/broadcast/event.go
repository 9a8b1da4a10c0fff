package broadcast

import "github.com/livingwaters/fundraiser-backend/pkg/model"

// EventType tags a push-channel envelope.
type EventType string

const (
	// EventBootstrap carries the full snapshot sent once per connection.
	EventBootstrap EventType = "BOOTSTRAP"
	// EventOrderCreated announces a newly accepted order.
	EventOrderCreated EventType = "ORDER_CREATED"
	// EventOrderUpdated announces an admin edit to an existing order.
	EventOrderUpdated EventType = "ORDER_UPDATED"
	// EventProductsReplaced carries the full product list after any product
	// mutation. A full replace keeps the client merge trivial at this
	// catalog size.
	EventProductsReplaced EventType = "PRODUCTS_REPLACED"
	// EventNotice is a transient admin-facing alert, not state.
	EventNotice EventType = "NOTICE"
)

// Event is the tagged-union envelope pushed to every connected client.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// BootstrapPayload is the connect-time full snapshot.
type BootstrapPayload struct {
	Orders   []model.Order   `json:"orders"`
	Products []model.Product `json:"products"`
}

// NoticePayload wraps a human-readable alert message.
type NoticePayload struct {
	Message string `json:"message"`
}

func Bootstrap(orders []model.Order, products []model.Product) Event {
	if orders == nil {
		orders = []model.Order{}
	}
	if products == nil {
		products = []model.Product{}
	}
	return Event{Type: EventBootstrap, Payload: BootstrapPayload{Orders: orders, Products: products}}
}

func OrderCreated(order model.Order) Event {
	return Event{Type: EventOrderCreated, Payload: order}
}

func OrderUpdated(order model.Order) Event {
	return Event{Type: EventOrderUpdated, Payload: order}
}

func ProductsReplaced(products []model.Product) Event {
	if products == nil {
		products = []model.Product{}
	}
	return Event{Type: EventProductsReplaced, Payload: products}
}

func Notice(message string) Event {
	return Event{Type: EventNotice, Payload: NoticePayload{Message: message}}
}

package service

// Event names pushed to websocket clients so open approval screens update
// without polling.
const (
	EventOrderSubmitted      = "order.submitted"
	EventOrderApproved       = "order.approved"
	EventOrderRejected       = "order.rejected"
	EventSupplierInitialized = "supplier.initialized"
	EventSupplierDeleted     = "supplier.deleted"
)

// Notifier pushes domain events to connected clients.
// Implementations must not block the calling goroutine.
type Notifier interface {
	Publish(event string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, any) {}

// NewNoopNotifier returns a Notifier that drops every event.
func NewNoopNotifier() Notifier { return noopNotifier{} }

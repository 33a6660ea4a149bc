package enum

// OrderStatus represents the status of an order. Values are the wire/database
// representation used by the storefront (pt-BR).
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pendente"
	OrderStatusConfirmed      OrderStatus = "confirmado"
	OrderStatusInPreparation  OrderStatus = "em_preparo"
	OrderStatusReady          OrderStatus = "pronto"
	OrderStatusOutForDelivery OrderStatus = "saiu_entrega"
	OrderStatusDelivered      OrderStatus = "entregue"
	OrderStatusCancelled      OrderStatus = "cancelado"
)

// ActiveOrderStatuses are the statuses of orders still in flight
// (not delivered, not cancelled).
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInPreparation,
	OrderStatusReady,
	OrderStatusOutForDelivery,
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInPreparation,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal sink. Terminal orders reject
// every further mutation.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order in status s may move to next.
// Any non-terminal status may move to any valid status, including Cancelled;
// Delivered and Cancelled accept nothing.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.IsValid() {
		return false
	}
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInPreparation,
		OrderStatusReady, OrderStatusOutForDelivery:
		return true
	}
	return false
}

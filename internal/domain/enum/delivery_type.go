package enum

// DeliveryType represents how an order reaches the customer
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "entrega"
	DeliveryTypePickup   DeliveryType = "retirada"
)

func (t DeliveryType) String() string {
	return string(t)
}

// IsValid reports whether t is a known delivery type
func (t DeliveryType) IsValid() bool {
	return t == DeliveryTypeDelivery || t == DeliveryTypePickup
}

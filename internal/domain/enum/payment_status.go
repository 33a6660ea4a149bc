package enum

// PaymentStatus represents the status of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pendente"
	// PaymentStatusProcessing is reserved for an asynchronous gateway flow.
	// No transition enters or leaves it.
	PaymentStatusProcessing PaymentStatus = "processando"
	PaymentStatusApproved   PaymentStatus = "aprovado"
	PaymentStatusRefused    PaymentStatus = "recusado"
	PaymentStatusReversed   PaymentStatus = "estornado"
	PaymentStatusCancelled  PaymentStatus = "cancelado"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusApproved,
		PaymentStatusRefused, PaymentStatusReversed, PaymentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment in status s may move to next.
// Legal edges: Pending→Approved, Pending→Refused, Pending→Cancelled,
// Approved→Reversed. Everything else is rejected.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusApproved ||
			next == PaymentStatusRefused ||
			next == PaymentStatusCancelled
	case PaymentStatusApproved:
		return next == PaymentStatusReversed
	case PaymentStatusProcessing, PaymentStatusRefused, PaymentStatusReversed,
		PaymentStatusCancelled:
		return false
	}
	return false
}

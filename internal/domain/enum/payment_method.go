package enum

// PaymentMethod represents how a payment settles an order
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "dinheiro"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodCreditCard PaymentMethod = "cartao_credito"
	PaymentMethodDebitCard  PaymentMethod = "cartao_debito"
	PaymentMethodTransfer   PaymentMethod = "transferencia"
	PaymentMethodBankSlip   PaymentMethod = "boleto"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodTransfer, PaymentMethodBankSlip:
		return true
	}
	return false
}

// IsCard reports whether m is a card method
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

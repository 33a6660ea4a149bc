package enum

import "testing"

func TestPaymentStatusTransitions(t *testing.T) {
	all := []PaymentStatus{
		PaymentStatusPending, PaymentStatusProcessing, PaymentStatusApproved,
		PaymentStatusRefused, PaymentStatusReversed, PaymentStatusCancelled,
	}

	allowed := map[PaymentStatus]map[PaymentStatus]bool{
		PaymentStatusPending: {
			PaymentStatusApproved:  true,
			PaymentStatusRefused:   true,
			PaymentStatusCancelled: true,
		},
		PaymentStatusApproved: {
			PaymentStatusReversed: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%q -> %q: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestPaymentStatusProcessingIsInert(t *testing.T) {
	all := []PaymentStatus{
		PaymentStatusPending, PaymentStatusProcessing, PaymentStatusApproved,
		PaymentStatusRefused, PaymentStatusReversed, PaymentStatusCancelled,
	}

	for _, s := range all {
		if s != PaymentStatusProcessing && s.CanTransitionTo(PaymentStatusProcessing) {
			t.Errorf("%q must not enter processing", s)
		}
		if PaymentStatusProcessing.CanTransitionTo(s) {
			t.Errorf("processing must not move to %q", s)
		}
	}
}

func TestPaymentMethodIsValid(t *testing.T) {
	valid := []PaymentMethod{
		PaymentMethodCash, PaymentMethodPix, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodTransfer, PaymentMethodBankSlip,
	}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("expected %q to be valid", m)
		}
	}
	for _, m := range []PaymentMethod{"", "cheque", "bitcoin"} {
		if m.IsValid() {
			t.Errorf("expected %q to be invalid", m)
		}
	}
}

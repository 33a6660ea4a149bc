package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/pkg/apperror"
)

// seedOrder creates an order directly through the order service so payment
// tests run against realistic order state
func (env *orderTestEnv) seedOrder(t *testing.T) uuid.UUID {
	t.Helper()
	order, err := env.orderSvc.CreateOrder(context.Background(), env.basicInput())
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order.ID
}

func TestCreatePaymentStartsPending(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, err := env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: orderID,
		Amount:  105.00,
		Method:  enum.PaymentMethodTransfer,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payment.Status != enum.PaymentStatusPending {
		t.Errorf("status = %q, want pendente", payment.Status)
	}
	if payment.Amount != 10500 {
		t.Errorf("amount = %d cents, want 10500", payment.Amount)
	}

	history, err := env.paySvc.GetPaymentHistory(ctx, payment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d entries, want 1", len(history))
	}
	if history[0].PreviousStatus != nil || history[0].NewStatus != enum.PaymentStatusPending {
		t.Errorf("creation entry = %v -> %q", history[0].PreviousStatus, history[0].NewStatus)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	_, err := env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 0, Method: enum.PaymentMethodPix,
	})
	if got := apperror.GetAppError(err).Code; got != 422 {
		t.Errorf("zero amount code = %d, want 422", got)
	}

	_, err = env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 10, Method: "cheque",
	})
	if got := apperror.GetAppError(err).Code; got != 422 {
		t.Errorf("unknown method code = %d, want 422", got)
	}

	_, err = env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: uuid.New(), Amount: 10, Method: enum.PaymentMethodPix,
	})
	if !apperror.IsNotFound(err) {
		t.Errorf("unknown order: got %v, want not found", err)
	}
}

func TestCreatePaymentForCancelledOrderConflict(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	if _, err := env.orderSvc.CancelOrder(ctx, orderID, nil); err != nil {
		t.Fatal(err)
	}

	_, err := env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00, Method: enum.PaymentMethodPix,
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCashChangeComputation(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		amount     float64
		amountPaid *float64
		wantPaid   int64
		wantChange int64
	}{
		{"exact amount by default", 50.00, nil, 5000, 0},
		{"change due", 50.00, ptrFloat(60.00), 6000, 1000},
		{"paid equals amount", 50.00, ptrFloat(50.00), 5000, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orderID := env.seedOrder(t)
			payment, err := env.paySvc.CreateCashPayment(ctx, &CreatePaymentInput{
				OrderID:    orderID,
				Amount:     tc.amount,
				AmountPaid: tc.amountPaid,
			}, nil)
			if err != nil {
				t.Fatalf("CreateCashPayment: %v", err)
			}
			if payment.Status != enum.PaymentStatusApproved {
				t.Errorf("cash payment status = %q, want aprovado", payment.Status)
			}
			if payment.AmountPaid != tc.wantPaid || payment.Change != tc.wantChange {
				t.Errorf("paid/change = %d/%d, want %d/%d",
					payment.AmountPaid, payment.Change, tc.wantPaid, tc.wantChange)
			}
		})
	}
}

func TestCashPaymentRejectsInsufficientAmount(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID := env.seedOrder(t)

	short := 40.00
	_, err := env.paySvc.CreateCashPayment(context.Background(), &CreatePaymentInput{
		OrderID:    orderID,
		Amount:     50.00,
		AmountPaid: &short,
	}, nil)
	if got := apperror.GetAppError(err).Code; got != 422 {
		t.Fatalf("code = %d, want 422", got)
	}
}

func TestPixPaymentGeneratesDistinctCodes(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		orderID := env.seedOrder(t)
		payment, err := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
			OrderID: orderID, Amount: 105.00,
		})
		if err != nil {
			t.Fatalf("CreatePixPayment: %v", err)
		}
		if payment.PixCode == nil {
			t.Fatal("missing PIX code")
		}
		if seen[*payment.PixCode] {
			t.Fatalf("PIX code %q issued twice", *payment.PixCode)
		}
		seen[*payment.PixCode] = true
	}
}

func TestDebitCardForcesSingleInstallment(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID := env.seedOrder(t)

	payment, err := env.paySvc.CreateCardPayment(context.Background(), &CreatePaymentInput{
		OrderID:      orderID,
		Amount:       105.00,
		Method:       enum.PaymentMethodDebitCard,
		Installments: 6,
	})
	if err != nil {
		t.Fatal(err)
	}
	if payment.Installments != 1 {
		t.Errorf("debit installments = %d, want 1", payment.Installments)
	}
}

func TestConfirmPaymentApprovesAndConfirmsOrder(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, err := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if err != nil {
		t.Fatal(err)
	}

	confirmed, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.Status != enum.PaymentStatusApproved {
		t.Errorf("status = %q, want aprovado", confirmed.Status)
	}
	if confirmed.PaidAt == nil {
		t.Error("PaidAt not set")
	}
	if confirmed.AmountPaid != confirmed.Amount {
		t.Errorf("amount paid = %d, want %d", confirmed.AmountPaid, confirmed.Amount)
	}
	if confirmed.TransactionCode == nil {
		t.Error("expected a generated transaction code")
	}

	order, _ := env.orders.GetByID(ctx, orderID)
	if order.Status != enum.OrderStatusConfirmed {
		t.Errorf("order status = %q, want confirmado", order.Status)
	}

	history, _ := env.paySvc.GetPaymentHistory(ctx, payment.ID)
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	// Newest first
	if history[0].NewStatus != enum.PaymentStatusApproved ||
		history[0].PreviousStatus == nil || *history[0].PreviousStatus != enum.PaymentStatusPending {
		t.Errorf("latest entry = %v -> %q", history[0].PreviousStatus, history[0].NewStatus)
	}
}

func TestConfirmDoesNotRegressAdvancedOrder(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})

	// The shop advanced the order manually before payment confirmation
	if _, err := env.orderSvc.UpdateStatus(ctx, orderID, enum.OrderStatusInPreparation); err != nil {
		t.Fatal(err)
	}

	if _, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil); err != nil {
		t.Fatal(err)
	}

	order, _ := env.orders.GetByID(ctx, orderID)
	if order.Status != enum.OrderStatusInPreparation {
		t.Errorf("order status = %q, must stay em_preparo", order.Status)
	}
}

func TestConfirmRefusedPaymentConflict(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if _, err := env.paySvc.RefusePayment(ctx, payment.ID, "saldo insuficiente", nil); err != nil {
		t.Fatal(err)
	}

	_, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The refused payment is untouched and its history did not grow
	reloaded, _ := env.paySvc.GetPayment(ctx, payment.ID)
	if reloaded.Status != enum.PaymentStatusRefused {
		t.Errorf("status = %q, want recusado", reloaded.Status)
	}
	history, _ := env.paySvc.GetPaymentHistory(ctx, payment.ID)
	if len(history) != 2 {
		t.Errorf("history = %d entries, want 2", len(history))
	}
}

func TestConfirmAlreadyApprovedConflict(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if _, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil); !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSecondApprovalForOrderBlocked(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	first, err := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00, Method: enum.PaymentMethodTransfer,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.paySvc.ConfirmPayment(ctx, first.ID, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := env.paySvc.ConfirmPayment(ctx, second.ID, nil, nil); !apperror.IsConflict(err) {
		t.Fatalf("second approval must conflict, got %v", err)
	}
}

func TestCreatePaymentAfterApprovalConflict(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if _, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil); err != nil {
		t.Fatal(err)
	}

	_, err := env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00, Method: enum.PaymentMethodTransfer,
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRefusePaymentRequiresReason(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(context.Background(), &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})

	_, err := env.paySvc.RefusePayment(context.Background(), payment.ID, "", nil)
	if got := apperror.GetAppError(err).Code; got != 422 {
		t.Fatalf("code = %d, want 422", got)
	}
}

func TestReversePaymentRules(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})

	// Pending cannot be reversed
	if _, err := env.paySvc.ReversePayment(ctx, payment.ID, "engano", nil, nil); !apperror.IsConflict(err) {
		t.Fatalf("pending reverse: got %v, want conflict", err)
	}

	if _, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil); err != nil {
		t.Fatal(err)
	}

	partial := 30.00
	reversed, err := env.paySvc.ReversePayment(ctx, payment.ID, "pedido cancelado", &partial, nil)
	if err != nil {
		t.Fatalf("ReversePayment: %v", err)
	}
	if reversed.Status != enum.PaymentStatusReversed {
		t.Errorf("status = %q, want estornado", reversed.Status)
	}
	if reversed.ReversedAt == nil || reversed.ReversalReason == nil {
		t.Error("reversal metadata missing")
	}
	if reversed.PartialReversalAmount == nil || *reversed.PartialReversalAmount != 3000 {
		t.Errorf("partial amount = %v, want 3000", reversed.PartialReversalAmount)
	}

	// Reversed is terminal
	if _, err := env.paySvc.ReversePayment(ctx, payment.ID, "de novo", nil, nil); !apperror.IsConflict(err) {
		t.Fatalf("double reverse: got %v, want conflict", err)
	}

	// After a reversal the order may take a fresh payment
	if _, err := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	}); err != nil {
		t.Fatalf("new payment after reversal: %v", err)
	}
}

func TestCancelPaymentOnlyWhenPending(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})

	cancelled, err := env.paySvc.CancelPayment(ctx, payment.ID, nil)
	if err != nil {
		t.Fatalf("CancelPayment: %v", err)
	}
	if cancelled.Status != enum.PaymentStatusCancelled {
		t.Errorf("status = %q, want cancelado", cancelled.Status)
	}

	if _, err := env.paySvc.CancelPayment(ctx, payment.ID, nil); !apperror.IsConflict(err) {
		t.Fatalf("cancel of cancelled: got %v, want conflict", err)
	}
}

func TestEnsurePaymentIsIdempotent(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	method := enum.PaymentMethodPix
	input := env.basicInput()
	input.PaymentMethod = &method
	order, err := env.orderSvc.CreateOrder(ctx, input)
	if err != nil {
		t.Fatal(err)
	}

	first, err := env.paySvc.EnsurePayment(ctx, order.ID)
	if err != nil {
		t.Fatalf("EnsurePayment: %v", err)
	}
	second, err := env.paySvc.EnsurePayment(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Error("EnsurePayment created a duplicate payment")
	}

	payments, _ := env.payments.ListByOrder(ctx, order.ID)
	if len(payments) != 1 {
		t.Errorf("payments = %d, want 1", len(payments))
	}
}

func TestEnsurePaymentCreatesWhenMissing(t *testing.T) {
	env := newOrderTestEnv(t)
	env.orderSvc = NewOrderService(env.orders, env.customers, env.products, env.kits, failingPaymentCreator{}, nil)
	ctx := context.Background()

	// The automatic payment failed at order creation
	method := enum.PaymentMethodPix
	input := env.basicInput()
	input.PaymentMethod = &method
	order, err := env.orderSvc.CreateOrder(ctx, input)
	if err != nil {
		t.Fatal(err)
	}
	if payments, _ := env.payments.ListByOrder(ctx, order.ID); len(payments) != 0 {
		t.Fatalf("expected no payments yet, got %d", len(payments))
	}

	payment, err := env.paySvc.EnsurePayment(ctx, order.ID)
	if err != nil {
		t.Fatalf("EnsurePayment: %v", err)
	}
	if payment.Method != enum.PaymentMethodPix || payment.Amount != 10500 {
		t.Errorf("ensured payment = %q / %d cents", payment.Method, payment.Amount)
	}
}

func TestPaymentStatistics(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()

	// Approved PIX of 105.00
	pixOrder := env.seedOrder(t)
	pix, _ := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{OrderID: pixOrder, Amount: 105.00})
	if _, err := env.paySvc.ConfirmPayment(ctx, pix.ID, nil, nil); err != nil {
		t.Fatal(err)
	}

	// Approved then reversed cash of 50.00
	cashOrder := env.seedOrder(t)
	cash, _ := env.paySvc.CreateCashPayment(ctx, &CreatePaymentInput{OrderID: cashOrder, Amount: 50.00}, nil)
	if _, err := env.paySvc.ReversePayment(ctx, cash.ID, "produto danificado", nil, nil); err != nil {
		t.Fatal(err)
	}

	// Pending transfer
	pendingOrder := env.seedOrder(t)
	if _, err := env.paySvc.CreatePayment(ctx, &CreatePaymentInput{
		OrderID: pendingOrder, Amount: 10.00, Method: enum.PaymentMethodTransfer,
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := env.paySvc.GetStatistics(ctx, nil, nil)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}

	if stats.TotalPayments != 3 {
		t.Errorf("total = %d, want 3", stats.TotalPayments)
	}
	if stats.ByStatus["aprovado"] != 1 || stats.ByStatus["estornado"] != 1 || stats.ByStatus["pendente"] != 1 {
		t.Errorf("by status = %v", stats.ByStatus)
	}
	if stats.ApprovedTotal != 105.00 {
		t.Errorf("approved total = %.2f, want 105.00", stats.ApprovedTotal)
	}
	if stats.ReversedTotal != 50.00 {
		t.Errorf("reversed total = %.2f, want 50.00", stats.ReversedTotal)
	}
	if stats.NetTotal != 55.00 {
		t.Errorf("net = %.2f, want 55.00", stats.NetTotal)
	}
	// Only approved payments enter the per-method breakdown
	if got := stats.ByMethod["pix"]; got.Count != 1 || got.Amount != 105.00 {
		t.Errorf("pix breakdown = %+v", got)
	}
	if _, ok := stats.ByMethod["dinheiro"]; ok {
		t.Error("reversed cash must not appear in the method breakdown")
	}
}

func TestConcurrentConfirmsApproveOnce(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, err := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if err != nil {
		t.Fatal(err)
	}

	const n = 10
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperror.IsConflict(err):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != n-1 {
		t.Fatalf("succeeded = %d, conflicted = %d, want 1 and %d", succeeded, conflicted, n-1)
	}

	got, err := env.paySvc.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != enum.PaymentStatusApproved {
		t.Errorf("status = %q, want aprovado", got.Status)
	}

	// A single transition recorded: creation plus one approval
	history, _ := env.paySvc.GetPaymentHistory(ctx, payment.ID)
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
}

func TestConcurrentConfirmAndRefuseHasOneWinner(t *testing.T) {
	env := newOrderTestEnv(t)
	ctx := context.Background()
	orderID := env.seedOrder(t)

	payment, err := env.paySvc.CreatePixPayment(ctx, &CreatePaymentInput{
		OrderID: orderID, Amount: 105.00,
	})
	if err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := env.paySvc.ConfirmPayment(ctx, payment.ID, nil, nil)
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := env.paySvc.RefusePayment(ctx, payment.ID, "Pagamento não identificado", nil)
		errs <- err
	}()
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !apperror.IsConflict(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}

	got, err := env.paySvc.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != enum.PaymentStatusApproved && got.Status != enum.PaymentStatusRefused {
		t.Fatalf("status = %q, want the winner's terminal status", got.Status)
	}

	// The loser must not overwrite the winner's transition
	history, _ := env.paySvc.GetPaymentHistory(ctx, payment.ID)
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].NewStatus != got.Status {
		t.Errorf("latest history entry = %q, payment status = %q", history[0].NewStatus, got.Status)
	}
}

func ptrFloat(v float64) *float64 {
	return &v
}

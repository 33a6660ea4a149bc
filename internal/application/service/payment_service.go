package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/apperror"
	"github.com/mateusallves/doceria-api/pkg/pagination"
	"github.com/mateusallves/doceria-api/pkg/utils"
)

// PaymentService owns the payment state machine and its append-only history.
// Every transition is persisted together with its history entry in one
// transaction; the database keeps at most one approved payment per order.
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	historyRepo  repository.PaymentHistoryRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	historyRepo repository.PaymentHistoryRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		historyRepo:  historyRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
	}
}

// CreatePaymentInput represents the create payment input. Amounts are decimal
// currency values; they are converted to cents at the boundary.
type CreatePaymentInput struct {
	OrderID uuid.UUID
	Amount  float64
	Method  enum.PaymentMethod

	// Cash
	AmountPaid *float64

	// Card
	CardBrand      *string
	CardLastDigits *string
	Installments   int

	// PIX / transfer
	PixKey  *string
	Receipt *string

	// Bank slip
	BarCode       *string
	DigitableLine *string
	DueDate       *string

	TransactionCode   *string
	AuthorizationCode *string
	NSU               *string
	Notes             *string
}

// ConfirmPaymentInput carries the optional settlement details recorded when a
// payment is approved
type ConfirmPaymentInput struct {
	TransactionCode   *string
	AuthorizationCode *string
	NSU               *string
	Receipt           *string
	Notes             *string
}

// CreatePayment registers a new pending payment attempt for an order
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	if !input.Method.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "method", Message: "invalid payment method"},
		})
	}
	if input.Amount <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "amount must be greater than zero"},
		})
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewConflictError("Cannot create a payment for a cancelled order")
	}

	approved, err := s.paymentRepo.ApprovedByOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if approved != nil {
		return nil, apperror.NewConflictError("Order already has an approved payment")
	}

	payment := &entity.Payment{
		OrderID:           input.OrderID,
		Amount:            toCents(input.Amount),
		Method:            input.Method,
		Status:            enum.PaymentStatusPending,
		Installments:      1,
		Notes:             input.Notes,
		Receipt:           input.Receipt,
		TransactionCode:   input.TransactionCode,
		AuthorizationCode: input.AuthorizationCode,
		NSU:               input.NSU,
	}

	switch input.Method {
	case enum.PaymentMethodCash:
		paid := payment.Amount
		if input.AmountPaid != nil {
			paid = toCents(*input.AmountPaid)
		}
		if paid < payment.Amount {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "amount_paid", Message: "amount paid must cover the payment amount"},
			})
		}
		payment.AmountPaid = paid
		payment.Change = paid - payment.Amount

	case enum.PaymentMethodPix:
		payment.PixKey = input.PixKey
		code := utils.GeneratePixCode()
		payment.PixCode = &code

	case enum.PaymentMethodCreditCard, enum.PaymentMethodDebitCard:
		payment.CardBrand = input.CardBrand
		payment.CardLastDigits = input.CardLastDigits
		if input.Installments > 0 {
			payment.Installments = input.Installments
		}
		if input.Method == enum.PaymentMethodDebitCard {
			payment.Installments = 1
		}

	case enum.PaymentMethodBankSlip:
		payment.BarCode = input.BarCode
		payment.DigitableLine = input.DigitableLine
		payment.DueDate = input.DueDate
	}

	history := newHistoryEntry(nil, enum.PaymentStatusPending, "Payment created", nil)
	if err := s.paymentRepo.CreateWithHistory(ctx, payment, history); err != nil {
		return nil, err
	}
	return payment, nil
}

// CreateCashPayment registers a cash payment and confirms it immediately,
// computing the change from the amount handed over
func (s *PaymentService) CreateCashPayment(ctx context.Context, input *CreatePaymentInput, userID *uuid.UUID) (*entity.Payment, error) {
	input.Method = enum.PaymentMethodCash
	payment, err := s.CreatePayment(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.ConfirmPayment(ctx, payment.ID, nil, userID)
}

// CreatePixPayment registers a PIX payment with a generated copy-and-paste code
func (s *PaymentService) CreatePixPayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	input.Method = enum.PaymentMethodPix
	return s.CreatePayment(ctx, input)
}

// CreateCardPayment registers a credit or debit card payment
func (s *PaymentService) CreateCardPayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	if input.Method != enum.PaymentMethodCreditCard && input.Method != enum.PaymentMethodDebitCard {
		input.Method = enum.PaymentMethodCreditCard
	}
	return s.CreatePayment(ctx, input)
}

// CreateForOrder creates the payment that follows from an order's payment
// method hint. Cash orders settle on the spot, so their payment is confirmed
// immediately with the order's change-for amount as the cash handed over.
func (s *PaymentService) CreateForOrder(ctx context.Context, order *entity.Order) (*entity.Payment, error) {
	if order.PaymentMethod == nil {
		return nil, apperror.NewBadRequestError("Order has no payment method")
	}

	notes := fmt.Sprintf("Payment created automatically for order %s", order.OrderNumber)
	input := &CreatePaymentInput{
		OrderID: order.ID,
		Amount:  float64(order.Total) / 100,
		Method:  *order.PaymentMethod,
		Notes:   &notes,
	}

	switch *order.PaymentMethod {
	case enum.PaymentMethodCash:
		if order.ChangeFor != nil && *order.ChangeFor > order.Total {
			paid := float64(*order.ChangeFor) / 100
			input.AmountPaid = &paid
		}
		return s.CreateCashPayment(ctx, input, nil)
	case enum.PaymentMethodPix:
		return s.CreatePixPayment(ctx, input)
	default:
		return s.CreatePayment(ctx, input)
	}
}

// EnsurePayment returns the order's pending or approved payment, creating one
// from the order's payment method when none exists. Safe to call repeatedly.
func (s *PaymentService) EnsurePayment(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	payments, err := s.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].Status == enum.PaymentStatusApproved {
			return &payments[i], nil
		}
	}
	for i := range payments {
		if payments[i].Status == enum.PaymentStatusPending {
			return &payments[i], nil
		}
	}

	return s.CreateForOrder(ctx, order)
}

// ConfirmPayment approves a pending payment. The order is moved from Pending
// to Confirmed as a best-effort side effect; if the order already advanced,
// the payment approval stands on its own.
func (s *PaymentService) ConfirmPayment(ctx context.Context, id uuid.UUID, input *ConfirmPaymentInput, userID *uuid.UUID) (*entity.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.Status == enum.PaymentStatusApproved {
		return nil, apperror.NewConflictError("Payment is already approved")
	}
	if !payment.Status.CanTransitionTo(enum.PaymentStatusApproved) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot confirm a %s payment", payment.Status),
		)
	}

	prev := payment.Status
	now := time.Now()
	payment.Status = enum.PaymentStatusApproved
	payment.PaidAt = &now
	if payment.AmountPaid == 0 {
		payment.AmountPaid = payment.Amount
	}
	if input != nil {
		if input.TransactionCode != nil {
			payment.TransactionCode = input.TransactionCode
		}
		if input.AuthorizationCode != nil {
			payment.AuthorizationCode = input.AuthorizationCode
		}
		if input.NSU != nil {
			payment.NSU = input.NSU
		}
		if input.Receipt != nil {
			payment.Receipt = input.Receipt
		}
		if input.Notes != nil {
			payment.Notes = input.Notes
		}
	}
	if payment.TransactionCode == nil {
		code := utils.GenerateTransactionCode()
		payment.TransactionCode = &code
	}

	history := newHistoryEntry(&prev, enum.PaymentStatusApproved, "Payment confirmed", userID)
	if err := s.paymentRepo.SaveWithHistory(ctx, payment, prev, history); err != nil {
		if errors.Is(err, repository.ErrDuplicateApproved) {
			return nil, apperror.NewConflictError("Order already has an approved payment")
		}
		if errors.Is(err, repository.ErrStaleTransition) {
			return nil, apperror.NewConflictError("Payment status changed, reload and retry")
		}
		return nil, err
	}

	// Auto-confirm the order. Guarded on the current status so a manually
	// advanced order is never pulled back; failure only logs.
	if _, err := s.orderRepo.UpdateStatusIf(ctx, payment.OrderID,
		enum.OrderStatusPending, enum.OrderStatusConfirmed); err != nil {
		log.Printf("Warning: auto-confirm of order %s failed: %v", payment.OrderID, err)
	}

	return payment, nil
}

// RefusePayment refuses a pending payment, recording the reason
func (s *PaymentService) RefusePayment(ctx context.Context, id uuid.UUID, reason string, userID *uuid.UUID) (*entity.Payment, error) {
	if reason == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "reason", Message: "refusal reason is required"},
		})
	}

	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(enum.PaymentStatusRefused) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot refuse a %s payment", payment.Status),
		)
	}

	prev := payment.Status
	payment.Status = enum.PaymentStatusRefused
	payment.RefusalReason = &reason

	history := newHistoryEntry(&prev, enum.PaymentStatusRefused, "Payment refused: "+reason, userID)
	if err := s.paymentRepo.SaveWithHistory(ctx, payment, prev, history); err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			return nil, apperror.NewConflictError("Payment status changed, reload and retry")
		}
		return nil, err
	}
	return payment, nil
}

// ReversePayment reverses an approved payment. Reversals are always for the
// full amount; a caller-supplied partial amount is recorded for reference only.
func (s *PaymentService) ReversePayment(ctx context.Context, id uuid.UUID, reason string, partialAmount *float64, userID *uuid.UUID) (*entity.Payment, error) {
	if reason == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "reason", Message: "reversal reason is required"},
		})
	}

	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(enum.PaymentStatusReversed) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot reverse a %s payment", payment.Status),
		)
	}

	prev := payment.Status
	now := time.Now()
	payment.Status = enum.PaymentStatusReversed
	payment.ReversedAt = &now
	payment.ReversalReason = &reason
	if partialAmount != nil {
		v := toCents(*partialAmount)
		payment.PartialReversalAmount = &v
	}

	history := newHistoryEntry(&prev, enum.PaymentStatusReversed, "Payment reversed: "+reason, userID)
	if err := s.paymentRepo.SaveWithHistory(ctx, payment, prev, history); err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			return nil, apperror.NewConflictError("Payment status changed, reload and retry")
		}
		return nil, err
	}
	return payment, nil
}

// CancelPayment cancels a pending payment attempt
func (s *PaymentService) CancelPayment(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*entity.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(enum.PaymentStatusCancelled) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot cancel a %s payment", payment.Status),
		)
	}

	prev := payment.Status
	payment.Status = enum.PaymentStatusCancelled

	history := newHistoryEntry(&prev, enum.PaymentStatusCancelled, "Payment cancelled", userID)
	if err := s.paymentRepo.SaveWithHistory(ctx, payment, prev, history); err != nil {
		if errors.Is(err, repository.ErrStaleTransition) {
			return nil, apperror.NewConflictError("Payment status changed, reload and retry")
		}
		return nil, err
	}
	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// GetPaymentHistory lists a payment's audit trail, newest first
func (s *PaymentService) GetPaymentHistory(ctx context.Context, id uuid.UUID) ([]entity.PaymentHistory, error) {
	if _, err := s.GetPayment(ctx, id); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByPayment(ctx, id)
}

// ListOrderPayments lists all payment attempts for an order
func (s *PaymentService) ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.paymentRepo.ListByOrder(ctx, orderID)
}

// GetApprovedPayment returns the order's approved payment
func (s *PaymentService) GetApprovedPayment(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	payment, err := s.paymentRepo.ApprovedByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Approved payment")
	}
	return payment, nil
}

// ListPayments lists payments with status/method filters and pagination
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.Payment], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.ValidateWithMax(500)

	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "status", Message: "invalid payment status"},
		})
	}
	if params.Method != nil && !params.Method.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "method", Message: "invalid payment method"},
		})
	}

	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(
		payments,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	), nil
}

// ListCustomerPayments lists payments across all of one customer's orders
func (s *PaymentService) ListCustomerPayments(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Payment], error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	payments, total, err := s.paymentRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(
		payments,
		pagination.NewPagination(params.Page, params.PerPage, total),
	), nil
}

// MethodBreakdown aggregates approved payments of one method
type MethodBreakdown struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// PaymentStatistics aggregates payments over an optional date range
type PaymentStatistics struct {
	TotalPayments int                        `json:"total_payments"`
	ByStatus      map[string]int             `json:"by_status"`
	ApprovedTotal float64                    `json:"approved_total"`
	ReversedTotal float64                    `json:"reversed_total"`
	NetTotal      float64                    `json:"net_total"`
	ByMethod      map[string]MethodBreakdown `json:"by_method"`
}

// GetStatistics aggregates payment counts and totals. The per-method
// breakdown covers approved payments only; the net total subtracts reversals.
func (s *PaymentService) GetStatistics(ctx context.Context, start, end *time.Time) (*PaymentStatistics, error) {
	payments, err := s.paymentRepo.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stats := &PaymentStatistics{
		TotalPayments: len(payments),
		ByStatus:      make(map[string]int),
		ByMethod:      make(map[string]MethodBreakdown),
	}

	var approvedCents, reversedCents int64
	for _, payment := range payments {
		stats.ByStatus[payment.Status.String()]++
		switch payment.Status {
		case enum.PaymentStatusApproved:
			approvedCents += payment.Amount
			entry := stats.ByMethod[payment.Method.String()]
			entry.Count++
			entry.Amount += float64(payment.Amount) / 100
			stats.ByMethod[payment.Method.String()] = entry
		case enum.PaymentStatusReversed:
			reversedCents += payment.Amount
		}
	}

	stats.ApprovedTotal = float64(approvedCents) / 100
	stats.ReversedTotal = float64(reversedCents) / 100
	stats.NetTotal = float64(approvedCents-reversedCents) / 100
	return stats, nil
}

// CountPayments counts payments, optionally restricted to one status
func (s *PaymentService) CountPayments(ctx context.Context, status *enum.PaymentStatus) (int64, error) {
	if status != nil && !status.IsValid() {
		return 0, apperror.NewValidationError([]apperror.FieldError{
			{Field: "status", Message: "invalid payment status"},
		})
	}
	return s.paymentRepo.Count(ctx, status)
}

func newHistoryEntry(prev *enum.PaymentStatus, next enum.PaymentStatus, description string, userID *uuid.UUID) *entity.PaymentHistory {
	return &entity.PaymentHistory{
		PreviousStatus: prev,
		NewStatus:      next,
		Description:    &description,
		UserID:         userID,
	}
}

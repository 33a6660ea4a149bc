package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// ErrDuplicateApproved is returned by payment writes that would leave an
// order with more than one approved payment
var ErrDuplicateApproved = errors.New("order already has an approved payment")

// ErrStaleTransition is returned by SaveWithHistory when the payment is no
// longer in the expected previous status, meaning a concurrent transition won
var ErrStaleTransition = errors.New("payment status changed concurrently")

// PaymentRepository defines the interface for payment data operations.
// Writes that change a payment's status take the matching history entry and
// persist both in one transaction, so the audit log can never drift from the
// payment rows.
type PaymentRepository interface {
	CreateWithHistory(ctx context.Context, payment *entity.Payment, history *entity.PaymentHistory) error
	// SaveWithHistory persists a status transition conditionally on the payment
	// still being in prev, returning ErrStaleTransition when it is not.
	SaveWithHistory(ctx context.Context, payment *entity.Payment, prev enum.PaymentStatus, history *entity.PaymentHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
	// ApprovedByOrder returns the order's approved payment, or nil when none
	ApprovedByOrder(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
	ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]entity.Payment, error)
	Count(ctx context.Context, status *enum.PaymentStatus) (int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.PaymentStatus
	Method     *enum.PaymentMethod
}

// PaymentHistoryRepository reads the append-only payment audit log. Entries
// are only ever written alongside a payment transition via PaymentRepository.
type PaymentHistoryRepository interface {
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentHistory, error)
}

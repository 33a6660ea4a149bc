package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	domainRepo "github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/pagination"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateWithHistory(ctx context.Context, payment *entity.Payment, history *entity.PaymentHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		history.PaymentID = payment.ID
		return tx.Create(history).Error
	})
}

// SaveWithHistory persists a status transition and its audit row atomically.
// The update is conditional on the row still holding prev, so two racing
// transitions serialize in the database and the loser gets ErrStaleTransition
// instead of overwriting a committed status. When the transition moves the
// payment into Approved, the partial unique index on payments(order_id) makes
// a concurrent second approval fail; that failure is surfaced as
// ErrDuplicateApproved.
func (r *paymentRepository) SaveWithHistory(ctx context.Context, payment *entity.Payment, prev enum.PaymentStatus, history *entity.PaymentHistory) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Payment{}).
			Where("id = ? AND status = ?", payment.ID, prev).
			Omit("Order").
			Select("*").
			Updates(payment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrStaleTransition
		}
		history.PaymentID = payment.ID
		return tx.Create(history).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateApproved
	}
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Order").
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ApprovedByOrder(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, enum.PaymentStatusApproved).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Order").
		Order("payments.created_at DESC").
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Method != nil {
		query = query.Where("method = ?", *params.Method)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Order").
		Order("created_at DESC").
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepository) ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]entity.Payment, error) {
	query := r.db.WithContext(ctx).Model(&entity.Payment{})
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at < ?", *end)
	}

	var payments []entity.Payment
	err := query.Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Count(ctx context.Context, status *enum.PaymentStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Payment{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

type paymentHistoryRepository struct {
	db *gorm.DB
}

// NewPaymentHistoryRepository creates a new payment history repository
func NewPaymentHistoryRepository(db *gorm.DB) domainRepo.PaymentHistoryRepository {
	return &paymentHistoryRepository{db: db}
}

func (r *paymentHistoryRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentHistory, error) {
	var entries []entity.PaymentHistory
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

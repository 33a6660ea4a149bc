package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	domainRepo "github.com/mateusallves/doceria-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its items in one transaction. The order
// number is allocated inside the same transaction by bumping the per-year
// counter row with an atomic upsert, so two concurrent creates serialize on
// the counter row and never receive the same sequence.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := time.Now().Year()

		var seq int
		err := tx.Raw(
			`INSERT INTO order_counters (year, sequence) VALUES (?, 1)
			 ON CONFLICT (year) DO UPDATE SET sequence = order_counters.sequence + 1
			 RETURNING sequence`,
			year,
		).Scan(&seq).Error
		if err != nil {
			return err
		}

		order.OrderNumber = entity.FormatOrderNumber(year, seq)

		// Items travel on the association and are inserted with the order
		return tx.Create(order).Error
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Omit("Items", "Customer").Save(order).Error
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByStatuses(ctx context.Context, statuses []enum.OrderStatus) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByDate(ctx context.Context, day time.Time) ([]entity.Order, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]entity.Order, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at < ?", *end)
	}

	var orders []entity.Order
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Count(ctx context.Context, status *enum.OrderStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	return total, err
}

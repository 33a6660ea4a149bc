package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create persists the order and its items as one transaction, allocating
	// the next order number for the current year inside that transaction.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	// UpdateStatusIf sets the status only when the current status matches
	// from; returns true when the row was updated.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.OrderStatus) (bool, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error)
	ListByStatuses(ctx context.Context, statuses []enum.OrderStatus) ([]entity.Order, error)
	ListByDate(ctx context.Context, day time.Time) ([]entity.Order, error)
	ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]entity.Order, error)
	Count(ctx context.Context, status *enum.OrderStatus) (int64, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
}

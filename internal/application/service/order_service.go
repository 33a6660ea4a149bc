package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/apperror"
	"github.com/mateusallves/doceria-api/pkg/email"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// autoPaymentCreator creates the follow-up payment for a freshly created
// order. Satisfied by PaymentService; declared here so the dependency stays
// one-directional.
type autoPaymentCreator interface {
	CreateForOrder(ctx context.Context, order *entity.Order) (*entity.Payment, error)
}

// orderNotifier sends the customer-facing order confirmation
type orderNotifier interface {
	SendOrderConfirmation(toEmail string, data email.OrderConfirmationData) error
}

// OrderService owns orders and their line items: pricing, the order status
// state machine, and the best-effort couplings that run after creation
type OrderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	kitRepo      repository.KitRepository
	payments     autoPaymentCreator
	notifier     orderNotifier
}

// NewOrderService creates a new order service. payments and notifier may be
// nil; the corresponding follow-up steps are skipped.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	kitRepo repository.KitRepository,
	payments autoPaymentCreator,
	notifier orderNotifier,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		kitRepo:      kitRepo,
		payments:     payments,
		notifier:     notifier,
	}
}

// SetNotifier wires the confirmation email step after construction
func (s *OrderService) SetNotifier(notifier orderNotifier) {
	s.notifier = notifier
}

// OrderItemInput represents one requested line item
type OrderItemInput struct {
	ProductID *uuid.UUID
	KitID     *uuid.UUID
	Quantity  int
	Notes     *string
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	CustomerID   uuid.UUID
	DeliveryType enum.DeliveryType
	DeliveryDate *string
	DeliveryTime *string

	DeliveryStreet     *string
	DeliveryNumber     *string
	DeliveryComplement *string
	DeliveryDistrict   *string
	DeliveryCity       *string
	DeliveryState      *string
	DeliveryZip        *string
	// UseCustomerAddress fills missing delivery-address fields from the
	// customer record when the order is for delivery
	UseCustomerAddress bool

	PaymentMethod *enum.PaymentMethod
	ChangeFor     *float64

	Discount    float64
	DeliveryFee float64
	Notes       *string
	Items       []OrderItemInput
}

// UpdateOrderInput is a partial patch; nil fields are left untouched
type UpdateOrderInput struct {
	DeliveryType *enum.DeliveryType
	DeliveryDate *string
	DeliveryTime *string

	DeliveryStreet     *string
	DeliveryNumber     *string
	DeliveryComplement *string
	DeliveryDistrict   *string
	DeliveryCity       *string
	DeliveryState      *string
	DeliveryZip        *string

	PaymentMethod *enum.PaymentMethod
	Discount      *float64
	DeliveryFee   *float64
	Notes         *string
}

// toCents converts a decimal currency amount to cents
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// CreateOrder creates a new order with its line items as one atomic unit.
// When a payment method hint is present, the matching payment is created as a
// separate best-effort step after the order transaction commits: its failure
// is logged and never undoes the order.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if !customer.Active {
		return nil, apperror.NewConflictError("Customer is inactive")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "order must have at least one item"},
		})
	}

	if input.Discount < 0 || input.DeliveryFee < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount", Message: "discount and delivery fee must not be negative"},
		})
	}

	deliveryType := input.DeliveryType
	if deliveryType == "" {
		deliveryType = enum.DeliveryTypeDelivery
	}
	if !deliveryType.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "delivery_type", Message: "invalid delivery type"},
		})
	}

	if input.PaymentMethod != nil && !input.PaymentMethod.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_method", Message: "invalid payment method"},
		})
	}

	items := make([]entity.OrderItem, 0, len(input.Items))
	var subtotal int64
	for i, itemInput := range input.Items {
		item, err := s.resolveItem(ctx, i, &itemInput)
		if err != nil {
			return nil, err
		}
		subtotal += item.Subtotal
		items = append(items, *item)
	}

	order := &entity.Order{
		CustomerID:         input.CustomerID,
		Status:             enum.OrderStatusPending,
		DeliveryType:       deliveryType,
		DeliveryDate:       input.DeliveryDate,
		DeliveryTime:       input.DeliveryTime,
		DeliveryStreet:     input.DeliveryStreet,
		DeliveryNumber:     input.DeliveryNumber,
		DeliveryComplement: input.DeliveryComplement,
		DeliveryDistrict:   input.DeliveryDistrict,
		DeliveryCity:       input.DeliveryCity,
		DeliveryState:      input.DeliveryState,
		DeliveryZip:        input.DeliveryZip,
		PaymentMethod:      input.PaymentMethod,
		Subtotal:           subtotal,
		Discount:           toCents(input.Discount),
		DeliveryFee:        toCents(input.DeliveryFee),
		Notes:              input.Notes,
		Items:              items,
	}
	if input.ChangeFor != nil {
		v := toCents(*input.ChangeFor)
		order.ChangeFor = &v
	}
	order.RecomputeTotal()

	if input.UseCustomerAddress && deliveryType == enum.DeliveryTypeDelivery {
		fillAddressFromCustomer(order, customer)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Best-effort follow-ups. Neither failure rolls back the order; a missing
	// payment can be created later through EnsurePayment.
	if input.PaymentMethod != nil && s.payments != nil {
		if _, err := s.payments.CreateForOrder(ctx, order); err != nil {
			log.Printf("Warning: automatic payment for order %s failed: %v", order.OrderNumber, err)
		}
	}
	if s.notifier != nil && customer.Email != "" {
		data := email.OrderConfirmationData{
			CustomerName: customer.Name,
			OrderNumber:  order.OrderNumber,
			Total:        float64(order.Total) / 100,
		}
		if order.DeliveryDate != nil {
			data.DeliveryDate = *order.DeliveryDate
		}
		if err := s.notifier.SendOrderConfirmation(customer.Email, data); err != nil {
			log.Printf("Warning: confirmation email for order %s failed: %v", order.OrderNumber, err)
		}
	}

	return s.orderRepo.GetByID(ctx, order.ID)
}

// resolveItem validates one item input and snapshots the referenced catalog
// entry into a line item
func (s *OrderService) resolveItem(ctx context.Context, idx int, input *OrderItemInput) (*entity.OrderItem, error) {
	field := fmt.Sprintf("items[%d]", idx)

	if input.ProductID == nil && input.KitID == nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: field, Message: "item must reference a product or a kit"},
		})
	}
	if input.ProductID != nil && input.KitID != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: field, Message: "item must reference a product or a kit, not both"},
		})
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: field, Message: "quantity must be at least 1"},
		})
	}

	item := &entity.OrderItem{
		ProductID: input.ProductID,
		KitID:     input.KitID,
		Quantity:  quantity,
		Notes:     input.Notes,
	}

	if input.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", *input.ProductID))
		}
		item.ItemName = product.Name
		item.ItemDescription = product.Description
		item.UnitPrice = product.Price
	} else {
		kit, err := s.kitRepo.GetByID(ctx, *input.KitID)
		if err != nil {
			return nil, err
		}
		if kit == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Kit %s", *input.KitID))
		}
		item.ItemName = kit.Name
		item.ItemDescription = kit.Description
		item.UnitPrice = kit.Price
	}

	item.Subtotal = item.UnitPrice * int64(item.Quantity)
	return item, nil
}

func fillAddressFromCustomer(order *entity.Order, customer *entity.Customer) {
	if order.DeliveryStreet == nil {
		order.DeliveryStreet = customer.Street
	}
	if order.DeliveryNumber == nil {
		order.DeliveryNumber = customer.Number
	}
	if order.DeliveryComplement == nil {
		order.DeliveryComplement = customer.Complement
	}
	if order.DeliveryDistrict == nil {
		order.DeliveryDistrict = customer.District
	}
	if order.DeliveryCity == nil {
		order.DeliveryCity = customer.City
	}
	if order.DeliveryState == nil {
		order.DeliveryState = customer.State
	}
	if order.DeliveryZip == nil {
		order.DeliveryZip = customer.Zip
	}
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// GetOrderByNumber retrieves an order by its human-readable number
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with status/customer filters and pagination
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.ValidateWithMax(500)

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(
		orders,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	), nil
}

// ListCustomerOrders lists all orders of one customer, newest first
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

// ListPendingOrders lists orders still in flight (not delivered, not cancelled)
func (s *OrderService) ListPendingOrders(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListByStatuses(ctx, enum.ActiveOrderStatuses)
}

// ListOrdersForDate lists the orders created on one calendar date; a zero day
// means today
func (s *OrderService) ListOrdersForDate(ctx context.Context, day time.Time) ([]entity.Order, error) {
	if day.IsZero() {
		day = time.Now()
	}
	return s.orderRepo.ListByDate(ctx, day)
}

// UpdateStatus moves the order to a new status. Delivered and Cancelled are
// terminal; everything else may move anywhere.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus enum.OrderStatus) (*entity.Order, error) {
	if !newStatus.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "status", Message: "invalid order status"},
		})
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot change status of a %s order", order.Status),
		)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	order.Status = newStatus
	return order, nil
}

// CancelOrder cancels an order, recording the reason in its notes
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, reason *string) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewConflictError("Order is already cancelled")
	}
	if order.Status == enum.OrderStatusDelivered {
		return nil, apperror.NewConflictError("Cannot cancel an order that was already delivered")
	}

	order.Status = enum.OrderStatusCancelled
	if reason != nil && *reason != "" {
		notes := ""
		if order.Notes != nil {
			notes = *order.Notes + "\n"
		}
		notes += "[CANCELADO] " + *reason
		order.Notes = &notes
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder applies a partial patch to a non-terminal order. If discount or
// delivery fee changed, the total is recomputed from the stored subtotal.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input *UpdateOrderInput) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Cannot edit a %s order", order.Status),
		)
	}

	if input.DeliveryType != nil {
		if !input.DeliveryType.IsValid() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "delivery_type", Message: "invalid delivery type"},
			})
		}
		order.DeliveryType = *input.DeliveryType
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.IsValid() {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "payment_method", Message: "invalid payment method"},
			})
		}
		order.PaymentMethod = input.PaymentMethod
	}
	if input.DeliveryDate != nil {
		order.DeliveryDate = input.DeliveryDate
	}
	if input.DeliveryTime != nil {
		order.DeliveryTime = input.DeliveryTime
	}
	if input.DeliveryStreet != nil {
		order.DeliveryStreet = input.DeliveryStreet
	}
	if input.DeliveryNumber != nil {
		order.DeliveryNumber = input.DeliveryNumber
	}
	if input.DeliveryComplement != nil {
		order.DeliveryComplement = input.DeliveryComplement
	}
	if input.DeliveryDistrict != nil {
		order.DeliveryDistrict = input.DeliveryDistrict
	}
	if input.DeliveryCity != nil {
		order.DeliveryCity = input.DeliveryCity
	}
	if input.DeliveryState != nil {
		order.DeliveryState = input.DeliveryState
	}
	if input.DeliveryZip != nil {
		order.DeliveryZip = input.DeliveryZip
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}

	if input.Discount != nil || input.DeliveryFee != nil {
		if input.Discount != nil {
			if *input.Discount < 0 {
				return nil, apperror.NewValidationError([]apperror.FieldError{
					{Field: "discount", Message: "discount must not be negative"},
				})
			}
			order.Discount = toCents(*input.Discount)
		}
		if input.DeliveryFee != nil {
			if *input.DeliveryFee < 0 {
				return nil, apperror.NewValidationError([]apperror.FieldError{
					{Field: "delivery_fee", Message: "delivery fee must not be negative"},
				})
			}
			order.DeliveryFee = toCents(*input.DeliveryFee)
		}
		order.RecomputeTotal()
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// OrderStatistics aggregates orders over an optional date range
type OrderStatistics struct {
	TotalOrders   int            `json:"total_orders"`
	ByStatus      map[string]int `json:"by_status"`
	Delivered     int            `json:"delivered"`
	Cancelled     int            `json:"cancelled"`
	Active        int            `json:"active"`
	Revenue       float64        `json:"revenue"`
	AverageTicket float64        `json:"average_ticket"`
}

// GetStatistics aggregates order counts and revenue. Cancelled orders are
// excluded from revenue; the average ticket divides revenue by the number of
// delivered orders.
func (s *OrderService) GetStatistics(ctx context.Context, start, end *time.Time) (*OrderStatistics, error) {
	orders, err := s.orderRepo.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stats := &OrderStatistics{
		TotalOrders: len(orders),
		ByStatus:    make(map[string]int),
	}

	var revenueCents int64
	for _, order := range orders {
		stats.ByStatus[order.Status.String()]++
		switch order.Status {
		case enum.OrderStatusDelivered:
			stats.Delivered++
			revenueCents += order.Total
		case enum.OrderStatusCancelled:
			stats.Cancelled++
		default:
			stats.Active++
			revenueCents += order.Total
		}
	}

	stats.Revenue = float64(revenueCents) / 100
	if stats.Delivered > 0 {
		stats.AverageTicket = math.Round(stats.Revenue/float64(stats.Delivered)*100) / 100
	}
	return stats, nil
}

// CountOrders counts orders, optionally restricted to one status
func (s *OrderService) CountOrders(ctx context.Context, status *enum.OrderStatus) (int64, error) {
	if status != nil && !status.IsValid() {
		return 0, apperror.NewValidationError([]apperror.FieldError{
			{Field: "status", Message: "invalid order status"},
		})
	}
	return s.orderRepo.Count(ctx, status)
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// In-memory repository fakes. They mirror the persistence guarantees the
// gorm implementations get from Postgres: per-year order number sequences
// and the single-approved-payment rule.

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*entity.Order
	counters map[int]int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uuid.UUID]*entity.Order),
		counters: make(map[int]int),
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	year := time.Now().Year()
	r.counters[year]++
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.OrderNumber = entity.FormatOrderNumber(year, r.counters[year])
	order.CreatedAt = time.Now()
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}

	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			cp := *order
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order, ok := r.orders[id]; ok {
		order.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enum.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		if params.Status != nil && order.Status != *params.Status {
			continue
		}
		if params.CustomerID != nil && order.CustomerID != *params.CustomerID {
			continue
		}
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByStatuses(ctx context.Context, statuses []enum.OrderStatus) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		for _, s := range statuses {
			if order.Status == s {
				out = append(out, *order)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByDate(ctx context.Context, day time.Time) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		if order.CreatedAt.Year() == day.Year() && order.CreatedAt.YearDay() == day.YearDay() {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, order := range r.orders {
		if start != nil && order.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && !order.CreatedAt.Before(*end) {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, status *enum.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, order := range r.orders {
		if status == nil || order.Status == *status {
			total++
		}
	}
	return total, nil
}

func (r *fakeOrderRepo) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			total++
		}
	}
	return total, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
	history  []entity.PaymentHistory
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (r *fakePaymentRepo) appendHistory(history *entity.PaymentHistory) {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	history.CreatedAt = time.Now()
	r.history = append(r.history, *history)
}

func (r *fakePaymentRepo) CreateWithHistory(ctx context.Context, payment *entity.Payment, history *entity.PaymentHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	cp := *payment
	r.payments[payment.ID] = &cp
	history.PaymentID = payment.ID
	r.appendHistory(history)
	return nil
}

func (r *fakePaymentRepo) SaveWithHistory(ctx context.Context, payment *entity.Payment, prev enum.PaymentStatus, history *entity.PaymentHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Conditional write, like the SQL implementation's WHERE status = prev
	stored, ok := r.payments[payment.ID]
	if !ok || stored.Status != prev {
		return repository.ErrStaleTransition
	}

	if payment.Status == enum.PaymentStatusApproved {
		for _, other := range r.payments {
			if other.ID != payment.ID && other.OrderID == payment.OrderID &&
				other.Status == enum.PaymentStatusApproved {
				return repository.ErrDuplicateApproved
			}
		}
	}

	cp := *payment
	r.payments[payment.ID] = &cp
	history.PaymentID = payment.ID
	r.appendHistory(history)
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *payment
	return &cp, nil
}

func (r *fakePaymentRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Payment
	for _, payment := range r.payments {
		if payment.OrderID == orderID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ApprovedByOrder(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.OrderID == orderID && payment.Status == enum.PaymentStatusApproved {
			cp := *payment
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error) {
	return nil, 0, nil
}

func (r *fakePaymentRepo) List(ctx context.Context, params *repository.PaymentFilterParams) ([]entity.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Payment
	for _, payment := range r.payments {
		if params.Status != nil && payment.Status != *params.Status {
			continue
		}
		if params.Method != nil && payment.Method != *params.Method {
			continue
		}
		out = append(out, *payment)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Payment
	for _, payment := range r.payments {
		if start != nil && payment.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && !payment.CreatedAt.Before(*end) {
			continue
		}
		out = append(out, *payment)
	}
	return out, nil
}

func (r *fakePaymentRepo) Count(ctx context.Context, status *enum.PaymentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, payment := range r.payments {
		if status == nil || payment.Status == *status {
			total++
		}
	}
	return total, nil
}

type fakeHistoryRepo struct {
	payments *fakePaymentRepo
}

func (r *fakeHistoryRepo) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]entity.PaymentHistory, error) {
	r.payments.mu.Lock()
	defer r.payments.mu.Unlock()
	var out []entity.PaymentHistory
	// Newest first, matching the SQL implementation
	for i := len(r.payments.history) - 1; i >= 0; i-- {
		if r.payments.history[i].PaymentID == paymentID {
			out = append(out, r.payments.history[i])
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *customer
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Email == email {
			cp := *customer
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, customer := range r.customers {
		out = append(out, *customer)
	}
	return out, int64(len(out)), nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *product
	return &cp, nil
}

func (r *fakeProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.Name == name {
			cp := *product
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *pagination.PaginationParams, categoryID *uuid.UUID, search string) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, product := range r.products {
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *category
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Name == name {
			cp := *category
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Category
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

type fakeKitRepo struct {
	mu   sync.Mutex
	kits map[uuid.UUID]*entity.Kit
}

func newFakeKitRepo() *fakeKitRepo {
	return &fakeKitRepo{kits: make(map[uuid.UUID]*entity.Kit)}
}

func (r *fakeKitRepo) Create(ctx context.Context, kit *entity.Kit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kit.ID == uuid.Nil {
		kit.ID = uuid.New()
	}
	cp := *kit
	r.kits[kit.ID] = &cp
	return nil
}

func (r *fakeKitRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Kit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kit, ok := r.kits[id]
	if !ok {
		return nil, nil
	}
	cp := *kit
	return &cp, nil
}

func (r *fakeKitRepo) Update(ctx context.Context, kit *entity.Kit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *kit
	r.kits[kit.ID] = &cp
	return nil
}

func (r *fakeKitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.kits, id)
	return nil
}

func (r *fakeKitRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Kit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Kit
	for _, kit := range r.kits {
		out = append(out, *kit)
	}
	return out, int64(len(out)), nil
}

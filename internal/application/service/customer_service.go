package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/apperror"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// CustomerService handles customer management
type CustomerService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, orderRepo repository.OrderRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone"`
	CPF        *string `json:"cpf"`
	Street     *string `json:"street"`
	Number     *string `json:"number"`
	Complement *string `json:"complement"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Zip        *string `json:"zip"`
	BirthDate  *string `json:"birth_date"`
	Notes      *string `json:"notes"`
}

// UpdateCustomerInput is a partial patch; nil fields are left untouched
type UpdateCustomerInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	CPF        *string `json:"cpf"`
	Street     *string `json:"street"`
	Number     *string `json:"number"`
	Complement *string `json:"complement"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Zip        *string `json:"zip"`
	BirthDate  *string `json:"birth_date"`
	Notes      *string `json:"notes"`
	Active     *bool   `json:"active"`
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	existing, err := s.customerRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this email already exists")
	}

	customer := &entity.Customer{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		CPF:        input.CPF,
		Street:     input.Street,
		Number:     input.Number,
		Complement: input.Complement,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		Zip:        input.Zip,
		BirthDate:  input.BirthDate,
		Notes:      input.Notes,
		Active:     true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer applies a partial patch to a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != customer.Email {
		existing, err := s.customerRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A customer with this email already exists")
		}
		customer.Email = *input.Email
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.CPF != nil {
		customer.CPF = input.CPF
	}
	if input.Street != nil {
		customer.Street = input.Street
	}
	if input.Number != nil {
		customer.Number = input.Number
	}
	if input.Complement != nil {
		customer.Complement = input.Complement
	}
	if input.District != nil {
		customer.District = input.District
	}
	if input.City != nil {
		customer.City = input.City
	}
	if input.State != nil {
		customer.State = input.State
	}
	if input.Zip != nil {
		customer.Zip = input.Zip
	}
	if input.BirthDate != nil {
		customer.BirthDate = input.BirthDate
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}
	if input.Active != nil {
		customer.Active = *input.Active
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeactivateCustomer marks a customer inactive instead of deleting the row,
// so order history keeps its reference
func (s *CustomerService) DeactivateCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !customer.Active {
		return nil, apperror.NewConflictError("Customer is already inactive")
	}

	customer.Active = false
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer with no orders; customers with order
// history are deactivated instead
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.orderRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		customer.Active = false
		return s.customerRepo.Update(ctx, customer)
	}

	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with optional name/email search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(
		customers,
		pagination.NewPagination(params.Page, params.PerPage, total),
	), nil
}

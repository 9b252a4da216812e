package service

import (
	"context"
	"strings"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	validate     *validator.Validate
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, validate: newValidator()}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	ShopID  uuid.UUID `json:"shop_id" validate:"required"`
	Name    string    `json:"name" validate:"required,max=255"`
	Phone   string    `json:"phone" validate:"required"`
	Email   *string   `json:"email" validate:"omitempty,email"`
	Address *string   `json:"address"`
}

// CreateCustomer creates a new customer. Phone numbers are unique per shop.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	phone, err := utils.NormalizePhone(input.Phone)
	if err != nil {
		return nil, apperror.NewFieldError("phone", "must be a valid phone number")
	}

	existing, err := s.customerRepo.GetByPhone(ctx, input.ShopID, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this phone number already exists")
	}

	customer := &entity.Customer{
		ShopID:  input.ShopID,
		Name:    strings.TrimSpace(input.Name),
		Phone:   phone,
		Email:   input.Email,
		Address: input.Address,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, shopID, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// FindByPhone looks a customer up at the counter by phone number
func (s *CustomerService) FindByPhone(ctx context.Context, shopID uuid.UUID, rawPhone string) (*entity.Customer, error) {
	phone, err := utils.NormalizePhone(rawPhone)
	if err != nil {
		return nil, apperror.NewFieldError("phone", "must be a valid phone number")
	}
	customer, err := s.customerRepo.GetByPhone(ctx, shopID, phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, shopID uuid.UUID, params *repository.CustomerFilterParams) (*pagination.Result[entity.Customer], error) {
	if params == nil {
		params = &repository.CustomerFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	customers, total, err := s.customerRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(customers, params.Pagination, total), nil
}

// UpdateCustomerInput represents the update customer input.
// Loyalty points and total spent are not editable.
type UpdateCustomerInput struct {
	ShopID     uuid.UUID `json:"shop_id" validate:"required"`
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Name       *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email" validate:"omitempty,email"`
	Address    *string   `json:"address"`
}

// UpdateCustomer updates a customer's profile
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	customer, err := s.GetCustomer(ctx, input.ShopID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		phone, err := utils.NormalizePhone(*input.Phone)
		if err != nil {
			return nil, apperror.NewFieldError("phone", "must be a valid phone number")
		}
		if phone != customer.Phone {
			other, err := s.customerRepo.GetByPhone(ctx, input.ShopID, phone)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != customer.ID {
				return nil, apperror.NewConflictError("A customer with this phone number already exists")
			}
			customer.Phone = phone
		}
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	if err := s.customerRepo.UpdateProfile(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

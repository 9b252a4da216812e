package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data operations.
// Loyalty fields are written only through Tx.IncrementCustomerLoyalty.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, shopID uuid.UUID, phone string) (*entity.Customer, error)
	// UpdateProfile saves name, phone, email and address only.
	UpdateProfile(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, shopID uuid.UUID, params *CustomerFilterParams) ([]entity.Customer, int64, error)
}

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Pagination *pagination.Params
	Search     string // name, phone or email
}

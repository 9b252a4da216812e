package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return translate(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Scopes(ShopScope(shopID)).First(&customer, "id = ?", id).Error
	return firstOrNil(&customer, err)
}

func (r *customerRepository) GetByPhone(ctx context.Context, shopID uuid.UUID, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Scopes(ShopScope(shopID)).First(&customer, "phone = ?", phone).Error
	return firstOrNil(&customer, err)
}

func (r *customerRepository) UpdateProfile(ctx context.Context, customer *entity.Customer) error {
	err := r.db.WithContext(ctx).Model(customer).
		Select("name", "phone", "email", "address").
		Updates(customer).Error
	return translate(err)
}

func (r *customerRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).Scopes(ShopScope(shopID))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			like(params.Search), like(params.Search), like(params.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines the interface for staff account operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]entity.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// ShopRepository defines the interface for shop operations
type ShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Shop, error)
	// CreateWithOwner writes the shop and its owner account atomically.
	CreateWithOwner(ctx context.Context, shop *entity.Shop, owner *entity.User) error
	Update(ctx context.Context, shop *entity.Shop) error
}

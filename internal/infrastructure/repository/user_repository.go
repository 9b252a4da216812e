package repository

import (
	"context"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return translate(r.db.WithContext(ctx).Omit("Shop").Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Shop").First(&user, "id = ?", id).Error
	return firstOrNil(&user, err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Shop").First(&user, "LOWER(email) = LOWER(?)", email).Error
	return firstOrNil(&user, err)
}

func (r *userRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Scopes(ShopScope(shopID)).
		Order("email ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *gorm.DB) domainRepo.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error
	return firstOrNil(&shop, err)
}

func (r *shopRepository) GetBySlug(ctx context.Context, slug string) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.db.WithContext(ctx).First(&shop, "slug = ?", slug).Error
	return firstOrNil(&shop, err)
}

// CreateWithOwner inserts the shop, then the owner, then links them.
func (r *shopRepository) CreateWithOwner(ctx context.Context, shop *entity.Shop, owner *entity.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shop).Error; err != nil {
			return err
		}
		if owner == nil {
			return nil
		}
		owner.ShopID = shop.ID
		if err := tx.Omit("Shop").Create(owner).Error; err != nil {
			return err
		}
		shop.OwnerID = &owner.ID
		return tx.Model(shop).Update("owner_id", owner.ID).Error
	})
	return translate(err)
}

func (r *shopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	return translate(r.db.WithContext(ctx).Omit("CreatedAt").Save(shop).Error)
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserService manages the staff accounts of a shop
type UserService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, validate: newValidator()}
}

// CreateStaffInput represents a new manager or cashier account
type CreateStaffInput struct {
	ShopID   uuid.UUID `json:"shop_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=255"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     string    `json:"role" validate:"required,oneof=manager cashier"`
}

// CreateStaff adds a manager or cashier to the shop. A shop has exactly one owner.
func (s *UserService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*entity.User, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	role, _ := enum.ParseUserRole(input.Role)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ShopID:   input.ShopID,
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("Email already registered")
		}
		return nil, err
	}
	return user, nil
}

// ListStaff returns every account of the shop
func (s *UserService) ListStaff(ctx context.Context, shopID uuid.UUID) ([]entity.User, error) {
	users, err := s.userRepo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

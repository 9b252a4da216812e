package service

import (
	"context"
	"errors"
	"strings"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	shopRepo   repository.ShopRepository
	jwtManager *utils.JWTManager
	validate   *validator.Validate
	log        *logrus.Entry
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	shopRepo repository.ShopRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		shopRepo:   shopRepo,
		jwtManager: jwtManager,
		validate:   newValidator(),
		log:        logger.WithComponent("auth_service"),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}

	return s.issueTokens(user)
}

// RegisterInput represents a new shop with its owner account
type RegisterInput struct {
	ShopName  string  `json:"shop_name" validate:"required,max=255"`
	State     string  `json:"state" validate:"required,max=100"`
	GSTIN     *string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	Address   *string `json:"address"`
	ShopPhone *string `json:"shop_phone"`
	Name      string  `json:"name" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
}

// Register creates a shop and its owner, then logs the owner in
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Check if email already exists
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	shop := &entity.Shop{
		Name:    strings.TrimSpace(input.ShopName),
		Slug:    utils.Slugify(input.ShopName) + "-" + strings.ToLower(uuid.New().String()[:6]),
		State:   strings.TrimSpace(input.State),
		Address: input.Address,
	}
	if input.GSTIN != nil {
		gstin := strings.ToUpper(*input.GSTIN)
		shop.GSTIN = &gstin
	}
	if input.ShopPhone != nil && *input.ShopPhone != "" {
		phone, err := utils.NormalizePhone(*input.ShopPhone)
		if err != nil {
			return nil, apperror.NewFieldError("shop_phone", "must be a valid phone number")
		}
		shop.Phone = &phone
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	owner := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashed,
		Role:     enum.UserRoleOwner,
		IsActive: true,
	}

	if err := s.shopRepo.CreateWithOwner(ctx, shop, owner); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("Shop or email already registered")
		}
		return nil, err
	}
	owner.Shop = shop

	s.log.WithFields(logrus.Fields{"shop_id": shop.ID, "user_id": owner.ID}).Info("shop registered")
	return s.issueTokens(owner)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.ShopID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

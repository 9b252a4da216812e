package entity

import (
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff account belonging to one shop
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ShopID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Email       string         `gorm:"size:255;unique;not null" json:"email"`
	Password    string         `gorm:"size:255" json:"-"`
	Role        enum.UserRole  `gorm:"size:20;not null;default:'cashier'" json:"role"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasPermission checks the user's role grants
func (u *User) HasPermission(permission string) bool {
	return u.Role.Can(permission)
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop is a retail outlet. Every tenant-scoped row carries its ID.
type Shop struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Slug    string    `gorm:"size:255;unique;not null" json:"slug"`
	GSTIN   *string   `gorm:"size:15;column:gstin" json:"gstin,omitempty"`
	State   string    `gorm:"size:100;not null" json:"state"` // GST state of registration
	Address *string   `gorm:"type:text" json:"address,omitempty"`
	Phone   *string   `gorm:"size:20" json:"phone,omitempty"`
	// OwnerID is set once the owner account exists
	OwnerID   *uuid.UUID     `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new shop
func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shop model
func (Shop) TableName() string {
	return "shops"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Hotel represents a property (hotel or hostel) listed on the platform
type Hotel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name"`
	Slug        string         `gorm:"type:varchar(150);not null;unique;index" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Address     string         `gorm:"type:varchar(255)" json:"address"`
	City        string         `gorm:"type:varchar(100);not null;index" json:"city"`
	Amenities   pq.StringArray `gorm:"type:text[]" json:"amenities"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Rooms []Room `gorm:"foreignKey:HotelID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

// TableName specifies the table name for Hotel model
func (*Hotel) TableName() string {
	return "hotels"
}

// BeforeCreate sets up the model before creation
func (h *Hotel) BeforeCreate(_ *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the hotel model
func (h *Hotel) Validate() error {
	if h.Name == "" {
		return ErrInvalidHotelName
	}
	if !h.IsValidSlug() {
		return ErrInvalidHotelSlug
	}
	if h.City == "" {
		return ErrInvalidHotelCity
	}
	return nil
}

// IsValidSlug checks if the slug contains only valid characters
func (h *Hotel) IsValidSlug() bool {
	// Basic slug validation - alphanumeric and hyphens only
	for _, char := range h.Slug {
		if !((char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '-') {
			return false
		}
	}
	return h.Slug != ""
}

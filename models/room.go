package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomType represents the kind of room
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeDorm   RoomType = "dorm"
	RoomTypeSuite  RoomType = "suite"
)

// Room represents a bookable room within a hotel. Number is unique per
// hotel, not globally.
type Room struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	HotelID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rooms_hotel_number" json:"hotel_id"`
	Number        string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_rooms_hotel_number" json:"number"`
	Type          RoomType        `gorm:"type:varchar(20);not null" json:"type"`
	Capacity      int             `gorm:"not null;default:1" json:"capacity"`
	PricePerNight decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	IsAvailable   bool            `gorm:"not null;default:true" json:"is_available"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

// TableName specifies the table name for Room model
func (*Room) TableName() string {
	return "rooms"
}

// BeforeCreate sets up the model before creation
func (r *Room) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsValidType checks the room type against the known kinds
func (r *Room) IsValidType() bool {
	switch r.Type {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeDorm, RoomTypeSuite:
		return true
	}
	return false
}

// Validate performs validation on the room model
func (r *Room) Validate() error {
	if r.HotelID == uuid.Nil {
		return ErrHotelNotFound
	}
	if r.Number == "" {
		return ErrInvalidRoomNumber
	}
	if !r.IsValidType() {
		return ErrInvalidRoomType
	}
	if r.Capacity < 1 {
		return ErrInvalidRoomCap
	}
	if !r.PricePerNight.IsPositive() {
		return ErrInvalidRoomPrice
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents the current state of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
)

// Booking represents a reservation of a room for a date range
type Booking struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_bookings_user" json:"user_id"`
	HotelID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_bookings_hotel" json:"hotel_id"`
	RoomID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_bookings_room" json:"room_id"`
	CheckIn     time.Time       `gorm:"type:date;not null" json:"check_in"`
	CheckOut    time.Time       `gorm:"type:date;not null" json:"check_out"`
	Guests      int             `gorm:"not null;default:1" json:"guests"`
	Status      BookingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CancelledAt *time.Time      `gorm:"type:timestamptz" json:"cancelled_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	Room  *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName specifies the table name for Booking model
func (*Booking) TableName() string {
	return "bookings"
}

// BeforeCreate sets up the model before creation
func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Nights returns the length of stay in nights
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// IsFinal checks if the booking is in a terminal state
func (b *Booking) IsFinal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCheckedOut
}

// IsCancellable checks if the booking can still be cancelled
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// Cancel moves the booking to cancelled and stamps the time
func (b *Booking) Cancel() {
	now := time.Now()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
}

// CalculateTotal computes the stay cost from a nightly price
func (b *Booking) CalculateTotal(pricePerNight decimal.Decimal) decimal.Decimal {
	return pricePerNight.Mul(decimal.NewFromInt(int64(b.Nights())))
}

// Validate performs validation on the booking model
func (b *Booking) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if b.RoomID == uuid.Nil {
		return ErrRoomNotFound
	}
	if !b.CheckOut.After(b.CheckIn) {
		return ErrInvalidStayDates
	}
	if b.Guests < 1 {
		return ErrInvalidGuestCount
	}
	return nil
}

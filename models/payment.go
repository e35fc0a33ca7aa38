package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodTransfer    PaymentMethod = "transfer"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
)

// Payment represents money received against a booking
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	BookingID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_payments_booking" json:"booking_id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_payments_user" json:"user_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency   string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status     PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Reference  string          `gorm:"type:varchar(100);not null;unique" json:"reference"`
	RefundedAt *time.Time      `gorm:"type:timestamptz" json:"refunded_at"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Payment model
func (*Payment) TableName() string {
	return "payments"
}

// BeforeCreate sets up the model before creation
func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsValidMethod checks the method against the known kinds
func (p *Payment) IsValidMethod() bool {
	switch p.Method {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer, PaymentMethodMobileMoney:
		return true
	}
	return false
}

// IsRefundable checks if the payment can be refunded
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusCompleted
}

// Refund moves the payment to refunded and stamps the time
func (p *Payment) Refund() {
	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundedAt = &now
}

// Validate performs validation on the payment model
func (p *Payment) Validate() error {
	if p.BookingID == uuid.Nil {
		return ErrBookingNotFound
	}
	if p.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidPaymentAmount
	}
	if !p.IsValidMethod() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

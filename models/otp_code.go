package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTPPurpose represents what a one-time code authorizes
type OTPPurpose string

const (
	OTPPurposeVerifyEmail   OTPPurpose = "verify_email"
	OTPPurposeResetPassword OTPPurpose = "reset_password"
)

// OTPCode represents a short-lived one-time code issued for email
// verification or password reset
type OTPCode struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_otp_codes_user" json:"user_id"`
	Code       string     `gorm:"type:varchar(10);not null" json:"-"` // Never expose the code
	Purpose    OTPPurpose `gorm:"type:varchar(20);not null" json:"purpose"`
	ExpiresAt  time.Time  `gorm:"type:timestamptz;not null;index:idx_otp_codes_expires_at" json:"expires_at"`
	ConsumedAt *time.Time `gorm:"type:timestamptz" json:"consumed_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for OTPCode model
func (*OTPCode) TableName() string {
	return "otp_codes"
}

// BeforeCreate sets up the model before creation
func (o *OTPCode) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsExpired checks if the code is past its expiry
func (o *OTPCode) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// IsConsumed checks if the code has already been used
func (o *OTPCode) IsConsumed() bool {
	return o.ConsumedAt != nil
}

// IsUsable checks if the code can still be redeemed
func (o *OTPCode) IsUsable() bool {
	return !o.IsExpired() && !o.IsConsumed()
}

// Consume marks the code as used
func (o *OTPCode) Consume() {
	now := time.Now()
	o.ConsumedAt = &now
}

// Validate performs validation on the OTP code model
func (o *OTPCode) Validate() error {
	if o.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if o.Code == "" {
		return ErrInvalidOTPCode
	}
	switch o.Purpose {
	case OTPPurposeVerifyEmail, OTPPurposeResetPassword:
	default:
		return ErrInvalidOTPPurpose
	}
	return nil
}

// NewOTPCode creates a code entry expiring after ttl
func NewOTPCode(userID uuid.UUID, code string, purpose OTPPurpose, ttl time.Duration) *OTPCode {
	return &OTPCode{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// CleanupExpiredOTPCodes removes stale codes (use in background job)
func CleanupExpiredOTPCodes(db *gorm.DB) error {
	cutoff := time.Now().Add(-24 * time.Hour)
	return db.Where("expires_at < ?", cutoff).Delete(&OTPCode{}).Error
}

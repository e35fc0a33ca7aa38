package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStatus represents the lifecycle state of an account
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents an account in the system. Role holds a role name, not a
// foreign key, so role records can be resolved lazily and users with a
// dangling role name simply resolve to no permissions.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FirstName       string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email           string     `gorm:"type:varchar(255);not null;unique;index" json:"email"`
	EmailVerifiedAt *time.Time `gorm:"type:timestamptz" json:"email_verified_at"`
	Phone           string     `gorm:"type:varchar(20)" json:"phone"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"` // Never expose password
	Role            string     `gorm:"type:varchar(50);not null;default:'student';index" json:"role"`
	Status          UserStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	LastLoginAt     *time.Time `gorm:"type:timestamptz" json:"last_login_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:UserID" json:"-"`
	Payments []Payment `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for User model
func (*User) TableName() string {
	return "users"
}

// BeforeCreate sets up the model before creation
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetPassword hashes and sets the user password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsEmailVerified checks if the user's email is verified
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// IsActive checks if the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// MarkVerified activates a pending account after OTP verification
func (u *User) MarkVerified() {
	now := time.Now()
	u.EmailVerifiedAt = &now
	u.Status = UserStatusActive
}

// UpdateLastLogin stamps the last successful login time
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// Validate performs validation on the user model
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if u.Role == "" {
		return ErrInvalidRoleName
	}
	switch u.Status {
	case UserStatusPending, UserStatusActive, UserStatusSuspended:
	default:
		return ErrInvalidUserStatus
	}
	return nil
}

// MaskSensitiveData masks sensitive information for logging/auditing
func (u *User) MaskSensitiveData() *User {
	masked := *u
	masked.PasswordHash = "***"
	if len(masked.Email) > 4 {
		masked.Email = "***" + masked.Email[len(masked.Email)-4:]
	}
	if len(masked.Phone) > 4 {
		masked.Phone = "***" + masked.Phone[len(masked.Phone)-4:]
	}
	return &masked
}

func IsEmail(identity string) bool {
	return identity != "" && strings.Contains(identity, "@") && strings.Contains(identity, ".")
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

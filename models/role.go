package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// System role names. Records for these are seeded at startup; they can be
// assigned like any other role but never modified or deleted through the API.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// DefaultUserRole is the role given to newly registered users.
const DefaultUserRole = RoleStudent

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

// Role represents a named bundle of permissions assignable to users. Users
// reference roles by name rather than by ID, so renaming is not supported.
type Role struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string         `gorm:"type:varchar(50);not null;unique;index" json:"name"`
	DisplayName string         `gorm:"type:varchar(100);not null" json:"display_name"`
	Description string         `gorm:"type:text" json:"description"`
	Permissions pq.StringArray `gorm:"type:text[];not null" json:"permissions"`
	IsSystem    bool           `gorm:"not null;default:false" json:"is_system"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy   *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Role model
func (*Role) TableName() string {
	return "roles"
}

// BeforeCreate sets up the model before creation
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasPermission checks whether the role's bundle contains the permission.
func (r *Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Validate performs validation on the role model
func (r *Role) Validate() error {
	if !IsValidRoleName(r.Name) {
		return ErrInvalidRoleName
	}
	if r.DisplayName == "" {
		return ErrMissingDisplayName
	}
	if len(r.Permissions) == 0 {
		return ErrNoPermissions
	}
	return nil
}

// NormalizeRoleName lowercases and trims a role name so that lookups and
// uniqueness are case-insensitive.
func NormalizeRoleName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsValidRoleName reports whether name is a well-formed role slug:
// lowercase, starting with a letter, letters/digits/underscores only.
func IsValidRoleName(name string) bool {
	return roleNamePattern.MatchString(name)
}

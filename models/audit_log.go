package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded by the role and booking services
const (
	AuditActionRoleSeed   = "role.seed"
	AuditActionRoleCreate = "role.create"
	AuditActionRoleUpdate = "role.update"
	AuditActionRoleDelete = "role.delete"
	AuditActionRoleAssign = "role.assign"

	AuditActionBookingApprove = "booking.approve"
	AuditActionBookingCancel  = "booking.cancel"
	AuditActionPaymentRecord  = "payment.record"
	AuditActionPaymentRefund  = "payment.refund"
)

// Audit resource types
const (
	AuditResourceRole    = "role"
	AuditResourceUser    = "user"
	AuditResourceBooking = "booking"
	AuditResourcePayment = "payment"
)

// AuditValues represents values for audit logging
type AuditValues map[string]interface{}

// AuditLog represents an audit trail entry for security and compliance
type AuditLog struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ActorID      *uuid.UUID  `gorm:"type:uuid;index:idx_audit_logs_actor" json:"actor_id"`
	Action       string      `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType string      `gorm:"type:varchar(50);not null" json:"resource_type"`
	ResourceID   *uuid.UUID  `gorm:"type:uuid" json:"resource_id"`
	OldValues    AuditValues `gorm:"type:jsonb" json:"old_values"`
	NewValues    AuditValues `gorm:"type:jsonb" json:"new_values"`
	CreatedAt    time.Time   `gorm:"autoCreateTime;index:idx_audit_logs_created_at" json:"created_at"`

	// Associations
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName specifies the table name for AuditLog model
func (*AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate sets up the model before creation
func (al *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	return nil
}

// Value implements driver.Valuer interface for AuditValues
func (av *AuditValues) Value() (driver.Value, error) {
	if av == nil {
		return nil, nil
	}
	return json.Marshal(av)
}

// Scan implements sql.Scanner interface for AuditValues
func (av *AuditValues) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, av)
	case string:
		return json.Unmarshal([]byte(v), av)
	}
	return nil
}

// IsSystemAction checks if the entry was produced without an acting user
func (al *AuditLog) IsSystemAction() bool {
	return al.ActorID == nil
}

// Validate performs validation on the audit log model
func (al *AuditLog) Validate() error {
	if al.Action == "" {
		return ErrInvalidAuditAction
	}
	if al.ResourceType == "" {
		return ErrInvalidResourceType
	}
	return nil
}

// NewAuditEntry creates an audit entry for an acting user
func NewAuditEntry(actorID uuid.UUID, action, resourceType string,
	resourceID *uuid.UUID, oldValues, newValues AuditValues) *AuditLog {
	return &AuditLog{
		ActorID:      &actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
	}
}

// NewSystemAuditEntry creates an audit entry for a system action
func NewSystemAuditEntry(action, resourceType string,
	resourceID *uuid.UUID, newValues AuditValues) *AuditLog {
	return &AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    newValues,
	}
}

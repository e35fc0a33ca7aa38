package models

import (
	"errors"
	"fmt"
)

var (
	ErrRoleNotFound         = errors.New("role not found")
	ErrDuplicateRole        = errors.New("role with this name already exists")
	ErrSystemRoleImmutable  = errors.New("system roles cannot be modified or deleted")
	ErrRoleNotAssignable    = errors.New("assigner is not allowed to grant this role")
	ErrInvalidRoleName      = errors.New("invalid role name")
	ErrInvalidRoleID        = errors.New("invalid role ID")
	ErrMissingDisplayName   = errors.New("display name is required")
	ErrNoPermissions        = errors.New("at least one permission is required")
	ErrUnknownPermission    = errors.New("unknown permission")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidUserID      = errors.New("invalid user ID")
	ErrDuplicateEmail     = errors.New("email address is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotVerified = errors.New("account is not verified")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrInvalidUserStatus  = errors.New("invalid user status")

	ErrInvalidOTPCode    = errors.New("invalid or expired verification code")
	ErrOTPConsumed       = errors.New("verification code has already been used")
	ErrInvalidOTPPurpose = errors.New("invalid OTP purpose")

	ErrHotelNotFound      = errors.New("hotel not found")
	ErrInvalidHotelName   = errors.New("invalid hotel name")
	ErrInvalidHotelSlug   = errors.New("invalid hotel slug")
	ErrInvalidHotelCity   = errors.New("invalid hotel city")
	ErrDuplicateHotelSlug = errors.New("hotel with this slug already exists")

	ErrRoomNotFound       = errors.New("room not found")
	ErrInvalidRoomNumber  = errors.New("invalid room number")
	ErrInvalidRoomType    = errors.New("invalid room type")
	ErrInvalidRoomCap     = errors.New("room capacity must be at least 1")
	ErrInvalidRoomPrice   = errors.New("room price must be greater than zero")
	ErrDuplicateRoom      = errors.New("room with this number already exists in the hotel")
	ErrRoomUnavailable    = errors.New("room is not available for booking")

	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidStayDates     = errors.New("check-out date must be after check-in date")
	ErrInvalidGuestCount    = errors.New("guest count must be at least 1")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrBookingNotPending    = errors.New("booking is not pending approval")
	ErrBookingClosed        = errors.New("booking is already in a terminal state")
	ErrBookingNotOwned      = errors.New("booking belongs to another user")

	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrPaymentNotRefundable = errors.New("only completed payments can be refunded")
	ErrDuplicateReference   = errors.New("payment with this reference already exists")

	ErrInvalidAuditAction  = errors.New("invalid audit action")
	ErrInvalidResourceType = errors.New("invalid resource type")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")

	ErrInvalidUUID    = errors.New("invalid UUID")
	ErrRecordNotFound = errors.New("record not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)

// RoleInUseError reports a role deletion blocked by existing user assignments.
// The count lets callers tell the operator how many users must be reassigned
// before the role can be removed.
type RoleInUseError struct {
	Name  string
	Count int64
}

func (e *RoleInUseError) Error() string {
	return fmt.Sprintf("role %q is assigned to %d user(s) and cannot be deleted", e.Name, e.Count)
}

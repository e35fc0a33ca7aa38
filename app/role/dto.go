package role

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListRolesFilters defines the query parameters for filtering the role list.
type ListRolesFilters struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	IsActive *bool  `form:"is_active"`
	IsSystem *bool  `form:"is_system"`
	Search   string `form:"search"`
}

// SanitizeAndValidate cleans the filter inputs and clamps pagination.
func (f *ListRolesFilters) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	f.Search = strings.TrimSpace(s.StripHTML(f.Search))

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	v.Check(validator.MaxRunes(f.Search, 100), "search", "search term must be at most 100 characters")
}

// Offset returns the row offset for the current page.
func (f *ListRolesFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CreateRoleRequest is the request body for creating a custom role.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// SanitizeAndValidate cleans and validates the request data. The role name
// is normalized to lowercase before any checks so duplicates cannot hide
// behind casing.
func (r *CreateRoleRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.Name = models.NormalizeRoleName(s.StripHTML(r.Name))
	r.DisplayName = strings.TrimSpace(s.StripHTML(r.DisplayName))
	r.Description = strings.TrimSpace(s.StripHTML(r.Description))
	for i := range r.Permissions {
		r.Permissions[i] = strings.TrimSpace(r.Permissions[i])
	}

	v.Check(r.Name != "", "name", "name is required")
	if r.Name != "" {
		v.Check(models.IsValidRoleName(r.Name), "name", "name must start with a letter and contain only lowercase letters, digits and underscores")
	}
	v.Check(r.DisplayName != "", "display_name", "display name is required")
	v.Check(validator.MaxRunes(r.DisplayName, 100), "display_name", "display name must be at most 100 characters")
	v.Check(validator.MaxRunes(r.Description, 500), "description", "description must be at most 500 characters")

	v.Check(len(r.Permissions) > 0, "permissions", "at least one permission is required")
	for _, p := range r.Permissions {
		if !IsValidPermission(p) {
			v.AddError("permissions", fmt.Sprintf("unknown permission %q", p))
			break
		}
	}
}

// UpdateRoleRequest is the patch body for updating a custom role. Nil
// fields are left untouched.
type UpdateRoleRequest struct {
	DisplayName *string   `json:"display_name"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
	IsActive    *bool     `json:"is_active"`
}

// SanitizeAndValidate cleans and validates the provided patch fields.
func (r *UpdateRoleRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	v.Check(r.DisplayName != nil || r.Description != nil || r.Permissions != nil || r.IsActive != nil,
		"patch", "at least one field must be provided")

	if r.DisplayName != nil {
		*r.DisplayName = strings.TrimSpace(s.StripHTML(*r.DisplayName))
		v.Check(*r.DisplayName != "", "display_name", "display name cannot be empty")
		v.Check(validator.MaxRunes(*r.DisplayName, 100), "display_name", "display name must be at most 100 characters")
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(s.StripHTML(*r.Description))
		v.Check(validator.MaxRunes(*r.Description, 500), "description", "description must be at most 500 characters")
	}
	if r.Permissions != nil {
		perms := *r.Permissions
		for i := range perms {
			perms[i] = strings.TrimSpace(perms[i])
		}
		v.Check(len(perms) > 0, "permissions", "at least one permission is required")
		for _, p := range perms {
			if !IsValidPermission(p) {
				v.AddError("permissions", fmt.Sprintf("unknown permission %q", p))
				break
			}
		}
	}
}

// AssignRoleRequest is the request body for assigning a role to a user.
type AssignRoleRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	RoleName string    `json:"role_name"`
}

// SanitizeAndValidate cleans and validates the request data.
func (r *AssignRoleRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.RoleName = models.NormalizeRoleName(s.StripHTML(r.RoleName))

	v.Check(r.UserID != uuid.Nil, "user_id", "user_id is required")
	v.Check(r.RoleName != "", "role_name", "role_name is required")
}

// BulkAssignRoleRequest is the request body for assigning one role to many
// users in a single call.
type BulkAssignRoleRequest struct {
	UserIDs  []uuid.UUID `json:"user_ids"`
	RoleName string      `json:"role_name"`
}

// SanitizeAndValidate cleans and validates the request data.
func (r *BulkAssignRoleRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.RoleName = models.NormalizeRoleName(s.StripHTML(r.RoleName))

	v.Check(len(r.UserIDs) > 0, "user_ids", "at least one user_id is required")
	v.Check(r.RoleName != "", "role_name", "role_name is required")
	for _, id := range r.UserIDs {
		if id == uuid.Nil {
			v.AddError("user_ids", "user_ids must not contain empty values")
			break
		}
	}
}

// RoleResponse is the role representation returned by the API.
type RoleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description,omitempty"`
	Permissions []string   `json:"permissions"`
	IsSystem    bool       `json:"is_system"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToRoleResponse converts a role model to its API representation.
func ToRoleResponse(role *models.Role) *RoleResponse {
	return &RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
		Permissions: role.Permissions,
		IsSystem:    role.IsSystem,
		IsActive:    role.IsActive,
		CreatedBy:   role.CreatedBy,
		UpdatedBy:   role.UpdatedBy,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// RoleListResponse is a page of roles plus pagination metadata.
type RoleListResponse struct {
	Roles      []RoleResponse `json:"roles"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// UserResponse is the sanitized user representation returned by role
// operations. Credentials and verification state never leave the service.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a user model to its sanitized representation.
func ToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

// UsersByRoleResponse is a page of users holding a role.
type UsersByRoleResponse struct {
	RoleName   string         `json:"role_name"`
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// BulkAssignFailure records one failed assignment within a bulk request.
type BulkAssignFailure struct {
	UserID uuid.UUID `json:"user_id"`
	Error  string    `json:"error"`
}

// BulkAssignResult reports the outcome of a bulk assignment. The batch
// never aborts; every requested user lands in exactly one of the lists.
type BulkAssignResult struct {
	Success []uuid.UUID         `json:"success"`
	Failed  []BulkAssignFailure `json:"failed"`
}

// PermissionsResponse is the resolved permission set for a role name.
type PermissionsResponse struct {
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// CheckPermissionResponse reports a permission check for the caller.
type CheckPermissionResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Permission    string    `json:"permission"`
	HasPermission bool      `json:"has_permission"`
}

// CatalogResponse is the closed permission catalog grouped by domain area.
type CatalogResponse struct {
	Groups map[string][]string `json:"groups"`
	Total  int                 `json:"total"`
}

// InitializeRolesResponse reports which system roles a seeding run created.
type InitializeRolesResponse struct {
	Seeded []string `json:"seeded"`
}

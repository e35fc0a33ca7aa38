package role

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/roosthq/roost/internal/validator"
)

type identityStripper struct{}

func (identityStripper) StripHTML(s string) string {
	return s
}

func TestListRolesFilters_SanitizeAndValidate(t *testing.T) {
	f := &ListRolesFilters{}
	v := validator.New()
	f.SanitizeAndValidate(v, identityStripper{})

	assert.True(t, v.Valid())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, defaultPageSize, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f2 := &ListRolesFilters{Page: 3, Limit: 500, Search: "  staff  "}
	v2 := validator.New()
	f2.SanitizeAndValidate(v2, identityStripper{})

	assert.True(t, v2.Valid())
	assert.Equal(t, maxPageSize, f2.Limit)
	assert.Equal(t, "staff", f2.Search)
	assert.Equal(t, 2*maxPageSize, f2.Offset())
}

func TestCreateRoleRequest_SanitizeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(r *CreateRoleRequest)
		wantValid bool
		wantField string
	}{
		{
			name:      "valid request",
			modify:    func(_ *CreateRoleRequest) {},
			wantValid: true,
		},
		{
			name:      "uppercase name is normalized",
			modify:    func(r *CreateRoleRequest) { r.Name = "  Librarian " },
			wantValid: true,
		},
		{
			name:      "missing name",
			modify:    func(r *CreateRoleRequest) { r.Name = "" },
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "name with spaces",
			modify:    func(r *CreateRoleRequest) { r.Name = "front desk" },
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "name starting with digit",
			modify:    func(r *CreateRoleRequest) { r.Name = "1staff" },
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "missing display name",
			modify:    func(r *CreateRoleRequest) { r.DisplayName = "   " },
			wantValid: false,
			wantField: "display_name",
		},
		{
			name:      "no permissions",
			modify:    func(r *CreateRoleRequest) { r.Permissions = nil },
			wantValid: false,
			wantField: "permissions",
		},
		{
			name:      "unknown permission",
			modify:    func(r *CreateRoleRequest) { r.Permissions = []string{PermViewHotels, "fly_spaceships"} },
			wantValid: false,
			wantField: "permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateRoleRequest{
				Name:        "librarian",
				DisplayName: "Librarian",
				Description: "Manages the hostel library",
				Permissions: []string{PermViewHotels, PermViewRooms},
			}
			tt.modify(req)

			v := validator.New()
			req.SanitizeAndValidate(v, identityStripper{})

			assert.Equal(t, tt.wantValid, v.Valid(), "errors: %v", v.Errors)
			if tt.wantField != "" {
				assert.Contains(t, v.Errors, tt.wantField)
			}
		})
	}
}

func TestCreateRoleRequest_NormalizesName(t *testing.T) {
	req := &CreateRoleRequest{
		Name:        "  Front_Desk ",
		DisplayName: "Front Desk",
		Permissions: []string{PermViewRooms},
	}

	v := validator.New()
	req.SanitizeAndValidate(v, identityStripper{})

	assert.True(t, v.Valid(), "errors: %v", v.Errors)
	assert.Equal(t, "front_desk", req.Name)
}

func TestUpdateRoleRequest_SanitizeAndValidate(t *testing.T) {
	empty := &UpdateRoleRequest{}
	v := validator.New()
	empty.SanitizeAndValidate(v, identityStripper{})
	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "patch")

	displayName := "  Night Porter  "
	patch := &UpdateRoleRequest{DisplayName: &displayName}
	v2 := validator.New()
	patch.SanitizeAndValidate(v2, identityStripper{})
	assert.True(t, v2.Valid())
	assert.Equal(t, "Night Porter", *patch.DisplayName)

	blank := ""
	patch3 := &UpdateRoleRequest{DisplayName: &blank}
	v3 := validator.New()
	patch3.SanitizeAndValidate(v3, identityStripper{})
	assert.False(t, v3.Valid())
	assert.Contains(t, v3.Errors, "display_name")

	badPerms := []string{"not_a_permission"}
	patch4 := &UpdateRoleRequest{Permissions: &badPerms}
	v4 := validator.New()
	patch4.SanitizeAndValidate(v4, identityStripper{})
	assert.False(t, v4.Valid())
	assert.Contains(t, v4.Errors, "permissions")

	emptyPerms := []string{}
	patch5 := &UpdateRoleRequest{Permissions: &emptyPerms}
	v5 := validator.New()
	patch5.SanitizeAndValidate(v5, identityStripper{})
	assert.False(t, v5.Valid())
	assert.Contains(t, v5.Errors, "permissions")
}

func TestAssignRoleRequest_SanitizeAndValidate(t *testing.T) {
	req := &AssignRoleRequest{UserID: uuid.New(), RoleName: " Teacher "}
	v := validator.New()
	req.SanitizeAndValidate(v, identityStripper{})
	assert.True(t, v.Valid())
	assert.Equal(t, "teacher", req.RoleName)

	req2 := &AssignRoleRequest{}
	v2 := validator.New()
	req2.SanitizeAndValidate(v2, identityStripper{})
	assert.False(t, v2.Valid())
	assert.Contains(t, v2.Errors, "user_id")
	assert.Contains(t, v2.Errors, "role_name")
}

func TestBulkAssignRoleRequest_SanitizeAndValidate(t *testing.T) {
	req := &BulkAssignRoleRequest{
		UserIDs:  []uuid.UUID{uuid.New(), uuid.New()},
		RoleName: "student",
	}
	v := validator.New()
	req.SanitizeAndValidate(v, identityStripper{})
	assert.True(t, v.Valid())

	req2 := &BulkAssignRoleRequest{RoleName: "student"}
	v2 := validator.New()
	req2.SanitizeAndValidate(v2, identityStripper{})
	assert.False(t, v2.Valid())
	assert.Contains(t, v2.Errors, "user_ids")

	req3 := &BulkAssignRoleRequest{
		UserIDs:  []uuid.UUID{uuid.New(), uuid.Nil},
		RoleName: "student",
	}
	v3 := validator.New()
	req3.SanitizeAndValidate(v3, identityStripper{})
	assert.False(t, v3.Valid())
	assert.Contains(t, v3.Errors, "user_ids")
}

func TestToRoleResponse(t *testing.T) {
	creator := uuid.New()
	role := newTestRole("librarian", false)
	role.CreatedBy = &creator

	resp := ToRoleResponse(role)

	assert.Equal(t, role.ID, resp.ID)
	assert.Equal(t, "librarian", resp.Name)
	assert.Equal(t, role.DisplayName, resp.DisplayName)
	assert.Equal(t, []string(role.Permissions), resp.Permissions)
	assert.False(t, resp.IsSystem)
	assert.True(t, resp.IsActive)
	assert.Equal(t, &creator, resp.CreatedBy)
}

func TestToUserResponse_StripsSensitiveFields(t *testing.T) {
	user := newTestUser("student")
	user.PasswordHash = "$2a$10$secret"

	resp := ToUserResponse(user)

	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, user.Email, resp.Email)
	assert.Equal(t, "student", resp.Role)
	assert.Equal(t, "active", resp.Status)
}

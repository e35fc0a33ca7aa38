package role

import (
	"github.com/roosthq/roost/models"
)

// Permission tokens. The catalog is closed: a role may only bundle tokens
// listed here, and permission checks compare against these exact strings.
const (
	PermReadUser    = "read_user"
	PermManageUsers = "manage_users"
	PermDeleteUser  = "delete_user"

	PermManageRoles = "manage_roles"
	PermAssignRoles = "assign_roles"

	PermViewHotels   = "view_hotels"
	PermManageHotels = "manage_hotels"

	PermViewRooms   = "view_rooms"
	PermManageRooms = "manage_rooms"

	PermViewBookings    = "view_bookings"
	PermManageBookings  = "manage_bookings"
	PermApproveBookings = "approve_bookings"
	PermCancelBookings  = "cancel_bookings"

	PermViewPayments   = "view_payments"
	PermManagePayments = "manage_payments"
	PermRefundPayments = "refund_payments"

	PermViewReports   = "view_reports"
	PermExportReports = "export_reports"

	PermViewSettings   = "view_settings"
	PermManageSettings = "manage_settings"
)

// permissionGroups is the catalog arranged by domain area, in display order.
var permissionGroups = []struct {
	Group  string
	Tokens []string
}{
	{"user", []string{PermReadUser, PermManageUsers, PermDeleteUser}},
	{"role", []string{PermManageRoles, PermAssignRoles}},
	{"hotel", []string{PermViewHotels, PermManageHotels}},
	{"room", []string{PermViewRooms, PermManageRooms}},
	{"booking", []string{PermViewBookings, PermManageBookings, PermApproveBookings, PermCancelBookings}},
	{"payment", []string{PermViewPayments, PermManagePayments, PermRefundPayments}},
	{"reporting", []string{PermViewReports, PermExportReports}},
	{"settings", []string{PermViewSettings, PermManageSettings}},
}

var permissionSet = buildPermissionSet()

func buildPermissionSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range permissionGroups {
		for _, token := range group.Tokens {
			set[token] = struct{}{}
		}
	}
	return set
}

// AllPermissions returns every token in the catalog, grouped order preserved.
func AllPermissions() []string {
	tokens := make([]string, 0, len(permissionSet))
	for _, group := range permissionGroups {
		tokens = append(tokens, group.Tokens...)
	}
	return tokens
}

// PermissionGroups returns the catalog keyed by domain area.
func PermissionGroups() map[string][]string {
	groups := make(map[string][]string, len(permissionGroups))
	for _, group := range permissionGroups {
		tokens := make([]string, len(group.Tokens))
		copy(tokens, group.Tokens)
		groups[group.Group] = tokens
	}
	return groups
}

// IsValidPermission reports whether token belongs to the catalog.
func IsValidPermission(token string) bool {
	_, ok := permissionSet[token]
	return ok
}

// roleHierarchy maps each system role to the system roles it may hand out.
var roleHierarchy = map[string][]string{
	models.RoleAdmin:   {models.RoleTeacher, models.RoleStudent},
	models.RoleTeacher: {models.RoleStudent},
	models.RoleStudent: {},
}

// systemRolePermissions seeds the three system roles and doubles as the
// fallback when a system role record is missing from the store. Admin's
// bundle strictly contains teacher's, which strictly contains student's.
var systemRolePermissions = map[string][]string{
	models.RoleAdmin: {
		PermReadUser, PermManageUsers, PermDeleteUser,
		PermManageRoles, PermAssignRoles,
		PermViewHotels, PermManageHotels,
		PermViewRooms, PermManageRooms,
		PermViewBookings, PermManageBookings, PermApproveBookings, PermCancelBookings,
		PermViewPayments, PermManagePayments, PermRefundPayments,
		PermViewReports, PermExportReports,
		PermViewSettings, PermManageSettings,
	},
	models.RoleTeacher: {
		PermReadUser, PermAssignRoles,
		PermViewHotels,
		PermViewRooms, PermManageRooms,
		PermViewBookings, PermManageBookings, PermApproveBookings, PermCancelBookings,
		PermViewPayments,
		PermViewReports,
		PermViewSettings,
	},
	models.RoleStudent: {
		PermViewHotels,
		PermViewRooms,
		PermViewBookings, PermCancelBookings,
		PermViewPayments,
	},
}

// systemRoleDisplayNames are the seeded display names.
var systemRoleDisplayNames = map[string]string{
	models.RoleAdmin:   "Administrator",
	models.RoleTeacher: "Teacher",
	models.RoleStudent: "Student",
}

// systemRoleDescriptions are the seeded descriptions.
var systemRoleDescriptions = map[string]string{
	models.RoleAdmin:   "Full access to every part of the system",
	models.RoleTeacher: "Manages rooms, bookings and student accounts",
	models.RoleStudent: "Views hotels and rooms and manages own bookings",
}

// SystemRoleNames returns the three system role names in seeding order.
func SystemRoleNames() []string {
	return []string{models.RoleAdmin, models.RoleTeacher, models.RoleStudent}
}

// IsSystemRole reports whether name is one of the three seeded roles.
func IsSystemRole(name string) bool {
	_, ok := systemRolePermissions[name]
	return ok
}

// SystemRolePermissions returns a copy of the static bundle for a system
// role name, or nil when name is not a system role.
func SystemRolePermissions(name string) []string {
	bundle, ok := systemRolePermissions[name]
	if !ok {
		return nil
	}
	out := make([]string, len(bundle))
	copy(out, bundle)
	return out
}

// ManageableRoles returns the system roles that a holder of roleName may
// hand out. Custom role holders manage nothing.
func ManageableRoles(roleName string) []string {
	descendants, ok := roleHierarchy[roleName]
	if !ok {
		return nil
	}
	out := make([]string, len(descendants))
	copy(out, descendants)
	return out
}

// CanAssignRole decides assignment authority. For a system target the
// assigner's hierarchy descendants plus its own level qualify; for a
// custom target only admin qualifies.
func CanAssignRole(assignerRole, targetRole string, targetIsSystem bool) bool {
	if targetIsSystem {
		if targetRole == assignerRole {
			return true
		}
		for _, manageable := range ManageableRoles(assignerRole) {
			if manageable == targetRole {
				return true
			}
		}
		return false
	}
	return assignerRole == models.RoleAdmin
}

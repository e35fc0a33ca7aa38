package role

import (
	"context"

	"github.com/google/uuid"

	"github.com/roosthq/roost/models"
)

type Repository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context, filters *ListRolesFilters) ([]models.Role, int64, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, role *models.Role) error
	CountUsersWithRole(ctx context.Context, roleName string) (int64, error)

	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUsersByRole(ctx context.Context, roleName string, page, limit int) ([]models.User, int64, error)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, roleName string) (*models.User, error)

	CreateAuditEntry(ctx context.Context, entry *models.AuditLog) error
}

type Service interface {
	InitializeSystemRoles(ctx context.Context) ([]string, error)
	CreateRole(ctx context.Context, req *CreateRoleRequest, actorID uuid.UUID) (*RoleResponse, error)
	GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error)
	ListRoles(ctx context.Context, filters *ListRolesFilters) (*RoleListResponse, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req *UpdateRoleRequest, actorID uuid.UUID) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string, assignerID uuid.UUID) (*UserResponse, error)
	BulkAssignRole(ctx context.Context, userIDs []uuid.UUID, roleName string, assignerID uuid.UUID) (*BulkAssignResult, error)
	GetUsersByRole(ctx context.Context, roleName string, page, limit int) (*UsersByRoleResponse, error)
	GetRolePermissions(ctx context.Context, roleName string) ([]string, error)
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
	ResolveIdentity(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

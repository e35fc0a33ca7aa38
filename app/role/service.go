package role

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roosthq/roost/internal/cache"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/models"
)

type service struct {
	repo   Repository
	cache  cache.Cache[string]
	logger logger.Logger
	cfg    *Config
}

// NewService creates a role service backed by the given repository.
// Resolved permission sets are cached under role names for cfg.PermissionCacheTTL.
func NewService(repo Repository, cacheService cache.Cache[string], log logger.Logger, cfg *Config) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		logger: log,
		cfg:    cfg,
	}
}

// InitializeSystemRoles creates any missing system role with its static
// permission bundle. Existing records are never touched, so operator edits
// to a system role's bundle survive restarts. Returns the seeded names.
func (s *service) InitializeSystemRoles(ctx context.Context) ([]string, error) {
	seeded := make([]string, 0, len(SystemRoleNames()))

	for _, name := range SystemRoleNames() {
		_, err := s.repo.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrRoleNotFound) {
			return seeded, err
		}

		record := &models.Role{
			Name:        name,
			DisplayName: systemRoleDisplayNames[name],
			Description: systemRoleDescriptions[name],
			Permissions: SystemRolePermissions(name),
			IsSystem:    true,
			IsActive:    true,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			if errors.Is(err, models.ErrDuplicateRole) {
				// another instance seeded this role first
				continue
			}
			return seeded, err
		}

		entry := models.NewSystemAuditEntry(models.AuditActionRoleSeed, models.AuditResourceRole, &record.ID, roleAuditValues(record))
		s.writeAudit(ctx, entry)
		s.invalidatePermissions(ctx, name)

		seeded = append(seeded, name)
		s.logger.Info("system role seeded", logger.Fields{"role": name})
	}

	return seeded, nil
}

// CreateRole persists a custom role. System role names are reserved even
// before the first seeding run.
func (s *service) CreateRole(ctx context.Context, req *CreateRoleRequest, actorID uuid.UUID) (*RoleResponse, error) {
	name := models.NormalizeRoleName(req.Name)
	if IsSystemRole(name) {
		return nil, models.ErrDuplicateRole
	}

	permissions := dedupePermissions(req.Permissions)
	for _, p := range permissions {
		if !IsValidPermission(p) {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownPermission, p)
		}
	}

	record := &models.Role{
		Name:        name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: permissions,
		IsSystem:    false,
		IsActive:    true,
		CreatedBy:   &actorID,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionRoleCreate, models.AuditResourceRole, &record.ID, nil, roleAuditValues(record))
	s.writeAudit(ctx, entry)
	s.invalidatePermissions(ctx, record.Name)

	return ToRoleResponse(record), nil
}

// GetRole returns a role by ID.
func (s *service) GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRoleResponse(record), nil
}

// ListRoles returns a page of roles with pagination metadata.
func (s *service) ListRoles(ctx context.Context, filters *ListRolesFilters) (*RoleListResponse, error) {
	records, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	roles := make([]RoleResponse, 0, len(records))
	for i := range records {
		roles = append(roles, *ToRoleResponse(&records[i]))
	}

	return &RoleListResponse{
		Roles:      roles,
		Total:      total,
		Page:       filters.Page,
		TotalPages: totalPages(total, filters.Limit),
	}, nil
}

// UpdateRole merges the patch into a custom role. The store refuses system
// roles.
func (s *service) UpdateRole(ctx context.Context, id uuid.UUID, req *UpdateRoleRequest, actorID uuid.UUID) (*RoleResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := roleAuditValues(record)

	if req.DisplayName != nil {
		record.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Permissions != nil {
		permissions := dedupePermissions(*req.Permissions)
		for _, p := range permissions {
			if !IsValidPermission(p) {
				return nil, fmt.Errorf("%w: %s", models.ErrUnknownPermission, p)
			}
		}
		record.Permissions = permissions
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}
	record.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionRoleUpdate, models.AuditResourceRole, &record.ID, before, roleAuditValues(record))
	s.writeAudit(ctx, entry)
	s.invalidatePermissions(ctx, record.Name)

	return ToRoleResponse(record), nil
}

// DeleteRole removes a custom role. The store refuses system roles and
// roles still held by users.
func (s *service) DeleteRole(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, record); err != nil {
		return err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionRoleDelete, models.AuditResourceRole, &record.ID, roleAuditValues(record), nil)
	s.writeAudit(ctx, entry)
	s.invalidatePermissions(ctx, record.Name)

	return nil
}

// AssignRole hands roleName to the target user. The assigner's own role is
// re-read from the store at decision time, so revoked authority takes
// effect immediately. The target role must exist as an active record even
// when it is a system name.
func (s *service) AssignRole(ctx context.Context, userID uuid.UUID, roleName string, assignerID uuid.UUID) (*UserResponse, error) {
	assigner, err := s.repo.GetUserByID(ctx, assignerID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrForbidden
		}
		return nil, err
	}
	return s.assignRoleAs(ctx, assigner, userID, roleName)
}

// assignRoleAs applies one assignment on behalf of an already-resolved
// assigner. Shared by AssignRole and BulkAssignRole.
func (s *service) assignRoleAs(ctx context.Context, assigner *models.User, userID uuid.UUID, roleName string) (*UserResponse, error) {
	roleName = models.NormalizeRoleName(roleName)

	target, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, models.ErrRoleNotFound
	}

	if !CanAssignRole(assigner.Role, record.Name, record.IsSystem) {
		return nil, models.ErrRoleNotAssignable
	}

	previousRole := target.Role
	updated, err := s.repo.UpdateUserRole(ctx, target.ID, record.Name)
	if err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(assigner.ID, models.AuditActionRoleAssign, models.AuditResourceUser, &target.ID,
		models.AuditValues{"role": previousRole},
		models.AuditValues{"role": record.Name},
	)
	s.writeAudit(ctx, entry)

	return ToUserResponse(updated), nil
}

// BulkAssignRole applies AssignRole semantics to each user in turn. The
// assigner is resolved once at batch start; individual failures are
// collected and never abort the batch.
func (s *service) BulkAssignRole(ctx context.Context, userIDs []uuid.UUID, roleName string, assignerID uuid.UUID) (*BulkAssignResult, error) {
	assigner, err := s.repo.GetUserByID(ctx, assignerID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrForbidden
		}
		return nil, err
	}

	result := &BulkAssignResult{
		Success: make([]uuid.UUID, 0, len(userIDs)),
		Failed:  make([]BulkAssignFailure, 0),
	}

	for _, userID := range userIDs {
		if _, err := s.assignRoleAs(ctx, assigner, userID, roleName); err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{UserID: userID, Error: err.Error()})
			continue
		}
		result.Success = append(result.Success, userID)
	}

	return result, nil
}

// GetUsersByRole returns a page of users holding roleName. The name must
// resolve to a role record or a system role.
func (s *service) GetUsersByRole(ctx context.Context, roleName string, page, limit int) (*UsersByRoleResponse, error) {
	roleName = models.NormalizeRoleName(roleName)

	if _, err := s.repo.GetByName(ctx, roleName); err != nil {
		if !errors.Is(err, models.ErrRoleNotFound) || !IsSystemRole(roleName) {
			return nil, err
		}
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	records, total, err := s.repo.GetUsersByRole(ctx, roleName, page, limit)
	if err != nil {
		return nil, err
	}

	users := make([]UserResponse, 0, len(records))
	for i := range records {
		users = append(users, *ToUserResponse(&records[i]))
	}

	return &UsersByRoleResponse{
		RoleName:   roleName,
		Users:      users,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetRolePermissions resolves the effective permission set for a role name:
// the active record's array when one exists, the static bundle for system
// names without a usable record, and the empty set for everything else.
// Unknown names are not an error; a user holding a dangling role name
// simply has no permissions.
func (s *service) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	roleName = models.NormalizeRoleName(roleName)

	cacheKey := permissionCacheKey(roleName)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var permissions []string
		if err := json.Unmarshal([]byte(cached), &permissions); err == nil {
			return permissions, nil
		}
	}

	permissions, err := s.resolvePermissions(ctx, roleName)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(permissions); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(encoded), s.cfg.PermissionCacheTTL); err != nil {
			s.logger.Error(err, logger.Fields{"role": roleName, "op": "cache permissions"})
		}
	}

	return permissions, nil
}

func (s *service) resolvePermissions(ctx context.Context, roleName string) ([]string, error) {
	record, err := s.repo.GetByName(ctx, roleName)
	if err == nil {
		if !record.IsActive {
			return []string{}, nil
		}
		return record.Permissions, nil
	}
	if !errors.Is(err, models.ErrRoleNotFound) {
		return nil, err
	}

	if bundle := SystemRolePermissions(roleName); bundle != nil {
		return bundle, nil
	}
	return []string{}, nil
}

// HasPermission reports whether the user's role carries the permission.
// A user that cannot be resolved has no permissions; only infrastructure
// failures surface as errors.
func (s *service) HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	permissions, err := s.GetRolePermissions(ctx, user.Role)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// ResolveIdentity fetches the user behind a token subject.
func (s *service) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) writeAudit(ctx context.Context, entry *models.AuditLog) {
	if err := s.repo.CreateAuditEntry(ctx, entry); err != nil {
		s.logger.Error(err, logger.Fields{"action": entry.Action, "op": "write audit entry"})
	}
}

func (s *service) invalidatePermissions(ctx context.Context, roleName string) {
	if err := s.cache.Delete(ctx, permissionCacheKey(roleName)); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Error(err, logger.Fields{"role": roleName, "op": "invalidate permission cache"})
	}
}

func permissionCacheKey(roleName string) string {
	return fmt.Sprintf("role:%s:permissions", roleName)
}

func roleAuditValues(record *models.Role) models.AuditValues {
	return models.AuditValues{
		"name":         record.Name,
		"display_name": record.DisplayName,
		"description":  record.Description,
		"permissions":  []string(record.Permissions),
		"is_active":    record.IsActive,
		"is_system":    record.IsSystem,
	}
}

func dedupePermissions(permissions []string) []string {
	seen := make(map[string]struct{}, len(permissions))
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

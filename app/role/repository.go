package role

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roosthq/roost/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new role repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

// Create persists a role. Uniqueness races are resolved by the database
// constraint, surfaced as ErrDuplicateRole.
func (r *repository) Create(ctx context.Context, role *models.Role) error {
	err := r.db.WithContext(ctx).Create(role).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateRole
	}
	return err
}

// GetByID returns a role by ID
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// GetByName returns a role by its lowercase name
func (r *repository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// List returns a page of roles, newest first, plus the total count
func (r *repository) List(ctx context.Context, filters *ListRolesFilters) ([]models.Role, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Role{})

	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.IsSystem != nil {
		query = query.Where("is_system = ?", *filters.IsSystem)
	}
	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		query = query.Where(
			"name ILIKE ? OR display_name ILIKE ? OR description ILIKE ?",
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []models.Role
	err := query.
		Order("created_at DESC").
		Offset(filters.Offset()).
		Limit(filters.Limit).
		Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

// Update saves a role. System roles are immutable through this path.
func (r *repository) Update(ctx context.Context, role *models.Role) error {
	if role.IsSystem {
		return models.ErrSystemRoleImmutable
	}
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete removes a role. System roles and roles still held by users are
// refused; the check is read-then-write, best-effort like the rest of
// the store.
func (r *repository) Delete(ctx context.Context, role *models.Role) error {
	if role.IsSystem {
		return models.ErrSystemRoleImmutable
	}

	count, err := r.CountUsersWithRole(ctx, role.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return &models.RoleInUseError{Name: role.Name, Count: count}
	}

	return r.db.WithContext(ctx).Delete(&models.Role{}, "id = ?", role.ID).Error
}

// CountUsersWithRole counts users whose role field equals roleName
func (r *repository) CountUsersWithRole(ctx context.Context, roleName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", roleName).Count(&count).Error
	return count, err
}

// GetUserByID returns a user by ID
func (r *repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByRole returns a page of users holding roleName, newest first
func (r *repository) GetUsersByRole(ctx context.Context, roleName string, page, limit int) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", roleName)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUserRole overwrites a user's role field and returns the updated user
func (r *repository) UpdateUserRole(ctx context.Context, userID uuid.UUID, roleName string) (*models.User, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", roleName)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrUserNotFound
	}
	return r.GetUserByID(ctx, userID)
}

// CreateAuditEntry records a role mutation for the audit trail
func (r *repository) CreateAuditEntry(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

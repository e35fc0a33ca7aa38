package role

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

// Handler handles HTTP requests for role management
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new role handler
func NewHandler(service Service, s sanitizer.HTMLStripperer, log logger.Logger) *Handler {
	return &Handler{
		service:   service,
		sanitizer: s,
		logger:    log,
	}
}

// InitializeRoles godoc
// @Summary Seed system roles
// @Description Create any missing system role with its default permission bundle. Existing records are left untouched.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=InitializeRolesResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/initialize [post]
func (h *Handler) InitializeRoles(c *gin.Context) {
	seeded, err := h.service.InitializeSystemRoles(c.Request.Context())
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "initialize system roles"})
		api.InternalErrorResponse(c, "Failed to initialize system roles")
		return
	}

	api.SuccessResponse(c, 200, "System roles initialized", &InitializeRolesResponse{Seeded: seeded})
}

// CreateRole godoc
// @Summary Create a custom role
// @Description Create a role with a unique lowercase name and a set of permissions from the catalog
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRoleRequest true "Role definition"
// @Success 201 {object} api.Response{data=RoleResponse}
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 409 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role [post]
func (h *Handler) CreateRole(c *gin.Context) {
	actorID, ok := CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	role, err := h.service.CreateRole(c.Request.Context(), &req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateRole):
			api.ConflictResponse(c, "A role with this name already exists")
		case errors.Is(err, models.ErrUnknownPermission):
			api.BadRequestResponse(c, err.Error())
		case errors.Is(err, models.ErrInvalidRoleName),
			errors.Is(err, models.ErrMissingDisplayName),
			errors.Is(err, models.ErrNoPermissions):
			api.BadRequestResponse(c, err.Error())
		default:
			h.logger.Error(err, logger.Fields{"op": "create role"})
			api.InternalErrorResponse(c, "Failed to create role")
		}
		return
	}

	api.CreatedResponse(c, "Role created successfully", role)
}

// ListRoles godoc
// @Summary List roles
// @Description Get a page of roles, newest first, with optional filters
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param is_active query bool false "Filter by active flag"
// @Param is_system query bool false "Filter by system flag"
// @Param search query string false "Substring match on name, display name or description"
// @Success 200 {object} api.Response{data=RoleListResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role [get]
func (h *Handler) ListRoles(c *gin.Context) {
	var filters ListRolesFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	v := validator.New()
	if filters.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.ListRoles(c.Request.Context(), &filters)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "list roles"})
		api.InternalErrorResponse(c, "Failed to fetch roles")
		return
	}

	api.SuccessResponse(c, 200, "Roles retrieved successfully", result)
}

// GetRole godoc
// @Summary Get a role
// @Description Get a role by its ID
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} api.Response{data=RoleResponse}
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/{id} [get]
func (h *Handler) GetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid role ID format")
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRoleNotFound) {
			api.NotFoundResponse(c, "Role")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "get role"})
		api.InternalErrorResponse(c, "Failed to fetch role")
		return
	}

	api.SuccessResponse(c, 200, "Role retrieved successfully", role)
}

// UpdateRole godoc
// @Summary Update a custom role
// @Description Merge the provided fields into a custom role. System roles are immutable.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param request body UpdateRoleRequest true "Fields to update"
// @Success 200 {object} api.Response{data=RoleResponse}
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/{id} [put]
func (h *Handler) UpdateRole(c *gin.Context) {
	actorID, ok := CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid role ID format")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	role, err := h.service.UpdateRole(c.Request.Context(), id, &req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoleNotFound):
			api.NotFoundResponse(c, "Role")
		case errors.Is(err, models.ErrSystemRoleImmutable):
			api.ForbiddenResponse(c, "System roles cannot be modified")
		case errors.Is(err, models.ErrUnknownPermission):
			api.BadRequestResponse(c, err.Error())
		default:
			h.logger.Error(err, logger.Fields{"op": "update role"})
			api.InternalErrorResponse(c, "Failed to update role")
		}
		return
	}

	api.UpdatedResponse(c, "Role updated successfully", role)
}

// DeleteRole godoc
// @Summary Delete a custom role
// @Description Delete a role that is not a system role and is not held by any user
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} api.Response
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/{id} [delete]
func (h *Handler) DeleteRole(c *gin.Context) {
	actorID, ok := CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid role ID format")
		return
	}

	if err := h.service.DeleteRole(c.Request.Context(), id, actorID); err != nil {
		var inUse *models.RoleInUseError
		switch {
		case errors.Is(err, models.ErrRoleNotFound):
			api.NotFoundResponse(c, "Role")
		case errors.Is(err, models.ErrSystemRoleImmutable):
			api.ForbiddenResponse(c, "System roles cannot be deleted")
		case errors.As(err, &inUse):
			api.ConflictResponse(c, inUse.Error())
		default:
			h.logger.Error(err, logger.Fields{"op": "delete role"})
			api.InternalErrorResponse(c, "Failed to delete role")
		}
		return
	}

	api.DeletedResponse(c, "Role deleted successfully")
}

// AssignRole godoc
// @Summary Assign a role to a user
// @Description Set a user's role. The caller's own role decides which roles it may hand out.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignRoleRequest true "Assignment"
// @Success 200 {object} api.Response{data=UserResponse}
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/assign [post]
func (h *Handler) AssignRole(c *gin.Context) {
	assignerID, ok := CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	user, err := h.service.AssignRole(c.Request.Context(), req.UserID, req.RoleName, assignerID)
	if err != nil {
		h.respondAssignError(c, err)
		return
	}

	api.SuccessResponse(c, 200, "Role assigned successfully", user)
}

// BulkAssignRole godoc
// @Summary Assign a role to many users
// @Description Apply one role to a list of users. Failures are reported per user and never abort the batch.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkAssignRoleRequest true "Bulk assignment"
// @Success 200 {object} api.Response{data=BulkAssignResult}
// @Failure 400 {object} api.Response
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/bulk-assign [post]
func (h *Handler) BulkAssignRole(c *gin.Context) {
	assignerID, ok := CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req BulkAssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.BulkAssignRole(c.Request.Context(), req.UserIDs, req.RoleName, assignerID)
	if err != nil {
		h.respondAssignError(c, err)
		return
	}

	api.SuccessResponse(c, 200, "Bulk role assignment completed", result)
}

// respondAssignError maps assignment failures onto the error taxonomy.
func (h *Handler) respondAssignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrForbidden):
		api.ForbiddenResponse(c, "You are not allowed to assign roles")
	case errors.Is(err, models.ErrRoleNotAssignable):
		api.ForbiddenResponse(c, "You are not allowed to assign this role")
	case errors.Is(err, models.ErrRoleNotFound):
		api.NotFoundResponse(c, "Role")
	case errors.Is(err, models.ErrUserNotFound):
		api.NotFoundResponse(c, "User")
	default:
		h.logger.Error(err, logger.Fields{"op": "assign role"})
		api.InternalErrorResponse(c, "Failed to assign role")
	}
}

// GetUsersByRole godoc
// @Summary List users holding a role
// @Description Get a page of users whose role matches the given name
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Role name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} api.Response{data=UsersByRoleResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/users/{name} [get]
func (h *Handler) GetUsersByRole(c *gin.Context) {
	name := c.Param("name")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.GetUsersByRole(c.Request.Context(), name, page, limit)
	if err != nil {
		if errors.Is(err, models.ErrRoleNotFound) {
			api.NotFoundResponse(c, "Role")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "get users by role"})
		api.InternalErrorResponse(c, "Failed to fetch users")
		return
	}

	api.SuccessResponse(c, 200, "Users retrieved successfully", result)
}

// GetRolePermissions godoc
// @Summary Resolve a role's permissions
// @Description Get the effective permission set for a role name. Unknown names resolve to an empty set.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Role name"
// @Success 200 {object} api.Response{data=PermissionsResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/permissions/{name} [get]
func (h *Handler) GetRolePermissions(c *gin.Context) {
	name := models.NormalizeRoleName(c.Param("name"))

	permissions, err := h.service.GetRolePermissions(c.Request.Context(), name)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "get role permissions"})
		api.InternalErrorResponse(c, "Failed to resolve permissions")
		return
	}

	api.SuccessResponse(c, 200, "Role permissions retrieved successfully", &PermissionsResponse{
		RoleName:    name,
		Permissions: permissions,
	})
}

// CheckPermission godoc
// @Summary Check one of the caller's permissions
// @Description Report whether the authenticated user holds the given permission
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param permission path string true "Permission token"
// @Success 200 {object} api.Response{data=CheckPermissionResponse}
// @Failure 401 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/role/check-permission/{permission} [get]
func (h *Handler) CheckPermission(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	permission := c.Param("permission")
	granted, err := h.service.HasPermission(c.Request.Context(), userID, permission)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "check permission"})
		api.InternalErrorResponse(c, "Failed to check permission")
		return
	}

	api.SuccessResponse(c, 200, "Permission check completed", &CheckPermissionResponse{
		UserID:        userID,
		Permission:    permission,
		HasPermission: granted,
	})
}

// GetCatalog godoc
// @Summary List the permission catalog
// @Description Get every grantable permission, grouped by domain area
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=CatalogResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Router /api/v1/role/catalog [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	api.SuccessResponse(c, 200, "Permission catalog retrieved successfully", &CatalogResponse{
		Groups: PermissionGroups(),
		Total:  len(AllPermissions()),
	})
}

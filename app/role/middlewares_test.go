package role

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/security"
	"github.com/roosthq/roost/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) InitializeSystemRoles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names := args.Get(0); names != nil {
		return names.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) CreateRole(ctx context.Context, req *CreateRoleRequest, actorID uuid.UUID) (*RoleResponse, error) {
	args := m.Called(ctx, req, actorID)
	if r := args.Get(0); r != nil {
		return r.(*RoleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*RoleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) ListRoles(ctx context.Context, filters *ListRolesFilters) (*RoleListResponse, error) {
	args := m.Called(ctx, filters)
	if r := args.Get(0); r != nil {
		return r.(*RoleListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) UpdateRole(ctx context.Context, id uuid.UUID, req *UpdateRoleRequest, actorID uuid.UUID) (*RoleResponse, error) {
	args := m.Called(ctx, id, req, actorID)
	if r := args.Get(0); r != nil {
		return r.(*RoleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) DeleteRole(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string, assignerID uuid.UUID) (*UserResponse, error) {
	args := m.Called(ctx, userID, roleName, assignerID)
	if r := args.Get(0); r != nil {
		return r.(*UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) BulkAssignRole(ctx context.Context, userIDs []uuid.UUID, roleName string, assignerID uuid.UUID) (*BulkAssignResult, error) {
	args := m.Called(ctx, userIDs, roleName, assignerID)
	if r := args.Get(0); r != nil {
		return r.(*BulkAssignResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GetUsersByRole(ctx context.Context, roleName string, page, limit int) (*UsersByRoleResponse, error) {
	args := m.Called(ctx, roleName, page, limit)
	if r := args.Get(0); r != nil {
		return r.(*UsersByRoleResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	args := m.Called(ctx, roleName)
	if r := args.Get(0); r != nil {
		return r.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type AuthenticateTestSuite struct {
	suite.Suite
	tokenMaker *security.MockMaker
	service    *MockService
	mw         *Middleware
	router     *gin.Engine
}

func (suite *AuthenticateTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *AuthenticateTestSuite) SetupTest() {
	suite.tokenMaker = &security.MockMaker{}
	suite.service = &MockService{}
	suite.mw = NewMiddleware(suite.tokenMaker, suite.service, GetDefaultConfig(), logger.NewNullLogger())

	suite.router = gin.New()
	suite.router.GET("/test", suite.mw.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(ContextUserIDKey).(uuid.UUID),
			"email":   c.GetString(ContextUserEmailKey),
			"role":    CurrentUserRole(c),
		})
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	suite.Run(t, new(AuthenticateTestSuite))
}

func (suite *AuthenticateTestSuite) serve(authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthenticateTestSuite) responseMessage(w *httptest.ResponseRecorder) string {
	var body struct {
		Message string `json:"message"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func (suite *AuthenticateTestSuite) TestMissingHeader() {
	w := suite.serve("")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthenticateTestSuite) TestMalformedHeader() {
	suite.Equal(http.StatusUnauthorized, suite.serve("Bearer").Code)
	suite.Equal(http.StatusUnauthorized, suite.serve("Basic abc123").Code)
	suite.Equal(http.StatusUnauthorized, suite.serve("Bearer one two").Code)
}

func (suite *AuthenticateTestSuite) TestExpiredToken() {
	suite.tokenMaker.On("VerifyToken", "stale").Return(nil, security.ErrExpiredToken)

	w := suite.serve("Bearer stale")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("token has expired", suite.responseMessage(w))
}

func (suite *AuthenticateTestSuite) TestInvalidToken() {
	suite.tokenMaker.On("VerifyToken", "garbage").Return(nil, security.ErrInvalidToken)

	w := suite.serve("Bearer garbage")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("invalid token", suite.responseMessage(w))
}

func (suite *AuthenticateTestSuite) TestDeletedAccount() {
	userID := uuid.New()
	suite.tokenMaker.On("VerifyToken", "valid").Return(&security.Payload{UserID: userID, ExpiredAt: time.Now().Add(time.Hour)}, nil)
	suite.service.On("ResolveIdentity", mock.Anything, userID).Return(nil, models.ErrUserNotFound)

	w := suite.serve("Bearer valid")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthenticateTestSuite) TestSuspendedAccount() {
	user := newTestUser("student")
	user.Status = models.UserStatusSuspended

	suite.tokenMaker.On("VerifyToken", "valid").Return(&security.Payload{UserID: user.ID, ExpiredAt: time.Now().Add(time.Hour)}, nil)
	suite.service.On("ResolveIdentity", mock.Anything, user.ID).Return(user, nil)

	w := suite.serve("Bearer valid")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthenticateTestSuite) TestPendingAccount() {
	user := newTestUser("student")
	user.Status = models.UserStatusPending

	suite.tokenMaker.On("VerifyToken", "valid").Return(&security.Payload{UserID: user.ID, ExpiredAt: time.Now().Add(time.Hour)}, nil)
	suite.service.On("ResolveIdentity", mock.Anything, user.ID).Return(user, nil)

	w := suite.serve("Bearer valid")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthenticateTestSuite) TestResolveFailure() {
	userID := uuid.New()
	suite.tokenMaker.On("VerifyToken", "valid").Return(&security.Payload{UserID: userID, ExpiredAt: time.Now().Add(time.Hour)}, nil)
	suite.service.On("ResolveIdentity", mock.Anything, userID).Return(nil, errors.New("connection refused"))

	w := suite.serve("Bearer valid")
	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *AuthenticateTestSuite) TestSuccessSetsContext() {
	user := newTestUser("teacher")

	suite.tokenMaker.On("VerifyToken", "valid").Return(&security.Payload{UserID: user.ID, ExpiredAt: time.Now().Add(time.Hour)}, nil)
	suite.service.On("ResolveIdentity", mock.Anything, user.ID).Return(user, nil)

	w := suite.serve("Bearer valid")

	suite.Equal(http.StatusOK, w.Code)

	var body struct {
		UserID uuid.UUID `json:"user_id"`
		Email  string    `json:"email"`
		Role   string    `json:"role"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(user.ID, body.UserID)
	suite.Equal(user.Email, body.Email)
	suite.Equal("teacher", body.Role)
}

type RequireRolesTestSuite struct {
	suite.Suite
	mw *Middleware
}

func (suite *RequireRolesTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *RequireRolesTestSuite) SetupTest() {
	suite.mw = NewMiddleware(&security.MockMaker{}, &MockService{}, GetDefaultConfig(), logger.NewNullLogger())
}

func TestRequireRolesMiddleware(t *testing.T) {
	suite.Run(t, new(RequireRolesTestSuite))
}

// serveAs runs a request through the gate with the given role preloaded on
// the context, standing in for a completed Authenticate pass.
func (suite *RequireRolesTestSuite) serveAs(roleName string, gate gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserIDKey, uuid.New())
		c.Set(ContextUserRoleKey, roleName)
	})
	router.GET("/test", gate, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", http.NoBody))
	return w
}

func (suite *RequireRolesTestSuite) TestAllowsListedRole() {
	w := suite.serveAs("teacher", suite.mw.RequireRoles("teacher", "admin"))
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RequireRolesTestSuite) TestRejectsUnlistedRole() {
	w := suite.serveAs("student", suite.mw.RequireRoles("teacher", "admin"))
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RequireRolesTestSuite) TestRejectsMissingRole() {
	router := gin.New()
	router.GET("/test", suite.mw.RequireRoles("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", http.NoBody))
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RequireRolesTestSuite) TestRequireAdmin() {
	suite.Equal(http.StatusOK, suite.serveAs("admin", suite.mw.RequireAdmin()).Code)
	suite.Equal(http.StatusForbidden, suite.serveAs("teacher", suite.mw.RequireAdmin()).Code)
	suite.Equal(http.StatusForbidden, suite.serveAs("student", suite.mw.RequireAdmin()).Code)
}

func (suite *RequireRolesTestSuite) TestRequireTeacher() {
	suite.Equal(http.StatusOK, suite.serveAs("admin", suite.mw.RequireTeacher()).Code)
	suite.Equal(http.StatusOK, suite.serveAs("teacher", suite.mw.RequireTeacher()).Code)
	suite.Equal(http.StatusForbidden, suite.serveAs("student", suite.mw.RequireTeacher()).Code)
}

func (suite *RequireRolesTestSuite) TestRequireStudent() {
	suite.Equal(http.StatusOK, suite.serveAs("admin", suite.mw.RequireStudent()).Code)
	suite.Equal(http.StatusOK, suite.serveAs("teacher", suite.mw.RequireStudent()).Code)
	suite.Equal(http.StatusOK, suite.serveAs("student", suite.mw.RequireStudent()).Code)
	suite.Equal(http.StatusForbidden, suite.serveAs("librarian", suite.mw.RequireStudent()).Code)
}

type RequirePermissionsTestSuite struct {
	suite.Suite
	service *MockService
	userID  uuid.UUID
}

func (suite *RequirePermissionsTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *RequirePermissionsTestSuite) SetupTest() {
	suite.service = &MockService{}
	suite.userID = uuid.New()
}

func TestRequirePermissionsMiddleware(t *testing.T) {
	suite.Run(t, new(RequirePermissionsTestSuite))
}

func (suite *RequirePermissionsTestSuite) serve(cfg *Config, authenticated bool, permissions ...string) *httptest.ResponseRecorder {
	mw := NewMiddleware(&security.MockMaker{}, suite.service, cfg, logger.NewNullLogger())

	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set(ContextUserIDKey, suite.userID)
		})
	}
	router.GET("/test", mw.RequirePermissions(permissions...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", http.NoBody))
	return w
}

func (suite *RequirePermissionsTestSuite) TestUnauthenticated() {
	w := suite.serve(GetDefaultConfig(), false, PermManageRoles)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RequirePermissionsTestSuite) TestGranted() {
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermManageRoles).Return(true, nil)

	w := suite.serve(GetDefaultConfig(), true, PermManageRoles)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RequirePermissionsTestSuite) TestAnyGrantSuffices() {
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermManageRoles).Return(false, nil)
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermAssignRoles).Return(true, nil)

	w := suite.serve(GetDefaultConfig(), true, PermManageRoles, PermAssignRoles)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RequirePermissionsTestSuite) TestAllDenied() {
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermManageRoles).Return(false, nil)
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermAssignRoles).Return(false, nil)

	w := suite.serve(GetDefaultConfig(), true, PermManageRoles, PermAssignRoles)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RequirePermissionsTestSuite) TestEvaluationErrorWithoutGrant() {
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermManageRoles).Return(false, errors.New("connection refused"))

	w := suite.serve(GetDefaultConfig(), true, PermManageRoles)
	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *RequirePermissionsTestSuite) TestGrantBeatsEvaluationError() {
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermManageRoles).Return(false, errors.New("connection refused"))
	suite.service.On("HasPermission", mock.Anything, suite.userID, PermAssignRoles).Return(true, nil)

	w := suite.serve(GetDefaultConfig(), true, PermManageRoles, PermAssignRoles)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RequirePermissionsTestSuite) TestTimeoutDeniesRequest() {
	cfg := &Config{PermissionCheckTimeout: 5 * time.Millisecond, PermissionCacheTTL: time.Minute}

	suite.service.On("HasPermission", mock.Anything, suite.userID, PermManageRoles).
		Run(func(_ mock.Arguments) { time.Sleep(60 * time.Millisecond) }).
		Return(true, nil)

	w := suite.serve(cfg, true, PermManageRoles)
	suite.Equal(http.StatusForbidden, w.Code)
}

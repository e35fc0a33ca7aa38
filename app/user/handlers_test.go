package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req *RegisterRequest) (*Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func (m *MockService) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func (m *MockService) ResendOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResponse), args.Error(1)
}

func (m *MockService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockService) GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func (m *MockService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Response, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

type UserHandlerTestSuite struct {
	suite.Suite
	service *MockService
	handler *Handler
	router  *gin.Engine
	actorID uuid.UUID
}

func (suite *UserHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *UserHandlerTestSuite) SetupTest() {
	suite.service = &MockService{}
	suite.handler = NewHandler(suite.service, sanitizer.NewHTMLStripper(), logger.NewNullLogger())
	suite.actorID = uuid.New()

	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(role.ContextUserIDKey, suite.actorID)
	})

	authGroup := suite.router.Group("/auth")
	authGroup.POST("/register", suite.handler.Register)
	authGroup.POST("/verify-otp", suite.handler.VerifyOTP)
	authGroup.POST("/resend-otp", suite.handler.ResendOTP)
	authGroup.POST("/login", suite.handler.Login)
	authGroup.POST("/forgot-password", suite.handler.ForgotPassword)
	authGroup.POST("/reset-password", suite.handler.ResetPassword)

	userGroup := suite.router.Group("/users")
	userGroup.GET("/me", suite.handler.GetMe)
	userGroup.PUT("/me", suite.handler.UpdateMe)
}

func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (suite *UserHandlerTestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (suite *UserHandlerTestSuite) TestRegister() {
	resp := &Response{ID: uuid.New(), Email: "ada@example.com", Status: "pending"}

	suite.service.On("Register", mock.Anything, mock.MatchedBy(func(req *RegisterRequest) bool {
		return req.Email == "ada@example.com" && req.FirstName == "Ada"
	})).Return(resp, nil)

	w, env := suite.do("POST", "/auth/register", &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ADA@Example.com",
		Password:  "correct-horse",
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.True(env.Success)

	var data Response
	suite.Require().NoError(json.Unmarshal(env.Data, &data))
	suite.Equal("ada@example.com", data.Email)
}

func (suite *UserHandlerTestSuite) TestRegister_InvalidBody() {
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestRegister_ValidationFailure() {
	w, env := suite.do("POST", "/auth/register", &RegisterRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(env.Success)

	fields := make(map[string]bool)
	for _, e := range env.Errors {
		fields[e.Field] = true
	}
	suite.True(fields["first_name"])
	suite.True(fields["email"])
	suite.True(fields["password"])

	suite.service.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.service.On("Register", mock.Anything, mock.Anything).Return(nil, models.ErrDuplicateEmail)

	w, env := suite.do("POST", "/auth/register", &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.False(env.Success)
	suite.Equal("An account with this email already exists", env.Message)
}

func (suite *UserHandlerTestSuite) TestVerifyOTP() {
	resp := &Response{ID: uuid.New(), Email: "ada@example.com", EmailVerified: true, Status: "active"}

	suite.service.On("VerifyOTP", mock.Anything, mock.MatchedBy(func(req *VerifyOTPRequest) bool {
		return req.Email == "ada@example.com" && req.Code == "123456"
	})).Return(resp, nil)

	w, env := suite.do("POST", "/auth/verify-otp", &VerifyOTPRequest{Email: "ada@example.com", Code: "123456"})

	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)
	suite.Equal("Email verified successfully", env.Message)
}

func (suite *UserHandlerTestSuite) TestVerifyOTP_BadCode() {
	suite.service.On("VerifyOTP", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidOTPCode)

	w, env := suite.do("POST", "/auth/verify-otp", &VerifyOTPRequest{Email: "ada@example.com", Code: "000000"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(env.Success)
	suite.Equal("Invalid or expired verification code", env.Message)
}

func (suite *UserHandlerTestSuite) TestResendOTP() {
	suite.service.On("ResendOTP", mock.Anything, "ada@example.com").Return(nil)

	w, env := suite.do("POST", "/auth/resend-otp", &ResendOTPRequest{Email: "ada@example.com"})

	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)
	suite.Equal("If the account exists, a new verification code has been sent", env.Message)
}

func (suite *UserHandlerTestSuite) TestLogin() {
	loginResp := &LoginResponse{
		AccessToken: "token123",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		User:        Response{ID: suite.actorID, Email: "ada@example.com"},
	}

	suite.service.On("Login", mock.Anything, mock.MatchedBy(func(req *LoginRequest) bool {
		return req.Identity == "ada@example.com"
	})).Return(loginResp, nil)

	w, env := suite.do("POST", "/auth/login", &LoginRequest{Identity: "ada@example.com", Password: "correct-horse"})

	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)

	var data LoginResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &data))
	suite.Equal("token123", data.AccessToken)
	suite.Equal("ada@example.com", data.User.Email)
}

func (suite *UserHandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.service.On("Login", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidCredentials)

	w, env := suite.do("POST", "/auth/login", &LoginRequest{Identity: "ada@example.com", Password: "wrong"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid credentials", env.Message)
}

func (suite *UserHandlerTestSuite) TestLogin_NotVerified() {
	suite.service.On("Login", mock.Anything, mock.Anything).Return(nil, models.ErrAccountNotVerified)

	w, env := suite.do("POST", "/auth/login", &LoginRequest{Identity: "ada@example.com", Password: "correct-horse"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Please verify your email before logging in", env.Message)
}

func (suite *UserHandlerTestSuite) TestLogin_Suspended() {
	suite.service.On("Login", mock.Anything, mock.Anything).Return(nil, models.ErrAccountSuspended)

	w, env := suite.do("POST", "/auth/login", &LoginRequest{Identity: "ada@example.com", Password: "correct-horse"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Account is suspended", env.Message)
}

func (suite *UserHandlerTestSuite) TestLogin_MissingFields() {
	w, _ := suite.do("POST", "/auth/login", map[string]string{"identity": "ada@example.com"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.service.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestForgotPassword() {
	suite.service.On("ForgotPassword", mock.Anything, "ada@example.com").Return(nil)

	w, env := suite.do("POST", "/auth/forgot-password", &ForgotPasswordRequest{Email: "ada@example.com"})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("If the account exists, a password reset code has been sent", env.Message)
}

func (suite *UserHandlerTestSuite) TestResetPassword() {
	suite.service.On("ResetPassword", mock.Anything, mock.MatchedBy(func(req *ResetPasswordRequest) bool {
		return req.Email == "ada@example.com" && req.Code == "654321"
	})).Return(nil)

	w, env := suite.do("POST", "/auth/reset-password", &ResetPasswordRequest{
		Email:       "ada@example.com",
		Code:        "654321",
		NewPassword: "new-password",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Password reset successfully", env.Message)
}

func (suite *UserHandlerTestSuite) TestResetPassword_BadCode() {
	suite.service.On("ResetPassword", mock.Anything, mock.Anything).Return(models.ErrInvalidOTPCode)

	w, env := suite.do("POST", "/auth/reset-password", &ResetPasswordRequest{
		Email:       "ada@example.com",
		Code:        "000000",
		NewPassword: "new-password",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid or expired reset code", env.Message)
}

func (suite *UserHandlerTestSuite) TestGetMe() {
	resp := &Response{ID: suite.actorID, Email: "ada@example.com"}
	suite.service.On("GetProfile", mock.Anything, suite.actorID).Return(resp, nil)

	w, env := suite.do("GET", "/users/me", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)

	var data Response
	suite.Require().NoError(json.Unmarshal(env.Data, &data))
	suite.Equal(suite.actorID, data.ID)
}

func (suite *UserHandlerTestSuite) TestGetMe_Unauthenticated() {
	bare := gin.New()
	bare.GET("/users/me", suite.handler.GetMe)

	req := httptest.NewRequest("GET", "/users/me", nil)
	w := httptest.NewRecorder()
	bare.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.service.AssertNotCalled(suite.T(), "GetProfile", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestGetMe_NotFound() {
	suite.service.On("GetProfile", mock.Anything, suite.actorID).Return(nil, models.ErrUserNotFound)

	w, env := suite.do("GET", "/users/me", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("User not found", env.Message)
}

func (suite *UserHandlerTestSuite) TestUpdateMe() {
	firstName := "Adaeze"
	resp := &Response{ID: suite.actorID, FirstName: "Adaeze"}

	suite.service.On("UpdateProfile", mock.Anything, suite.actorID, mock.MatchedBy(func(req *UpdateProfileRequest) bool {
		return req.FirstName != nil && *req.FirstName == "Adaeze"
	})).Return(resp, nil)

	w, env := suite.do("PUT", "/users/me", &UpdateProfileRequest{FirstName: &firstName})

	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)
}

func (suite *UserHandlerTestSuite) TestUpdateMe_EmptyPatch() {
	w, env := suite.do("PUT", "/users/me", map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(env.Success)
	suite.service.AssertNotCalled(suite.T(), "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

// Handler handles HTTP requests for account operations
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new user handler
func NewHandler(service Service, s sanitizer.HTMLStripperer, l logger.Logger) *Handler {
	return &Handler{service: service, sanitizer: s, logger: l}
}

// Register godoc
// @Summary      Register a new account
// @Description  Create a pending account and send a verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration details"
// @Success      201      {object}  api.Response{data=Response}
// @Failure      400      {object}  api.Response
// @Failure      409      {object}  api.Response
// @Failure      500      {object}  api.Response
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if !req.SanitizeAndValidate(v, h.sanitizer) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			api.ConflictResponse(c, "An account with this email already exists")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "register"})
		api.InternalErrorResponse(c, "Failed to register account")
		return
	}

	api.CreatedResponse(c, "Registration successful, check your email for the verification code", resp)
}

// VerifyOTP godoc
// @Summary      Verify an email address
// @Description  Activate a pending account using the emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyOTPRequest  true  "Email and code"
// @Success      200      {object}  api.Response{data=Response}
// @Failure      400      {object}  api.Response
// @Failure      500      {object}  api.Response
// @Router       /api/v1/auth/verify-otp [post]
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if !req.SanitizeAndValidate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidOTPCode) {
			api.BadRequestResponse(c, "Invalid or expired verification code")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "verify otp"})
		api.InternalErrorResponse(c, "Failed to verify account")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Email verified successfully", resp)
}

// ResendOTP godoc
// @Summary      Resend the verification code
// @Description  Issue a fresh verification code for a pending account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ResendOTPRequest  true  "Account email"
// @Success      200      {object}  api.Response
// @Failure      400      {object}  api.Response
// @Failure      500      {object}  api.Response
// @Router       /api/v1/auth/resend-otp [post]
func (h *Handler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.service.ResendOTP(c.Request.Context(), req.Email); err != nil {
		h.logger.Error(err, logger.Fields{"op": "resend otp"})
		api.InternalErrorResponse(c, "Failed to process request")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "If the account exists, a new verification code has been sent", nil)
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate by email or phone and return an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  api.Response{data=LoginResponse}
// @Failure      400      {object}  api.Response
// @Failure      401      {object}  api.Response
// @Failure      500      {object}  api.Response
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			api.UnauthorizedResponse(c, "Invalid credentials")
		case errors.Is(err, models.ErrAccountNotVerified):
			api.UnauthorizedResponse(c, "Please verify your email before logging in")
		case errors.Is(err, models.ErrAccountSuspended):
			api.UnauthorizedResponse(c, "Account is suspended")
		default:
			h.logger.Error(err, logger.Fields{"op": "login"})
			api.InternalErrorResponse(c, "Failed to log in")
		}
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Send a reset code if the account exists
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  api.Response
// @Failure      400      {object}  api.Response
// @Failure      500      {object}  api.Response
// @Router       /api/v1/auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.logger.Error(err, logger.Fields{"op": "forgot password"})
		api.InternalErrorResponse(c, "Failed to process request")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "If the account exists, a password reset code has been sent", nil)
}

// ResetPassword godoc
// @Summary      Reset a password
// @Description  Set a new password using the emailed reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ResetPasswordRequest  true  "Email, code and new password"
// @Success      200      {object}  api.Response
// @Failure      400      {object}  api.Response
// @Failure      500      {object}  api.Response
// @Router       /api/v1/auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if !req.SanitizeAndValidate(v) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		if errors.Is(err, models.ErrInvalidOTPCode) {
			api.BadRequestResponse(c, "Invalid or expired reset code")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "reset password"})
		api.InternalErrorResponse(c, "Failed to reset password")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

// GetMe godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response{data=Response}
// @Failure      401  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Router       /api/v1/users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			api.NotFoundResponse(c, "User")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "get profile"})
		api.InternalErrorResponse(c, "Failed to fetch profile")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", resp)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  api.Response{data=Response}
// @Failure      400      {object}  api.Response
// @Failure      401      {object}  api.Response
// @Failure      404      {object}  api.Response
// @Router       /api/v1/users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if !req.SanitizeAndValidate(v, h.sanitizer) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			api.NotFoundResponse(c, "User")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "update profile"})
		api.InternalErrorResponse(c, "Failed to update profile")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Profile updated successfully", resp)
}

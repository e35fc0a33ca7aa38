package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/roosthq/roost/models"
)

// Repository defines data access for accounts and their one-time codes.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	CreateOTP(ctx context.Context, otp *models.OTPCode) error
	GetUsableOTP(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, code string) (*models.OTPCode, error)
	ConsumeOTP(ctx context.Context, otp *models.OTPCode) error
	InvalidateOTPs(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) error
}

// Service defines the account lifecycle operations.
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*Response, error)
	VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*Response, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Response, error)
}

// OTPSender delivers one-time codes to users. The production mailer lives
// outside this service; main injects whichever implementation is configured.
type OTPSender interface {
	Send(ctx context.Context, user *models.User, code string, purpose models.OTPPurpose) error
}

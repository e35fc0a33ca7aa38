package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/security"
	"github.com/roosthq/roost/models"
)

type service struct {
	repo       Repository
	tokenMaker security.Maker
	sender     OTPSender
	logger     logger.Logger
	cfg        *Config
}

// NewService creates a new user service.
func NewService(repo Repository, tokenMaker security.Maker, sender OTPSender, l logger.Logger, cfg *Config) Service {
	return &service{
		repo:       repo,
		tokenMaker: tokenMaker,
		sender:     sender,
		logger:     l,
		cfg:        cfg,
	}
}

// Register creates a pending account and issues an email verification code.
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*Response, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      models.DefaultUserRole,
		Status:    models.UserStatusPending,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.issueOTP(ctx, user, models.OTPPurposeVerifyEmail)

	return ToResponse(user), nil
}

// VerifyOTP activates a pending account when the code matches.
func (s *service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*Response, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidOTPCode
		}
		return nil, err
	}

	otp, err := s.repo.GetUsableOTP(ctx, user.ID, models.OTPPurposeVerifyEmail, req.Code)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ConsumeOTP(ctx, otp); err != nil {
		return nil, err
	}

	user.MarkVerified()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return ToResponse(user), nil
}

// ResendOTP re-issues the verification code. Unknown and already verified
// emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *service) ResendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if user.IsEmailVerified() {
		return nil
	}

	s.issueOTP(ctx, user, models.OTPPurposeVerifyEmail)
	return nil
}

// Login authenticates by email or phone and returns an access token.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	identity := strings.TrimSpace(req.Identity)

	var user *models.User
	var err error
	if models.IsEmail(identity) {
		user, err = s.repo.GetByEmail(ctx, strings.ToLower(identity))
	} else {
		user, err = s.repo.GetByPhone(ctx, identity)
	}
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	switch user.Status {
	case models.UserStatusPending:
		return nil, models.ErrAccountNotVerified
	case models.UserStatusSuspended:
		return nil, models.ErrAccountSuspended
	}

	version := user.UpdatedAt.UnixNano()
	if user.UpdatedAt.IsZero() {
		version = 0
	}

	accessToken, payload, err := s.tokenMaker.CreateToken(user.ID, s.cfg.TokenTTL, version, security.TokenScopeAccess)
	if err != nil {
		return nil, err
	}

	user.UpdateLastLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(err, logger.Fields{"user_id": user.ID.String(), "op": "stamp last login"})
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   payload.ExpiredAt,
		User:        *ToResponse(user),
	}, nil
}

// ForgotPassword issues a reset code. Unknown emails succeed silently.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}

	s.issueOTP(ctx, user, models.OTPPurposeResetPassword)
	return nil
}

// ResetPassword sets a new password when the reset code matches.
func (s *service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrInvalidOTPCode
		}
		return err
	}

	otp, err := s.repo.GetUsableOTP(ctx, user.ID, models.OTPPurposeResetPassword, req.Code)
	if err != nil {
		return err
	}
	if err := s.repo.ConsumeOTP(ctx, otp); err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.repo.Update(ctx, user)
}

// GetProfile returns the caller's own account.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToResponse(user), nil
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Response, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToResponse(user), nil
}

// issueOTP invalidates outstanding codes, stores a fresh one and hands it to
// the sender. Delivery failure is logged, not returned: the account exists
// either way and the resend endpoint is the recovery path.
func (s *service) issueOTP(ctx context.Context, user *models.User, purpose models.OTPPurpose) {
	code, err := generateOTPCode(s.cfg.OTPLength)
	if err != nil {
		s.logger.Error(err, logger.Fields{"user_id": user.ID.String(), "op": "generate otp"})
		return
	}

	if err := s.repo.InvalidateOTPs(ctx, user.ID, purpose); err != nil {
		s.logger.Error(err, logger.Fields{"user_id": user.ID.String(), "op": "invalidate otps"})
		return
	}

	otp := models.NewOTPCode(user.ID, code, purpose, s.cfg.OTPTTL)
	if err := s.repo.CreateOTP(ctx, otp); err != nil {
		s.logger.Error(err, logger.Fields{"user_id": user.ID.String(), "op": "store otp"})
		return
	}

	if err := s.sender.Send(ctx, user, code, purpose); err != nil {
		s.logger.Error(err, logger.Fields{"user_id": user.ID.String(), "op": "send otp"})
	}
}

func generateOTPCode(length int) (string, error) {
	ceiling := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, ceiling)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

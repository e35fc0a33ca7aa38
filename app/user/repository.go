package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roosthq/roost/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateEmail
	}
	return err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
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

func (r *repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) CreateOTP(ctx context.Context, otp *models.OTPCode) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// GetUsableOTP returns the newest unconsumed, unexpired code matching the
// user, purpose and code value.
func (r *repository) GetUsableOTP(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, code string) (*models.OTPCode, error) {
	var otp models.OTPCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND code = ?", userID, purpose, code).
		Where("consumed_at IS NULL AND expires_at > ?", time.Now()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvalidOTPCode
		}
		return nil, err
	}
	return &otp, nil
}

func (r *repository) ConsumeOTP(ctx context.Context, otp *models.OTPCode) error {
	otp.Consume()
	return r.db.WithContext(ctx).
		Model(otp).
		Update("consumed_at", otp.ConsumedAt).Error
}

// InvalidateOTPs consumes every outstanding code for the user and purpose,
// so only the most recently issued code can ever be redeemed.
func (r *repository) InvalidateOTPs(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) error {
	return r.db.WithContext(ctx).
		Model(&models.OTPCode{}).
		Where("user_id = ? AND purpose = ? AND consumed_at IS NULL", userID, purpose).
		Update("consumed_at", time.Now()).Error
}

package user

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roosthq/roost/internal/formatter"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

var otpCodePattern = regexp.MustCompile(`^\d{4,10}$`)

// RegisterRequest represents the request to create an account.
type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
}

func (r *RegisterRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) bool {
	r.FirstName = strings.TrimSpace(s.StripHTML(r.FirstName))
	r.LastName = strings.TrimSpace(s.StripHTML(r.LastName))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))

	v.Check(r.FirstName != "", "first_name", "first name is required")
	v.Check(validator.MinRunes(r.FirstName, 2) && validator.MaxRunes(r.FirstName, 100), "first_name", "first name must be between 2 and 100 characters")
	v.Check(r.LastName != "", "last_name", "last name is required")
	v.Check(validator.MinRunes(r.LastName, 2) && validator.MaxRunes(r.LastName, 100), "last_name", "last name must be between 2 and 100 characters")
	v.Check(validator.IsEmail(r.Email), "email", "email is invalid")
	v.Check(r.Password != "", "password", "password is required")
	v.Check(validator.MinRunes(r.Password, 8), "password", "password must be at least 8 characters")
	v.Check(validator.MaxRunes(r.Password, 72), "password", "password must be at most 72 characters")

	if r.Phone != "" {
		if r.CountryCode == "" {
			v.AddError("country_code", "country code is required when a phone number is given")
		} else if formatted, err := formatter.FormatPhone(r.Phone, r.CountryCode); err != nil {
			v.AddError("phone", "invalid phone number")
		} else {
			r.Phone = formatted
		}
	}

	return v.Valid()
}

// VerifyOTPRequest confirms an email address with a one-time code.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *VerifyOTPRequest) SanitizeAndValidate(v *validator.Validator) bool {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Code = strings.TrimSpace(r.Code)

	v.Check(validator.IsEmail(r.Email), "email", "email is invalid")
	v.Check(validator.Matches(r.Code, otpCodePattern), "code", "code must be 4 to 10 digits")

	return v.Valid()
}

// ResendOTPRequest asks for a fresh verification code.
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest represents the request to log in. Identity accepts an email
// address or an E.164 phone number.
type LoginRequest struct {
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password using a reset code.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) SanitizeAndValidate(v *validator.Validator) bool {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Code = strings.TrimSpace(r.Code)

	v.Check(validator.IsEmail(r.Email), "email", "email is invalid")
	v.Check(validator.Matches(r.Code, otpCodePattern), "code", "code must be 4 to 10 digits")
	v.Check(r.NewPassword != "", "new_password", "new password is required")
	v.Check(validator.MinRunes(r.NewPassword, 8), "new_password", "new password must be at least 8 characters")
	v.Check(validator.MaxRunes(r.NewPassword, 72), "new_password", "new password must be at most 72 characters")

	return v.Valid()
}

// UpdateProfileRequest is a partial update of the caller's profile. Nil
// fields are left untouched.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	CountryCode string  `json:"country_code"`
}

func (r *UpdateProfileRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) bool {
	if r.FirstName == nil && r.LastName == nil && r.Phone == nil {
		v.AddError("patch", "at least one field must be provided")
		return false
	}

	if r.FirstName != nil {
		trimmed := strings.TrimSpace(s.StripHTML(*r.FirstName))
		r.FirstName = &trimmed
		v.Check(trimmed != "", "first_name", "first name cannot be blank")
		v.Check(validator.MinRunes(trimmed, 2) && validator.MaxRunes(trimmed, 100), "first_name", "first name must be between 2 and 100 characters")
	}
	if r.LastName != nil {
		trimmed := strings.TrimSpace(s.StripHTML(*r.LastName))
		r.LastName = &trimmed
		v.Check(trimmed != "", "last_name", "last name cannot be blank")
		v.Check(validator.MinRunes(trimmed, 2) && validator.MaxRunes(trimmed, 100), "last_name", "last name must be between 2 and 100 characters")
	}
	if r.Phone != nil && *r.Phone != "" {
		code := strings.ToUpper(strings.TrimSpace(r.CountryCode))
		if code == "" {
			v.AddError("country_code", "country code is required when a phone number is given")
		} else if formatted, err := formatter.FormatPhone(*r.Phone, code); err != nil {
			v.AddError("phone", "invalid phone number")
		} else {
			r.Phone = &formatted
		}
	}

	return v.Valid()
}

// Response represents the response for account data.
type Response struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse maps a user to its API shape.
func ToResponse(user *models.User) *Response {
	return &Response{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		EmailVerified: user.IsEmailVerified(),
		Phone:         user.Phone,
		Role:          user.Role,
		Status:        string(user.Status),
		CreatedAt:     user.CreatedAt,
	}
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Response  `json:"user"`
}

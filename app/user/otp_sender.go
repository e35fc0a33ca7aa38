package user

import (
	"context"

	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/models"
)

// LogOTPSender writes codes to the application log instead of delivering
// them. It stands in for a mailer in development and in tests; the code
// itself only appears at debug level.
type LogOTPSender struct {
	logger logger.Logger
}

// NewLogOTPSender creates a sender backed by the given logger.
func NewLogOTPSender(l logger.Logger) *LogOTPSender {
	return &LogOTPSender{logger: l}
}

func (s *LogOTPSender) Send(_ context.Context, user *models.User, code string, purpose models.OTPPurpose) error {
	masked := user.MaskSensitiveData()
	s.logger.Info("otp issued", logger.Fields{
		"email":   masked.Email,
		"purpose": string(purpose),
	})
	s.logger.Debug("otp code", logger.Fields{
		"email":   masked.Email,
		"purpose": string(purpose),
		"code":    code,
	})
	return nil
}

package user

import (
	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/internal/deps"
	"github.com/roosthq/roost/internal/ratelimit"
)

const (
	RepoKey    = "user_repository"
	ServiceKey = "user_service"
)

// InitRepositories initializes and registers the user repository.
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)
}

// InitService builds the user service from the container and registers it.
// The OTP sender is injected by main so delivery can be swapped without
// touching this module.
func InitService(container *deps.Container, cfg *Config, sender OTPSender) Service {
	repo := container.GetRepository(RepoKey).(Repository)
	service := NewService(repo, container.TokenMaker, sender, container.Logger, cfg)
	container.RegisterService(ServiceKey, service)
	return service
}

// MountPublic mounts the unauthenticated auth routes. Credentialed endpoints
// share authLimiter; code endpoints share the tighter otpLimiter. Keys mix
// the caller address with the claimed account so neither rotating accounts
// nor rotating addresses escapes a window.
func MountPublic(r *gin.RouterGroup, container *deps.Container, authLimiter, otpLimiter *ratelimit.Limiter) {
	handler := createHandler(container)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", api.RateLimit(authLimiter, api.KeyByIPAndBodyField("email")), handler.Register)
	authGroup.POST("/login", api.RateLimit(authLimiter, api.KeyByIPAndBodyField("identity")), handler.Login)
	authGroup.POST("/forgot-password", api.RateLimit(authLimiter, api.KeyByIPAndBodyField("email")), handler.ForgotPassword)
	authGroup.POST("/verify-otp", api.RateLimit(otpLimiter, api.KeyByIPAndBodyField("email")), handler.VerifyOTP)
	authGroup.POST("/resend-otp", api.RateLimit(otpLimiter, api.KeyByIPAndBodyField("email")), handler.ResendOTP)
	authGroup.POST("/reset-password", api.RateLimit(otpLimiter, api.KeyByIPAndBodyField("email")), handler.ResetPassword)
}

// MountAuthenticated mounts profile routes. The caller attaches the
// authentication middleware on the surrounding group.
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	userGroup := r.Group("/users")
	userGroup.GET("/me", handler.GetMe)
	userGroup.PUT("/me", handler.UpdateMe)
}

// createHandler creates a user handler with all dependencies.
func createHandler(container *deps.Container) *Handler {
	service := container.GetService(ServiceKey).(Service)
	return NewHandler(service, container.Sanitizer, container.Logger)
}

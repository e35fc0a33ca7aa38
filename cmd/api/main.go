package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/app"
	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/app/booking"
	"github.com/roosthq/roost/app/database"
	apiDoc "github.com/roosthq/roost/app/doc"
	"github.com/roosthq/roost/app/hotel"
	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/app/user"
	"github.com/roosthq/roost/internal/cache"
	"github.com/roosthq/roost/internal/deps"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/ratelimit"
	"github.com/roosthq/roost/internal/router"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/security"
)

// @title Roost API
// @version 1.0
// @description API for the Roost hostel management platform: accounts, roles, hotels, rooms, bookings and payments.
// @termsOfService https://roosthq.com/terms

// @contact.name API Support Team
// @contact.url https://roosthq.com/support
// @contact.email support@roosthq.com

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	appLogger := buildLogger(cfg)

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	tokenMaker, err := security.NewPasetoMaker(cfg.User.SymmetricKey)
	if err != nil {
		log.Fatal("Failed to create token maker:", err)
	}

	container := deps.NewContainer(db, tokenMaker, sanitizer.NewHTMLStripper(), appLogger, buildCache(cfg))

	role.InitRepositories(container)
	user.InitRepositories(container)
	hotel.InitRepositories(container)
	booking.InitRepositories(container)

	roleService := role.InitService(container, &cfg.Role)
	user.InitService(container, &cfg.User, user.NewLogOTPSender(appLogger))
	hotel.InitService(container)
	booking.InitService(container)

	mw := role.NewMiddleware(tokenMaker, roleService, &cfg.Role, appLogger)

	seedSystemRoles(roleService, appLogger)

	authLimiter := ratelimit.New(cfg.AuthRateLimit, cfg.AuthRateWindow)
	defer authLimiter.Stop()
	otpLimiter := ratelimit.New(cfg.OTPRateLimit, cfg.OTPRateWindow)
	defer otpLimiter.Stop()

	r := gin.Default()
	r.Use(api.CorsMiddleware())

	mounter := router.NewMounter(container, "/api/v1")

	mounter.Public(r).
		Handle(http.MethodGet, "/healthz", api.HealthCheck).
		Mount(func(g *gin.RouterGroup, c *deps.Container) {
			user.MountPublic(g, c, authLimiter, otpLimiter)
		})

	mounter.Authenticated(r, mw.Authenticate()).
		Mount(func(g *gin.RouterGroup, c *deps.Container) { role.Mount(g, c, mw) }).
		Mount(user.MountAuthenticated).
		Mount(func(g *gin.RouterGroup, c *deps.Container) { hotel.Mount(g, c, mw) }).
		Mount(func(g *gin.RouterGroup, c *deps.Container) { booking.Mount(g, c, mw) })

	apiDoc.Init(r, cfg.Env)

	appLogger.Info("starting server", logger.Fields{"host": cfg.AppHost, "port": cfg.AppPort, "env": cfg.Env})
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func buildLogger(cfg *app.Config) logger.Logger {
	level := logger.LevelInfo
	if cfg.Env == "development" {
		level = logger.LevelDebug
	}
	return logger.NewZeroLogger(os.Stdout, level, logger.Fields{"app": "roost", "env": cfg.Env})
}

func buildCache(cfg *app.Config) cache.Cache[string] {
	if cfg.CacheBackend == cache.RedisBackend {
		return cache.NewCache[string](cache.RedisBackend, &cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return cache.NewCache[string](cache.MemoryBackend)
}

// seedSystemRoles makes sure the three system roles exist before the first
// request is served.
func seedSystemRoles(roleService role.Service, appLogger logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := roleService.InitializeSystemRoles(ctx)
	if err != nil {
		log.Fatal("Failed to seed system roles:", err)
	}
	if len(created) > 0 {
		appLogger.Info("system roles created", logger.Fields{"roles": created})
	}
}

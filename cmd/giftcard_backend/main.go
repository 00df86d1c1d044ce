package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/beightone/marykay.giftcard-management/internal/adapters/giftcard"
	"github.com/beightone/marykay.giftcard-management/internal/adapters/masterdata"
	"github.com/beightone/marykay.giftcard-management/internal/core/services"
	"github.com/beightone/marykay.giftcard-management/internal/dto"
	"github.com/beightone/marykay.giftcard-management/internal/handlers"
	"github.com/beightone/marykay.giftcard-management/internal/middleware"
	"github.com/beightone/marykay.giftcard-management/internal/platform/config"
	"github.com/beightone/marykay.giftcard-management/internal/utils"

	portssvc "github.com/beightone/marykay.giftcard-management/internal/core/ports/services"
)

// @title Gift Card Management API
// @version 1.0
// @description Admin backend for creating, reconciling and auditing platform gift cards.

// @host localhost:8080
// @BasePath /_v/giftcard-manager
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dto.RegisterCustomValidations()

	// Platform clients share the admin token and the same request timeout.
	giftcardClient := giftcard.NewClient(cfg.GiftCardBaseURL, cfg.VtexAuthToken, cfg.HTTPClientTimeout)
	masterdataClient := masterdata.NewClient(cfg.MasterdataBaseURL, cfg.VtexAuthToken, cfg.HTTPClientTimeout)

	serviceContainer := &portssvc.ServiceContainer{
		Voucher: services.NewVoucherServiceImpl(giftcardClient, masterdataClient),
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "VtexIdclientAutCookie")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

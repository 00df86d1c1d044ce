package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/beightone/marykay.giftcard-management/cmd/docs"
	portssvc "github.com/beightone/marykay.giftcard-management/internal/core/ports/services"
	"github.com/beightone/marykay.giftcard-management/internal/middleware"
	"github.com/beightone/marykay.giftcard-management/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Health check route
	r.GET("/health", getHealth)

	// Resolver dispatch surface, matching the path the admin UI calls.
	app := r.Group("/_v/giftcard-manager", middleware.AuthorIdentityMiddleware())
	registerVoucherRoutes(app, services.Voucher)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/_v/giftcard-manager"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

package http

import (
	"github.com/efteilucian/price-comaprator-backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	}
	{
		v1.GET("/products", handler.ListProducts)

		basket := v1.Group("/basket")
		{
			basket.POST("/optimize", handler.OptimizeBasket)
			basket.POST("/optimize/stores", handler.OptimizeBasketByStore)
		}

		discounts := v1.Group("/discounts")
		{
			discounts.POST("/basket", handler.BasketDiscounts)
			discounts.GET("/best", handler.BestDiscounts)
			discounts.GET("/new", handler.NewDiscounts)
			discounts.GET("/active", handler.ActiveDiscounts)
		}

		v1.GET("/recommendations", handler.Recommendations)

		alerts := v1.Group("/alerts")
		{
			alerts.POST("", handler.CreateAlert)
			alerts.GET("", handler.ListAlerts)
			alerts.GET("/check", handler.CheckAlerts)
		}

		v1.GET("/history", handler.PriceHistory)

		admin := v1.Group("/admin")
		{
			admin.POST("/products/reload", handler.ReloadCatalog)
		}
	}

	return router
}

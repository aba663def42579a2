package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstream/backend/config"
	"github.com/shopstream/backend/internal/domain"
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
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Storefront endpoints
		v1.GET("/search", handler.Search)
		v1.GET("/products/:id", handler.GetProduct)

		// Order endpoints
		orders := v1.Group("/orders")
		{
			orders.POST("", handler.CreateOrder)
			orders.GET("", handler.ListOrders)
		}

		// Admin endpoints
		admin := v1.Group("/admin")
		admin.Use(RequireRole(domain.RoleAdmin))
		{
			admin.POST("/products", handler.CreateProduct)
			admin.PUT("/products", handler.UpdateProduct)
			admin.DELETE("/products/:id", handler.DeleteProduct)
			admin.GET("/approvals", handler.ListApprovals)
			admin.PUT("/approvals", handler.UpdateApproval)
			admin.GET("/users", handler.ListUsers)
			admin.GET("/categories", handler.ListCategories)
			admin.POST("/categories", handler.CreateCategory)
		}

		// Vendor endpoints
		vendor := v1.Group("/vendor")
		vendor.Use(RequireRole(domain.RoleVendor))
		{
			vendor.POST("/products", handler.CreateVendorProduct)
			vendor.GET("/orders", handler.ListVendorOrders)
		}
	}

	return router
}

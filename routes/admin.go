package routes

import (
	"github.com/gin-gonic/gin"
	adminControllers "github.com/rodionpotapov/bigcorp-api/controllers/admin"
	productControllers "github.com/rodionpotapov/bigcorp-api/controllers/product"
	userControllers "github.com/rodionpotapov/bigcorp-api/controllers/user"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires the API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// Catalog management
		adminGroup.POST("/products", productControllers.CreateProduct(db))
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(db))
		adminGroup.DELETE("/products/:id", productControllers.HideProduct(db))
		adminGroup.GET("/products/export", productControllers.ExportProductsToExcel(db))

		adminGroup.POST("/categories", productControllers.CreateCategory(db))
		adminGroup.PUT("/categories/:id", productControllers.UpdateCategory(db))
		adminGroup.DELETE("/categories/:id", productControllers.DeleteCategory(db))

		// Back office
		adminGroup.GET("/orders", adminControllers.ListAllOrders(db))
		adminGroup.GET("/reports/sales", adminControllers.SalesReport(db))
		adminGroup.GET("/users", userControllers.ListUsers(db))
	}
}

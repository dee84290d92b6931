package productController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

// HideProduct soft-hides a product from the storefront. The row stays so
// historical order lines keep a valid reference.
func HideProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err := db.Model(&product).Update("available", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product hidden from storefront"})
	}
}

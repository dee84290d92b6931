package adminController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

// SalesReport summarizes the order book: counts, revenue, the all-time
// average line price, and per-product units sold when product_id is given.
func SalesReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orderCount, paidCount int64
		if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
			return
		}
		if err := db.Model(&models.Order{}).Where("paid = ?", true).Count(&paidCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count paid orders"})
			return
		}

		avgPrice, err := models.AverageItemPrice(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute average price"})
			return
		}

		report := gin.H{
			"orders":      orderCount,
			"paid_orders": paidCount,
		}
		if avgPrice != nil {
			report["average_item_price"] = avgPrice.StringFixed(2)
		} else {
			report["average_item_price"] = nil
		}

		if v := c.Query("product_id"); v != "" {
			productID, convErr := strconv.ParseUint(v, 10, 64)
			if convErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
				return
			}
			sold, aggErr := models.TotalQuantityForProduct(db, uint(productID))
			if aggErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute units sold"})
				return
			}
			report["product_units_sold"] = sold
		}

		c.JSON(http.StatusOK, report)
	}
}

// ListAllOrders returns every order with items for the admin panel.
func ListAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Preload("ShippingAddress").
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

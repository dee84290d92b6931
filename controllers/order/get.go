package orderController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

// ListOrders returns the authenticated user's orders, newest first.
func ListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder returns one of the user's orders with its computed totals.
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("ShippingAddress").
			Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":                 order,
			"total_before_discount": order.TotalBeforeDiscount(),
			"discount_amount":       order.DiscountAmount(),
			"total_cost":            order.TotalCost(),
		})
	}
}

package orderController

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/models"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// OrderPaymentQR renders the order's payment link as a PNG QR code, handy for
// paying from another device.
func OrderPaymentQR(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.Paid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order is already paid"})
			return
		}

		link := fmt.Sprintf("%s/payment?order_id=%d", os.Getenv("PUBLIC_BASE_URL"), order.ID)
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

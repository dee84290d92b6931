package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/rodionpotapov/bigcorp-api/controllers/order"
	paymentControllers "github.com/rodionpotapov/bigcorp-api/controllers/payment"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

// SetupPaymentRoutes registers the gateway endpoints. Session creation needs
// a logged-in customer; webhooks are called back by the gateways themselves.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, mailer *tasks.Mailer) {
	paymentGroup := r.Group("/payment")
	paymentGroup.Use(middleware.ValidateToken)
	{
		paymentGroup.POST("/stripe/session", paymentControllers.CreateStripeSession(db))
		paymentGroup.POST("/yookassa", paymentControllers.CreateYookassaPayment(db))
	}

	webhookGroup := r.Group("/payment/webhook")
	{
		webhookGroup.POST("/stripe", middleware.StripeWebhookAuth(), paymentControllers.StripeWebhook(db, mailer))
		webhookGroup.POST("/yookassa", paymentControllers.YookassaWebhook(db, mailer))
	}

	// Live order/payment updates for back-office dashboards.
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)
}

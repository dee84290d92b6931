package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	orderControllers "github.com/rodionpotapov/bigcorp-api/controllers/order"
	reviewControllers "github.com/rodionpotapov/bigcorp-api/controllers/review"
	userControllers "github.com/rodionpotapov/bigcorp-api/controllers/user"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

// SetupUserRoutes registers the JWT-protected endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, store *sessions.CookieStore, mailer *tasks.Mailer) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", userControllers.GetAccount(db))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateAccount(db)) // PUT /user/

		userGroup.GET("/address", userControllers.GetShippingAddress(db))    // GET /user/address
		userGroup.PUT("/address", userControllers.UpdateShippingAddress(db)) // PUT /user/address

		userGroup.POST("/checkout", orderControllers.Checkout(db, store, mailer)) // POST /user/checkout

		userGroup.GET("/orders", orderControllers.ListOrders(db))        // GET /user/orders
		userGroup.GET("/orders/:id", orderControllers.GetOrder(db))      // GET /user/orders/:id
		userGroup.GET("/orders/:id/qr", orderControllers.OrderPaymentQR(db)) // GET /user/orders/:id/qr

		userGroup.POST("/reviews", reviewControllers.CreateReview(db)) // POST /user/reviews
	}
}

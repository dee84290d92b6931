package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up the storefront, auth,
// user, payment and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, store *sessions.CookieStore, mailer *tasks.Mailer) {
	// Public storefront + session cart (no auth)
	SetupShopRoutes(r, db, store)

	// Registration, login, token refresh, email flows
	SetupAuthRoutes(r, db, mailer)

	// JWT-protected account, checkout and orders
	SetupUserRoutes(r, db, store, mailer)

	// Payment gateways and their webhooks
	SetupPaymentRoutes(r, db, mailer)

	// API-key-protected admin surface
	SetupAdminRoutes(r, db)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/auth"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, mailer *tasks.Mailer) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db, mailer))
		authGroup.GET("/verify-email", auth.VerifyEmail(db))
		authGroup.POST("/login", auth.Login(db))
		authGroup.POST("/refresh", auth.Refresh(db))
		authGroup.POST("/password-reset", auth.RequestPasswordReset(db, mailer))
		authGroup.POST("/password-reset/confirm", auth.ConfirmPasswordReset(db))
	}
}

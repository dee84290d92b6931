package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register creates an inactive account and mails a verification link.
func Register(db *gorm.DB, mailer *tasks.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := models.User{Username: req.Username, Email: req.Email}
		if err := user.SetPassword(req.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		token, err := IssuePurposeToken(user.ID, PurposeVerifyEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification token"})
			return
		}
		link := fmt.Sprintf("%s/auth/verify-email?token=%s", os.Getenv("PUBLIC_BASE_URL"), token)
		mailer.Enqueue(user.Email,
			"Confirm your email "+user.Username,
			"Follow the link to activate your account: "+link)

		c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username, "email": user.Email})
	}
}

// VerifyEmail activates the account named by the token.
func VerifyEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ParseToken(c.Query("token"), PurposeVerifyEmail)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification token"})
			return
		}
		userID, ok := UserIDFromClaims(claims)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token claims"})
			return
		}
		if err := db.Model(&models.User{}).Where("id = ?", userID).Update("active", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email verified, account is active"})
	}
}

// Login checks the password and issues an access/refresh pair.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if !user.CheckPassword(req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if !user.Active {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not verified yet"})
			return
		}

		access, refresh, err := IssueTokenPair(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
	}
}

// Refresh exchanges a refresh token for a fresh pair.
func Refresh(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := ParseToken(req.Refresh, "refresh")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		userID, ok := UserIDFromClaims(claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		}

		access, refresh, err := IssueTokenPair(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
	}
}

// RequestPasswordReset mails a reset link. It answers 200 whether or not the
// email exists, so the endpoint cannot be used to probe accounts.
func RequestPasswordReset(db *gorm.DB, mailer *tasks.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err == nil {
			token, tokenErr := IssuePurposeToken(user.ID, PurposePasswordReset)
			if tokenErr == nil {
				link := fmt.Sprintf("%s/password-reset?token=%s", os.Getenv("PUBLIC_BASE_URL"), token)
				mailer.Enqueue(user.Email,
					"Change your password "+user.Username,
					"Follow the link to set a new password: "+link)
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "If the address exists, a reset link was sent"})
	}
}

// ConfirmPasswordReset sets a new password for the token's user.
func ConfirmPasswordReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordResetConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := ParseToken(req.Token, PurposePasswordReset)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		userID, ok := UserIDFromClaims(claims)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token claims"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User no longer exists"})
			return
		}
		if err := user.SetPassword(req.NewPassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := db.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

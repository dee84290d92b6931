package userController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

type UpdateAccountInput struct {
	Username *string `json:"username"`
}

type ShippingAddressInput struct {
	FullName         string `json:"full_name" binding:"required,max=250"`
	Email            string `json:"email" binding:"required,email"`
	StreetAddress    string `json:"street_address" binding:"required,max=250"`
	ApartmentAddress string `json:"apartment_address" binding:"required,max=250"`
	Country          string `json:"country" binding:"max=100"`
	ZipCode          string `json:"zip_code" binding:"max=100"`
	City             string `json:"city" binding:"max=250"`
}

// GetAccount returns the authenticated user's profile.
func GetAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateAccount edits the profile fields that are safe to self-serve.
func UpdateAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateAccountInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Username != nil {
			user.Username = *input.Username
		}
		if err := db.Save(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetShippingAddress returns the user's address, synthesizing the placeholder
// record on first access so clients always have something to render.
func GetShippingAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var address models.ShippingAddress
		err := db.Where("user_id = ?", userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, createErr := models.CreateDefaultShippingAddress(db, userID)
			if createErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create default address"})
				return
			}
			c.JSON(http.StatusOK, created)
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch address"})
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

// UpdateShippingAddress replaces the user's address fields.
func UpdateShippingAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input ShippingAddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var address models.ShippingAddress
		err := db.Where("user_id = ?", userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			address = models.ShippingAddress{UserID: userID}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch address"})
			return
		}

		address.FullName = input.FullName
		address.Email = input.Email
		address.StreetAddress = input.StreetAddress
		address.ApartmentAddress = input.ApartmentAddress
		address.Country = input.Country
		address.ZipCode = input.ZipCode
		address.City = input.City

		if err := db.Save(&address).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

// ListUsers returns all accounts for the admin panel, public fields only.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "username", "email", "active", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

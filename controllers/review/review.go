package reviewController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Content   string `json:"content" binding:"required"`
}

// CreateReview files a rating for a product on behalf of the authenticated
// user. Ratings are bounded 1..5 at both the binding and storage layers.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.Scopes(models.Available).First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		review := models.Review{
			ProductID:   product.ID,
			Rating:      input.Rating,
			Content:     input.Content,
			CreatedByID: userID,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// ListProductReviews returns reviews for a product, newest first.
func ListProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Scopes(models.Available).
			Where("slug = ?", c.Param("slug")).
			First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var reviews []models.Review
		if err := db.Where("product_id = ?", product.ID).
			Order("created_at desc").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

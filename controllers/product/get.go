package productController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

// PageSize is fixed for every paginated product listing.
const PageSize = 15

// ListProducts returns available products, newest first, paginated at the
// fixed page size. Query param: ?page=N (1-based).
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}

		query := db.Model(&models.Product{}).Scopes(models.Available)

		var count int64
		if err := query.Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}

		var products []models.Product
		if err := query.
			Order("created_at desc").
			Limit(PageSize).
			Offset((page - 1) * PageSize).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"count":     count,
			"page":      page,
			"page_size": PageSize,
			"results":   products,
		})
	}
}

// GetProductBySlug returns a single storefront-visible product.
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Scopes(models.Available).
			Where("slug = ?", c.Param("slug")).
			First(&product).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product":          product,
			"discounted_price": product.DiscountedPrice(),
			"image":            product.ImageURL(),
		})
	}
}

// ListProductsByCategory returns available products filed under the category
// identified by slug, paginated like ListProducts.
func ListProductsByCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}

		query := db.Model(&models.Product{}).
			Scopes(models.Available).
			Where("category_id = ?", category.ID)

		var count int64
		if err := query.Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}

		var products []models.Product
		if err := query.
			Order("created_at desc").
			Limit(PageSize).
			Offset((page - 1) * PageSize).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category":  category,
			"count":     count,
			"page":      page,
			"page_size": PageSize,
			"results":   products,
		})
	}
}

package productController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpdateProduct edits a product from a multipart form; only supplied fields
// change. Storefront removal is done here by posting available=false, never by
// deleting the row.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if v := c.PostForm("title"); v != "" {
			product.Title = v
		}
		if v := c.PostForm("brand"); v != "" {
			product.Brand = v
		}
		if v := c.PostForm("description"); v != "" {
			product.Description = v
		}
		if v := c.PostForm("price"); v != "" {
			price, err := decimal.NewFromString(v)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			product.Price = price.Round(2)
		}
		if v := c.PostForm("discount"); v != "" {
			discount, err := strconv.Atoi(v)
			if err != nil || discount < 0 || discount > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Discount must be between 0 and 100"})
				return
			}
			product.Discount = discount
		}
		if v := c.PostForm("available"); v != "" {
			available, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid available flag"})
				return
			}
			product.Available = available
		}
		if v := c.PostForm("category_id"); v != "" {
			categoryID, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			var category models.Category
			if err := db.First(&category, uint(categoryID)).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			product.CategoryID = category.ID
		}

		if imageURL, err := saveProductImage(c); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		} else if imageURL != "" {
			product.Image = imageURL
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

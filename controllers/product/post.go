package productController

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UploadDir is where product images land; overridable for deployments that
// serve uploads from a different mount.
func UploadDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return filepath.Join(dir, "products")
	}
	return "/var/www/bigcorp/uploads/products"
}

const productPublicPath = "/uploads/products"

// CreateProduct creates a product from a multipart form with an optional
// image upload. Required: title, brand, price, category_id.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		brand := c.PostForm("brand")
		priceStr := c.PostForm("price")
		categoryIDStr := c.PostForm("category_id")
		if title == "" || brand == "" || priceStr == "" || categoryIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, brand, price and category_id are required"})
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		var category models.Category
		if err := db.First(&category, uint(categoryID)).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}

		discount := 0
		if v := c.PostForm("discount"); v != "" {
			discount, err = strconv.Atoi(v)
			if err != nil || discount < 0 || discount > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Discount must be between 0 and 100"})
				return
			}
		}

		productSlug := c.PostForm("slug")
		if productSlug == "" {
			productSlug = slug.Make(title)
		}

		available := true
		if v := c.PostForm("available"); v != "" {
			available, err = strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid available flag"})
				return
			}
		}

		imageURL, err := saveProductImage(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			CategoryID:  category.ID,
			Title:       title,
			Brand:       brand,
			Description: c.PostForm("description"),
			Slug:        productSlug,
			Price:       price.Round(2),
			Image:       imageURL,
			Available:   available,
			Discount:    discount,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// saveProductImage stores the uploaded file and returns its public URL, or ""
// when the form carried no image (the model then falls back to the placeholder).
func saveProductImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	saveDir := UploadDir()
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("%s/%s", productPublicPath, filename), nil
}

package productController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/models"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name     string `json:"name" binding:"required,max=250"`
	ParentID *uint  `json:"parent_id"`
	Slug     string `json:"slug" binding:"max=250"`
}

type UpdateCategoryInput struct {
	Name     *string `json:"name"`
	ParentID *uint   `json:"parent_id"`
}

// CreateCategory adds a taxonomy node. When no slug is supplied one is derived
// with the bounded retry loop in models.CreateCategory.
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.ParentID != nil {
			var parent models.Category
			if err := db.First(&parent, *input.ParentID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
				return
			}
		}

		category := models.Category{
			Name:     input.Name,
			ParentID: input.ParentID,
			Slug:     input.Slug,
		}
		if err := models.CreateCategory(db, &category); err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				c.JSON(http.StatusConflict, gin.H{"error": "Slug already exists under this parent"})
			case errors.Is(err, models.ErrSlugConflict):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			}
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// ListCategories returns all categories with their direct children preloaded.
func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Children").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetCategory returns one category plus its root→leaf breadcrumb.
func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Preload("Children").Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		path, err := category.PathString(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve category path"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "path": path})
	}
}

// UpdateCategory renames a category or moves it under a new parent. Slugs are
// never regenerated after creation. Moving a node under its own descendant is
// rejected.
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var input UpdateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil {
			category.Name = *input.Name
		}
		if input.ParentID != nil {
			if err := category.ValidateParent(db, input.ParentID); err != nil {
				if errors.Is(err, models.ErrCategoryCycle) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
				return
			}
			category.ParentID = input.ParentID
		}

		if err := db.Save(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Slug already exists under this parent"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory removes a category; children and products cascade at the
// storage layer.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}

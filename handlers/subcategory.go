package handlers

import (
	"math"
	"net/http"
	"strconv"

	"shopora-backend/models"
	"shopora-backend/storage"
	"shopora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubcategoryHandler struct {
	DB      *gorm.DB
	Storage storage.Client
}

func (h *SubcategoryHandler) GetSubcategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := h.DB.Model(&models.Subcategory{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcategories"})
		return
	}

	var subcategories []models.Subcategory
	if err := h.DB.Preload("Category").Order("created_at DESC").Offset(offset).Limit(limit).Find(&subcategories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcategories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subCategories": subcategories,
		"page":          page,
		"totalPages":    int(math.Ceil(float64(total) / float64(limit))),
		"total":         total,
	})
}

func (h *SubcategoryHandler) GetSubcategoriesByCategory(c *gin.Context) {
	categoryID := c.Param("categoryId")

	var subcategories []models.Subcategory
	if err := h.DB.Where("category_id = ?", categoryID).Order("name ASC").Find(&subcategories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subcategories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"subCategories": subcategories,
	})
}

func (h *SubcategoryHandler) GetSubcategory(c *gin.Context) {
	id := c.Param("id")
	var subcategory models.Subcategory

	if err := h.DB.Preload("Category").Where("id = ?", id).First(&subcategory).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

func (h *SubcategoryHandler) CreateSubcategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subcategory name is required"})
		return
	}

	categoryIDStr := c.PostForm("category")
	if categoryIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}
	categoryID, err := uuid.Parse(categoryIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var existing models.Subcategory
	if err := h.DB.Where("LOWER(name) = LOWER(?) AND category_id = ?", name, categoryID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Subcategory with this name already exists in this category"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subcategory image is required"})
		return
	}
	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
		return
	}
	imagePath, err := h.Storage.SaveImage(file, fileHeader.Filename)
	file.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
		return
	}

	subcategory := models.Subcategory{
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: c.PostForm("description"),
		Image:       imagePath,
		CategoryID:  categoryID,
	}

	if err := h.DB.Create(&subcategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subcategory"})
		return
	}

	h.DB.Preload("Category").First(&subcategory, subcategory.ID)
	c.JSON(http.StatusCreated, subcategory)
}

func (h *SubcategoryHandler) UpdateSubcategory(c *gin.Context) {
	id := c.Param("id")
	var subcategory models.Subcategory

	if err := h.DB.Where("id = ?", id).First(&subcategory).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	if categoryIDStr := c.PostForm("category"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		if categoryID != subcategory.CategoryID {
			var category models.Category
			if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			subcategory.CategoryID = categoryID
		}
	}

	if name := c.PostForm("name"); name != "" && name != subcategory.Name {
		var existing models.Subcategory
		if err := h.DB.Where("LOWER(name) = LOWER(?) AND category_id = ? AND id <> ?", name, subcategory.CategoryID, subcategory.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Subcategory with this name already exists in this category"})
			return
		}
		subcategory.Name = name
		subcategory.Slug = utils.Slugify(name)
	}
	if description, ok := c.GetPostForm("description"); ok {
		subcategory.Description = description
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateFileUpload(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
			return
		}
		imagePath, err := h.Storage.SaveImage(file, fileHeader.Filename)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
		if subcategory.Image != "" {
			_ = h.Storage.Delete(subcategory.Image)
		}
		subcategory.Image = imagePath
	}

	if err := h.DB.Save(&subcategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subcategory"})
		return
	}

	h.DB.Preload("Category").First(&subcategory, subcategory.ID)
	c.JSON(http.StatusOK, subcategory)
}

func (h *SubcategoryHandler) DeleteSubcategory(c *gin.Context) {
	id := c.Param("id")

	var subcategory models.Subcategory
	if err := h.DB.Where("id = ?", id).First(&subcategory).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	if err := h.DB.Delete(&subcategory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subcategory"})
		return
	}

	if subcategory.Image != "" {
		_ = h.Storage.Delete(subcategory.Image)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted successfully"})
}

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

type ProductHandler struct {
	DB      *gorm.DB
	Storage storage.Client
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "9"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 9
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Product{})

	if keyword := c.Query("keyword"); keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", "%"+keyword+"%", "%"+keyword+"%")
	}
	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	var products []models.Product
	if err := query.Preload("Category").Preload("Subcategory").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":      products,
		"currentPage":   page,
		"totalPages":    int(math.Ceil(float64(total) / float64(limit))),
		"totalProducts": total,
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	var product models.Product

	if err := h.DB.Preload("Category").Preload("Subcategory").Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}
	description := c.PostForm("description")
	if description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product description is required"})
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid product price is required"})
		return
	}

	stockStr, ok := c.GetPostForm("stock")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product stock is required"})
		return
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil || stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must be a non-negative number"})
		return
	}

	categoryID, err := uuid.Parse(c.PostForm("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}
	var category models.Category
	if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	subcategoryID, err := uuid.Parse(c.PostForm("subcategory"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subcategory ID"})
		return
	}
	var subcategory models.Subcategory
	if err := h.DB.Where("id = ?", subcategoryID).First(&subcategory).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product image is required"})
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

	product := models.Product{
		Name:          name,
		Description:   description,
		Price:         price,
		Stock:         stock,
		Image:         imagePath,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
	}

	if userID, exists := c.Get("user_id"); exists {
		uid := userID.(uuid.UUID)
		product.CreatedByID = &uid
	}

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.DB.Preload("Category").Preload("Subcategory").First(&product, product.ID)
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var product models.Product

	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		product.Name = name
	}
	if description := c.PostForm("description"); description != "" {
		product.Description = description
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid product price is required"})
			return
		}
		product.Price = price
	}
	if stockStr := c.PostForm("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must be a non-negative number"})
			return
		}
		product.Stock = stock
	}
	if categoryIDStr := c.PostForm("category"); categoryIDStr != "" {
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
		product.CategoryID = categoryID
	}
	if subcategoryIDStr := c.PostForm("subcategory"); subcategoryIDStr != "" {
		subcategoryID, err := uuid.Parse(subcategoryIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subcategory ID"})
			return
		}
		var subcategory models.Subcategory
		if err := h.DB.Where("id = ?", subcategoryID).First(&subcategory).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subcategory not found"})
			return
		}
		product.SubcategoryID = subcategoryID
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
		if product.Image != "" {
			_ = h.Storage.Delete(product.Image)
		}
		product.Image = imagePath
	}

	if err := h.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.DB.Preload("Category").Preload("Subcategory").First(&product, product.ID)
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if product.Image != "" {
		_ = h.Storage.Delete(product.Image)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

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

type CategoryHandler struct {
	DB      *gorm.DB
	Storage storage.Client
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
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
	if err := h.DB.Model(&models.Category{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	var categories []models.Category
	if err := h.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		"total":      total,
	})
}

func (h *CategoryHandler) GetPopularCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Where("is_popular = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch popular categories"})
		return
	}

	result := make([]gin.H, 0, len(categories))
	for i := range categories {
		result = append(result, gin.H{
			"id":    categories[i].ID,
			"name":  categories[i].Name,
			"image": categories[i].Image,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": result})
}

// GetMegaMenu builds the navigation tree in three queries: popular
// categories, their subcategories, and the subcategories' products.
// The per-subcategory product cap is applied in memory.
func (h *CategoryHandler) GetMegaMenu(c *gin.Context) {
	const productsPerSubcategory = 4

	var categories []models.Category
	if err := h.DB.Where("is_popular = ?", true).Order("sort_order ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build mega menu"})
		return
	}

	categoryIDs := make([]uuid.UUID, 0, len(categories))
	for i := range categories {
		categoryIDs = append(categoryIDs, categories[i].ID)
	}

	var subcategories []models.Subcategory
	if len(categoryIDs) > 0 {
		if err := h.DB.Where("category_id IN ?", categoryIDs).Order("name ASC").Find(&subcategories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build mega menu"})
			return
		}
	}

	subcategoryIDs := make([]uuid.UUID, 0, len(subcategories))
	for i := range subcategories {
		subcategoryIDs = append(subcategoryIDs, subcategories[i].ID)
	}

	var products []models.Product
	if len(subcategoryIDs) > 0 {
		if err := h.DB.Where("subcategory_id IN ?", subcategoryIDs).Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build mega menu"})
			return
		}
	}

	productsBySubcategory := make(map[uuid.UUID][]gin.H)
	for i := range products {
		p := &products[i]
		if len(productsBySubcategory[p.SubcategoryID]) >= productsPerSubcategory {
			continue
		}
		productsBySubcategory[p.SubcategoryID] = append(productsBySubcategory[p.SubcategoryID], gin.H{
			"id":    p.ID,
			"name":  p.Name,
			"price": p.Price,
			"image": p.Image,
		})
	}

	subcategoriesByCategory := make(map[uuid.UUID][]gin.H)
	for i := range subcategories {
		s := &subcategories[i]
		entry := gin.H{
			"id":   s.ID,
			"name": s.Name,
			"slug": s.Slug,
		}
		if prods := productsBySubcategory[s.ID]; prods != nil {
			entry["products"] = prods
		} else {
			entry["products"] = []gin.H{}
		}
		subcategoriesByCategory[s.CategoryID] = append(subcategoriesByCategory[s.CategoryID], entry)
	}

	menu := make([]gin.H, 0, len(categories))
	for i := range categories {
		cat := &categories[i]
		subs := subcategoriesByCategory[cat.ID]
		if subs == nil {
			subs = []gin.H{}
		}
		menu = append(menu, gin.H{
			"id":            cat.ID,
			"name":          cat.Name,
			"slug":          cat.Slug,
			"image":         cat.Image,
			"subcategories": subs,
		})
	}

	c.JSON(http.StatusOK, gin.H{"menu": menu})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category

	if err := h.DB.Preload("Subcategories").Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	var existing models.Category
	if err := h.DB.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category image is required"})
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

	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))

	category := models.Category{
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: c.PostForm("description"),
		Image:       imagePath,
		IsPopular:   c.PostForm("is_popular") == "true",
		SortOrder:   sortOrder,
	}

	if err := h.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category

	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if name := c.PostForm("name"); name != "" && name != category.Name {
		var existing models.Category
		if err := h.DB.Where("LOWER(name) = LOWER(?) AND id <> ?", name, category.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
			return
		}
		category.Name = name
		category.Slug = utils.Slugify(name)
	}
	if description, ok := c.GetPostForm("description"); ok {
		category.Description = description
	}
	if isPopular, ok := c.GetPostForm("is_popular"); ok {
		category.IsPopular = isPopular == "true"
	}
	if sortOrder, ok := c.GetPostForm("sort_order"); ok {
		category.SortOrder, _ = strconv.Atoi(sortOrder)
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
		if category.Image != "" {
			_ = h.Storage.Delete(category.Image)
		}
		category.Image = imagePath
	}

	if err := h.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	// Children are left in place and keep their category_id; the
	// frontend resolves dangling references.
	if err := h.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	if category.Image != "" {
		_ = h.Storage.Delete(category.Image)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

package handlers

import (
	"errors"
	"net/http"

	"shopora-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WishlistHandler struct {
	DB *gorm.DB
}

// ToggleWishlist adds the product to the caller's wishlist, or removes
// it when already present.
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", productID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var item models.WishlistItem
	err = h.DB.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	switch {
	case err == nil:
		if err := h.DB.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist", "in_wishlist": false})
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.WishlistItem{
			UserID:    userID.(uuid.UUID),
			ProductID: productID,
		}
		if err := h.DB.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist", "in_wishlist": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
	}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var items []models.WishlistItem
	if err := h.DB.Preload("Product").Preload("Product.Category").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": items})
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID := c.Param("productId")

	var item models.WishlistItem
	if err := h.DB.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

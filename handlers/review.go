package handlers

import (
	"errors"
	"net/http"

	"shopora-backend/models"
	"shopora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var reviews []models.Review
	if err := h.DB.Where("product_id = ?", product.ID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// UpsertReview creates or replaces the caller's review on a product.
// The product row is locked for the duration of the transaction so
// concurrent reviewers recompute the aggregates one at a time.
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	// The token carries no display name, so snapshot it from the user row.
	var userName string
	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err == nil {
		userName = user.Name
	}

	var review models.Review
	status := http.StatusCreated

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", productID).First(&product).Error; err != nil {
			return err
		}

		err := tx.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
		switch {
		case err == nil:
			review.Rating = req.Rating
			review.Comment = req.Comment
			review.Name = userName
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
			status = http.StatusOK
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				ProductID: productID,
				UserID:    userID.(uuid.UUID),
				Name:      userName,
				Rating:    req.Rating,
				Comment:   req.Comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeReviewAggregates(tx, productID)
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(status, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	reviewID := c.Param("reviewId")

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", productID).First(&product).Error; err != nil {
			return err
		}

		var review models.Review
		if err := tx.Where("id = ? AND product_id = ?", reviewID, productID).First(&review).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}

		return recomputeReviewAggregates(tx, productID)
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// recomputeReviewAggregates rewrites num_reviews and average_rating
// from the full review set. Both drop to zero when no reviews remain.
func recomputeReviewAggregates(tx *gorm.DB, productID uuid.UUID) error {
	var reviews []models.Review
	if err := tx.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return err
	}

	var average float64
	if len(reviews) > 0 {
		var sum int
		for i := range reviews {
			sum += reviews[i].Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	return tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"num_reviews":    len(reviews),
		"average_rating": average,
	}).Error
}

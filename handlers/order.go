package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"shopora-backend/models"
	"shopora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderHandler struct {
	DB *gorm.DB
}

var errInsufficientStock = errors.New("insufficient stock")

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Items []struct {
			ProductID uuid.UUID `json:"product_id" binding:"required"`
			Quantity  int       `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1,dive"`
		ShippingAddress string `json:"shipping_address" binding:"required"`
		PaymentMethod   string `json:"payment_method"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	order := models.Order{
		UserID:          userID.(uuid.UUID),
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	var stockError string

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var total float64
		var items []models.OrderItem

		for _, item := range req.Items {
			// Lock the product row so concurrent orders cannot
			// oversell the same stock.
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", item.ProductID).First(&product).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				stockError = "Insufficient stock for " + product.Name
				return errInsufficientStock
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
			total += product.Price * float64(item.Quantity)
		}

		order.Total = total
		order.Items = items
		return tx.Create(&order).Error
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, errInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": stockError})
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	h.DB.Preload("Items").First(&order, order.ID)
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("user_id")
	role, _ := c.Get("user_role")

	var order models.Order
	if err := h.DB.Preload("Items").Preload("User").Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if role != "admin" && order.UserID != userID.(uuid.UUID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		"total":      total,
	})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if !models.ValidOrderStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	var order models.Order
	if err := h.DB.Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	h.DB.Preload("Items").First(&order, order.ID)
	c.JSON(http.StatusOK, order)
}

// GetMonthlyRevenue reports the last 12 calendar months, one bucket
// per month even when nothing sold. Cancelled orders are excluded.
// Bucketing happens in Go, keeping the query portable across dialects.
func (h *OrderHandler) GetMonthlyRevenue(c *gin.Context) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	var orders []models.Order
	if err := h.DB.Where("created_at >= ? AND status <> ?", start, models.OrderStatusCancelled).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue data"})
		return
	}

	type bucket struct {
		revenue float64
		orders  int
	}
	buckets := make(map[string]*bucket, 12)
	months := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		months = append(months, key)
		buckets[key] = &bucket{}
	}

	for i := range orders {
		key := orders[i].CreatedAt.UTC().Format("2006-01")
		if b, ok := buckets[key]; ok {
			b.revenue += orders[i].Total
			b.orders++
		}
	}

	report := make([]gin.H, 0, 12)
	for _, key := range months {
		report = append(report, gin.H{
			"month":   key,
			"revenue": buckets[key].revenue,
			"orders":  buckets[key].orders,
		})
	}

	c.JSON(http.StatusOK, gin.H{"revenue": report})
}

package routes

import (
	"shopora-backend/config"
	"shopora-backend/handlers"
	"shopora-backend/middleware"
	"shopora-backend/storage"
	"shopora-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, store storage.Client, tm *utils.TokenManager, cfg *config.Config) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db, Storage: store, Tokens: tm, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db, Storage: store}
	subcategoryHandler := &handlers.SubcategoryHandler{DB: db, Storage: store}
	productHandler := &handlers.ProductHandler{DB: db, Storage: store}
	reviewHandler := &handlers.ReviewHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	wishlistHandler := &handlers.WishlistHandler{DB: db}

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/auth/forgot-password", authLimiter.Middleware(), authHandler.ForgotPassword)
		api.PUT("/auth/reset-password/:token", authHandler.ResetPassword)

		// Public category routes
		api.GET("/categories", categoryHandler.GetCategories)
		api.GET("/categories/popular", categoryHandler.GetPopularCategories)
		api.GET("/categories/mega-menu", categoryHandler.GetMegaMenu)
		api.GET("/categories/:id", categoryHandler.GetCategory)

		// Public subcategory routes
		api.GET("/subcategories", subcategoryHandler.GetSubcategories)
		api.GET("/subcategories/category/:categoryId", subcategoryHandler.GetSubcategoriesByCategory)
		api.GET("/subcategories/:id", subcategoryHandler.GetSubcategory)

		// Public product routes
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/products/:id/reviews", reviewHandler.GetReviews)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tm))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/update-profile", authHandler.UpdateProfile)

		protected.PUT("/products/:id/reviews", reviewHandler.UpsertReview)

		protected.POST("/wishlist/:productId", wishlistHandler.ToggleWishlist)
		protected.GET("/wishlist", wishlistHandler.GetWishlist)
		protected.DELETE("/wishlist/:productId", wishlistHandler.RemoveFromWishlist)

		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders/my-orders", orderHandler.GetMyOrders)
		protected.GET("/orders/:id", orderHandler.GetOrder)
	}

	// Admin-gated catalog mutations
	adminGated := api.Group("")
	adminGated.Use(middleware.AuthMiddleware(tm))
	adminGated.Use(middleware.AdminMiddleware())
	{
		adminGated.POST("/categories", categoryHandler.CreateCategory)
		adminGated.PUT("/categories/:id", categoryHandler.UpdateCategory)
		adminGated.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		adminGated.POST("/subcategories", subcategoryHandler.CreateSubcategory)
		adminGated.PUT("/subcategories/:id", subcategoryHandler.UpdateSubcategory)
		adminGated.DELETE("/subcategories/:id", subcategoryHandler.DeleteSubcategory)

		adminGated.POST("/products", productHandler.CreateProduct)
		adminGated.PUT("/products/:id", productHandler.UpdateProduct)
		adminGated.DELETE("/products/:id", productHandler.DeleteProduct)
		adminGated.DELETE("/products/:id/reviews/:reviewId", reviewHandler.DeleteReview)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tm))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.PUT("/users/:id", userHandler.UpdateUser)
		admin.DELETE("/users/:id", userHandler.DeleteUser)

		admin.GET("/orders", orderHandler.ListOrders)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
		admin.GET("/revenue/monthly", orderHandler.GetMonthlyRevenue)
	}

	// Uploaded images
	r.Static("/uploads", cfg.UploadDir)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

package routes

import (
	"galleria-backend/gallery"
	"galleria-backend/handlers"
	"galleria-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	engine := gallery.NewEngine(gallery.NewGormStore(db))

	authHandler := &handlers.AuthHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	imageHandler := &handlers.ImageHandler{DB: db, Engine: engine}

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)

		api.GET("/images", imageHandler.GetImages)
		api.GET("/images/:id", imageHandler.GetImage)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.POST("/images", imageHandler.CreateImage)
		admin.PUT("/images/:id", imageHandler.UpdateImage)
		admin.DELETE("/images/:id", imageHandler.DeleteImage)
		admin.PUT("/images/:id/reorder", imageHandler.ReorderImage)
		admin.PUT("/images/:id/primary", imageHandler.SetPrimaryImage)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/config"
	"github.com/pagecraft/pagecraft-backend/internal/handlers"
	"github.com/pagecraft/pagecraft-backend/internal/middleware"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// One render cache shared by every service that touches blocks
	renderCache := cache.NewBlockCache(cfg.Cache.ShardCount)

	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, renderCache)
	sectionService := services.NewSectionService(db, renderCache)
	subsectionService := services.NewSubsectionService(db, renderCache)
	blockService := services.NewBlockService(db, renderCache)
	publicService := services.NewPublicService(db, renderCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	sectionHandler := handlers.NewSectionHandler(sectionService)
	subsectionHandler := handlers.NewSubsectionHandler(subsectionService)
	blockHandler := handlers.NewBlockHandler(blockService)
	publicHandler := handlers.NewPublicHandler(publicService)
	mediaHandler := handlers.NewMediaHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.POST("/users", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.CreateUser)
		}

		// Product routes (editor API)
		products := v1.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)

			products.GET("/:id/sections", sectionHandler.GetSections)
			products.POST("/:id/sections", sectionHandler.CreateSection)
			products.PUT("/:id/sections/reorder", sectionHandler.ReorderSections)
		}

		// Section routes
		sections := v1.Group("/sections")
		sections.Use(middleware.AuthRequired())
		{
			sections.GET("/:id", sectionHandler.GetSection)
			sections.PUT("/:id", sectionHandler.UpdateSection)
			sections.DELETE("/:id", sectionHandler.DeleteSection)

			sections.GET("/:id/subsections", subsectionHandler.GetSubsections)
			sections.POST("/:id/subsections", subsectionHandler.CreateSubsection)
			sections.PUT("/:id/subsections/reorder", subsectionHandler.ReorderSubsections)
		}

		// Subsection routes
		subsections := v1.Group("/subsections")
		subsections.Use(middleware.AuthRequired())
		{
			subsections.GET("/:id", subsectionHandler.GetSubsection)
			subsections.PUT("/:id", subsectionHandler.UpdateSubsection)
			subsections.DELETE("/:id", subsectionHandler.DeleteSubsection)

			subsections.GET("/:id/blocks", blockHandler.GetBlocks)
			subsections.POST("/:id/blocks", blockHandler.CreateBlock)
			subsections.PUT("/:id/blocks/reorder", blockHandler.ReorderBlocks)
		}

		// Block routes
		blocks := v1.Group("/blocks")
		blocks.Use(middleware.AuthRequired())
		{
			blocks.GET("/:id", blockHandler.GetBlock)
			blocks.PUT("/:id", blockHandler.UpdateBlock)
			blocks.DELETE("/:id", blockHandler.DeleteBlock)
		}

		// Media upload
		media := v1.Group("/media")
		media.Use(middleware.AuthRequired())
		{
			media.POST("/upload", middleware.UploadRateLimit(), mediaHandler.UploadImage)
		}

		// Public read-only routes, gated on publish flags
		public := v1.Group("/public")
		{
			public.GET("/products/:slug/nav", publicHandler.GetNavigation)
			public.GET("/subsections/:id", publicHandler.GetSubsectionContent)
			public.GET("/search", publicHandler.Search)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	return r
}

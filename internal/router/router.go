// internal/router/router.go
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javiei/proomtb-backend/internal/cart"
	"github.com/javiei/proomtb-backend/internal/catalog"
	"github.com/javiei/proomtb-backend/internal/config"
	"github.com/javiei/proomtb-backend/internal/handlers"
	"github.com/javiei/proomtb-backend/internal/middleware"
	"github.com/javiei/proomtb-backend/internal/services"
	"github.com/javiei/proomtb-backend/internal/session"
	"github.com/javiei/proomtb-backend/internal/storage"
)

func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// Core components, constructed once and injected everywhere; no
	// package-level mutable state.
	normalizer := catalog.NewNormalizer(catalog.Options{
		AssetOrigin:      cfg.Storefront.AssetOrigin,
		PlaceholderImage: cfg.Storefront.PlaceholderImage,
		DefaultSizes:     cfg.Storefront.DefaultSizes,
		DefaultCategory:  cfg.Storefront.DefaultCategory,
	})

	var mirror cart.Storage
	if cfg.Storefront.CartMirrorPath != "" {
		mirror = storage.NewFileStore(cfg.Storefront.CartMirrorPath)
	} else {
		mirror = storage.NewDBStore(db, cfg.Storefront.CartMirrorKey)
	}
	cartStore := cart.NewStore(mirror, logger)

	verifier := session.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Initialize services
	catalogService := services.NewCatalogService(db, normalizer, cfg.Storefront.PageSize, logger)
	cartService := services.NewCartService(db, cartStore, logger)
	profileService := services.NewProfileService(db, logger)

	bridge := session.NewBridge(profileService, logger)
	// There is no persisted provider session at boot; the bridge starts
	// anonymous and becomes Ready immediately.
	bridge.Start(context.Background(), nil)

	if err := catalogService.Refresh(context.Background()); err != nil {
		logger.WithError(err).Warn("Initial catalog refresh failed, serving empty catalog")
	}

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	profileHandler := handlers.NewProfileHandler(profileService)
	authHandler := handlers.NewAuthHandler(bridge, verifier)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
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
		// Authentication bridge routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthEventRateLimit())
		{
			auth.POST("/events", authHandler.PostEvent)
			auth.GET("/session", authHandler.GetSession)
		}

		// Catalog routes
		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.GetProducts)
			products.GET("/categories", catalogHandler.GetCategories)
			products.GET("/:id", catalogHandler.GetProduct)
		}

		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.POST("/refresh", catalogHandler.RefreshCatalog)
		}

		// Cart routes
		cartGroup := v1.Group("/cart")
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.PUT("/items/:key", cartHandler.UpdateQuantity)
			cartGroup.DELETE("/items/:key", cartHandler.RemoveItem)
			cartGroup.DELETE("/products/:id", cartHandler.RemoveProduct)

			// Authenticated routes
			protected := cartGroup.Group("")
			protected.Use(middleware.AuthRequired(verifier))
			{
				protected.POST("/checkout", cartHandler.Checkout)
				protected.GET("/orders", cartHandler.GetOrders)
			}
		}

		// Profile routes
		profile := v1.Group("/profile")
		profile.Use(middleware.AuthRequired(verifier))
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
		}
	}

	return r
}

package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mbta-delay-pipeline/config"
	"mbta-delay-pipeline/handlers"
	"mbta-delay-pipeline/mbta"
	"mbta-delay-pipeline/middleware"
	"mbta-delay-pipeline/models"
	"mbta-delay-pipeline/services"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Optional database: history and auth endpoints need it, the
	// chatbot and warehouse endpoints do not.
	var db *gorm.DB
	if cfg.DB.DSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.User{}, &models.DelayRecord{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	} else {
		log.Printf("DB_DSN not set, delay history and auth endpoints disabled")
	}

	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to init cache: %v", err)
	}
	defer cache.Close()

	authService := services.NewAuthService(cfg.JWT)
	mbtaClient := mbta.NewClient(mbta.Config{
		BaseURL: cfg.MBTA.BaseURL,
		APIKey:  cfg.MBTA.APIKey,
	})
	warehousePath := filepath.Join(cfg.ETL.DataDir, "mbta_delay_warehouse.csv")

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "MBTA Delay API is running",
		})
	})

	v1 := router.Group("/api/v1")

	chatHandler := handlers.NewChatHandler(mbtaClient)
	v1.POST("/chat", chatHandler.HandleChat)

	routesHandler := handlers.NewRoutesHandler(warehousePath, cache)
	v1.GET("/routes", routesHandler.GetRoutes)

	v1.GET("/live", handlers.LiveWebSocket(cache, authService))

	if db != nil {
		authHandler := handlers.NewAuthHandler(db, authService)
		auth := v1.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		delaysHandler := handlers.NewDelaysHandler(db, cache)
		v1.GET("/delays", delaysHandler.GetDelays)
	}

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

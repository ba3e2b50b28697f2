package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/config"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/models"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
	"github.com/tallesnicacio/a-pay-sub001/routes"
	"github.com/tallesnicacio/a-pay-sub001/services"
)

func main() {
	log.Println("Starting A-Pay POS API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.KitchenTicket{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	hub := realtime.NewHub(cfg.EventBufferSize)
	defer hub.Close()

	var storage services.S3Interface
	if cfg.AWSS3Bucket != "" {
		storage, err = services.NewS3Service(services.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, product image upload disabled")
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	router.GET("/api/v1/health", healthCheck)
	routes.Register(router, cfg, db, hub, storage)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "A-Pay POS API is running",
	})
}

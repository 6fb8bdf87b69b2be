package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"civictrack-be/config"
	"civictrack-be/middlewares"
	"civictrack-be/models"
	"civictrack-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	if err := models.EnsureUserIndexes(config.GetCollection("users")); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}

	// The issue rate limiter only runs when Redis is configured.
	var rateLimit gin.HandlerFunc
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedis()
		limit := 10
		if v, err := strconv.Atoi(os.Getenv("ISSUE_LIMIT_PER_DAY")); err == nil && v > 0 {
			limit = v
		}
		rateLimit = middlewares.IssueRateLimiter(limit)
	}

	r := gin.Default()
	r.Use(cors.Default())

	routes.AuthRoutes(r)
	routes.IssueRoutes(r, rateLimit)
	routes.UserRoutes(r)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/uploads", uploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

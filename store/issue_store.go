// Package store wraps the issues collection behind a small typed interface:
// insert, find with a structured query, find-by-id, partial update, and a
// read-side join that attaches the reporter's username. Controllers stay out
// of bson except through Query.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civictrack-be/models"
)

// ErrNotFound is returned when an issue id does not resolve to a record.
var ErrNotFound = errors.New("issue not found")

// SortOrder selects createdAt ordering for list operations.
type SortOrder string

const (
	SortNone   SortOrder = ""
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Query describes an issue listing: optional equality predicates plus sort
// order. Zero values mean "no constraint".
type Query struct {
	Status   string
	Category string
	Reporter *primitive.ObjectID
	Assignee *primitive.ObjectID
	Sort     SortOrder
}

// Filter builds the Mongo filter document for the query.
func (q Query) Filter() bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Reporter != nil {
		filter["reporterId"] = *q.Reporter
	}
	if q.Assignee != nil {
		filter["assignedVolunteer"] = *q.Assignee
	}
	return filter
}

// SortDoc builds the Mongo sort document, or nil when no order was asked for.
func (q Query) SortDoc() bson.D {
	switch q.Sort {
	case SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	case SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	}
	return nil
}

// IssueWithReporter is an issue annotated with its reporter's username for
// list views that show who filed it.
type IssueWithReporter struct {
	models.Issue
	Reporter map[string]interface{} `json:"reporterId"`
}

// IssueStore performs issue persistence against Mongo. The users collection
// is only read, for the reporter join.
type IssueStore struct {
	issues *mongo.Collection
	users  *mongo.Collection
}

func NewIssueStore(issues, users *mongo.Collection) *IssueStore {
	return &IssueStore{issues: issues, users: users}
}

// Insert persists a new issue as a single document, nested location and
// photo list included.
func (s *IssueStore) Insert(ctx context.Context, issue *models.Issue) error {
	_, err := s.issues.InsertOne(ctx, issue)
	return err
}

// Find returns the issues matching q.
func (s *IssueStore) Find(ctx context.Context, q Query) ([]models.Issue, error) {
	findOptions := options.Find()
	if sortDoc := q.SortDoc(); sortDoc != nil {
		findOptions.SetSort(sortDoc)
	}

	cursor, err := s.issues.Find(ctx, q.Filter(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// FindWithReporter returns the issues matching q with each record's reporter
// username attached. Reporters that no longer resolve keep just their id.
func (s *IssueStore) FindWithReporter(ctx context.Context, q Query) ([]IssueWithReporter, error) {
	issues, err := s.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	annotated := make([]IssueWithReporter, 0, len(issues))
	for _, issue := range issues {
		reporter := map[string]interface{}{
			"_id": issue.ReporterID,
		}

		var user models.User
		if err := s.users.FindOne(ctx, bson.M{"_id": issue.ReporterID}).Decode(&user); err == nil {
			reporter["username"] = user.Username
		}

		annotated = append(annotated, IssueWithReporter{Issue: issue, Reporter: reporter})
	}
	return annotated, nil
}

// FindByID resolves a single issue or ErrNotFound.
func (s *IssueStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateByID applies a partial update and returns the updated record, or
// ErrNotFound if the id does not resolve.
func (s *IssueStore) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Issue, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated models.Issue
	err := s.issues.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

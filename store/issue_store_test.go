package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"civictrack-be/models"
)

func TestQueryFilter(t *testing.T) {
	reporter := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	tests := []struct {
		name string
		q    Query
		want bson.M
	}{
		{
			name: "empty query matches everything",
			q:    Query{},
			want: bson.M{},
		},
		{
			name: "status only",
			q:    Query{Status: "Resolved"},
			want: bson.M{"status": "Resolved"},
		},
		{
			name: "status and category",
			q:    Query{Status: "Pending", Category: "Road Damage"},
			want: bson.M{"status": "Pending", "category": "Road Damage"},
		},
		{
			name: "reporter scoped",
			q:    Query{Reporter: &reporter},
			want: bson.M{"reporterId": reporter},
		},
		{
			name: "assignee scoped",
			q:    Query{Assignee: &assignee},
			want: bson.M{"assignedVolunteer": assignee},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Filter())
		})
	}
}

func TestQuerySortDoc(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, Query{Sort: SortNewest}.SortDoc())
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, Query{Sort: SortOldest}.SortDoc())
	// No sortBy means natural order: no sort document at all.
	assert.Nil(t, Query{}.SortDoc())
	assert.Nil(t, Query{Sort: SortOrder("votes")}.SortDoc())
}

// Annotated listings replace the plain reporterId with an object carrying the
// username, which is what the dashboards read.
func TestIssueWithReporterJSON(t *testing.T) {
	reporterID := primitive.NewObjectID()
	annotated := IssueWithReporter{
		Issue: models.Issue{
			ID:         primitive.NewObjectID(),
			Category:   "Water Leakage",
			ReporterID: reporterID,
			Status:     models.Pending,
		},
		Reporter: map[string]interface{}{
			"_id":      reporterID,
			"username": "asha",
		},
	}

	data, err := json.Marshal(annotated)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, annotated.ID.Hex(), out["_id"])

	reporter, ok := out["reporterId"].(map[string]interface{})
	require.True(t, ok, "reporterId should be the joined object, not a bare id")
	assert.Equal(t, "asha", reporter["username"])
}

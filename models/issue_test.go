package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboards key issue cards off issue._id, so the JSON shape has to match
// what the collection stores.
func TestIssueJSONShape(t *testing.T) {
	issue := Issue{
		ID:          primitive.NewObjectID(),
		Category:    "Road Damage",
		Description: "Large pothole near the crossing",
		ReporterID:  primitive.NewObjectID(),
		Contact:     "9999999999",
		Status:      Pending,
		Photos:      []string{"/uploads/1693465200000-pothole.jpg"},
		Location:    Location{Latitude: 17.38, Longitude: 78.48},
		CreatedAt:   time.Now(),
	}

	data, err := json.Marshal(issue)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Contains(t, out, "_id")
	assert.NotContains(t, out, "id")
	assert.Equal(t, issue.ID.Hex(), out["_id"])

	// Unassigned issues still carry the key, as null.
	assert.Contains(t, out, "assignedVolunteer")
	assert.Nil(t, out["assignedVolunteer"])

	location, ok := out["location"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 17.38, location["latitude"], 1e-9)
	assert.InDelta(t, 78.48, location["longitude"], 1e-9)
}

func TestUserJSONShape(t *testing.T) {
	u := User{
		ID:       primitive.NewObjectID(),
		Username: "asha",
		Email:    "asha@example.com",
		Password: "never-shown",
		Role:     RoleVolunteer,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, u.ID.Hex(), out["_id"])
	assert.NotContains(t, out, "password")
}

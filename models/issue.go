package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

// Location is the reported coordinates, stored as a nested document.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Issue represents a civic issue reported by a user. ReporterID is set at
// creation and never changes; AssignedVolunteer is nil until an authority
// assigns someone. Photos holds /uploads paths in the order they were sent —
// the files themselves live on disk, not in the record.
type Issue struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Category          string              `bson:"category" json:"category"`
	Description       string              `bson:"description" json:"description"`
	ReporterID        primitive.ObjectID  `bson:"reporterId" json:"reporterId"`
	Address           string              `bson:"address,omitempty" json:"address,omitempty"`
	Contact           string              `bson:"contact" json:"contact"`
	Status            IssueStatus         `bson:"status" json:"status"`
	AssignedVolunteer *primitive.ObjectID `bson:"assignedVolunteer,omitempty" json:"assignedVolunteer"`
	Photos            []string            `bson:"photos" json:"photos"`
	Location          Location            `bson:"location" json:"location"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
}

// Package lifecycle holds the issue lifecycle rules: which roles may invoke
// which operations, which status transitions are allowed, and what a valid
// report looks like. Both rule sets are plain data tables so that tightening
// policy later is a data change, not new code.
package lifecycle

import (
	"fmt"
	"strconv"
	"strings"

	"civictrack-be/models"
)

// Operation identifies an authenticated issue operation for permission checks.
type Operation string

const (
	OpFileIssue       Operation = "file_issue"
	OpListMine        Operation = "list_mine"
	OpFilter          Operation = "filter"
	OpListAssigned    Operation = "list_assigned"
	OpUpdateStatus    Operation = "update_status"
	OpAssignVolunteer Operation = "assign_volunteer"
)

// permissions maps each authenticated operation to the roles allowed to
// invoke it. The current data grants every role everything, matching the
// behavior clients were built against; the public all-issues listing takes
// no token at all and so has no row here.
var permissions = map[Operation][]string{
	OpFileIssue:       {models.RoleGeneralUser, models.RoleAuthority, models.RoleVolunteer},
	OpListMine:        {models.RoleGeneralUser, models.RoleAuthority, models.RoleVolunteer},
	OpFilter:          {models.RoleGeneralUser, models.RoleAuthority, models.RoleVolunteer},
	OpListAssigned:    {models.RoleGeneralUser, models.RoleAuthority, models.RoleVolunteer},
	OpUpdateStatus:    {models.RoleGeneralUser, models.RoleAuthority, models.RoleVolunteer},
	OpAssignVolunteer: {models.RoleGeneralUser, models.RoleAuthority, models.RoleVolunteer},
}

// CanInvoke reports whether a caller holding role may invoke op. Unknown
// operations and unknown roles are denied.
func CanInvoke(op Operation, role string) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// transitions maps each status to the statuses it may move to. Every pair is
// currently allowed, including reopening a resolved issue.
var transitions = map[models.IssueStatus][]models.IssueStatus{
	models.Pending:    {models.Pending, models.InProgress, models.Resolved},
	models.InProgress: {models.Pending, models.InProgress, models.Resolved},
	models.Resolved:   {models.Pending, models.InProgress, models.Resolved},
}

// CanTransition reports whether an issue in status from may be set to to.
func CanTransition(from, to models.IssueStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (models.IssueStatus, error) {
	switch models.IssueStatus(s) {
	case models.Pending, models.InProgress, models.Resolved:
		return models.IssueStatus(s), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// ValidateReport checks the required fields of a new report before anything
// is persisted: contact must be non-empty and both coordinates must parse as
// numbers. Returns the parsed location on success.
func ValidateReport(contact, latitude, longitude string) (models.Location, error) {
	if strings.TrimSpace(contact) == "" {
		return models.Location{}, fmt.Errorf("contact is required")
	}
	lat, err := strconv.ParseFloat(latitude, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("latitude must be a number")
	}
	lng, err := strconv.ParseFloat(longitude, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("longitude must be a number")
	}
	return models.Location{Latitude: lat, Longitude: lng}, nil
}

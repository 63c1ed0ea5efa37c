package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses derived from task completion, never stored.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on-hold"
)

// DoneColumnLabel is the literal column label that marks tasks as completed
// for progress computation. Matched case-sensitively.
const DoneColumnLabel = "Done"

type Project struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"projectName"`
	Description string               `json:"description" bson:"description"`
	Color       string               `json:"color" bson:"color"`
	OwnerID     primitive.ObjectID   `json:"ownerId" bson:"userId"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	// LastViewed maps a member's id (hex) to the last time they opened the board.
	LastViewed map[string]time.Time `json:"lastViewed,omitempty" bson:"lastViewed,omitempty"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasMember reports whether userID is the owner or a member.
func (p *Project) HasMember(userID primitive.ObjectID) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ProjectSummary is a projects-list row: the stored document plus the
// aggregated task counts. Progress and Status are filled in Go from the
// counts, not by the pipeline.
type ProjectSummary struct {
	Project        `bson:",inline"`
	TotalTasks     int    `json:"totalTasks" bson:"totalTasks"`
	CompletedTasks int    `json:"completedTasks" bson:"completedTasks"`
	MemberCount    int    `json:"memberCount" bson:"memberCount"`
	Progress       int    `json:"progress" bson:"-"`
	Status         string `json:"status" bson:"-"`
}

// Progress returns the percent of completed tasks rounded to the nearest
// integer, 0 when there are no tasks.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// DeriveStatus maps task counts to a project status.
func DeriveStatus(completed, total int) string {
	switch {
	case total == 0:
		return StatusNotStarted
	case completed == total:
		return StatusCompleted
	case completed > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ProjectMember is a member row with the owner flag resolved.
type ProjectMember struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	Name    string             `json:"name" bson:"name"`
	Email   string             `json:"email" bson:"email"`
	Picture string             `json:"picture,omitempty" bson:"picture,omitempty"`
	IsOwner bool               `json:"isOwner" bson:"-"`
}

// DeleteSummary holds the counts shown on the delete-confirmation screen.
type DeleteSummary struct {
	TasksCount   int64 `json:"tasksCount"`
	ColumnsCount int64 `json:"columnsCount"`
	MembersCount int   `json:"membersCount"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Column is a named lane within a project. Labels are unique per project
// under case-insensitive comparison. Order is append-only: new columns take
// max(order)+1 and gaps left by deletions are never compacted.
type Column struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Label     string             `json:"label" bson:"label"`
	Color     string             `json:"color" bson:"color"`
	ProjectID primitive.ObjectID `json:"projectId" bson:"project"`
	Order     int                `json:"order" bson:"order"`
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateColumnRequest struct {
	Label string `json:"label" binding:"required"`
	Color string `json:"color"`
}

// BoardColumn is a board-view row: a column with its tasks embedded and
// comment counts attached.
type BoardColumn struct {
	Column    `bson:",inline"`
	Tasks     []BoardTask `json:"tasks" bson:"tasks"`
	TaskCount int         `json:"taskCount" bson:"taskCount"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TaskID primitive.ObjectID `json:"taskId" bson:"taskId"`
	// ProjectID is denormalized for access filtering, like Task.ProjectID.
	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	Text      string             `json:"comment" bson:"comment"`
	Edited    bool               `json:"edited" bson:"edited"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CommentView is a comment row with the caller-specific edit flag.
type CommentView struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
	Edited    bool   `json:"edited"`
	CanEdit   bool   `json:"canEdit"`
}

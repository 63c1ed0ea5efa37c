package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task workflow statuses. Creation always starts at todo; transitions are
// caller-driven.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Type        string             `json:"type" bson:"type"`         // free-form tag, e.g. "task"/"bug"
	Priority    string             `json:"priority" bson:"priority"` // low|medium|high
	DueDate     *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Labels      []string           `json:"labels" bson:"labels"`
	ColumnID    primitive.ObjectID `json:"columnId" bson:"columnId"`
	// ProjectID is denormalized from the column so access filtering never
	// needs a join. Every write that touches ColumnID must keep it in sync.
	ProjectID        primitive.ObjectID `json:"projectId" bson:"projectId"`
	CreatedBy        primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	AssignedTo       primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	AssigneeName     string             `json:"assigneeName" bson:"assigneeName"`
	AssigneeInitials string             `json:"assigneeInitials" bson:"assigneeInitials"`
	Status           string             `json:"status" bson:"status"`
	Order            int                `json:"order" bson:"order"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BoardTask is the task shape embedded in the board view, with the comment
// count attached by the aggregation.
type BoardTask struct {
	Task         `bson:",inline"`
	CommentCount int `json:"commentCount" bson:"commentCount"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"` // YYYY-MM-DD
	ColumnID    string `json:"columnId" binding:"required"`
	Labels      string `json:"labels"` // comma-separated
}

type UpdateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	ColumnID    string `json:"columnId" binding:"required"`
	Labels      string `json:"labels"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
}

type MoveTaskRequest struct {
	TaskID         string `json:"taskId" binding:"required"`
	SourceColumnID string `json:"sourceColumnId" binding:"required"`
	TargetColumnID string `json:"targetColumnId" binding:"required"`
}

// TaskDetail is the flattened shape returned by the task detail endpoint.
type TaskDetail struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Priority         string   `json:"priority"`
	DueDate          string   `json:"dueDate,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	Labels           []string `json:"labels"`
	AssigneeName     string   `json:"assigneeName"`
	AssigneeInitials string   `json:"assigneeInitials"`
	ColumnName       string   `json:"columnName"`
	ColumnColor      string   `json:"columnColor"`
	ProjectName      string   `json:"projectName"`
	ProjectID        string   `json:"projectId"`
}

// MyTask is a task enriched with project/column display fields for the
// personal task list.
type MyTask struct {
	Task         `bson:",inline"`
	ProjectName  string `json:"projectName" bson:"-"`
	ProjectColor string `json:"projectColor" bson:"-"`
	ColumnName   string `json:"columnName" bson:"-"`
}

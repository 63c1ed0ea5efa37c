package repository

import (
	"context"
	"time"

	"taskboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		collection: db.Collection("tasks"),
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.Labels == nil {
		task.Labels = []string{}
	}
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindInProject returns the task only when it belongs to the project.
func (r *TaskRepository) FindInProject(ctx context.Context, taskID, projectID primitive.ObjectID) (*models.Task, error) {
	filter := bson.M{"_id": taskID, "projectId": projectID}

	var task models.Task
	if err := r.collection.FindOne(ctx, filter).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// NextOrder allocates the order for a task appended to a column:
// max(order)+1 within the column, or 0 when the column is empty. Same
// unguarded read-then-write as column order allocation.
func (r *TaskRepository) NextOrder(ctx context.Context, columnID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})

	var last models.Task
	err := r.collection.FindOne(ctx, bson.M{"columnId": columnID}, opts).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return last.Order + 1, nil
}

// Move reassigns the task to the target column with the given appended
// order. The source column is never renumbered. Returns false when no
// document was modified.
func (r *TaskRepository) Move(ctx context.Context, taskID, targetColumnID primitive.ObjectID, order int) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"columnId":  targetColumnID,
			"order":     order,
			"updatedAt": time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// Update applies the field set to the task. The caller decides whether an
// order reassignment belongs in the set (only on column change).
func (r *TaskRepository) Update(ctx context.Context, taskID primitive.ObjectID, set bson.M) (bool, error) {
	set["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListByAssignee returns every task assigned to the user, across projects.
func (r *TaskRepository) ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"assignedTo": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject returns the project's tasks, used by the search endpoint.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
}

// DeleteByProject removes every task of a project (cascade step).
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DistinctProjectIDs returns the set of project ids referenced by tasks.
// Used by the orphan sweep.
func (r *TaskRepository) DistinctProjectIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := r.collection.Distinct(ctx, "projectId", bson.M{})
	if err != nil {
		return nil, err
	}
	return toObjectIDs(raw), nil
}

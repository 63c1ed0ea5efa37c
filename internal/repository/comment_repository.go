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

type CommentRepository struct {
	collection *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		collection: db.Collection("comments"),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	comment.Edited = false
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// ListByTask returns the task's comments newest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByAuthor returns the comment only when it belongs to the task and was
// written by the user. Edits and deletes go through this filter, so authorship
// is enforced by the query itself.
func (r *CommentRepository) FindByAuthor(ctx context.Context, commentID, taskID, userID primitive.ObjectID) (*models.Comment, error) {
	filter := bson.M{"_id": commentID, "taskId": taskID, "userId": userID}

	var comment models.Comment
	if err := r.collection.FindOne(ctx, filter).Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateText rewrites the comment body and marks it edited.
func (r *CommentRepository) UpdateText(ctx context.Context, commentID primitive.ObjectID, text string) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"comment":   text,
			"edited":    true,
			"updatedAt": time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": commentID}, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *CommentRepository) Delete(ctx context.Context, commentID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": commentID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteByTask removes a task's comments when the task is deleted.
func (r *CommentRepository) DeleteByTask(ctx context.Context, taskID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes every comment of a project (cascade step).
func (r *CommentRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

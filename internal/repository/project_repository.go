package repository

import (
	"context"
	"time"

	"taskboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		collection: db.Collection("projects"),
	}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}

	// Owner is always a member.
	if !project.HasMember(project.OwnerID) {
		project.Members = append(project.Members, project.OwnerID)
	}

	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// FindAuthorized is the access gate: it returns the project only when the
// caller is its owner or one of its members. A missing project and a
// forbidden one are indistinguishable (both ErrNoDocuments), so existence
// never leaks to non-members. Membership is re-read on every call.
func (r *ProjectRepository) FindAuthorized(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Project, error) {
	filter := bson.M{
		"_id": projectID,
		"$or": []bson.M{
			{"userId": userID},
			{"members": userID},
		},
	}

	var project models.Project
	if err := r.collection.FindOne(ctx, filter).Decode(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// FindOwned is the stricter owner-only gate used by delete and member
// management.
func (r *ProjectRepository) FindOwned(ctx context.Context, projectID, ownerID primitive.ObjectID) (*models.Project, error) {
	filter := bson.M{"_id": projectID, "userId": ownerID}

	var project models.Project
	if err := r.collection.FindOne(ctx, filter).Decode(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByNameAndOwner backs the per-owner name uniqueness check.
func (r *ProjectRepository) FindByNameAndOwner(ctx context.Context, name string, ownerID primitive.ObjectID) (*models.Project, error) {
	filter := bson.M{"projectName": name, "userId": ownerID}

	var project models.Project
	if err := r.collection.FindOne(ctx, filter).Decode(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListSummaries returns every project the user owns or belongs to, with task
// totals and completed counts aggregated in. Completed means the task sits in
// the column literally labeled "Done". Progress and status are derived by the
// caller from the raw counts.
func (r *ProjectRepository) ListSummaries(ctx context.Context, userID primitive.ObjectID) ([]models.ProjectSummary, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"$or": []bson.M{
				{"userId": userID},
				{"members": userID},
			},
		}},
		{"$lookup": bson.M{
			"from":         "tasks",
			"localField":   "_id",
			"foreignField": "projectId",
			"as":           "tasks",
		}},
		{"$lookup": bson.M{
			"from":         "columns",
			"localField":   "_id",
			"foreignField": "project",
			"as":           "columns",
		}},
		{"$addFields": bson.M{
			"totalTasks": bson.M{"$size": "$tasks"},
			"doneColumn": bson.M{
				"$arrayElemAt": []interface{}{
					bson.M{"$filter": bson.M{
						"input": "$columns",
						"as":    "col",
						"cond":  bson.M{"$eq": []interface{}{"$$col.label", models.DoneColumnLabel}},
					}},
					0,
				},
			},
		}},
		{"$addFields": bson.M{
			"completedTasks": bson.M{
				"$size": bson.M{"$filter": bson.M{
					"input": "$tasks",
					"as":    "task",
					"cond":  bson.M{"$eq": []interface{}{"$$task.columnId", "$doneColumn._id"}},
				}},
			},
			"memberCount": bson.M{"$size": bson.M{"$ifNull": []interface{}{"$members", []interface{}{}}}},
		}},
		{"$project": bson.M{"tasks": 0, "columns": 0, "doneColumn": 0}},
		{"$sort": bson.M{"createdAt": -1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []models.ProjectSummary
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}

	for i := range summaries {
		summaries[i].Progress = models.Progress(summaries[i].CompletedTasks, summaries[i].TotalTasks)
		summaries[i].Status = models.DeriveStatus(summaries[i].CompletedTasks, summaries[i].TotalTasks)
	}
	return summaries, nil
}

// StampLastViewed records that the user opened the board just now.
func (r *ProjectRepository) StampLastViewed(ctx context.Context, projectID, userID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"lastViewed." + userID.Hex(): time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	return err
}

// AddMember adds the user to the member set. Returns false when nothing was
// modified (already a member, or project gone).
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, memberID primitive.ObjectID) (bool, error) {
	update := bson.M{
		"$addToSet": bson.M{"members": memberID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveMember pulls the user from the member set.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) (bool, error) {
	update := bson.M{
		"$pull": bson.M{"members": memberID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Exists reports whether the project id still resolves. Used by the orphan
// sweep.
func (r *ProjectRepository) Exists(ctx context.Context, projectID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": projectID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

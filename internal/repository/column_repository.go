package repository

import (
	"context"
	"regexp"
	"time"

	"taskboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ColumnRepository struct {
	collection *mongo.Collection
}

func NewColumnRepository(db *mongo.Database) *ColumnRepository {
	return &ColumnRepository{
		collection: db.Collection("columns"),
	}
}

func (r *ColumnRepository) Create(ctx context.Context, column *models.Column) error {
	column.CreatedAt = time.Now()
	if column.ID.IsZero() {
		column.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, column)
	return err
}

// FindInProject returns the column only when it belongs to the project.
func (r *ColumnRepository) FindInProject(ctx context.Context, columnID, projectID primitive.ObjectID) (*models.Column, error) {
	filter := bson.M{"_id": columnID, "project": projectID}

	var column models.Column
	if err := r.collection.FindOne(ctx, filter).Decode(&column); err != nil {
		return nil, err
	}
	return &column, nil
}

// FindByLabel looks up a column by label within a project, case-insensitively.
func (r *ColumnRepository) FindByLabel(ctx context.Context, projectID primitive.ObjectID, label string) (*models.Column, error) {
	filter := bson.M{
		"project": projectID,
		"label": bson.M{
			"$regex":   "^" + regexp.QuoteMeta(label) + "$",
			"$options": "i",
		},
	}

	var column models.Column
	if err := r.collection.FindOne(ctx, filter).Decode(&column); err != nil {
		return nil, err
	}
	return &column, nil
}

// NextOrder allocates the order value for a new column: max(order)+1, or 0
// for the first column. Read-then-write with no lock; two concurrent
// creations can draw the same value, which is accepted (order is display
// sequencing only).
func (r *ColumnRepository) NextOrder(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})

	var last models.Column
	err := r.collection.FindOne(ctx, bson.M{"project": projectID}, opts).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return last.Order + 1, nil
}

func (r *ColumnRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Column, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"project": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var columns []models.Column
	if err = cursor.All(ctx, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *ColumnRepository) FindByID(ctx context.Context, columnID primitive.ObjectID) (*models.Column, error) {
	var column models.Column
	if err := r.collection.FindOne(ctx, bson.M{"_id": columnID}).Decode(&column); err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"project": projectID})
}

// DeleteByProject removes every column of a project (cascade step).
func (r *ColumnRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DistinctProjectIDs returns the set of project ids referenced by columns.
// Used by the orphan sweep.
func (r *ColumnRepository) DistinctProjectIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := r.collection.Distinct(ctx, "project", bson.M{})
	if err != nil {
		return nil, err
	}
	return toObjectIDs(raw), nil
}

// BoardView builds the board: every column of the project with its tasks
// embedded (scoped to both column and project, ordered), each task carrying
// its comment count, columns sorted by order.
func (r *ColumnRepository) BoardView(ctx context.Context, projectID primitive.ObjectID) ([]models.BoardColumn, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"project": projectID}},
		{"$lookup": bson.M{
			"from": "tasks",
			"let":  bson.M{"columnId": "$_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{
					"$expr": bson.M{
						"$and": []bson.M{
							{"$eq": []interface{}{"$columnId", "$$columnId"}},
							{"$eq": []interface{}{"$projectId", projectID}},
						},
					},
				}},
				{"$lookup": bson.M{
					"from":         "comments",
					"localField":   "_id",
					"foreignField": "taskId",
					"as":           "comments",
				}},
				{"$addFields": bson.M{
					"commentCount": bson.M{"$size": "$comments"},
				}},
				{"$project": bson.M{"comments": 0}},
				{"$sort": bson.M{"order": 1}},
			},
			"as": "tasks",
		}},
		{"$addFields": bson.M{
			"taskCount": bson.M{"$size": "$tasks"},
		}},
		{"$sort": bson.M{"order": 1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var columns []models.BoardColumn
	if err = cursor.All(ctx, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func toObjectIDs(raw []interface{}) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Set client options
	clientOptions := options.Client().ApplyURI(uri)

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")

	m := &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}
	m.ensureIndexes(ctx)

	return m, nil
}

func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// Collection helpers
func (m *MongoDB) Users() *mongo.Collection {
	return m.Database.Collection("users")
}

func (m *MongoDB) Projects() *mongo.Collection {
	return m.Database.Collection("projects")
}

func (m *MongoDB) Columns() *mongo.Collection {
	return m.Database.Collection("columns")
}

func (m *MongoDB) Tasks() *mongo.Collection {
	return m.Database.Collection("tasks")
}

func (m *MongoDB) Comments() *mongo.Collection {
	return m.Database.Collection("comments")
}

// ensureIndexes creates the indexes the ordering and lookup queries rely on.
// Failures are logged, not fatal: the server still works against an
// unindexed store, just slower.
func (m *MongoDB) ensureIndexes(ctx context.Context) {
	create := func(coll *mongo.Collection, model mongo.IndexModel) {
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			log.Println("index creation failed for", coll.Name(), ":", err)
		}
	}

	create(m.Users(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_email").SetUnique(true),
	})
	create(m.Columns(), mongo.IndexModel{
		Keys:    bson.D{{Key: "project", Value: 1}, {Key: "order", Value: 1}},
		Options: options.Index().SetName("idx_project_order"),
	})
	create(m.Tasks(), mongo.IndexModel{
		Keys:    bson.D{{Key: "columnId", Value: 1}, {Key: "order", Value: 1}},
		Options: options.Index().SetName("idx_column_order"),
	})
	create(m.Tasks(), mongo.IndexModel{
		Keys:    bson.D{{Key: "projectId", Value: 1}},
		Options: options.Index().SetName("idx_project_id"),
	})
	create(m.Comments(), mongo.IndexModel{
		Keys:    bson.D{{Key: "taskId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_task_created"),
	})
}

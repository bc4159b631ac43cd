package project

import (
	"context"

	"go-safesite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepository interface {
	Find(ctx context.Context, filter bson.M) ([]Project, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Project, error)
}

type ProjectRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewProjectRepository(db *database.MongodbDB) ProjectRepository {
	return &ProjectRepositoryImpl{
		Collection: db.DB.Collection("projects"),
	}
}

func (r *ProjectRepositoryImpl) Find(ctx context.Context, filter bson.M) ([]Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

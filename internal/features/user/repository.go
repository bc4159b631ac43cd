package user

import (
	"context"

	"go-safesite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	DisplayNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(db *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: db.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DisplayNames resolves a batch of user IDs to display labels in one query.
func (r *UserRepositoryImpl) DisplayNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	users, err := r.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names, nil
}

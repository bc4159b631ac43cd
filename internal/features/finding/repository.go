package finding

import (
	"context"
	"time"

	common_models "go-safesite/internal/common/models"
	"go-safesite/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FindingRepository interface {
	Find(ctx context.Context, filter bson.M) ([]Finding, error)
	FindByProjectIDs(ctx context.Context, projectIDs []primitive.ObjectID) ([]Finding, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type FindingRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFindingRepository(db *database.MongodbDB) FindingRepository {
	return &FindingRepositoryImpl{
		Collection: db.DB.Collection("findings"),
	}
}

// Find returns matching findings ordered by created_at descending.
func (r *FindingRepositoryImpl) Find(ctx context.Context, filter bson.M) ([]Finding, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var findings []Finding
	if err := cursor.All(ctx, &findings); err != nil {
		return nil, err
	}
	return findings, nil
}

func (r *FindingRepositoryImpl) FindByProjectIDs(ctx context.Context, projectIDs []primitive.ObjectID) ([]Finding, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	return r.Find(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}})
}

// MarkOverdue flips findings past their due date into the overdue status.
// Closed and pending-approval findings are left alone.
func (r *FindingRepositoryImpl) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"due_date": bson.M{"$lt": now},
		"status": bson.M{"$nin": []common_models.Status{
			common_models.StatusClosed,
			common_models.StatusPendingApproval,
			common_models.StatusOverdue,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":     common_models.StatusOverdue,
		"updated_at": now,
	}}
	res, err := r.Collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

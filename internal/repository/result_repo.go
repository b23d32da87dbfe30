package repository

import (
	"context"

	"mindwell/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo archives completed screenings in MongoDB
type ResultRepo interface {
	EnsureIndexes(ctx context.Context) error
	Save(ctx context.Context, record *model.ResultRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.ResultRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.ResultRecord, error)
	CountByLevel(ctx context.Context) ([]model.LevelCount, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("screening_results"),
	}
}

func (r *resultRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "completedAt", Value: -1}}},
		{Keys: bson.D{{Key: "level", Value: 1}}},
	})
	return err
}

// Save upserts by session ID, so a reset and re-completed session keeps
// only its latest outcome
func (r *resultRepo) Save(ctx context.Context, record *model.ResultRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.SessionID}, record, opts)
	return err
}

func (r *resultRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.ResultRecord, error) {
	var record model.ResultRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *resultRepo) ListRecent(ctx context.Context, limit int64) ([]*model.ResultRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.ResultRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *resultRepo) CountByLevel(ctx context.Context) ([]model.LevelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$level"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []model.LevelCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const loadCollectionName = "load_history"

type loadDoc struct {
	ID           string    `bson:"_id"`
	MemberID     string    `bson:"memberId"`
	ExerciseName string    `bson:"exerciseName"`
	WeightKg     float64   `bson:"weightKg"`
	At           time.Time `bson:"at"`
}

func loadFromDomain(r domain.LoadRecord) loadDoc {
	return loadDoc{
		ID:           r.ID,
		MemberID:     r.MemberID,
		ExerciseName: domain.NormalizeExerciseName(r.ExerciseName),
		WeightKg:     r.WeightKg,
		At:           r.At.UTC(),
	}
}

func (d loadDoc) toDomain() domain.LoadRecord {
	return domain.LoadRecord(d)
}

type mongoLoadRepository struct {
	collection *mongo.Collection
}

func NewMongoLoadRepository(db *mongo.Database) repository.LoadRepository {
	return &mongoLoadRepository{
		collection: db.Collection(loadCollectionName),
	}
}

// List returns load history oldest first.
func (r *mongoLoadRepository) List(ctx context.Context, memberID string) ([]domain.LoadRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	return findAll(ctx, r.collection, ownerFilter(memberID), opts, loadDoc.toDomain)
}

func (r *mongoLoadRepository) Append(ctx context.Context, record *domain.LoadRecord) error {
	if record.ID == "" {
		return errors.New("load record id is required")
	}
	_, err := r.collection.InsertOne(ctx, loadFromDomain(*record))
	return translateError(err)
}

func (r *mongoLoadRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func EnsureLoadIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "exerciseName", Value: 1}, {Key: "at", Value: 1}},
	})
	return err
}

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

const checkInCollectionName = "checkins"

type checkInDoc struct {
	ID              string    `bson:"_id"`
	MemberID        string    `bson:"memberId"`
	PlanID          string    `bson:"planId"`
	DivisionLetter  string    `bson:"divisionLetter,omitempty"`
	At              time.Time `bson:"at"`
	DurationSeconds int64     `bson:"durationSeconds"`
}

func checkInFromDomain(c domain.CheckIn) checkInDoc {
	return checkInDoc{
		ID:              c.ID,
		MemberID:        c.MemberID,
		PlanID:          c.PlanID,
		DivisionLetter:  c.DivisionLetter,
		At:              c.At.UTC(),
		DurationSeconds: c.DurationSeconds,
	}
}

func (d checkInDoc) toDomain() domain.CheckIn {
	return domain.CheckIn(d)
}

type mongoCheckInRepository struct {
	collection *mongo.Collection
}

func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// List returns check-ins oldest first.
func (r *mongoCheckInRepository) List(ctx context.Context, memberID string) ([]domain.CheckIn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	return findAll(ctx, r.collection, ownerFilter(memberID), opts, checkInDoc.toDomain)
}

// Append inserts a check-in. Check-ins are never updated.
func (r *mongoCheckInRepository) Append(ctx context.Context, checkIn *domain.CheckIn) error {
	if checkIn.ID == "" {
		return errors.New("check-in id is required")
	}
	_, err := r.collection.InsertOne(ctx, checkInFromDomain(*checkIn))
	return translateError(err)
}

func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}

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

const exerciseCollectionName = "exercises"

type exerciseDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	MuscleGroup  string    `bson:"muscleGroup"`
	Equipment    string    `bson:"equipment,omitempty"`
	Instructions string    `bson:"instructions,omitempty"`
	VideoURL     string    `bson:"videoUrl,omitempty"`
	Difficulty   string    `bson:"difficulty"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func exerciseFromDomain(e domain.CatalogExercise) exerciseDoc {
	return exerciseDoc{
		ID:           e.ID,
		Name:         e.Name,
		MuscleGroup:  e.MuscleGroup,
		Equipment:    e.Equipment,
		Instructions: e.Instructions,
		VideoURL:     e.VideoURL,
		Difficulty:   string(e.Difficulty),
		UpdatedAt:    time.Now().UTC(),
	}
}

func (d exerciseDoc) toDomain() domain.CatalogExercise {
	return domain.CatalogExercise{
		ID:           d.ID,
		Name:         d.Name,
		MuscleGroup:  d.MuscleGroup,
		Equipment:    d.Equipment,
		Instructions: d.Instructions,
		VideoURL:     d.VideoURL,
		Difficulty:   domain.Difficulty(d.Difficulty),
	}
}

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new catalog repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// List returns the catalog grouped by muscle group, then by name.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.CatalogExercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "muscleGroup", Value: 1}, {Key: "name", Value: 1}})
	return findAll(ctx, r.collection, bson.M{}, opts, exerciseDoc.toDomain)
}

func (r *mongoExerciseRepository) Upsert(ctx context.Context, exercise *domain.CatalogExercise) error {
	if exercise.ID == "" {
		return errors.New("exercise id is required")
	}
	return upsertByID(ctx, r.collection, exercise.ID, exerciseFromDomain(*exercise))
}

func (r *mongoExerciseRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "muscleGroup", Value: 1}, {Key: "name", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

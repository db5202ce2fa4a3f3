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

const planCollectionName = "plans"

type prescribedDoc struct {
	ExerciseID  string  `bson:"exerciseId,omitempty"`
	Name        string  `bson:"name"`
	Sets        int     `bson:"sets"`
	Reps        string  `bson:"reps"`
	Rest        string  `bson:"rest"`
	Notes       string  `bson:"notes,omitempty"`
	CurrentLoad float64 `bson:"currentLoad,omitempty"`
}

type divisionDoc struct {
	Letter    string          `bson:"letter"`
	Name      string          `bson:"name"`
	Exercises []prescribedDoc `bson:"exercises"`
}

// planDoc is the stored row of a member's plan. memberId is unique.
type planDoc struct {
	ID        string        `bson:"_id"`
	MemberID  string        `bson:"memberId"`
	TrainerID string        `bson:"trainerId,omitempty"`
	Name      string        `bson:"name"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
	Divisions []divisionDoc `bson:"divisions"`
}

func planFromDomain(p domain.WorkoutPlan) planDoc {
	doc := planDoc{
		ID:        p.ID,
		MemberID:  p.MemberID,
		TrainerID: p.TrainerID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.UTC(),
		Divisions: make([]divisionDoc, 0, len(p.Divisions)),
	}
	for _, d := range p.Divisions {
		dd := divisionDoc{Letter: d.Letter, Name: d.Name, Exercises: make([]prescribedDoc, 0, len(d.Exercises))}
		for _, ex := range d.Exercises {
			dd.Exercises = append(dd.Exercises, prescribedDoc(ex))
		}
		doc.Divisions = append(doc.Divisions, dd)
	}
	return doc
}

func (d planDoc) toDomain() domain.WorkoutPlan {
	p := domain.WorkoutPlan{
		ID:        d.ID,
		MemberID:  d.MemberID,
		TrainerID: d.TrainerID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		Divisions: make([]domain.Division, 0, len(d.Divisions)),
	}
	for _, dd := range d.Divisions {
		div := domain.Division{Letter: dd.Letter, Name: dd.Name, Exercises: make([]domain.PrescribedExercise, 0, len(dd.Exercises))}
		for _, ex := range dd.Exercises {
			div.Exercises = append(div.Exercises, domain.PrescribedExercise(ex))
		}
		p.Divisions = append(p.Divisions, div)
	}
	return p
}

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new WorkoutPlan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

func (r *mongoPlanRepository) List(ctx context.Context) ([]domain.WorkoutPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll(ctx, r.collection, bson.M{}, opts, planDoc.toDomain)
}

func (r *mongoPlanRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.WorkoutPlan, error) {
	var doc planDoc
	if err := r.collection.FindOne(ctx, bson.M{"memberId": memberID}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	p := doc.toDomain()
	return &p, nil
}

// Upsert writes the member's plan. An existing plan keeps its id and creation time;
// name and divisions are replaced.
func (r *mongoPlanRepository) Upsert(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.MemberID == "" || plan.ID == "" {
		return errors.New("plan id and member id are required")
	}
	doc := planFromDomain(*plan)
	update := bson.M{
		"$set": bson.M{
			"trainerId": doc.TrainerID,
			"name":      doc.Name,
			"divisions": doc.Divisions,
			"updatedAt": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":       doc.ID,
			"createdAt": doc.CreatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"memberId": plan.MemberID}, update, options.Update().SetUpsert(true))
	return translateError(err)
}

func (r *mongoPlanRepository) DeleteByMemberID(ctx context.Context, memberID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"memberId": memberID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One active plan per member.
			Keys:    bson.D{{Key: "memberId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

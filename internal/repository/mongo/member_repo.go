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

const memberCollectionName = "members"

// memberDoc is the stored row of a member.
type memberDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone,omitempty"`
	Role         string    `bson:"role"`
	EnrolledAt   time.Time `bson:"enrolledAt"`
	Objective    string    `bson:"objective,omitempty"`
	PhotoURL     string    `bson:"currentPhotoUrl,omitempty"`
	PasswordHash string    `bson:"passwordHash"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func memberFromDomain(m domain.Member) memberDoc {
	return memberDoc{
		ID:           m.ID,
		Name:         m.Name,
		Email:        domain.NormalizeEmail(m.Email),
		Phone:        m.Phone,
		Role:         string(m.Role),
		EnrolledAt:   m.EnrolledAt.UTC(),
		Objective:    m.Objective,
		PhotoURL:     m.PhotoURL,
		PasswordHash: m.PasswordHash,
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (d memberDoc) toDomain() domain.Member {
	return domain.Member{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Role:         domain.Role(d.Role),
		EnrolledAt:   d.EnrolledAt,
		Objective:    d.Objective,
		PhotoURL:     d.PhotoURL,
		PasswordHash: d.PasswordHash,
		UpdatedAt:    d.UpdatedAt,
	}
}

// mongoMemberRepository implements the repository.MemberRepository interface using MongoDB.
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new instance of mongoMemberRepository.
// It expects a connected *mongo.Database instance.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

func (r *mongoMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll(ctx, r.collection, bson.M{}, opts, memberDoc.toDomain)
}

// GetByID retrieves a member by id.
func (r *mongoMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a member by their email address.
func (r *mongoMemberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *mongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var doc memberDoc
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	m := doc.toDomain()
	return &m, nil
}

// Upsert inserts or replaces a member. A second member with the same email is a conflict.
func (r *mongoMemberRepository) Upsert(ctx context.Context, member *domain.Member) error {
	if member.ID == "" {
		return errors.New("member id is required")
	}
	member.UpdatedAt = time.Now().UTC()
	return upsertByID(ctx, r.collection, member.ID, memberFromDomain(*member))
}

// SetPhoto points the member at their newest progress photo.
func (r *mongoMemberRepository) SetPhoto(ctx context.Context, id, photoURL string) error {
	update := bson.M{
		"$set": bson.M{
			"currentPhotoUrl": photoURL,
			"updatedAt":       time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMemberIndexes creates necessary indexes for the members collection.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

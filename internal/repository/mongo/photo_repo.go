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

const photoCollectionName = "progress_photos"

type photoDoc struct {
	ID        string    `bson:"_id"`
	MemberID  string    `bson:"memberId"`
	URL       string    `bson:"url"`
	ObjectKey string    `bson:"objectKey"` // key in the bucket, internal use
	CreatedAt time.Time `bson:"createdAt"`
}

func photoFromDomain(p domain.ProgressPhoto) photoDoc {
	return photoDoc{
		ID:        p.ID,
		MemberID:  p.MemberID,
		URL:       p.URL,
		ObjectKey: p.ObjectKey,
		CreatedAt: p.CreatedAt.UTC(),
	}
}

func (d photoDoc) toDomain() domain.ProgressPhoto {
	return domain.ProgressPhoto(d)
}

// mongoPhotoRepository implements repository.PhotoRepository
type mongoPhotoRepository struct {
	collection *mongo.Collection
}

func NewMongoPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// List returns the gallery newest first.
func (r *mongoPhotoRepository) List(ctx context.Context, memberID string) ([]domain.ProgressPhoto, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll(ctx, r.collection, ownerFilter(memberID), opts, photoDoc.toDomain)
}

func (r *mongoPhotoRepository) Append(ctx context.Context, photo *domain.ProgressPhoto) error {
	if photo.ID == "" || photo.MemberID == "" {
		return errors.New("photo id and member id are required")
	}
	_, err := r.collection.InsertOne(ctx, photoFromDomain(*photo))
	return translateError(err)
}

func (r *mongoPhotoRepository) Delete(ctx context.Context, id string) (*domain.ProgressPhoto, error) {
	var doc photoDoc
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	p := doc.toDomain()
	return &p, nil
}

// EnsurePhotoIndexes creates necessary indexes for the progress_photos collection.
func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

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

const contentCollectionName = "content"

type contentDoc struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description,omitempty"`
	Category     string    `bson:"category"`
	URL          string    `bson:"url"`
	ThumbnailURL string    `bson:"thumbnailUrl,omitempty"`
	PostedAt     time.Time `bson:"postedAt"`
	Pinned       bool      `bson:"pinned"`
}

func contentFromDomain(v domain.VideoContent) contentDoc {
	return contentDoc{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Category:     v.Category,
		URL:          v.URL,
		ThumbnailURL: v.ThumbnailURL,
		PostedAt:     v.PostedAt.UTC(),
		Pinned:       v.Pinned,
	}
}

func (d contentDoc) toDomain() domain.VideoContent {
	return domain.VideoContent{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		URL:          d.URL,
		ThumbnailURL: d.ThumbnailURL,
		PostedAt:     d.PostedAt,
		Pinned:       d.Pinned,
	}
}

type mongoContentRepository struct {
	collection *mongo.Collection
}

func NewMongoContentRepository(db *mongo.Database) repository.ContentRepository {
	return &mongoContentRepository{
		collection: db.Collection(contentCollectionName),
	}
}

// List returns pinned items first, newest first within each group.
func (r *mongoContentRepository) List(ctx context.Context) ([]domain.VideoContent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pinned", Value: -1}, {Key: "postedAt", Value: -1}})
	return findAll(ctx, r.collection, bson.M{}, opts, contentDoc.toDomain)
}

func (r *mongoContentRepository) Upsert(ctx context.Context, content *domain.VideoContent) error {
	if content.ID == "" {
		return errors.New("content id is required")
	}
	return upsertByID(ctx, r.collection, content.ID, contentFromDomain(*content))
}

func (r *mongoContentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

func EnsureContentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pinned", Value: -1}, {Key: "postedAt", Value: -1}},
	})
	return err
}

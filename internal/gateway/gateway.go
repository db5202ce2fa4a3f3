// Package gateway translates between the domain model and the remote data store plus
// object storage. It holds no business logic; every failure comes back as an
// *apperror.RemoteError and nothing is retried.
package gateway

import (
	"context"
	"io"

	"alcyxob/fitlab/internal/domain"
)

// UploadedObject is a stored binary and where to fetch it from.
type UploadedObject struct {
	Key string
	URL string
}

// Gateway is the remote data boundary used by the session store and the auth service.
// An empty memberID in a List call means every member.
type Gateway interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	FindMemberByEmail(ctx context.Context, email string) (domain.Member, error)
	UpsertMember(ctx context.Context, member domain.Member) (domain.Member, error)
	SetMemberPhoto(ctx context.Context, memberID, photoURL string) error

	ListPlans(ctx context.Context) ([]domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, memberID string) (domain.WorkoutPlan, error)
	UpdatePlanDivisions(ctx context.Context, memberID string, plan domain.WorkoutPlan) (domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, memberID string) error

	ListCatalog(ctx context.Context) ([]domain.CatalogExercise, error)
	UpsertCatalogExercise(ctx context.Context, exercise domain.CatalogExercise) (domain.CatalogExercise, error)
	DeleteCatalogExercise(ctx context.Context, id string) error

	ListContent(ctx context.Context) ([]domain.VideoContent, error)
	UpsertContent(ctx context.Context, content domain.VideoContent) (domain.VideoContent, error)
	DeleteContent(ctx context.Context, id string) error

	ListCheckIns(ctx context.Context, memberID string) ([]domain.CheckIn, error)
	AppendCheckIn(ctx context.Context, checkIn domain.CheckIn) (domain.CheckIn, error)

	ListLoads(ctx context.Context, memberID string) ([]domain.LoadRecord, error)
	AppendLoad(ctx context.Context, record domain.LoadRecord) (domain.LoadRecord, error)
	DeleteLoad(ctx context.Context, id string) error

	ListPhotos(ctx context.Context, memberID string) ([]domain.ProgressPhoto, error)
	AppendPhoto(ctx context.Context, photo domain.ProgressPhoto) (domain.ProgressPhoto, error)
	DeletePhoto(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, memberID, fileName, contentType string, body io.Reader, size int64) (UploadedObject, error)
}

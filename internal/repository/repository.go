package repository

import (
	"context"

	"alcyxob/fitlab/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// An empty memberID in a List call means every member.

// MemberRepository defines the interface for interacting with member data.
type MemberRepository interface {
	List(ctx context.Context) ([]domain.Member, error)
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Upsert(ctx context.Context, member *domain.Member) error
	SetPhoto(ctx context.Context, id, photoURL string) error
}

// PlanRepository stores the single active plan of each member.
type PlanRepository interface {
	List(ctx context.Context) ([]domain.WorkoutPlan, error)
	GetByMemberID(ctx context.Context, memberID string) (*domain.WorkoutPlan, error)
	Upsert(ctx context.Context, plan *domain.WorkoutPlan) error
	DeleteByMemberID(ctx context.Context, memberID string) error
}

// ExerciseRepository holds the global exercise catalog.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.CatalogExercise, error)
	Upsert(ctx context.Context, exercise *domain.CatalogExercise) error
	Delete(ctx context.Context, id string) error
}

type ContentRepository interface {
	List(ctx context.Context) ([]domain.VideoContent, error)
	Upsert(ctx context.Context, content *domain.VideoContent) error
	Delete(ctx context.Context, id string) error
}

type CheckInRepository interface {
	List(ctx context.Context, memberID string) ([]domain.CheckIn, error)
	Append(ctx context.Context, checkIn *domain.CheckIn) error
}

type LoadRepository interface {
	List(ctx context.Context, memberID string) ([]domain.LoadRecord, error)
	Append(ctx context.Context, record *domain.LoadRecord) error
	Delete(ctx context.Context, id string) error
}

// PhotoRepository keeps gallery rows; the binaries live in object storage.
type PhotoRepository interface {
	List(ctx context.Context, memberID string) ([]domain.ProgressPhoto, error)
	Append(ctx context.Context, photo *domain.ProgressPhoto) error
	// Delete removes the row and returns it so the stored object can be removed too.
	Delete(ctx context.Context, id string) (*domain.ProgressPhoto, error)
}

package gateway

import (
	"context"
	"errors"
	"io"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/metrics"
	"alcyxob/fitlab/internal/repository"
	"alcyxob/fitlab/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Repositories bundles the stores the gateway writes through.
type Repositories struct {
	Members   repository.MemberRepository
	Plans     repository.PlanRepository
	Exercises repository.ExerciseRepository
	Content   repository.ContentRepository
	CheckIns  repository.CheckInRepository
	Loads     repository.LoadRepository
	Photos    repository.PhotoRepository
}

type remoteGateway struct {
	repos   Repositories
	files   storage.FileStorage
	metrics *metrics.Manager
}

func NewRemoteGateway(repos Repositories, files storage.FileStorage, metricsManager *metrics.Manager) Gateway {
	return &remoteGateway{
		repos:   repos,
		files:   files,
		metrics: metricsManager,
	}
}

// Classify maps a store failure onto a RemoteError kind.
func Classify(err error) apperror.RemoteKind {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.KindNotFound
	case errors.Is(err, repository.ErrConflict), errors.Is(err, storage.ErrEmptyObject):
		return apperror.KindConstraint
	}
	return apperror.KindNetwork
}

// call times one remote operation and wraps its failure.
func (g *remoteGateway) call(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	g.metrics.HistGatewayDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := Classify(err)
		g.metrics.CounterGatewayCalls.WithLabelValues(op, string(kind)).Inc()
		log.WithFields(log.Fields{"op": op, "kind": kind}).Errorf("gateway call failed: %s", err)
		return apperror.NewRemoteError(op, kind, err)
	}

	g.metrics.CounterGatewayCalls.WithLabelValues(op, "ok").Inc()
	log.WithField("op", op).Debug("gateway call done")
	return nil
}

func (g *remoteGateway) ListMembers(ctx context.Context) (members []domain.Member, err error) {
	err = g.call("list_members", func() error {
		members, err = g.repos.Members.List(ctx)
		return err
	})
	return members, err
}

func (g *remoteGateway) FindMemberByEmail(ctx context.Context, email string) (domain.Member, error) {
	var member *domain.Member
	err := g.call("find_member", func() (err error) {
		member, err = g.repos.Members.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return domain.Member{}, err
	}
	return *member, nil
}

func (g *remoteGateway) UpsertMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	err := g.call("upsert_member", func() error {
		return g.repos.Members.Upsert(ctx, &member)
	})
	return member, err
}

func (g *remoteGateway) SetMemberPhoto(ctx context.Context, memberID, photoURL string) error {
	return g.call("set_member_photo", func() error {
		return g.repos.Members.SetPhoto(ctx, memberID, photoURL)
	})
}

func (g *remoteGateway) ListPlans(ctx context.Context) (plans []domain.WorkoutPlan, err error) {
	err = g.call("list_plans", func() error {
		plans, err = g.repos.Plans.List(ctx)
		return err
	})
	return plans, err
}

func (g *remoteGateway) GetPlan(ctx context.Context, memberID string) (domain.WorkoutPlan, error) {
	var plan *domain.WorkoutPlan
	err := g.call("get_plan", func() (err error) {
		plan, err = g.repos.Plans.GetByMemberID(ctx, memberID)
		return err
	})
	if err != nil {
		return domain.WorkoutPlan{}, err
	}
	return *plan, nil
}

// UpdatePlanDivisions stores plan as the member's plan and returns what the store now holds.
func (g *remoteGateway) UpdatePlanDivisions(ctx context.Context, memberID string, plan domain.WorkoutPlan) (domain.WorkoutPlan, error) {
	plan.MemberID = memberID
	var stored *domain.WorkoutPlan
	err := g.call("update_plan", func() (err error) {
		if err = g.repos.Plans.Upsert(ctx, &plan); err != nil {
			return err
		}
		stored, err = g.repos.Plans.GetByMemberID(ctx, memberID)
		return err
	})
	if err != nil {
		return domain.WorkoutPlan{}, err
	}
	return *stored, nil
}

func (g *remoteGateway) DeletePlan(ctx context.Context, memberID string) error {
	return g.call("delete_plan", func() error {
		return g.repos.Plans.DeleteByMemberID(ctx, memberID)
	})
}

func (g *remoteGateway) ListCatalog(ctx context.Context) (exercises []domain.CatalogExercise, err error) {
	err = g.call("list_catalog", func() error {
		exercises, err = g.repos.Exercises.List(ctx)
		return err
	})
	return exercises, err
}

func (g *remoteGateway) UpsertCatalogExercise(ctx context.Context, exercise domain.CatalogExercise) (domain.CatalogExercise, error) {
	err := g.call("upsert_exercise", func() error {
		return g.repos.Exercises.Upsert(ctx, &exercise)
	})
	return exercise, err
}

func (g *remoteGateway) DeleteCatalogExercise(ctx context.Context, id string) error {
	return g.call("delete_exercise", func() error {
		return g.repos.Exercises.Delete(ctx, id)
	})
}

func (g *remoteGateway) ListContent(ctx context.Context) (items []domain.VideoContent, err error) {
	err = g.call("list_content", func() error {
		items, err = g.repos.Content.List(ctx)
		return err
	})
	return items, err
}

func (g *remoteGateway) UpsertContent(ctx context.Context, content domain.VideoContent) (domain.VideoContent, error) {
	err := g.call("upsert_content", func() error {
		return g.repos.Content.Upsert(ctx, &content)
	})
	return content, err
}

func (g *remoteGateway) DeleteContent(ctx context.Context, id string) error {
	return g.call("delete_content", func() error {
		return g.repos.Content.Delete(ctx, id)
	})
}

func (g *remoteGateway) ListCheckIns(ctx context.Context, memberID string) (checkIns []domain.CheckIn, err error) {
	err = g.call("list_checkins", func() error {
		checkIns, err = g.repos.CheckIns.List(ctx, memberID)
		return err
	})
	return checkIns, err
}

func (g *remoteGateway) AppendCheckIn(ctx context.Context, checkIn domain.CheckIn) (domain.CheckIn, error) {
	err := g.call("append_checkin", func() error {
		return g.repos.CheckIns.Append(ctx, &checkIn)
	})
	return checkIn, err
}

func (g *remoteGateway) ListLoads(ctx context.Context, memberID string) (records []domain.LoadRecord, err error) {
	err = g.call("list_loads", func() error {
		records, err = g.repos.Loads.List(ctx, memberID)
		return err
	})
	return records, err
}

func (g *remoteGateway) AppendLoad(ctx context.Context, record domain.LoadRecord) (domain.LoadRecord, error) {
	record.ExerciseName = domain.NormalizeExerciseName(record.ExerciseName)
	err := g.call("append_load", func() error {
		return g.repos.Loads.Append(ctx, &record)
	})
	return record, err
}

func (g *remoteGateway) DeleteLoad(ctx context.Context, id string) error {
	return g.call("delete_load", func() error {
		return g.repos.Loads.Delete(ctx, id)
	})
}

func (g *remoteGateway) ListPhotos(ctx context.Context, memberID string) (photos []domain.ProgressPhoto, err error) {
	err = g.call("list_photos", func() error {
		photos, err = g.repos.Photos.List(ctx, memberID)
		return err
	})
	return photos, err
}

// AppendPhoto registers an uploaded object in the gallery. When the row cannot be written
// the object is deleted so the bucket holds no unreferenced binary.
func (g *remoteGateway) AppendPhoto(ctx context.Context, photo domain.ProgressPhoto) (domain.ProgressPhoto, error) {
	err := g.call("append_photo", func() error {
		return g.repos.Photos.Append(ctx, &photo)
	})
	if err != nil && photo.ObjectKey != "" {
		if derr := g.files.DeleteObject(ctx, photo.ObjectKey); derr != nil {
			log.Warnf("photo %s not registered and object %s remains: %s", photo.ID, photo.ObjectKey, derr)
		}
	}
	return photo, err
}

// DeletePhoto removes the gallery row, then the stored object. A failing object delete
// only leaves an orphan in the bucket and is logged.
func (g *remoteGateway) DeletePhoto(ctx context.Context, id string) error {
	var photo *domain.ProgressPhoto
	err := g.call("delete_photo", func() (err error) {
		photo, err = g.repos.Photos.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if photo.ObjectKey == "" {
		return nil
	}
	if err := g.files.DeleteObject(ctx, photo.ObjectKey); err != nil {
		log.Warnf("photo %s deleted but object %s remains: %s", id, photo.ObjectKey, err)
	}
	return nil
}

func (g *remoteGateway) UploadPhoto(ctx context.Context, memberID, fileName, contentType string, body io.Reader, size int64) (UploadedObject, error) {
	key := storage.PhotoObjectKey(memberID, uuid.NewString(), fileName)
	var url string
	err := g.call("upload_photo", func() (err error) {
		url, err = g.files.PutObject(ctx, key, contentType, body, size)
		return err
	})
	if err != nil {
		return UploadedObject{}, err
	}
	return UploadedObject{Key: key, URL: url}, nil
}

// Package memory holds in-memory repositories with the ordering and uniqueness rules of
// the MongoDB ones. Tests use them in place of a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/repository"
)

// DB is one in-memory data set shared by all of its repositories.
type DB struct {
	mu        sync.Mutex
	failWith  error
	members   map[string]domain.Member
	plans     map[string]domain.WorkoutPlan // by member id
	exercises map[string]domain.CatalogExercise
	content   map[string]domain.VideoContent
	checkIns  []domain.CheckIn
	loads     []domain.LoadRecord
	photos    []domain.ProgressPhoto
}

func NewDB() *DB {
	return &DB{
		members:   make(map[string]domain.Member),
		plans:     make(map[string]domain.WorkoutPlan),
		exercises: make(map[string]domain.CatalogExercise),
		content:   make(map[string]domain.VideoContent),
	}
}

// FailWith makes every following call return err until it is called with nil.
func (db *DB) FailWith(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failWith = err
}

func (db *DB) lock() error {
	db.mu.Lock()
	return db.failWith
}

func (db *DB) Members() repository.MemberRepository {
	return memberRepo{db}
}

func (db *DB) Plans() repository.PlanRepository {
	return planRepo{db}
}

func (db *DB) Exercises() repository.ExerciseRepository {
	return exerciseRepo{db}
}

func (db *DB) Content() repository.ContentRepository {
	return contentRepo{db}
}

func (db *DB) CheckIns() repository.CheckInRepository {
	return checkInRepo{db}
}

func (db *DB) Loads() repository.LoadRepository {
	return loadRepo{db}
}

func (db *DB) Photos() repository.PhotoRepository {
	return photoRepo{db}
}

type memberRepo struct{ db *DB }

func (r memberRepo) List(_ context.Context) ([]domain.Member, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	out := make([]domain.Member, 0, len(r.db.members))
	for _, m := range r.db.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	m, ok := r.db.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memberRepo) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)
	for _, m := range r.db.members {
		if m.Email == email {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memberRepo) Upsert(_ context.Context, member *domain.Member) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	m := *member
	m.Email = domain.NormalizeEmail(m.Email)
	for id, other := range r.db.members {
		if id != m.ID && other.Email == m.Email {
			return repository.ErrConflict
		}
	}
	r.db.members[m.ID] = m
	return nil
}

func (r memberRepo) SetPhoto(_ context.Context, id, photoURL string) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	m, ok := r.db.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.PhotoURL = photoURL
	r.db.members[id] = m
	return nil
}

type planRepo struct{ db *DB }

func (r planRepo) List(_ context.Context) ([]domain.WorkoutPlan, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	out := make([]domain.WorkoutPlan, 0, len(r.db.plans))
	for _, p := range r.db.plans {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r planRepo) GetByMemberID(_ context.Context, memberID string) (*domain.WorkoutPlan, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	p, ok := r.db.plans[memberID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = p.Clone()
	return &p, nil
}

// Upsert keeps the id and creation time of an existing plan, like the MongoDB one.
func (r planRepo) Upsert(_ context.Context, plan *domain.WorkoutPlan) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	p := plan.Clone()
	if existing, ok := r.db.plans[p.MemberID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	r.db.plans[p.MemberID] = p
	return nil
}

func (r planRepo) DeleteByMemberID(_ context.Context, memberID string) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	if _, ok := r.db.plans[memberID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.plans, memberID)
	return nil
}

type exerciseRepo struct{ db *DB }

func (r exerciseRepo) List(_ context.Context) ([]domain.CatalogExercise, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	out := make([]domain.CatalogExercise, 0, len(r.db.exercises))
	for _, e := range r.db.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MuscleGroup != out[j].MuscleGroup {
			return out[i].MuscleGroup < out[j].MuscleGroup
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r exerciseRepo) Upsert(_ context.Context, exercise *domain.CatalogExercise) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	r.db.exercises[exercise.ID] = *exercise
	return nil
}

func (r exerciseRepo) Delete(_ context.Context, id string) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	if _, ok := r.db.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.exercises, id)
	return nil
}

type contentRepo struct{ db *DB }

func (r contentRepo) List(_ context.Context) ([]domain.VideoContent, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	out := make([]domain.VideoContent, 0, len(r.db.content))
	for _, c := range r.db.content {
		out = append(out, c)
	}
	domain.SortContent(out)
	return out, nil
}

func (r contentRepo) Upsert(_ context.Context, content *domain.VideoContent) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	r.db.content[content.ID] = *content
	return nil
}

func (r contentRepo) Delete(_ context.Context, id string) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	if _, ok := r.db.content[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.content, id)
	return nil
}

type checkInRepo struct{ db *DB }

func (r checkInRepo) List(_ context.Context, memberID string) ([]domain.CheckIn, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	var out []domain.CheckIn
	for _, c := range r.db.checkIns {
		if memberID == "" || c.MemberID == memberID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

func (r checkInRepo) Append(_ context.Context, checkIn *domain.CheckIn) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	for _, c := range r.db.checkIns {
		if c.ID == checkIn.ID {
			return repository.ErrConflict
		}
	}
	r.db.checkIns = append(r.db.checkIns, *checkIn)
	return nil
}

type loadRepo struct{ db *DB }

func (r loadRepo) List(_ context.Context, memberID string) ([]domain.LoadRecord, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	var out []domain.LoadRecord
	for _, l := range r.db.loads {
		if memberID == "" || l.MemberID == memberID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

func (r loadRepo) Append(_ context.Context, record *domain.LoadRecord) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	for _, l := range r.db.loads {
		if l.ID == record.ID {
			return repository.ErrConflict
		}
	}
	rec := *record
	rec.ExerciseName = domain.NormalizeExerciseName(rec.ExerciseName)
	r.db.loads = append(r.db.loads, rec)
	return nil
}

func (r loadRepo) Delete(_ context.Context, id string) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	for i, l := range r.db.loads {
		if l.ID == id {
			r.db.loads = append(r.db.loads[:i], r.db.loads[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type photoRepo struct{ db *DB }

func (r photoRepo) List(_ context.Context, memberID string) ([]domain.ProgressPhoto, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	var out []domain.ProgressPhoto
	for _, p := range r.db.photos {
		if memberID == "" || p.MemberID == memberID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r photoRepo) Append(_ context.Context, photo *domain.ProgressPhoto) error {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return err
	}
	r.db.photos = append(r.db.photos, *photo)
	return nil
}

func (r photoRepo) Delete(_ context.Context, id string) (*domain.ProgressPhoto, error) {
	defer r.db.mu.Unlock()
	if err := r.db.lock(); err != nil {
		return nil, err
	}
	for i, p := range r.db.photos {
		if p.ID == id {
			r.db.photos = append(r.db.photos[:i], r.db.photos[i+1:]...)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

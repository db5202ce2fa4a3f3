package session

import (
	"context"
	"strings"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/snapshot"
)

// AddCatalogExercise adds or edits an exercise of the catalog. Trainer only.
func (s *Store) AddCatalogExercise(ctx context.Context, ex domain.CatalogExercise) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	ex.Name = strings.TrimSpace(ex.Name)
	ex.MuscleGroup = strings.TrimSpace(ex.MuscleGroup)
	if ex.Difficulty == "" {
		ex.Difficulty = domain.DifficultyBasic
	}
	if ex.ID == "" {
		ex.ID = s.newID()
	}
	if err := ex.Validate(); err != nil {
		return s.State(), err
	}

	tx, err := s.begin("add_catalog_exercise", "catalog:"+ex.ID, ex)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.catalog, ex.ID, exerciseKey)
		st.catalog = put(st.catalog, ex, exerciseKey)
		return undo
	})
	if _, err := s.gw.UpsertCatalogExercise(ctx, ex); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reconcileCatalog)
}

// RemoveCatalogExercise deletes an exercise from the catalog. Trainer only.
func (s *Store) RemoveCatalogExercise(ctx context.Context, id string) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	s.mu.RLock()
	_, ok := find(s.st.catalog, id, exerciseKey)
	s.mu.RUnlock()
	if !ok {
		return s.State(), apperror.NewNotFoundError("exercise", id)
	}

	tx, err := s.begin("remove_catalog_exercise", "catalog:"+id, id)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.catalog, id, exerciseKey)
		st.catalog = remove(st.catalog, id, exerciseKey)
		return undo
	})
	if err := s.gw.DeleteCatalogExercise(ctx, id); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reconcileCatalog)
}

func (s *Store) reconcileCatalog(ctx context.Context) error {
	s.reloadCatalog(ctx)
	return nil
}

// AddCategory extends the muscle-group list. Categories only live in the snapshot.
func (s *Store) AddCategory(ctx context.Context, name string) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s.State(), apperror.NewValidationError("category", "is required")
	}

	var extra []string
	if _, err := snapshot.LoadJSON(ctx, s.shared, snapshot.KeyCategories, &extra); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	for _, c := range s.st.categories {
		if strings.EqualFold(c, name) {
			s.mu.Unlock()
			return s.State(), apperror.NewValidationError("category", "already exists")
		}
	}
	s.st.categories = append(s.st.categories, name)
	st := s.stateLocked()
	s.mu.Unlock()

	s.persist(ctx, s.shared, snapshot.KeyCategories, append(extra, name))
	return st, nil
}

// UpsertContent publishes or edits a video. Trainer only.
func (s *Store) UpsertContent(ctx context.Context, v domain.VideoContent) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	v.Title = strings.TrimSpace(v.Title)
	v.URL = strings.TrimSpace(v.URL)
	if v.ID == "" {
		v.ID = s.newID()
	}
	if v.PostedAt.IsZero() {
		v.PostedAt = s.clock.Now()
	}
	if err := v.Validate(); err != nil {
		return s.State(), err
	}
	return s.writeContent(ctx, "upsert_content", v)
}

// TogglePin flips the pinned flag of a video.
func (s *Store) TogglePin(ctx context.Context, id string) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	s.mu.RLock()
	v, ok := find(s.st.content, id, contentKey)
	s.mu.RUnlock()
	if !ok {
		return s.State(), apperror.NewNotFoundError("content", id)
	}
	v.Pinned = !v.Pinned
	return s.writeContent(ctx, "toggle_pin", v)
}

func (s *Store) writeContent(ctx context.Context, action string, v domain.VideoContent) (State, error) {
	tx, err := s.begin(action, "content:"+v.ID, v)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.content, v.ID, contentKey)
		st.content = put(st.content, v, contentKey)
		domain.SortContent(st.content)
		return func() {
			undo()
			domain.SortContent(st.content)
		}
	})
	if _, err := s.gw.UpsertContent(ctx, v); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadContent)
}

// DeleteContent removes a video. Trainer only.
func (s *Store) DeleteContent(ctx context.Context, id string) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	s.mu.RLock()
	_, ok := find(s.st.content, id, contentKey)
	s.mu.RUnlock()
	if !ok {
		return s.State(), apperror.NewNotFoundError("content", id)
	}
	tx, err := s.begin("delete_content", "content:"+id, id)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.content, id, contentKey)
		st.content = remove(st.content, id, contentKey)
		return func() {
			undo()
			domain.SortContent(st.content)
		}
	})
	if err := s.gw.DeleteContent(ctx, id); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadContent)
}

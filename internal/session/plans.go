package session

import (
	"context"
	"strings"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
)

// SavePlan stores a member's plan, replacing any previous one. Trainer only.
func (s *Store) SavePlan(ctx context.Context, plan domain.WorkoutPlan) (State, error) {
	t, err := s.trainer()
	if err != nil {
		return s.State(), err
	}
	if _, err := s.member(plan.MemberID); err != nil {
		return s.State(), err
	}
	plan = plan.Clone()
	plan.Name = strings.TrimSpace(plan.Name)
	if current, ok := s.State().Plan(plan.MemberID); ok {
		plan.ID = current.ID
		plan.CreatedAt = current.CreatedAt
	}
	if plan.ID == "" {
		plan.ID = s.newID()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.clock.Now()
	}
	plan.TrainerID = t.ID
	if err := plan.Validate(); err != nil {
		return s.State(), err
	}
	return s.writePlan(ctx, "save_plan", plan)
}

// CreatePlan starts a member on a new plan with a single division A.
func (s *Store) CreatePlan(ctx context.Context, memberID, name string) (State, error) {
	t, err := s.trainer()
	if err != nil {
		return s.State(), err
	}
	if strings.TrimSpace(name) == "" {
		return s.State(), apperror.NewValidationError("name", "is required")
	}
	plan := domain.NewWorkoutPlan("", memberID, t.ID, name, s.clock.Now())
	return s.SavePlan(ctx, plan)
}

// AddDivision appends the next lettered division to a member's plan.
func (s *Store) AddDivision(ctx context.Context, memberID string) (State, error) {
	return s.editPlan(ctx, memberID, func(p *domain.WorkoutPlan) error {
		_, err := p.AddDivision()
		return err
	})
}

// RemoveDivision drops a division and re-letters the rest from A.
func (s *Store) RemoveDivision(ctx context.Context, memberID, letter string) (State, error) {
	return s.editPlan(ctx, memberID, func(p *domain.WorkoutPlan) error {
		return p.RemoveDivision(strings.ToUpper(strings.TrimSpace(letter)))
	})
}

// RenameDivision sets the display name of one division.
func (s *Store) RenameDivision(ctx context.Context, memberID, letter, name string) (State, error) {
	return s.editPlan(ctx, memberID, func(p *domain.WorkoutPlan) error {
		return p.RenameDivision(strings.ToUpper(strings.TrimSpace(letter)), name)
	})
}

func (s *Store) AddPlanExercise(ctx context.Context, memberID, letter string, ex domain.PrescribedExercise) (State, error) {
	return s.editPlan(ctx, memberID, func(p *domain.WorkoutPlan) error {
		return p.AddExercise(strings.ToUpper(strings.TrimSpace(letter)), ex)
	})
}

func (s *Store) UpdatePlanExercise(ctx context.Context, memberID, letter string, index int, ex domain.PrescribedExercise) (State, error) {
	return s.editPlan(ctx, memberID, func(p *domain.WorkoutPlan) error {
		return p.UpdateExercise(strings.ToUpper(strings.TrimSpace(letter)), index, ex)
	})
}

func (s *Store) RemovePlanExercise(ctx context.Context, memberID, letter string, index int) (State, error) {
	return s.editPlan(ctx, memberID, func(p *domain.WorkoutPlan) error {
		return p.RemoveExercise(strings.ToUpper(strings.TrimSpace(letter)), index)
	})
}

func (s *Store) editPlan(ctx context.Context, memberID string, edit func(*domain.WorkoutPlan) error) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	plan, ok := s.State().Plan(memberID)
	if !ok {
		return s.State(), apperror.NewNotFoundError("plan", memberID)
	}
	if err := edit(&plan); err != nil {
		return s.State(), err
	}
	return s.SavePlan(ctx, plan)
}

func (s *Store) writePlan(ctx context.Context, action string, plan domain.WorkoutPlan) (State, error) {
	tx, err := s.begin(action, "plan:"+plan.MemberID, plan)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.plans, plan.MemberID, planKey)
		st.plans = put(st.plans, plan.Clone(), planKey)
		return undo
	})
	if _, err := s.gw.UpdatePlanDivisions(ctx, plan.MemberID, plan); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadPlans)
}

// DeletePlan removes a member's plan. Trainer only.
func (s *Store) DeletePlan(ctx context.Context, memberID string) (State, error) {
	if _, err := s.trainer(); err != nil {
		return s.State(), err
	}
	if _, ok := s.State().Plan(memberID); !ok {
		return s.State(), apperror.NewNotFoundError("plan", memberID)
	}
	tx, err := s.begin("delete_plan", "plan:"+memberID, memberID)
	if err != nil {
		return s.State(), err
	}
	tx.apply(func(st *state) func() {
		undo := restorer(&st.plans, memberID, planKey)
		st.plans = remove(st.plans, memberID, planKey)
		return undo
	})
	if err := s.gw.DeletePlan(ctx, memberID); err != nil {
		return tx.fail(err)
	}
	return tx.commit(ctx, s.reloadPlans)
}

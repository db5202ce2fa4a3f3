package domain

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/fitlab/internal/apperror"
)

const maxDivisions = 26

// PrescribedExercise is one line of a division: what to do and how much of it.
type PrescribedExercise struct {
	ExerciseID  string  `json:"exerciseId,omitempty"`
	Name        string  `json:"name"`
	Sets        int     `json:"sets"`
	Reps        string  `json:"reps"` // "10", "8-12", "to failure"
	Rest        string  `json:"rest"`
	Notes       string  `json:"notes,omitempty"`
	CurrentLoad float64 `json:"currentLoad,omitempty"`
}

// Division is a lettered sub-workout executed as one session.
type Division struct {
	Letter    string               `json:"letter"`
	Name      string               `json:"name"`
	Exercises []PrescribedExercise `json:"exercises"`
}

// WorkoutPlan is the single active plan of a member.
type WorkoutPlan struct {
	ID        string     `json:"id"`
	MemberID  string     `json:"memberId"`
	TrainerID string     `json:"trainerId,omitempty"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	Divisions []Division `json:"divisions"`
}

// DivisionLetter returns the letter of the i-th division (0 -> "A").
func DivisionLetter(i int) string {
	return string(rune('A' + i))
}

func divisionName(letter string) string {
	return "WORKOUT " + letter
}

// NewWorkoutPlan returns a plan holding a single empty division A.
func NewWorkoutPlan(id, memberID, trainerID, name string, now time.Time) WorkoutPlan {
	return WorkoutPlan{
		ID:        id,
		MemberID:  memberID,
		TrainerID: trainerID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		Divisions: []Division{{Letter: "A", Name: divisionName("A"), Exercises: []PrescribedExercise{}}},
	}
}

// AddDivision appends a division lettered after the last one.
func (p *WorkoutPlan) AddDivision() (Division, error) {
	if len(p.Divisions) >= maxDivisions {
		return Division{}, apperror.NewValidationError("divisions", "a plan holds at most 26 divisions")
	}
	letter := DivisionLetter(len(p.Divisions))
	d := Division{Letter: letter, Name: divisionName(letter), Exercises: []PrescribedExercise{}}
	p.Divisions = append(p.Divisions, d)
	return d, nil
}

// RemoveDivision drops a division and re-letters the rest contiguously from A.
// Divisions still carrying their default name follow the new letter.
func (p *WorkoutPlan) RemoveDivision(letter string) error {
	if len(p.Divisions) <= 1 {
		return apperror.NewValidationError("divisions", "a plan needs at least one division")
	}
	idx := p.divisionIndex(letter)
	if idx < 0 {
		return apperror.NewNotFoundError("division", letter)
	}

	rest := make([]Division, 0, len(p.Divisions)-1)
	rest = append(rest, p.Divisions[:idx]...)
	rest = append(rest, p.Divisions[idx+1:]...)
	for i := range rest {
		newLetter := DivisionLetter(i)
		if rest[i].Name == divisionName(rest[i].Letter) {
			rest[i].Name = divisionName(newLetter)
		}
		rest[i].Letter = newLetter
	}
	p.Divisions = rest
	return nil
}

func (p *WorkoutPlan) RenameDivision(letter, name string) error {
	d, ok := p.Division(letter)
	if !ok {
		return apperror.NewNotFoundError("division", letter)
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return apperror.NewValidationError("name", "is required")
	}
	d.Name = name
	return nil
}

// Division returns a pointer into the plan so callers can edit in place.
func (p *WorkoutPlan) Division(letter string) (*Division, bool) {
	idx := p.divisionIndex(letter)
	if idx < 0 {
		return nil, false
	}
	return &p.Divisions[idx], true
}

func (p *WorkoutPlan) divisionIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i := range p.Divisions {
		if p.Divisions[i].Letter == letter {
			return i
		}
	}
	return -1
}

func (p *WorkoutPlan) AddExercise(letter string, ex PrescribedExercise) error {
	d, ok := p.Division(letter)
	if !ok {
		return apperror.NewNotFoundError("division", letter)
	}
	if err := ex.Validate(); err != nil {
		return err
	}
	d.Exercises = append(d.Exercises, ex)
	return nil
}

func (p *WorkoutPlan) UpdateExercise(letter string, index int, ex PrescribedExercise) error {
	d, ok := p.Division(letter)
	if !ok {
		return apperror.NewNotFoundError("division", letter)
	}
	if index < 0 || index >= len(d.Exercises) {
		return apperror.NewNotFoundError("exercise", fmt.Sprintf("%s/%d", letter, index))
	}
	if err := ex.Validate(); err != nil {
		return err
	}
	d.Exercises[index] = ex
	return nil
}

func (p *WorkoutPlan) RemoveExercise(letter string, index int) error {
	d, ok := p.Division(letter)
	if !ok {
		return apperror.NewNotFoundError("division", letter)
	}
	if index < 0 || index >= len(d.Exercises) {
		return apperror.NewNotFoundError("exercise", fmt.Sprintf("%s/%d", letter, index))
	}
	d.Exercises = append(d.Exercises[:index], d.Exercises[index+1:]...)
	return nil
}

func (ex PrescribedExercise) Validate() error {
	if strings.TrimSpace(ex.Name) == "" {
		return apperror.NewValidationError("exercise.name", "is required")
	}
	if ex.Sets <= 0 {
		return apperror.NewValidationError("exercise.sets", "must be positive")
	}
	if ex.CurrentLoad < 0 {
		return apperror.NewValidationError("exercise.currentLoad", "must not be negative")
	}
	return nil
}

// Validate checks that divisions exist and are lettered A, B, C... in order.
func (p WorkoutPlan) Validate() error {
	if p.MemberID == "" {
		return apperror.NewValidationError("memberId", "is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidationError("name", "is required")
	}
	if len(p.Divisions) == 0 {
		return apperror.NewValidationError("divisions", "a plan needs at least one division")
	}
	if len(p.Divisions) > maxDivisions {
		return apperror.NewValidationError("divisions", "a plan holds at most 26 divisions")
	}
	for i, d := range p.Divisions {
		if d.Letter != DivisionLetter(i) {
			return apperror.NewValidationError("divisions", fmt.Sprintf("division %d must be lettered %s", i, DivisionLetter(i)))
		}
		for _, ex := range d.Exercises {
			if err := ex.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clone deep-copies the plan.
func (p WorkoutPlan) Clone() WorkoutPlan {
	out := p
	out.Divisions = make([]Division, len(p.Divisions))
	for i, d := range p.Divisions {
		out.Divisions[i] = d
		out.Divisions[i].Exercises = append([]PrescribedExercise(nil), d.Exercises...)
	}
	return out
}

// ExerciseNames lists the normalized names of every prescribed exercise, in plan order.
func (p WorkoutPlan) ExerciseNames() []string {
	var names []string
	for _, d := range p.Divisions {
		for _, ex := range d.Exercises {
			names = append(names, NormalizeExerciseName(ex.Name))
		}
	}
	return names
}

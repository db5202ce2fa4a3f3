package domain

import (
	"strings"

	"alcyxob/fitlab/internal/apperror"
)

// Difficulty tags a catalog exercise.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "Basic"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// DefaultCategories seeds the trainer-extensible muscle-group list.
var DefaultCategories = []string{"Chest", "Back", "Legs", "Shoulders", "Arms", "Core", "Cardio"}

// CatalogExercise represents a single exercise definition in the global library.
type CatalogExercise struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	MuscleGroup  string     `json:"muscleGroup"`
	Equipment    string     `json:"equipment,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	VideoURL     string     `json:"videoUrl,omitempty"`
	Difficulty   Difficulty `json:"difficulty"`
}

func (e CatalogExercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return apperror.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(e.MuscleGroup) == "" {
		return apperror.NewValidationError("muscleGroup", "is required")
	}
	if !e.Difficulty.Valid() {
		return apperror.NewValidationError("difficulty", "must be Basic, Intermediate or Advanced")
	}
	return nil
}

// SeedCatalog is the built-in library used when neither the remote store nor the
// snapshot can provide one.
func SeedCatalog() []CatalogExercise {
	return []CatalogExercise{
		{ID: "chest-01", Name: "Barbell Bench Press", MuscleGroup: "Chest", Equipment: "Barbell", Instructions: "Lower the bar to the chest and press explosively.", Difficulty: DifficultyBasic},
		{ID: "chest-02", Name: "Incline Dumbbell Press", MuscleGroup: "Chest", Equipment: "Dumbbell", Instructions: "Focus on the upper chest with a controlled descent.", Difficulty: DifficultyIntermediate},
		{ID: "chest-03", Name: "Cable Crossover", MuscleGroup: "Chest", Equipment: "Cable", Instructions: "Pull from high to low squeezing the lower chest.", Difficulty: DifficultyAdvanced},
		{ID: "back-01", Name: "Lat Pulldown", MuscleGroup: "Back", Equipment: "Machine", Instructions: "Pull the bar to the upper chest keeping the torso still.", Difficulty: DifficultyBasic},
		{ID: "back-02", Name: "Barbell Row", MuscleGroup: "Back", Equipment: "Barbell", Instructions: "Hinge at the hips and row to the navel.", Difficulty: DifficultyIntermediate},
		{ID: "back-03", Name: "Pull-up", MuscleGroup: "Back", Equipment: "Bodyweight", Instructions: "Full hang to chin over bar.", Difficulty: DifficultyAdvanced},
		{ID: "legs-01", Name: "Back Squat", MuscleGroup: "Legs", Equipment: "Barbell", Instructions: "Break parallel keeping the chest up.", Difficulty: DifficultyIntermediate},
		{ID: "legs-02", Name: "Leg Press", MuscleGroup: "Legs", Equipment: "Machine", Instructions: "Do not lock the knees at the top.", Difficulty: DifficultyBasic},
		{ID: "legs-03", Name: "Romanian Deadlift", MuscleGroup: "Legs", Equipment: "Barbell", Instructions: "Push the hips back with a neutral spine.", Difficulty: DifficultyIntermediate},
		{ID: "shoulders-01", Name: "Overhead Press", MuscleGroup: "Shoulders", Equipment: "Barbell", Instructions: "Press overhead without arching the lower back.", Difficulty: DifficultyIntermediate},
		{ID: "shoulders-02", Name: "Lateral Raise", MuscleGroup: "Shoulders", Equipment: "Dumbbell", Instructions: "Raise to shoulder height with soft elbows.", Difficulty: DifficultyBasic},
		{ID: "arms-01", Name: "Barbell Curl", MuscleGroup: "Arms", Equipment: "Barbell", Instructions: "Keep the elbows pinned to the sides.", Difficulty: DifficultyBasic},
		{ID: "arms-02", Name: "Triceps Pushdown", MuscleGroup: "Arms", Equipment: "Cable", Instructions: "Extend fully and control the return.", Difficulty: DifficultyBasic},
		{ID: "core-01", Name: "Plank", MuscleGroup: "Core", Equipment: "Bodyweight", Instructions: "Hold a straight line from head to heels.", Difficulty: DifficultyBasic},
		{ID: "cardio-01", Name: "Rowing Machine", MuscleGroup: "Cardio", Equipment: "Machine", Instructions: "Drive with the legs, then lean back and pull.", Difficulty: DifficultyBasic},
	}
}

package mongo

import (
	"errors"
	"testing"
	"time"

	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMemberDoc_NormalizesEmailAndKeepsHash(t *testing.T) {
	enrolled := time.Date(2024, 1, 10, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	m := domain.Member{
		ID: "m1", Name: "Ana", Email: " Ana@Lab.Test ", Role: domain.RoleMember,
		EnrolledAt: enrolled, PasswordHash: "hash", PhotoURL: "https://cdn/p.jpg",
	}

	doc := memberFromDomain(m)
	assert.Equal(t, "ana@lab.test", doc.Email)
	assert.Equal(t, "member", doc.Role)
	assert.Equal(t, time.UTC, doc.EnrolledAt.Location())

	back := doc.toDomain()
	assert.Equal(t, "hash", back.PasswordHash)
	assert.True(t, enrolled.Equal(back.EnrolledAt))
	assert.Equal(t, "https://cdn/p.jpg", back.PhotoURL)
}

func TestMemberDoc_BSONFieldNames(t *testing.T) {
	raw, err := bson.Marshal(memberFromDomain(domain.Member{ID: "m1", Name: "Ana", Email: "a@b.c", Role: domain.RoleTrainer}))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, "m1", m["_id"])
	assert.Contains(t, m, "passwordHash")
	assert.NotContains(t, m, "currentPhotoUrl")
}

func TestPlanDoc_PreservesDivisionOrder(t *testing.T) {
	p := domain.NewWorkoutPlan("p1", "m1", "t1", "Split", time.Now())
	_, err := p.AddDivision()
	require.NoError(t, err)
	require.NoError(t, p.AddExercise("B", domain.PrescribedExercise{Name: "Squat", Sets: 5, Reps: "5", Rest: "2min", CurrentLoad: 100}))

	back := planFromDomain(p).toDomain()

	require.Len(t, back.Divisions, 2)
	assert.Equal(t, "A", back.Divisions[0].Letter)
	assert.Empty(t, back.Divisions[0].Exercises)
	assert.Equal(t, "B", back.Divisions[1].Letter)
	assert.Equal(t, 100.0, back.Divisions[1].Exercises[0].CurrentLoad)
}

func TestLoadDoc_NormalizesExerciseName(t *testing.T) {
	doc := loadFromDomain(domain.LoadRecord{ID: "l1", MemberID: "m1", ExerciseName: " supino reto", WeightKg: 80})
	assert.Equal(t, "SUPINO RETO", doc.ExerciseName)
	assert.Equal(t, "SUPINO RETO", doc.toDomain().ExerciseName)
}

func TestContentAndPhotoDocs(t *testing.T) {
	posted := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	v := domain.VideoContent{ID: "c1", Title: "Deadlift", Category: "Back", URL: "https://v/1", PostedAt: posted, Pinned: true}
	assert.Equal(t, v, contentFromDomain(v).toDomain())

	p := domain.ProgressPhoto{ID: "ph1", MemberID: "m1", URL: "https://cdn/k", ObjectKey: "photos/m1/k", CreatedAt: posted}
	assert.Equal(t, p, photoFromDomain(p).toDomain())

	c := domain.CheckIn{ID: "c1", MemberID: "m1", PlanID: "p1", DivisionLetter: "A", At: posted, DurationSeconds: 3600}
	assert.Equal(t, c, checkInFromDomain(c).toDomain())
}

func TestOwnerFilter(t *testing.T) {
	assert.Empty(t, ownerFilter(""))
	assert.Equal(t, bson.M{"memberId": "m1"}, ownerFilter("m1"))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translateError(dup), repository.ErrConflict)

	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
}

package domain_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeight(t *testing.T) {
	cases := map[string]float64{
		"80":       80,
		" 82.5kg ": 82.5,
		"100,5":    100.5,
		"kg 60":    60,
	}
	for in, want := range cases {
		got, err := domain.ParseWeight(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "1.2.3", "0"} {
		_, err := domain.ParseWeight(bad)
		assert.True(t, apperror.IsValidation(err), bad)
	}
}

func TestNormalizeExerciseName(t *testing.T) {
	assert.Equal(t, "SUPINO RETO", domain.NormalizeExerciseName("  supino Reto "))
}

func TestMemberValidate(t *testing.T) {
	m := domain.Member{Name: "Ana", Email: "ana@lab.test", Role: domain.RoleMember}
	assert.NoError(t, m.Validate())

	m.Email = "not-an-email"
	assert.True(t, apperror.IsValidation(m.Validate()))

	m.Email = "ana@lab.test"
	m.Role = "coach"
	assert.True(t, apperror.IsValidation(m.Validate()))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, domain.ValidatePassword("abc"))
	assert.NoError(t, domain.ValidatePassword("abcd"))
}

func TestCheckInValidate(t *testing.T) {
	c := domain.CheckIn{MemberID: "m1", DivisionLetter: "B", DurationSeconds: 3000}
	assert.NoError(t, c.Validate())
	assert.Equal(t, 50*time.Minute, c.Duration())

	c.DivisionLetter = "b1"
	assert.True(t, apperror.IsValidation(c.Validate()))
}

func TestSortContent_PinnedFirstThenNewest(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items := []domain.VideoContent{
		{ID: "old", PostedAt: base},
		{ID: "new", PostedAt: base.Add(48 * time.Hour)},
		{ID: "pinned-old", PostedAt: base.Add(-24 * time.Hour), Pinned: true},
	}

	domain.SortContent(items)

	assert.Equal(t, "pinned-old", items[0].ID)
	assert.Equal(t, "new", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestVideoContentValidate(t *testing.T) {
	v := domain.VideoContent{Title: "Squat form", Category: "Legs", URL: "https://video.test/squat"}
	assert.NoError(t, v.Validate())

	v.URL = "squat.mp4"
	assert.True(t, apperror.IsValidation(v.Validate()))
}

func TestCatalogExerciseValidate(t *testing.T) {
	for _, e := range domain.SeedCatalog() {
		assert.NoError(t, e.Validate(), e.ID)
	}
	assert.True(t, apperror.IsValidation(domain.CatalogExercise{Name: "X", MuscleGroup: "Arms", Difficulty: "Expert"}.Validate()))
}

func TestGoals_GetNormalizes(t *testing.T) {
	g := domain.Goals{"SUPINO RETO": 80}
	v, ok := g.Get(" supino reto")
	assert.True(t, ok)
	assert.Equal(t, 80.0, v)

	_, ok = g.Get("remada")
	assert.False(t, ok)
}

func TestWelcomeLink(t *testing.T) {
	m := domain.Member{Name: "Ana Souza", Email: "ana@lab.test", Phone: "(11) 98765-4321"}

	link := domain.WelcomeLink(m, "Jorge", "a+b&c", "https://app.lab.test")

	prefix := "https://wa.me/5511987654321?text="
	require.True(t, strings.HasPrefix(link, prefix), link)
	text := strings.TrimPrefix(link, prefix)
	assert.NotContains(t, text, "+")
	assert.NotContains(t, text, " ")
	assert.Contains(t, text, "a%2Bb%26c")

	decoded, err := url.PathUnescape(text)
	require.NoError(t, err)
	assert.Equal(t, domain.WelcomeMessage(m, "Jorge", "a+b&c", "https://app.lab.test"), decoded)
	assert.Contains(t, decoded, "Hi Ana Souza, this is coach Jorge!")
	assert.Contains(t, decoded, "https://app.lab.test")

	m.Phone = ""
	assert.Empty(t, domain.WelcomeLink(m, "Jorge", "1234", ""))
}

package validation_test

import (
	"testing"
	"time"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/validation"
	"github.com/stretchr/testify/assert"
)

func validGame() domain.Game {
	return domain.Game{
		Title:       "Foo",
		Genres:      domain.StringSet{"RPG"},
		Platforms:   domain.StringSet{"PC"},
		Publisher:   "Pub",
		Developer:   "Dev",
		ReleaseYear: 2017,
	}
}

func TestStruct_ValidGame(t *testing.T) {
	g := validGame()
	assert.Nil(t, validation.Struct(&g))
}

func TestStruct_FieldNamesFollowJSONTags(t *testing.T) {
	score := 101
	g := validGame()
	g.Title = ""
	g.Platforms = domain.StringSet{}
	g.MetacriticScore = &score
	g.PlayTimeHours = -1

	fields := validation.Struct(&g)

	assert.Contains(t, fields, "titre")
	assert.Contains(t, fields, "plateforme")
	assert.Contains(t, fields, "metacritic_score")
	assert.Contains(t, fields, "temps_jeu_heures")
	assert.NotContains(t, fields, "genre")
}

func TestStruct_ReleaseYearBounds(t *testing.T) {
	validation.Now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { validation.Now = time.Now }()

	cases := []struct {
		year int
		ok   bool
	}{
		{1949, false},
		{1950, true},
		{2026, true},
		{2027, false},
		{0, false},
	}
	for _, tc := range cases {
		g := validGame()
		g.ReleaseYear = tc.year
		fields := validation.Struct(&g)
		if tc.ok {
			assert.Nil(t, fields, "year %d should be accepted", tc.year)
		} else {
			assert.Contains(t, fields, "annee_sortie", "year %d should be rejected", tc.year)
		}
	}
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, validation.FieldErrors(assert.AnError))
}

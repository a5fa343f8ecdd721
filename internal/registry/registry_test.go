package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/creature-arena/internal/game"
)

const fixture = `{
  "moves": [
    {"name": "Water-Gun", "type": "water", "damage_class": "special", "power": 40},
    {"name": "tackle", "type": "normal", "damage_class": "physical", "power": 40},
    {"name": "growl", "type": "normal", "damage_class": "status"}
  ],
  "species": [
    {"id": 7, "name": "squirtle", "types": ["water"],
     "base_stats": {"hp": 44, "attack": 48, "defense": 65, "special_attack": 50, "special_defense": 64, "speed": 43},
     "learnset": ["water-gun", "tackle", "growl"]}
  ]
}`

func fixtureRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)
	return r
}

func TestFindMoveByName_CaseInsensitive(t *testing.T) {
	r := fixtureRegistry(t)

	m, ok := r.FindMoveByName("WATER GUN")
	require.True(t, ok)
	assert.Equal(t, "Water-Gun", m.Name)
	assert.Equal(t, 40, m.PowerValue())

	_, ok = r.FindMoveByName("hydro-pump")
	assert.False(t, ok)
}

func TestMoveOrSynthetic(t *testing.T) {
	r := fixtureRegistry(t)

	m := r.MoveOrSynthetic("Hydro Pump")
	assert.Equal(t, "Hydro Pump", m.Name)
	assert.Equal(t, SyntheticPower, m.PowerValue())
	assert.Equal(t, game.ClassPhysical, m.Class)

	assert.Equal(t, game.ClassStatus, r.MoveOrSynthetic("growl").Class)
}

func TestNewCreature(t *testing.T) {
	r := fixtureRegistry(t)

	c, err := r.NewCreature("Squirtle", nil)
	require.NoError(t, err)
	assert.Equal(t, 44, c.MaxHP)
	assert.Equal(t, 44, c.Stats.HP)
	assert.Equal(t, []string{"Water-Gun", "tackle", "growl"}, c.Moves)

	c2, err := r.NewCreature("squirtle", []string{"tackle"})
	require.NoError(t, err)
	c2.Stats.HP = 1
	assert.Equal(t, 44, c.Stats.HP, "creatures must not share stats")

	_, err = r.NewCreature("mewtwo", nil)
	assert.ErrorIs(t, err, ErrUnknownSpecies)
	_, err = r.NewCreature("squirtle", []string{"splash"})
	assert.ErrorIs(t, err, ErrUnknownMove)
	_, err = r.NewCreature("squirtle", []string{"tackle", "tackle", "tackle", "tackle", "tackle"})
	assert.ErrorIs(t, err, ErrTooManyMoves)
}

func TestNew_RejectsBadCatalogs(t *testing.T) {
	_, err := New([]game.Move{{Name: "tackle"}, {Name: "Tackle"}}, nil)
	assert.Error(t, err)

	_, err = New([]game.Move{{Name: "tackle"}}, []Species{{Name: "x", Types: []string{"a", "b", "c"}}})
	assert.Error(t, err)

	_, err = New(nil, []Species{{Name: "x", Types: []string{"normal"}, Learnset: []string{"tackle"}}})
	assert.ErrorIs(t, err, ErrUnknownMove)
}

func TestLoad_BundledCatalog(t *testing.T) {
	r, err := Load(filepath.Join("..", "..", "data", "catalog.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, r.SpeciesList())
	for _, s := range r.SpeciesList() {
		c, err := r.NewCreature(s.Name, nil)
		require.NoError(t, err, s.Name)
		assert.LessOrEqual(t, len(c.Moves), game.MaxMoves)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

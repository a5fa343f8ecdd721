// Package registry holds the move and species catalogs used to build
// creatures and to resolve move names during battle.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/keys"
)

// SyntheticPower is the power of the stand-in move used when a name is not
// in the catalog.
const SyntheticPower = 40

var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrUnknownMove    = errors.New("unknown move")
	ErrTooManyMoves   = errors.New("too many moves")
)

// Species is a catalog template for creatures.
type Species struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Types     []string   `json:"types"`
	BaseStats game.Stats `json:"base_stats"`
	Ability   string     `json:"ability,omitempty"`
	Learnset  []string   `json:"learnset"`
}

type catalogFile struct {
	Moves   []game.Move `json:"moves"`
	Species []Species   `json:"species"`
}

// Registry is an immutable catalog built once at startup and passed to the
// components that need it.
type Registry struct {
	moves   map[string]game.Move
	species map[string]Species
	order   []string
}

// New validates and indexes the given catalog entries.
func New(moves []game.Move, species []Species) (*Registry, error) {
	r := &Registry{
		moves:   make(map[string]game.Move, len(moves)),
		species: make(map[string]Species, len(species)),
	}
	for _, m := range moves {
		k := keys.MoveKey(m.Name)
		if k == "" {
			return nil, errors.New("move entry missing 'name'")
		}
		if _, dup := r.moves[k]; dup {
			return nil, fmt.Errorf("duplicate move '%s'", m.Name)
		}
		if m.Class == "" {
			m.Class = game.ClassPhysical
		}
		r.moves[k] = m
	}
	for _, s := range species {
		k := keys.MoveKey(s.Name)
		if k == "" {
			return nil, errors.New("species entry missing 'name'")
		}
		if _, dup := r.species[k]; dup {
			return nil, fmt.Errorf("duplicate species '%s'", s.Name)
		}
		if len(s.Types) == 0 || len(s.Types) > 2 {
			return nil, fmt.Errorf("species '%s' must have one or two types", s.Name)
		}
		for _, mv := range s.Learnset {
			if _, ok := r.moves[keys.MoveKey(mv)]; !ok {
				return nil, fmt.Errorf("species '%s' learns %w '%s'", s.Name, ErrUnknownMove, mv)
			}
		}
		r.species[k] = s
		r.order = append(r.order, k)
	}
	return r, nil
}

// Parse reads a JSON catalog with "moves" and "species" arrays.
func Parse(rd io.Reader) (*Registry, error) {
	var cf catalogFile
	if err := json.NewDecoder(rd).Decode(&cf); err != nil {
		return nil, err
	}
	return New(cf.Moves, cf.Species)
}

// Load reads the catalog file at path.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	defer f.Close()
	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return r, nil
}

// FindMoveByName looks a move up case-insensitively.
func (r *Registry) FindMoveByName(name string) (game.Move, bool) {
	m, ok := r.moves[keys.MoveKey(name)]
	return m, ok
}

// MoveOrSynthetic returns the catalog move, or a normal-type physical move
// with SyntheticPower carrying the requested name.
func (r *Registry) MoveOrSynthetic(name string) game.Move {
	if m, ok := r.FindMoveByName(name); ok {
		return m
	}
	p := SyntheticPower
	return game.Move{Name: name, Type: "normal", Class: game.ClassPhysical, Power: &p}
}

// MovesOf resolves every known move of c, substituting synthetic moves.
func (r *Registry) MovesOf(c *game.Creature) []game.Move {
	if c == nil {
		return nil
	}
	out := make([]game.Move, 0, len(c.Moves))
	for _, name := range c.Moves {
		out = append(out, r.MoveOrSynthetic(name))
	}
	return out
}

func (r *Registry) Species(name string) (Species, bool) {
	s, ok := r.species[keys.MoveKey(name)]
	return s, ok
}

// SpeciesList returns species in catalog order.
func (r *Registry) SpeciesList() []Species {
	out := make([]Species, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.species[k])
	}
	return out
}

// NewCreature builds a full-HP creature of the given species. With no moves
// given the first four of the learnset are used.
func (r *Registry) NewCreature(species string, moves []string) (*game.Creature, error) {
	s, ok := r.Species(species)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpecies, species)
	}
	if len(moves) == 0 {
		moves = s.Learnset
		if len(moves) > game.MaxMoves {
			moves = moves[:game.MaxMoves]
		}
	}
	if len(moves) > game.MaxMoves {
		return nil, fmt.Errorf("%w: %s knows %d", ErrTooManyMoves, s.Name, len(moves))
	}
	names := make([]string, 0, len(moves))
	for _, mv := range moves {
		m, ok := r.FindMoveByName(mv)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMove, mv)
		}
		names = append(names, m.Name)
	}
	return &game.Creature{
		SpeciesID: s.ID,
		Name:      s.Name,
		Types:     append([]string(nil), s.Types...),
		Stats:     s.BaseStats,
		MaxHP:     s.BaseStats.HP,
		Moves:     names,
		Ability:   s.Ability,
	}, nil
}

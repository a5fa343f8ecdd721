package game

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DamageClass selects the attack/defense stat pair a move uses.
type DamageClass string

const (
	ClassPhysical DamageClass = "physical"
	ClassSpecial  DamageClass = "special"
	ClassStatus   DamageClass = "status"
)

// Stats holds the six battle stats. HP is the current hit points; the
// maximum is tracked by the owning Creature.
type Stats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// Move is a catalog entry. Power and Accuracy are optional.
type Move struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Class    DamageClass `json:"damage_class"`
	Power    *int        `json:"power,omitempty"`
	Accuracy *int        `json:"accuracy,omitempty"`
	Priority int         `json:"priority"`
	Effect   string      `json:"effect,omitempty"`
}

// PowerValue returns the move power or 0 when the move has none.
func (m Move) PowerValue() int {
	if m.Power == nil {
		return 0
	}
	return *m.Power
}

// IsDamaging reports whether the move can deal damage at all.
func (m Move) IsDamaging() bool {
	return m.Class != ClassStatus && m.PowerValue() > 0
}

// Creature is a battle-ready creature. Battle participants always hold
// clones so HP changes never leak into a persistent collection.
type Creature struct {
	SpeciesID int      `json:"species_id"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Stats     Stats    `json:"stats"`
	MaxHP     int      `json:"max_hp"`
	Moves     []string `json:"moves"`
	// Ability is carried for display only.
	Ability string `json:"ability,omitempty"`
}

// MaxMoves is the number of moves a creature may know.
const MaxMoves = 4

// Fainted is derived from current HP.
func (c *Creature) Fainted() bool {
	return c.Stats.HP == 0
}

// ApplyDamage subtracts n from current HP clamped to [0, MaxHP] and returns
// the HP actually removed.
func (c *Creature) ApplyDamage(n int) int {
	before := c.Stats.HP
	hp := before - n
	if hp < 0 {
		hp = 0
	}
	if hp > c.MaxHP {
		hp = c.MaxHP
	}
	c.Stats.HP = hp
	return before - hp
}

// HasMove reports whether the creature knows the named move (case-insensitive).
func (c *Creature) HasMove(name string) bool {
	for _, m := range c.Moves {
		if strings.EqualFold(strings.TrimSpace(m), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// HasType reports whether t is one of the creature's types (case-insensitive).
func (c *Creature) HasType(t string) bool {
	for _, ct := range c.Types {
		if strings.EqualFold(ct, t) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Creature) Clone() *Creature {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Types = append([]string(nil), c.Types...)
	cp.Moves = append([]string(nil), c.Moves...)
	return &cp
}

// DisplayName returns the creature name title-cased for narratives.
func DisplayName(c *Creature) string {
	if c == nil {
		return ""
	}
	return DisplayMove(c.Name)
}

// DisplayMove title-cases a catalog name. A Caser keeps state, so one is
// built per call.
func DisplayMove(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

package engine

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ericogr/creature-arena/internal/game"
)

const (
	battleLevel = 50
	stabBonus   = 1.5
	minRoll     = 0.85
	maxRoll     = 1.0
)

// Effectiveness labels.
const (
	LabelSuperEffective   = "super effective"
	LabelEffective        = "effective"
	LabelNormal           = "normal"
	LabelNotVeryEffective = "not very effective"
	LabelNoEffect         = "no effect"
)

// DamageCalculator computes move damage at a fixed level of 50 with no
// critical hits.
type DamageCalculator struct {
	chart *TypeChart

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDamageCalculator uses rng for the random factor. A nil rng is seeded
// from the clock.
func NewDamageCalculator(chart *TypeChart, rng *rand.Rand) *DamageCalculator {
	if chart == nil {
		chart = NewTypeChart()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DamageCalculator{chart: chart, rng: rng}
}

// Chart returns the type chart the calculator multiplies by.
func (dc *DamageCalculator) Chart() *TypeChart { return dc.chart }

func (dc *DamageCalculator) roll() float64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return minRoll + dc.rng.Float64()*(maxRoll-minRoll)
}

// ComputeDamage draws a random factor in [0.85, 1.0) and computes damage.
func (dc *DamageCalculator) ComputeDamage(attacker, defender *game.Creature, move game.Move) int {
	if !move.IsDamaging() || attacker == nil || defender == nil {
		return 0
	}
	return dc.ComputeDamageWithRoll(attacker, defender, move, dc.roll())
}

// ComputeDamageWithRoll is ComputeDamage with an explicit random factor,
// clamped into [0.85, 1.0].
func (dc *DamageCalculator) ComputeDamageWithRoll(attacker, defender *game.Creature, move game.Move, roll float64) int {
	if !move.IsDamaging() || attacker == nil || defender == nil {
		return 0
	}
	eff := dc.Effectiveness(move, defender)
	if eff == 0 {
		return 0
	}
	if roll < minRoll {
		roll = minRoll
	}
	if roll > maxRoll {
		roll = maxRoll
	}

	atk, def := statPair(attacker, defender, move.Class)
	levelFactor := float64(2*battleLevel)/5 + 2
	base := (levelFactor*float64(move.PowerValue())*float64(atk)/float64(def))/50 + 2

	dmg := int(math.Floor(base * dc.STAB(attacker, move) * eff * roll))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// statPair picks attack/defense by damage class, each clamped to at least 1.
func statPair(attacker, defender *game.Creature, class game.DamageClass) (int, int) {
	atk, def := attacker.Stats.Attack, defender.Stats.Defense
	if class == game.ClassSpecial {
		atk, def = attacker.Stats.SpecialAttack, defender.Stats.SpecialDefense
	}
	if atk < 1 {
		atk = 1
	}
	if def < 1 {
		def = 1
	}
	return atk, def
}

// STAB returns 1.5 when the move type matches one of the attacker's types.
func (dc *DamageCalculator) STAB(attacker *game.Creature, move game.Move) float64 {
	if attacker != nil && attacker.HasType(move.Type) {
		return stabBonus
	}
	return 1.0
}

// Effectiveness is the type multiplier of move against defender.
func (dc *DamageCalculator) Effectiveness(move game.Move, defender *game.Creature) float64 {
	if defender == nil {
		return 1.0
	}
	return dc.chart.Effectiveness(move.Type, defender.Types)
}

// EffectivenessDescription labels the multiplier. Descriptive only.
func (dc *DamageCalculator) EffectivenessDescription(move game.Move, defender *game.Creature) string {
	return DescribeEffectiveness(dc.Effectiveness(move, defender))
}

// DescribeEffectiveness maps a combined multiplier to its narrative label:
// 0 is no effect, below 1 not very effective, 1 normal, above 1 effective and
// 2 or more super effective.
func DescribeEffectiveness(eff float64) string {
	switch {
	case eff >= 2:
		return LabelSuperEffective
	case eff > 1:
		return LabelEffective
	case eff == 0:
		return LabelNoEffect
	case eff < 1:
		return LabelNotVeryEffective
	default:
		return LabelNormal
	}
}

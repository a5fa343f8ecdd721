package engine

import (
	"context"
	"math/rand"

	"github.com/ericogr/creature-arena/internal/game"
)

func intp(v int) *int { return &v }

func newCreature(name string, hp int, types ...string) *game.Creature {
	return &game.Creature{
		Name:  name,
		Types: types,
		Stats: game.Stats{HP: hp, Attack: 50, Defense: 50, SpecialAttack: 50, SpecialDefense: 50, Speed: 50},
		MaxHP: hp,
		Moves: []string{"tackle"},
	}
}

func physical(name, typ string, power int) game.Move {
	return game.Move{Name: name, Type: typ, Class: game.ClassPhysical, Power: intp(power)}
}

func newCalc(seed int64) *DamageCalculator {
	return NewDamageCalculator(NewTypeChart(), rand.New(rand.NewSource(seed)))
}

type idleDecider struct{}

func (idleDecider) Decide(context.Context, game.BattleView) (game.DecisionOutcome, error) {
	return game.DecisionOutcome{}, nil
}

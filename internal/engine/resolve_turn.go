package engine

import (
	"github.com/ericogr/creature-arena/internal/game"
)

// TurnOutcome describes one resolved action.
type TurnOutcome struct {
	Narrative     string
	Damage        int
	Effectiveness string
	Fainted       bool
	Switches      []game.SwitchNotice
}

// TurnResolver applies single actions to battle state. It never fails for
// game-logic reasons; odd situations become narrative.
type TurnResolver struct {
	damage *DamageCalculator
}

func NewTurnResolver(damage *DamageCalculator) *TurnResolver {
	return &TurnResolver{damage: damage}
}

// Damage returns the calculator used for move turns.
func (r *TurnResolver) Damage() *DamageCalculator { return r.damage }

// MoveTurn has actor's active creature use move on target's active creature.
// A fainted target is replaced by the first healthy member of its team.
func (r *TurnResolver) MoveTurn(actor game.Participant, move game.Move, target game.Participant) TurnOutcome {
	tc := newTurnContext()
	moveName := game.DisplayMove(move.Name)

	var defender *game.Creature
	if target != nil {
		defender = target.Active()
	}
	if defender == nil {
		tc.addf("%s used %s, but there was no target.", actor.Name(), moveName)
		return tc.outcome(0, "", false)
	}
	attacker := actor.Active()
	if attacker == nil {
		tc.addf("%s has no creature able to use %s.", actor.Name(), moveName)
		return tc.outcome(0, "", false)
	}

	tc.addf("%s used %s!", game.DisplayName(attacker), moveName)
	if !move.IsDamaging() {
		tc.add("It had no direct effect.")
		return tc.outcome(0, "", false)
	}

	label := r.damage.EffectivenessDescription(move, defender)
	dmg := r.damage.ComputeDamage(attacker, defender, move)
	if dmg == 0 {
		tc.addf("It had no effect on %s.", game.DisplayName(defender))
		return tc.outcome(0, label, false)
	}
	defender.ApplyDamage(dmg)
	tc.addf("%s took %d damage (%s). HP %d/%d.", game.DisplayName(defender), dmg, label, defender.Stats.HP, defender.MaxHP)

	fainted := defender.Fainted()
	if fainted {
		tc.addf("%s fainted!", game.DisplayName(defender))
		r.autoSwitch(tc, target, defender)
	}
	return tc.outcome(dmg, label, fainted)
}

// autoSwitch promotes the first non-fainted team member. With none left the
// fainted creature stays active.
func (r *TurnResolver) autoSwitch(tc *turnContext, p game.Participant, fainted *game.Creature) {
	next := game.FirstHealthy(p, fainted)
	if next == nil {
		tc.addf("%s has no creatures left to send out.", p.Name())
		return
	}
	p.SwitchTo(next)
	tc.recordSwitch(p, fainted, next, true)
	tc.addf("%s sent out %s!", p.Name(), game.DisplayName(next))
}

// SwitchTurn makes next the actor's active creature. Legality is checked
// before a decision reaches this point.
func (r *TurnResolver) SwitchTurn(actor game.Participant, previous, next *game.Creature) TurnOutcome {
	tc := newTurnContext()
	actor.SwitchTo(next)
	tc.recordSwitch(actor, previous, next, false)
	if previous != nil {
		tc.addf("%s withdrew %s.", actor.Name(), game.DisplayName(previous))
	}
	tc.addf("%s sent out %s!", actor.Name(), game.DisplayName(next))
	return tc.outcome(0, "", false)
}

func (tc *turnContext) outcome(dmg int, label string, fainted bool) TurnOutcome {
	return TurnOutcome{
		Narrative:     tc.joinSummary(),
		Damage:        dmg,
		Effectiveness: label,
		Fainted:       fainted,
		Switches:      tc.switches,
	}
}

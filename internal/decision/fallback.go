package decision

import (
	"errors"

	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/registry"
)

// ErrNoLegalAction means the actor has no move to use and nothing to switch
// to. The battle should already be over.
var ErrNoLegalAction = errors.New("no legal action available")

// RuleBased is the deterministic fallback decision maker.
type RuleBased struct {
	registry *registry.Registry
	chart    *engine.TypeChart
	rules    []compiledRule
}

// NewRuleBased compiles rules; nil or empty rules use DefaultRules.
func NewRuleBased(reg *registry.Registry, chart *engine.TypeChart, rules []Rule) (*RuleBased, error) {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		chart = engine.NewTypeChart()
	}
	return &RuleBased{registry: reg, chart: chart, rules: compiled}, nil
}

// Decide returns a switch when wantSwitch is set or the active creature
// cannot act, and a move otherwise.
func (rb *RuleBased) Decide(dc *Context, wantSwitch bool) (game.Decision, error) {
	active := dc.Active()
	if wantSwitch || mustSwitch(active) {
		targets := switchTargets(dc.Actor)
		if len(targets) == 0 {
			if !mustSwitch(active) {
				// nothing to switch to but the active creature can still fight
				m, _ := rb.SelectMove(active, dc.Target())
				return game.MoveDecision(m), nil
			}
			return game.Decision{}, ErrNoLegalAction
		}
		return game.SwitchDecision(targets[0]), nil
	}
	m, _ := rb.SelectMove(active, dc.Target())
	return game.MoveDecision(m), nil
}

// SelectMove scores the attacker's moves against defender and returns the
// best one plus the rule that picked it. Ties go to the higher expected
// power, then to the earlier move.
func (rb *RuleBased) SelectMove(attacker, defender *game.Creature) (game.Move, string) {
	moves := rb.registry.MovesOf(attacker)
	best, bestRule := 0, ""
	bestScore, bestPower := -1, -1.0
	for i, m := range moves {
		env := rb.moveEnv(i, m, attacker, defender)
		s, name := score(rb.rules, env)
		if s > bestScore || (s == bestScore && env.ExpectedPower > bestPower) {
			best, bestRule, bestScore, bestPower = i, name, s, env.ExpectedPower
		}
	}
	return moves[best], bestRule
}

func (rb *RuleBased) moveEnv(i int, m game.Move, attacker, defender *game.Creature) MoveEnv {
	eff := 1.0
	targetHP := 0.0
	if defender != nil {
		eff = rb.chart.Effectiveness(m.Type, defender.Types)
		targetHP = hpPercent(defender)
	}
	stab := attacker.HasType(m.Type)
	expected := 0.0
	if m.IsDamaging() {
		expected = float64(m.PowerValue()) * eff
		if stab {
			expected *= 1.5
		}
	}
	return MoveEnv{
		Name:              m.Name,
		Type:              m.Type,
		Class:             string(m.Class),
		Power:             m.PowerValue(),
		Index:             i,
		Damaging:          m.IsDamaging(),
		STAB:              stab,
		Effectiveness:     eff,
		ExpectedPower:     expected,
		TargetHPPercent:   targetHP,
		AttackerHPPercent: hpPercent(attacker),
	}
}

func hpPercent(c *game.Creature) float64 {
	if c == nil || c.MaxHP <= 0 {
		return 0
	}
	return float64(c.Stats.HP) * 100 / float64(c.MaxHP)
}

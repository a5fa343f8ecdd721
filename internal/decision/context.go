package decision

import (
	"github.com/ericogr/creature-arena/internal/game"
)

// Keys of the Context value bag.
const (
	KeyDecisionType      = "decisionType"
	KeyUseFallback       = "useFallback"
	KeyFallbackReason    = "fallbackReason"
	KeyValidationPassed  = "validationPassed"
	KeyAvailableSwitches = "availableSwitches"
	KeyActiveHPPercent   = "activeHpPercent"
	KeyOpponentTypes     = "opponentTypes"
	KeyRawResponse       = "rawResponse"
)

// Fallback reasons.
const (
	ReasonDifficultySkip     = "difficulty_skip"
	ReasonServiceUnavailable = "service_unavailable"
	ReasonServiceTimeout     = "service_timeout"
	ReasonServiceError       = "service_error"
	ReasonParseError         = "parse_error"
	ReasonValidation         = "validation_error"
)

// Context is created for one decision request and threaded through every
// pipeline stage.
type Context struct {
	Battle     *game.Battle
	Actor      game.Participant
	Opponent   game.Participant
	History    []string
	Difficulty string
	Values     map[string]any

	// Decision is the current candidate; nil until obtained.
	Decision *game.Decision
}

func NewContext(view game.BattleView) *Context {
	opp := view.Opponent
	if opp == nil && view.Battle != nil {
		opp = view.Battle.Opponent(view.Self)
	}
	return &Context{
		Battle:     view.Battle,
		Actor:      view.Self,
		Opponent:   opp,
		History:    append([]string(nil), view.History...),
		Difficulty: view.Difficulty,
		Values:     make(map[string]any, 8),
	}
}

func (c *Context) Set(key string, v any) { c.Values[key] = v }

func (c *Context) Bool(key string) bool {
	b, _ := c.Values[key].(bool)
	return b
}

func (c *Context) String(key string) string {
	s, _ := c.Values[key].(string)
	return s
}

func (c *Context) DecisionType() game.DecisionKind {
	if k, ok := c.Values[KeyDecisionType].(game.DecisionKind); ok {
		return k
	}
	return game.DecisionMove
}

// Active is the acting participant's active creature, or nil.
func (c *Context) Active() *game.Creature {
	if c.Actor == nil {
		return nil
	}
	return c.Actor.Active()
}

// Target is the opponent's active creature, or nil.
func (c *Context) Target() *game.Creature {
	if c.Opponent == nil {
		return nil
	}
	return c.Opponent.Active()
}

// fallback records that the rule-based maker supplied the decision.
func (c *Context) fallback(reason string) {
	c.Set(KeyUseFallback, true)
	c.Set(KeyFallbackReason, reason)
}

// switchTargets lists healthy, non-active team members in team order.
func switchTargets(p game.Participant) []*game.Creature {
	if p == nil {
		return nil
	}
	active := p.Active()
	var out []*game.Creature
	for _, c := range p.Team() {
		if c != nil && c != active && !c.Fainted() {
			out = append(out, c)
		}
	}
	return out
}

// mustSwitch reports whether the active creature cannot act.
func mustSwitch(c *game.Creature) bool {
	return c == nil || c.Fainted() || len(c.Moves) == 0
}

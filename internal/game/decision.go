package game

import "fmt"

// DecisionKind tags which variant of a Decision is populated.
type DecisionKind string

const (
	DecisionMove   DecisionKind = "move"
	DecisionSwitch DecisionKind = "switch"
)

// Decision is either "use this move" or "switch to this creature". Build it
// with MoveDecision or SwitchDecision so only one variant is set.
type Decision struct {
	Kind   DecisionKind
	Move   *Move
	Target *Creature
}

func MoveDecision(m Move) Decision {
	return Decision{Kind: DecisionMove, Move: &m}
}

func SwitchDecision(c *Creature) Decision {
	return Decision{Kind: DecisionSwitch, Target: c}
}

func (d Decision) String() string {
	switch d.Kind {
	case DecisionMove:
		if d.Move != nil {
			return fmt.Sprintf("move %q", d.Move.Name)
		}
	case DecisionSwitch:
		if d.Target != nil {
			return fmt.Sprintf("switch to %q", d.Target.Name)
		}
	}
	return string(d.Kind)
}

// DecisionOutcome carries a validated decision plus fallback annotations.
type DecisionOutcome struct {
	Decision       Decision
	UsedFallback   bool
	FallbackReason string
}

// BattleView is what a participant sees when asked for an action.
type BattleView struct {
	Battle     *Battle
	Self       Participant
	Opponent   Participant
	History    []string
	Difficulty string
}

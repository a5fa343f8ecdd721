package decision

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/reasoning"
)

// analyze annotates derived facts. Informational only.
func (p *Pipeline) analyze(_ context.Context, dc *Context) error {
	dc.Set(KeyAvailableSwitches, len(switchTargets(dc.Actor)))
	dc.Set(KeyActiveHPPercent, hpPercent(dc.Active()))
	if t := dc.Target(); t != nil {
		dc.Set(KeyOpponentTypes, append([]string(nil), t.Types...))
	}
	return nil
}

// evaluateOptions forces a switch when the active creature cannot act.
func (p *Pipeline) evaluateOptions(_ context.Context, dc *Context) error {
	kind := game.DecisionMove
	if mustSwitch(dc.Active()) {
		kind = game.DecisionSwitch
	}
	dc.Set(KeyDecisionType, kind)
	return nil
}

// obtainDecision asks the reasoning service, falling back to the rule-based
// maker on a difficulty skip, a service failure or an unparseable reply.
func (p *Pipeline) obtainDecision(ctx context.Context, dc *Context) error {
	const stage = "obtain_decision"
	dc.Set(KeyUseFallback, false)

	if p.client == nil {
		return p.useFallback(ctx, dc, stage, ReasonServiceUnavailable, "")
	}
	prof := p.profile(dc)
	if p.skip(prof.SkipProbability) {
		return p.useFallback(ctx, dc, stage, ReasonDifficultySkip, "")
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	text, err := p.client.Complete(callCtx, systemPrompt(prof, dc.DecisionType()), summarize(dc, p.registry))
	if err != nil {
		reason := ReasonServiceError
		if reasoning.KindOf(err) == reasoning.KindTimeout || errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonServiceTimeout
		}
		return p.useFallback(ctx, dc, stage, reason, err.Error())
	}
	dc.Set(KeyRawResponse, text)

	d, err := ParseDecision(text, dc, p.registry)
	if err != nil {
		return p.useFallback(ctx, dc, stage, ReasonParseError, err.Error())
	}
	dc.Decision = &d
	return nil
}

// validate re-checks the candidate against live state and replaces an
// illegal one with the rule-based decision.
func (p *Pipeline) validate(ctx context.Context, dc *Context) error {
	if err := Validate(dc); err != nil {
		dc.Set(KeyValidationPassed, false)
		return p.useFallback(ctx, dc, "validate", ReasonValidation, err.Error())
	}
	dc.Set(KeyValidationPassed, true)
	return nil
}

// Validate reports why dc.Decision cannot be applied, or nil.
func Validate(dc *Context) error {
	d := dc.Decision
	if d == nil {
		return errors.New("no decision")
	}
	active := dc.Active()
	switch d.Kind {
	case game.DecisionMove:
		if d.Move == nil {
			return errors.New("move decision without a move")
		}
		if dc.DecisionType() == game.DecisionSwitch {
			return errors.New("active creature cannot act; a switch is required")
		}
		if active == nil || !active.HasMove(d.Move.Name) {
			return fmt.Errorf("move %q is not known by the active creature", d.Move.Name)
		}
	case game.DecisionSwitch:
		t := d.Target
		switch {
		case t == nil:
			return errors.New("switch target missing")
		case t == active:
			return fmt.Errorf("%s is already active", t.Name)
		case t.Fainted():
			return fmt.Errorf("%s has fainted", t.Name)
		case !game.InTeam(dc.Actor, t):
			return fmt.Errorf("%s is not in the team", t.Name)
		}
	default:
		return fmt.Errorf("unknown decision kind %q", d.Kind)
	}
	return nil
}

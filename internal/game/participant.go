package game

import (
	"context"
	"errors"
	"sync"
)

// Controller identifies who picks a participant's actions.
type Controller string

const (
	ControllerHuman Controller = "human"
	ControllerAI    Controller = "ai"
)

var ErrNoPendingAction = errors.New("no pending action queued")

// Participant is one side of a battle. Implementations differ only in how
// they choose actions.
type Participant interface {
	Name() string
	Controller() Controller
	Active() *Creature
	Team() []*Creature
	// SwitchTo sets the active creature. Legality is checked by callers.
	SwitchTo(c *Creature)
	ChooseAction(ctx context.Context, view BattleView) (DecisionOutcome, error)
}

// Decider produces an action for an AI participant.
type Decider interface {
	Decide(ctx context.Context, view BattleView) (DecisionOutcome, error)
}

type roster struct {
	name   string
	team   []*Creature
	active *Creature
}

// newRoster clones the team so battle damage stays inside the battle.
func newRoster(name string, team []*Creature) roster {
	r := roster{name: name, team: make([]*Creature, 0, len(team))}
	for _, c := range team {
		if c == nil {
			continue
		}
		r.team = append(r.team, c.Clone())
	}
	for _, c := range r.team {
		if !c.Fainted() {
			r.active = c
			break
		}
	}
	if r.active == nil && len(r.team) > 0 {
		r.active = r.team[0]
	}
	return r
}

func (r *roster) Name() string         { return r.name }
func (r *roster) Active() *Creature    { return r.active }
func (r *roster) Team() []*Creature    { return r.team }
func (r *roster) SwitchTo(c *Creature) { r.active = c }

// HumanParticipant returns whatever action the caller queued last.
type HumanParticipant struct {
	roster
	mu      sync.Mutex
	pending *Decision
}

func NewHumanParticipant(name string, team []*Creature) *HumanParticipant {
	return &HumanParticipant{roster: newRoster(name, team)}
}

func (h *HumanParticipant) Controller() Controller { return ControllerHuman }

// Queue stores the action returned by the next ChooseAction call.
func (h *HumanParticipant) Queue(d Decision) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = &d
}

// HasPending reports whether an action is queued.
func (h *HumanParticipant) HasPending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}

func (h *HumanParticipant) ChooseAction(_ context.Context, _ BattleView) (DecisionOutcome, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return DecisionOutcome{}, ErrNoPendingAction
	}
	d := *h.pending
	h.pending = nil
	return DecisionOutcome{Decision: d}, nil
}

// AIParticipant delegates to a Decider, typically the decision pipeline.
type AIParticipant struct {
	roster
	decider    Decider
	difficulty string
}

func NewAIParticipant(name string, team []*Creature, decider Decider, difficulty string) *AIParticipant {
	return &AIParticipant{roster: newRoster(name, team), decider: decider, difficulty: difficulty}
}

func (a *AIParticipant) Controller() Controller { return ControllerAI }

func (a *AIParticipant) Difficulty() string { return a.difficulty }

func (a *AIParticipant) ChooseAction(ctx context.Context, view BattleView) (DecisionOutcome, error) {
	view.Self = a
	if view.Difficulty == "" {
		view.Difficulty = a.difficulty
	}
	return a.decider.Decide(ctx, view)
}

// HasHealthy reports whether p has at least one non-fainted creature.
func HasHealthy(p Participant) bool {
	return FirstHealthy(p, nil) != nil
}

// FirstHealthy returns the first non-fainted team member in team order,
// skipping exclude.
func FirstHealthy(p Participant, exclude *Creature) *Creature {
	if p == nil {
		return nil
	}
	for _, c := range p.Team() {
		if c == nil || c == exclude || c.Fainted() {
			continue
		}
		return c
	}
	return nil
}

// InTeam reports whether c is one of p's own creatures.
func InTeam(p Participant, c *Creature) bool {
	if p == nil || c == nil {
		return false
	}
	for _, m := range p.Team() {
		if m == c {
			return true
		}
	}
	return false
}

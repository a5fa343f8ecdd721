// Package session runs a single battle: it asks participants for actions,
// resolves them and decides when the battle is over.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/decision"
	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/logging"
	"github.com/ericogr/creature-arena/internal/registry"
)

var (
	ErrBattleCompleted  = errors.New("battle is completed")
	ErrBattleNotStarted = errors.New("battle has not started")
	ErrIllegalMove      = errors.New("illegal move")
	ErrIllegalSwitch    = errors.New("illegal switch")
	ErrNoHuman          = errors.New("battle has no human participant")
	ErrNotParticipant   = errors.New("not a participant of this battle")
)

// TurnRecorder receives every turn result, e.g. to persist it.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, result *game.TurnResult) error
}

// RewardHook is called exactly once when a battle completes.
type RewardHook interface {
	OnBattleEnd(ctx context.Context, b *game.Battle) error
}

// PlayerAction is a human request: a move by index into the active
// creature's moves, or a switch by index into the team.
type PlayerAction struct {
	Action game.DecisionKind `json:"action"`
	Index  int               `json:"index"`
}

type Options struct {
	Registry    *registry.Registry
	Resolver    *engine.TurnResolver
	HistorySize int
	Recorder    TurnRecorder
	Hook        RewardHook
}

// Session owns one battle. All methods are safe for concurrent use; calls
// are serialized.
type Session struct {
	mu          sync.Mutex
	battle      *game.Battle
	registry    *registry.Registry
	resolver    *engine.TurnResolver
	recorder    TurnRecorder
	hook        RewardHook
	historySize int
	history     []string
	turn        int
	rewarded    bool
	lastActive  time.Time
}

func New(b *game.Battle, opts Options) (*Session, error) {
	if b == nil || b.Participants[0] == nil || b.Participants[1] == nil {
		return nil, errors.New("session requires a battle with two participants")
	}
	if opts.Registry == nil || opts.Resolver == nil {
		return nil, errors.New("session requires a registry and a turn resolver")
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = constants.DefaultHistorySize
	}
	return &Session{
		battle:      b,
		registry:    opts.Registry,
		resolver:    opts.Resolver,
		recorder:    opts.Recorder,
		hook:        opts.Hook,
		historySize: opts.HistorySize,
		lastActive:  time.Now(),
	}, nil
}

func (s *Session) ID() string { return s.battle.ID }

// Battle returns the underlying battle. Callers must not mutate it.
func (s *Session) Battle() *game.Battle { return s.battle }

func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// History returns the most recent turn narratives, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// LastActive is the time of the last start or played round.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Snapshot describes the current battle state without a narrative.
func (s *Session) Snapshot() *game.TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.NewTurnResult(s.battle, s.turn, "", nil)
}

// Start moves the battle to IN_PROGRESS. It is a no-op otherwise.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.battle.Start() {
		return false
	}
	s.lastActive = time.Now()
	logging.Info("battle started", s.fields(nil))
	return true
}

// End completes the battle with winner and fires the reward hook. Ending a
// completed battle does nothing; winner must take part in the battle.
func (s *Session) End(ctx context.Context, winner game.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle.Status == game.StatusCompleted {
		return nil
	}
	if !s.battle.Has(winner) {
		return ErrNotParticipant
	}
	s.complete(winner)
	s.reward(ctx)
	return nil
}

// Forfeit ends an in-progress battle in favour of loser's opponent and
// records it as a final turn.
func (s *Session) Forfeit(ctx context.Context, loser game.Participant) (*game.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playable(); err != nil {
		return nil, err
	}
	winner := s.battle.Opponent(loser)
	if winner == nil {
		return nil, ErrNotParticipant
	}
	s.turn++
	s.complete(winner)
	return s.finishRound(ctx, fmt.Sprintf("%s forfeited.", loser.Name()), nil), nil
}

// PlayRound lets each participant act once, in order.
func (s *Session) PlayRound(ctx context.Context) (*game.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playable(); err != nil {
		return nil, err
	}
	return s.playRound(ctx)
}

// PlayTurn validates and queues the human's action, then plays the round.
// An illegal request leaves the battle untouched.
func (s *Session) PlayTurn(ctx context.Context, action PlayerAction) (*game.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.playable(); err != nil {
		return nil, err
	}
	human := s.human()
	if human == nil {
		return nil, ErrNoHuman
	}
	if !canAct(human) {
		return s.concede(ctx, human), nil
	}
	d, err := s.playerDecision(human, action)
	if err != nil {
		return nil, err
	}
	human.Queue(d)
	return s.playRound(ctx)
}

func (s *Session) playable() error {
	switch s.battle.Status {
	case game.StatusPending:
		return ErrBattleNotStarted
	case game.StatusCompleted:
		return ErrBattleCompleted
	}
	return nil
}

func (s *Session) human() *game.HumanParticipant {
	for _, p := range s.battle.Participants {
		if h, ok := p.(*game.HumanParticipant); ok {
			return h
		}
	}
	return nil
}

func (s *Session) playerDecision(h *game.HumanParticipant, a PlayerAction) (game.Decision, error) {
	active := h.Active()
	switch a.Action {
	case game.DecisionMove:
		if active == nil || active.Fainted() {
			return game.Decision{}, fmt.Errorf("%w: no creature able to act", ErrIllegalMove)
		}
		if a.Index < 0 || a.Index >= len(active.Moves) {
			return game.Decision{}, fmt.Errorf("%w: move index %d out of range", ErrIllegalMove, a.Index)
		}
		return game.MoveDecision(s.registry.MoveOrSynthetic(active.Moves[a.Index])), nil
	case game.DecisionSwitch:
		team := h.Team()
		if a.Index < 0 || a.Index >= len(team) {
			return game.Decision{}, fmt.Errorf("%w: team index %d out of range", ErrIllegalSwitch, a.Index)
		}
		target := team[a.Index]
		if target == active {
			return game.Decision{}, fmt.Errorf("%w: %s is already active", ErrIllegalSwitch, target.Name)
		}
		if target.Fainted() {
			return game.Decision{}, fmt.Errorf("%w: %s has fainted", ErrIllegalSwitch, target.Name)
		}
		return game.SwitchDecision(target), nil
	}
	return game.Decision{}, fmt.Errorf("%w: unknown action %q", ErrIllegalMove, a.Action)
}

func (s *Session) playRound(ctx context.Context) (*game.TurnResult, error) {
	for _, p := range s.battle.Participants {
		h, ok := p.(*game.HumanParticipant)
		if !ok {
			continue
		}
		if !canAct(h) {
			return s.concede(ctx, h), nil
		}
		if !h.HasPending() {
			return nil, fmt.Errorf("%s: %w", h.Name(), game.ErrNoPendingAction)
		}
	}

	s.turn++
	var narrative []string
	var switches []game.SwitchNotice
	for _, actor := range s.battle.Participants {
		if s.battle.Status == game.StatusCompleted {
			break
		}
		opp := s.battle.Opponent(actor)
		out, err := actor.ChooseAction(ctx, game.BattleView{
			Battle:   s.battle,
			Self:     actor,
			Opponent: opp,
			History:  append([]string(nil), s.history...),
		})
		if errors.Is(err, decision.ErrNoLegalAction) {
			narrative = append(narrative, noCreatureLine(actor))
			s.complete(opp)
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s failed to choose an action: %w", actor.Name(), err)
		}
		if out.UsedFallback {
			logging.Debug("fallback decision used", s.fields(logging.Fields{
				constants.LogFieldParticipant: actor.Name(),
				constants.LogFieldReason:      out.FallbackReason,
			}))
		}

		o := s.resolve(actor, opp, out.Decision)
		narrative = append(narrative, o.Narrative)
		switches = append(switches, o.Switches...)
		s.checkTermination()
	}

	return s.finishRound(ctx, strings.Join(narrative, "\n"), switches), nil
}

// canAct reports whether p has any legal action: a move for a healthy active
// creature that knows one, or a switch to a healthy bench member.
func canAct(p game.Participant) bool {
	active := p.Active()
	if active != nil && !active.Fainted() && len(active.Moves) > 0 {
		return true
	}
	return game.FirstHealthy(p, active) != nil
}

// concede ends the battle for a participant left without a legal action.
func (s *Session) concede(ctx context.Context, p game.Participant) *game.TurnResult {
	s.turn++
	s.complete(s.battle.Opponent(p))
	return s.finishRound(ctx, noCreatureLine(p), nil)
}

func noCreatureLine(p game.Participant) string {
	return fmt.Sprintf("%s has no creature able to fight.", p.Name())
}

// finishRound builds, remembers and records the turn result.
func (s *Session) finishRound(ctx context.Context, text string, switches []game.SwitchNotice) *game.TurnResult {
	s.lastActive = time.Now()
	s.remember(text)
	result := game.NewTurnResult(s.battle, s.turn, text, switches)
	if s.recorder != nil {
		if err := s.recorder.RecordTurn(ctx, result); err != nil {
			logging.Error("failed to record turn", err, s.fields(nil))
		}
	}
	s.reward(ctx)
	return result
}

func (s *Session) resolve(actor, opp game.Participant, d game.Decision) engine.TurnOutcome {
	if d.Kind == game.DecisionSwitch && d.Target != nil {
		return s.resolver.SwitchTurn(actor, actor.Active(), d.Target)
	}
	if d.Move == nil {
		return engine.TurnOutcome{Narrative: fmt.Sprintf("%s hesitated.", actor.Name())}
	}
	return s.resolver.MoveTurn(actor, *d.Move, opp)
}

// checkTermination completes the battle once a side has nothing left.
func (s *Session) checkTermination() {
	for _, p := range s.battle.Participants {
		if !game.HasHealthy(p) {
			s.complete(s.battle.Opponent(p))
			return
		}
	}
}

func (s *Session) complete(winner game.Participant) {
	if s.battle.Complete(winner) {
		logging.Info("battle completed", s.fields(logging.Fields{
			constants.LogFieldWinner: s.battle.WinnerName(),
		}))
	}
}

// reward fires the hook once for a completed battle.
func (s *Session) reward(ctx context.Context) {
	if s.battle.Status != game.StatusCompleted || s.rewarded {
		return
	}
	s.rewarded = true
	if s.hook == nil {
		return
	}
	if err := s.hook.OnBattleEnd(ctx, s.battle); err != nil {
		logging.Error("battle end hook failed", err, s.fields(nil))
	}
}

func (s *Session) remember(text string) {
	s.history = append(s.history, text)
	if over := len(s.history) - s.historySize; over > 0 {
		s.history = append([]string(nil), s.history[over:]...)
	}
}

func (s *Session) fields(extra logging.Fields) logging.Fields {
	f := logging.Fields{
		constants.LogFieldBattleID: s.battle.ID,
		constants.LogFieldTurn:     s.turn,
		constants.LogFieldStatus:   string(s.battle.Status),
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

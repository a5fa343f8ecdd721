package decision

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/reasoning"
)

func TestPipeline_StageOrder(t *testing.T) {
	f := newFixture(t)
	p := newPipeline(t, f.reg, nil, 0)

	var names []string
	for _, s := range p.Stages() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"analyze", "evaluate_options", "obtain_decision", "validate"}, names)
}

func TestPipeline_NoClientFallsBack(t *testing.T) {
	f := newFixture(t)
	p := newPipeline(t, f.reg, nil, 0)

	out, err := p.Decide(context.Background(), f.view())
	require.NoError(t, err)
	assert.True(t, out.UsedFallback)
	assert.Equal(t, ReasonServiceUnavailable, out.FallbackReason)
	require.Equal(t, game.DecisionMove, out.Decision.Kind)
	assert.Equal(t, "thunderbolt", out.Decision.Move.Name)
}

func TestPipeline_ServiceDecisionAccepted(t *testing.T) {
	f := newFixture(t)
	client := &fakeClient{reply: "MOVE: Thunderbolt"}
	p := newPipeline(t, f.reg, client, time.Second)

	dc := f.context()
	out, err := p.Run(context.Background(), dc)
	require.NoError(t, err)
	assert.False(t, out.UsedFallback)
	assert.Empty(t, out.FallbackReason)
	assert.Equal(t, "thunderbolt", out.Decision.Move.Name)
	assert.True(t, dc.Bool(KeyValidationPassed))
	assert.Equal(t, 2, dc.Values[KeyAvailableSwitches])
	assert.Equal(t, []string{"water"}, dc.Values[KeyOpponentTypes])

	assert.Equal(t, 1, client.Calls())
	assert.Contains(t, client.lastSystem, "a competent trainer")
	assert.Contains(t, client.lastUser, "Decision required: MOVE or SWITCH")
	assert.Contains(t, client.lastUser, "thunderbolt (electric, special, power 90)")
	assert.Contains(t, client.lastUser, "Opponent active creature: squirtle")
}

func TestPipeline_ServiceSwitchAccepted(t *testing.T) {
	f := newFixture(t)
	p := newPipeline(t, f.reg, &fakeClient{reply: `{"action": "switch", "name": "Squirtle"}`}, time.Second)

	out, err := p.Decide(context.Background(), f.view())
	require.NoError(t, err)
	assert.False(t, out.UsedFallback)
	require.Equal(t, game.DecisionSwitch, out.Decision.Kind)
	assert.Same(t, f.ai.Team()[1], out.Decision.Target)
}

func TestPipeline_TimeoutsFallBackEveryTime(t *testing.T) {
	f := newFixture(t)
	client := &fakeClient{block: true}
	p := newPipeline(t, f.reg, client, 20*time.Millisecond)

	for i := 0; i < 3; i++ {
		dc := f.context()
		out, err := p.Run(context.Background(), dc)
		require.NoError(t, err)
		assert.True(t, out.UsedFallback)
		assert.True(t, strings.HasPrefix(out.FallbackReason, ReasonServiceTimeout), out.FallbackReason)
		assert.NoError(t, Validate(dc))
	}
	assert.Equal(t, 3, client.Calls())
}

func TestPipeline_ServiceErrorFallsBack(t *testing.T) {
	f := newFixture(t)
	client := &fakeClient{err: &reasoning.ServiceError{Kind: reasoning.KindResponse, Status: 500, Err: errors.New("upstream failure")}}
	p := newPipeline(t, f.reg, client, time.Second)

	out, err := p.Decide(context.Background(), f.view())
	require.NoError(t, err)
	assert.True(t, out.UsedFallback)
	assert.True(t, strings.HasPrefix(out.FallbackReason, ReasonServiceError), out.FallbackReason)
}

func TestPipeline_UnparseableReplyFallsBack(t *testing.T) {
	f := newFixture(t)
	p := newPipeline(t, f.reg, &fakeClient{reply: "I would attack with everything I have"}, time.Second)

	out, err := p.Decide(context.Background(), f.view())
	require.NoError(t, err)
	assert.True(t, out.UsedFallback)
	assert.True(t, strings.HasPrefix(out.FallbackReason, ReasonParseError), out.FallbackReason)
}

func TestPipeline_UnknownMoveReplaced(t *testing.T) {
	f := newFixture(t)
	p := newPipeline(t, f.reg, &fakeClient{reply: "MOVE: hyper-beam"}, time.Second)

	dc := f.context()
	out, err := p.Run(context.Background(), dc)
	require.NoError(t, err)
	assert.True(t, out.UsedFallback)
	assert.True(t, strings.HasPrefix(out.FallbackReason, ReasonValidation), out.FallbackReason)
	assert.False(t, dc.Bool(KeyValidationPassed))
	require.Equal(t, game.DecisionMove, out.Decision.Kind)
	assert.True(t, f.ai.Active().HasMove(out.Decision.Move.Name))
}

func TestPipeline_IllegalSwitchReplaced(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "already active", reply: "SWITCH: pikachu"},
		{name: "fainted", reply: "SWITCH: bulbasaur"},
		{name: "not in team", reply: "SWITCH: diglett"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			bench := f.ai.Team()[2]
			bench.ApplyDamage(bench.MaxHP)
			p := newPipeline(t, f.reg, &fakeClient{reply: tt.reply}, time.Second)

			out, err := p.Decide(context.Background(), f.view())
			require.NoError(t, err)
			assert.True(t, out.UsedFallback)
			assert.True(t, strings.HasPrefix(out.FallbackReason, ReasonValidation), out.FallbackReason)
			assert.Equal(t, game.DecisionMove, out.Decision.Kind)
		})
	}
}

func TestPipeline_ForcedSwitchWhenActiveFainted(t *testing.T) {
	f := newFixture(t)
	active := f.ai.Active()
	active.ApplyDamage(active.MaxHP)
	client := &fakeClient{reply: "MOVE: thunderbolt"}
	p := newPipeline(t, f.reg, client, time.Second)

	out, err := p.Decide(context.Background(), f.view())
	require.NoError(t, err)
	assert.True(t, out.UsedFallback)
	require.Equal(t, game.DecisionSwitch, out.Decision.Kind)
	assert.Same(t, f.ai.Team()[1], out.Decision.Target)
	assert.Contains(t, client.lastUser, "Decision required: SWITCH")
}

func TestPipeline_NoLegalAction(t *testing.T) {
	f := newFixture(t)
	for _, c := range f.ai.Team() {
		c.ApplyDamage(c.MaxHP)
	}
	p := newPipeline(t, f.reg, nil, 0)

	_, err := p.Decide(context.Background(), f.view())
	assert.ErrorIs(t, err, ErrNoLegalAction)
}

func TestPipeline_DifficultySkip(t *testing.T) {
	f := newFixture(t)
	client := &fakeClient{reply: "MOVE: tackle"}
	p := newPipeline(t, f.reg, client, time.Second)

	view := f.view()
	view.Difficulty = "EASY"
	for i := 0; i < 5; i++ {
		out, err := p.Decide(context.Background(), view)
		require.NoError(t, err)
		assert.True(t, out.UsedFallback)
		assert.Equal(t, ReasonDifficultySkip, out.FallbackReason)
	}
	assert.Zero(t, client.Calls())

	view.Difficulty = "hard"
	out, err := p.Decide(context.Background(), view)
	require.NoError(t, err)
	assert.False(t, out.UsedFallback)
	assert.Equal(t, "tackle", out.Decision.Move.Name)
	assert.Equal(t, 1, client.Calls())
}

func TestPipeline_UnknownDifficultyUsesDefault(t *testing.T) {
	f := newFixture(t)
	p := newPipeline(t, f.reg, nil, 0)
	dc := f.context()
	dc.Difficulty = "nightmare"
	assert.Equal(t, "normal", p.difficulty(dc))
}

func TestPipeline_AsAIParticipantDecider(t *testing.T) {
	reg := testRegistry(t)
	p := newPipeline(t, reg, &fakeClient{reply: "MOVE: surf"}, time.Second)
	ai := game.NewAIParticipant("Rival", []*game.Creature{creature(t, reg, "squirtle")}, p, "hard")
	human := game.NewHumanParticipant("Ash", []*game.Creature{creature(t, reg, "bulbasaur")})
	b := game.NewBattle(human, ai)
	b.Start()

	out, err := ai.ChooseAction(context.Background(), game.BattleView{Battle: b, Opponent: human})
	require.NoError(t, err)
	assert.False(t, out.UsedFallback)
	assert.Equal(t, "surf", out.Decision.Move.Name)
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	team := f.ai.Team()
	team[2].ApplyDamage(team[2].MaxHP)
	tackle, _ := f.reg.FindMoveByName("tackle")
	surf, _ := f.reg.FindMoveByName("surf")

	tests := []struct {
		name     string
		decision game.Decision
		forced   bool
		wantErr  string
	}{
		{name: "known move", decision: game.MoveDecision(tackle)},
		{name: "unknown move", decision: game.MoveDecision(surf), wantErr: "not known"},
		{name: "move while switch required", decision: game.MoveDecision(tackle), forced: true, wantErr: "switch is required"},
		{name: "valid switch", decision: game.SwitchDecision(team[1])},
		{name: "switch to active", decision: game.SwitchDecision(team[0]), wantErr: "already active"},
		{name: "switch to fainted", decision: game.SwitchDecision(team[2]), wantErr: "fainted"},
		{name: "switch to opponent creature", decision: game.SwitchDecision(f.human.Active()), wantErr: "not in the team"},
		{name: "switch without target", decision: game.SwitchDecision(nil), wantErr: "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := withDecision(f.context(), tt.decision)
			if tt.forced {
				dc.Set(KeyDecisionType, game.DecisionSwitch)
			}
			err := Validate(dc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

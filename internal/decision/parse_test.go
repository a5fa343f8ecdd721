package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/creature-arena/internal/game"
)

func TestParseDecision(t *testing.T) {
	f := newFixture(t)
	dc := f.context()

	tests := []struct {
		name     string
		text     string
		kind     game.DecisionKind
		wantName string
	}{
		{name: "move line", text: "MOVE: thunderbolt", kind: game.DecisionMove, wantName: "thunderbolt"},
		{name: "lowercase with reasoning", text: "Water resists nothing here.\nmove - Quick Attack.", kind: game.DecisionMove, wantName: "quick-attack"},
		{name: "bold markdown", text: "**SWITCH**: Squirtle", kind: game.DecisionSwitch, wantName: "squirtle"},
		{name: "code fence", text: "```\nSWITCH: bulbasaur\n```", kind: game.DecisionSwitch, wantName: "bulbasaur"},
		{name: "json", text: `{"action": "MOVE", "name": "growl"}`, kind: game.DecisionMove, wantName: "growl"},
		{name: "json in prose", text: `Here you go: {"action":"switch","name":"squirtle"} good luck`, kind: game.DecisionSwitch, wantName: "squirtle"},
		{name: "unknown move kept", text: "MOVE: hyper-beam", kind: game.DecisionMove, wantName: "hyper-beam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDecision(tt.text, dc, f.reg)
			require.NoError(t, err)
			require.Equal(t, tt.kind, d.Kind)
			if tt.kind == game.DecisionMove {
				assert.Equal(t, tt.wantName, d.Move.Name)
				return
			}
			require.NotNil(t, d.Target)
			assert.Equal(t, tt.wantName, d.Target.Name)
		})
	}
}

func TestParseDecision_QuickAttackResolvesToCatalog(t *testing.T) {
	f := newFixture(t)
	d, err := ParseDecision("MOVE: Quick Attack", f.context(), f.reg)
	require.NoError(t, err)
	require.NotNil(t, d.Move.Power)
	assert.Equal(t, 40, *d.Move.Power)
	assert.True(t, f.ai.Active().HasMove(d.Move.Name))
}

func TestParseDecision_Rejects(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"", "attack!", `{"action": ""}`, "MOVE:", `{"action": "run", "name": "away"}`} {
		_, err := ParseDecision(text, f.context(), f.reg)
		assert.ErrorIs(t, err, ErrUnparseable, text)
	}
}

func TestParseDecision_SwitchToStranger(t *testing.T) {
	f := newFixture(t)
	d, err := ParseDecision("SWITCH: diglett", f.context(), f.reg)
	require.NoError(t, err)
	assert.Equal(t, game.DecisionSwitch, d.Kind)
	assert.Nil(t, d.Target)
}

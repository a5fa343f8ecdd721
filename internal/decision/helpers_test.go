package decision

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/reasoning"
	"github.com/ericogr/creature-arena/internal/registry"
)

const catalog = `{
  "moves": [
    {"name": "tackle", "type": "normal", "damage_class": "physical", "power": 40},
    {"name": "growl", "type": "normal", "damage_class": "status"},
    {"name": "thunderbolt", "type": "electric", "damage_class": "special", "power": 90},
    {"name": "quick-attack", "type": "normal", "damage_class": "physical", "power": 40},
    {"name": "surf", "type": "water", "damage_class": "special", "power": 90},
    {"name": "vine-whip", "type": "grass", "damage_class": "physical", "power": 45},
    {"name": "earthquake", "type": "ground", "damage_class": "physical", "power": 100}
  ],
  "species": [
    {"id": 25, "name": "pikachu", "types": ["electric"],
     "base_stats": {"hp": 35, "attack": 55, "defense": 40, "special_attack": 50, "special_defense": 50, "speed": 90},
     "learnset": ["growl", "tackle", "quick-attack", "thunderbolt"]},
    {"id": 7, "name": "squirtle", "types": ["water"],
     "base_stats": {"hp": 44, "attack": 48, "defense": 65, "special_attack": 50, "special_defense": 64, "speed": 43},
     "learnset": ["tackle", "surf"]},
    {"id": 1, "name": "bulbasaur", "types": ["grass"],
     "base_stats": {"hp": 45, "attack": 49, "defense": 49, "special_attack": 65, "special_defense": 65, "speed": 45},
     "learnset": ["tackle", "vine-whip"]},
    {"id": 50, "name": "diglett", "types": ["ground"],
     "base_stats": {"hp": 10, "attack": 55, "defense": 25, "special_attack": 35, "special_defense": 45, "speed": 95},
     "learnset": ["earthquake"]}
  ]
}`

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.Parse(strings.NewReader(catalog))
	require.NoError(t, err)
	return r
}

func creature(t *testing.T, reg *registry.Registry, species string) *game.Creature {
	t.Helper()
	c, err := reg.NewCreature(species, nil)
	require.NoError(t, err)
	return c
}

// fixture is an AI team (pikachu, squirtle, bulbasaur) facing a squirtle.
type fixture struct {
	reg    *registry.Registry
	ai     *game.AIParticipant
	human  *game.HumanParticipant
	battle *game.Battle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := testRegistry(t)
	ai := game.NewAIParticipant("Rival", []*game.Creature{
		creature(t, reg, "pikachu"),
		creature(t, reg, "squirtle"),
		creature(t, reg, "bulbasaur"),
	}, nil, "hard")
	human := game.NewHumanParticipant("Ash", []*game.Creature{creature(t, reg, "squirtle")})
	b := game.NewBattle(human, ai)
	b.Start()
	return &fixture{reg: reg, ai: ai, human: human, battle: b}
}

func (f *fixture) view() game.BattleView {
	return game.BattleView{Battle: f.battle, Self: f.ai, Opponent: f.human, Difficulty: "hard"}
}

func (f *fixture) context() *Context { return NewContext(f.view()) }

func newRuleBased(t *testing.T, reg *registry.Registry) *RuleBased {
	t.Helper()
	rb, err := NewRuleBased(reg, engine.NewTypeChart(), nil)
	require.NoError(t, err)
	return rb
}

var testProfiles = map[string]Profile{
	"easy":   {SkipProbability: 1},
	"normal": {SkipProbability: 0.5},
	"hard":   {SkipProbability: 0},
}

func newPipeline(t *testing.T, reg *registry.Registry, client reasoning.Completer, timeout time.Duration) *Pipeline {
	t.Helper()
	p, err := NewPipeline(Options{
		Registry:          reg,
		Fallback:          newRuleBased(t, reg),
		Client:            client,
		Timeout:           timeout,
		Profiles:          testProfiles,
		DefaultDifficulty: "normal",
		Rand:              rand.New(rand.NewSource(1)),
		Meter:             noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)
	return p
}

// fakeClient returns a canned reply, or blocks until the call times out.
type fakeClient struct {
	mu         sync.Mutex
	calls      int
	reply      string
	err        error
	block      bool
	lastSystem string
	lastUser   string
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastSystem, f.lastUser = system, user
	block, reply, err := f.block, f.reply, f.err
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", &reasoning.ServiceError{Kind: reasoning.KindTimeout, Err: ctx.Err()}
	}
	return reply, err
}

func (f *fakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Package bootstrap builds the decision stack from configuration. It is
// shared by the server and the command-line simulator.
package bootstrap

import (
	"context"
	"math/rand"
	"time"

	"github.com/ericogr/creature-arena/internal/config"
	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/decision"
	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/logging"
	"github.com/ericogr/creature-arena/internal/reasoning"
	"github.com/ericogr/creature-arena/internal/registry"
)

// ReasoningClient returns nil when the service is disabled or has no
// credentials; every decision then comes from the rule-based maker.
func ReasoningClient(ctx context.Context, cfg config.ReasoningConfig) reasoning.Completer {
	if !cfg.Enabled {
		logging.Info("reasoning service disabled; using rule-based decisions", nil)
		return nil
	}
	ts, err := reasoning.TokenSource(ctx, cfg.Auth, cfg.APIKeyEnv)
	if err != nil {
		logging.Warn("reasoning credentials unavailable; using rule-based decisions", logging.Fields{"error": err.Error()})
		return nil
	}
	logging.Info("reasoning service enabled", logging.Fields{constants.LogFieldModel: cfg.Model})
	return reasoning.New(reasoning.Options{
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		MaxTokens:   cfg.MaxTokens,
		TokenSource: ts,
	})
}

func Profiles(cfg *config.Config) map[string]decision.Profile {
	out := make(map[string]decision.Profile, len(cfg.Difficulty.Profiles))
	for name, p := range cfg.Difficulty.Profiles {
		out[name] = decision.Profile{SkipProbability: p.SkipProbability, Persona: p.Persona}
	}
	return out
}

// Rules converts configured fallback rules; none means the defaults.
func Rules(cfg *config.Config) []decision.Rule {
	out := make([]decision.Rule, 0, len(cfg.Fallback.Rules))
	for _, r := range cfg.Fallback.Rules {
		out = append(out, decision.Rule{Name: r.Name, Priority: r.Priority, Condition: r.Condition})
	}
	return out
}

// Resolver builds a turn resolver over chart. Pass the same chart to
// Pipeline so damage and the fallback agree on matchups.
func Resolver(chart *engine.TypeChart, rng *rand.Rand) *engine.TurnResolver {
	return engine.NewTurnResolver(engine.NewDamageCalculator(chart, rng))
}

// Pipeline wires the rule-based fallback, the optional reasoning client and
// the difficulty profiles into a decision pipeline.
func Pipeline(ctx context.Context, cfg *config.Config, reg *registry.Registry, chart *engine.TypeChart, rng *rand.Rand) (*decision.Pipeline, error) {
	fallback, err := decision.NewRuleBased(reg, chart, Rules(cfg))
	if err != nil {
		return nil, err
	}
	client := ReasoningClient(ctx, cfg.Reasoning)
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return decision.NewPipeline(decision.Options{
		Registry:          reg,
		Fallback:          fallback,
		Client:            client,
		Timeout:           cfg.Reasoning.Timeout,
		Profiles:          Profiles(cfg),
		DefaultDifficulty: cfg.Difficulty.Default,
		Rand:              rng,
	})
}

// DifficultyNames lists the configured difficulty levels.
func DifficultyNames(cfg *config.Config) []string {
	out := make([]string, 0, len(cfg.Difficulty.Profiles))
	for name := range cfg.Difficulty.Profiles {
		out = append(out, name)
	}
	return out
}

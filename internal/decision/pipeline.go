package decision

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/logging"
	"github.com/ericogr/creature-arena/internal/reasoning"
	"github.com/ericogr/creature-arena/internal/registry"
)

// Profile tunes one difficulty level.
type Profile struct {
	// SkipProbability is the chance of using the rule-based maker without
	// asking the reasoning service. 1 always skips, 0 never does.
	SkipProbability float64
	Persona         string
}

// Stage is one named pipeline step. Stages share and mutate the Context.
type Stage struct {
	Name string
	Run  func(ctx context.Context, dc *Context) error
}

type Options struct {
	Registry *registry.Registry
	Fallback *RuleBased
	// Client is optional; without one every decision falls back.
	Client            reasoning.Completer
	Timeout           time.Duration
	Profiles          map[string]Profile
	DefaultDifficulty string
	Rand              *rand.Rand
	Meter             metric.Meter
}

// Pipeline turns a battle view into a validated decision:
// analyze, evaluate_options, obtain_decision, validate.
type Pipeline struct {
	registry          *registry.Registry
	fallback          *RuleBased
	client            reasoning.Completer
	timeout           time.Duration
	profiles          map[string]Profile
	defaultDifficulty string
	metrics           *metrics
	stages            []Stage

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Registry == nil {
		return nil, errors.New("decision pipeline requires a registry")
	}
	if opts.Fallback == nil {
		return nil, errors.New("decision pipeline requires a fallback decision maker")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultReasoningTimeout
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	profiles := make(map[string]Profile, len(opts.Profiles))
	for name, p := range opts.Profiles {
		profiles[strings.ToLower(name)] = p
	}
	p := &Pipeline{
		registry:          opts.Registry,
		fallback:          opts.Fallback,
		client:            opts.Client,
		timeout:           opts.Timeout,
		profiles:          profiles,
		defaultDifficulty: strings.ToLower(opts.DefaultDifficulty),
		metrics:           newMetrics(opts.Meter),
		rng:               opts.Rand,
	}
	p.stages = []Stage{
		{Name: "analyze", Run: p.analyze},
		{Name: "evaluate_options", Run: p.evaluateOptions},
		{Name: "obtain_decision", Run: p.obtainDecision},
		{Name: "validate", Run: p.validate},
	}
	return p, nil
}

// Stages returns the ordered stage list.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Decide implements game.Decider.
func (p *Pipeline) Decide(ctx context.Context, view game.BattleView) (game.DecisionOutcome, error) {
	return p.Run(ctx, NewContext(view))
}

// Run executes every stage in order. The only error is ErrNoLegalAction;
// service and validation failures are recovered with the fallback maker.
func (p *Pipeline) Run(ctx context.Context, dc *Context) (game.DecisionOutcome, error) {
	p.metrics.request(ctx, p.difficulty(dc))
	for _, s := range p.stages {
		if err := s.Run(ctx, dc); err != nil {
			logging.Error("decision stage failed", err, p.logFields(dc, s.Name))
			return game.DecisionOutcome{}, err
		}
	}
	if dc.Decision == nil {
		return game.DecisionOutcome{}, ErrNoLegalAction
	}
	out := game.DecisionOutcome{
		Decision:       *dc.Decision,
		UsedFallback:   dc.Bool(KeyUseFallback),
		FallbackReason: dc.String(KeyFallbackReason),
	}
	logging.Debug("decision made", p.logFields(dc, "done", logging.Fields{constants.LogFieldDecision: out.Decision.String()}))
	return out, nil
}

// difficulty returns the profile name used for dc.
func (p *Pipeline) difficulty(dc *Context) string {
	d := strings.ToLower(strings.TrimSpace(dc.Difficulty))
	if _, ok := p.profiles[d]; ok {
		return d
	}
	return p.defaultDifficulty
}

func (p *Pipeline) profile(dc *Context) Profile {
	return p.profiles[p.difficulty(dc)]
}

// skip draws against the profile's skip probability.
func (p *Pipeline) skip(prob float64) bool {
	if prob <= 0 {
		return false
	}
	if prob >= 1 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < prob
}

// useFallback replaces the candidate with the rule-based decision for the
// current decision type and records why.
func (p *Pipeline) useFallback(ctx context.Context, dc *Context, stage, reason, detail string) error {
	d, err := p.fallback.Decide(dc, dc.DecisionType() == game.DecisionSwitch)
	if err != nil {
		return err
	}
	dc.Decision = &d
	full := reason
	if detail != "" {
		full = reason + ": " + detail
	}
	dc.fallback(full)
	p.metrics.fallback(ctx, p.difficulty(dc), reason)
	logging.Info("decision fallback", p.logFields(dc, stage, logging.Fields{
		constants.LogFieldReason:   full,
		constants.LogFieldDecision: d.String(),
	}))
	return nil
}

func (p *Pipeline) logFields(dc *Context, stage string, extra ...logging.Fields) logging.Fields {
	f := logging.Fields{
		constants.LogFieldStage:      stage,
		constants.LogFieldDifficulty: p.difficulty(dc),
	}
	if dc.Battle != nil {
		f[constants.LogFieldBattleID] = dc.Battle.ID
	}
	if dc.Actor != nil {
		f[constants.LogFieldParticipant] = dc.Actor.Name()
	}
	for _, e := range extra {
		for k, v := range e {
			f[k] = v
		}
	}
	return f
}

// Command arena-sim runs an AI-versus-AI battle and prints every turn.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/ericogr/creature-arena/internal/bootstrap"
	"github.com/ericogr/creature-arena/internal/config"
	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/logging"
	"github.com/ericogr/creature-arena/internal/registry"
	"github.com/ericogr/creature-arena/internal/session"
	"github.com/ericogr/creature-arena/internal/version"
)

type options struct {
	configDir  string
	first      []string
	second     []string
	difficulty string
	seed       int64
	maxRounds  int
	offline    bool
}

func main() {
	var o options
	fs := pflag.NewFlagSet("arena-sim", pflag.ExitOnError)
	fs.StringVar(&o.configDir, "config-dir", envOr(constants.EnvConfigDir, "."), "directory holding "+constants.ConfigFileName)
	fs.StringSliceVar(&o.first, "first", []string{"pikachu", "bulbasaur"}, "species of the first team")
	fs.StringSliceVar(&o.second, "second", []string{"squirtle", "charmander"}, "species of the second team")
	fs.StringVarP(&o.difficulty, "difficulty", "d", "", "difficulty for both sides (default from config)")
	fs.Int64Var(&o.seed, "seed", time.Now().UnixNano(), "random seed for damage rolls and difficulty skips")
	fs.IntVar(&o.maxRounds, "max-rounds", 200, "stop after this many rounds")
	fs.BoolVar(&o.offline, "offline", false, "never call the reasoning service")
	showVersion := fs.Bool("version", false, "print version and exit")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("arena-sim %s\n", version.Get())
		return
	}
	if err := run(context.Background(), o); err != nil {
		logging.Fatal("simulation failed", err, nil)
	}
}

func run(ctx context.Context, o options) error {
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, cfg.LogLevel)
	if o.offline {
		cfg.Reasoning.Enabled = false
	}
	difficulty := o.difficulty
	if difficulty == "" {
		difficulty = cfg.Difficulty.Default
	}
	if _, ok := cfg.Profile(difficulty); !ok {
		return fmt.Errorf("unknown difficulty '%s'", difficulty)
	}

	reg, err := registry.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(o.seed))
	chart := engine.NewTypeChart()
	pipeline, err := bootstrap.Pipeline(ctx, cfg, reg, chart, rand.New(rand.NewSource(rng.Int63())))
	if err != nil {
		return err
	}
	first, err := team(reg, o.first)
	if err != nil {
		return err
	}
	second, err := team(reg, o.second)
	if err != nil {
		return err
	}

	b := game.NewBattle(
		game.NewAIParticipant("Blue", first, pipeline, difficulty),
		game.NewAIParticipant("Red", second, pipeline, difficulty),
	)
	s, err := session.New(b, session.Options{
		Registry:    reg,
		Resolver:    bootstrap.Resolver(chart, rng),
		HistorySize: cfg.History.Size,
	})
	if err != nil {
		return err
	}
	s.Start()
	for round := 0; round < o.maxRounds && b.Status != game.StatusCompleted; round++ {
		res, err := s.PlayRound(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("--- Turn %d ---\n%s\n", res.Turn, res.Narrative)
	}
	if b.Status != game.StatusCompleted {
		fmt.Printf("No winner after %d rounds.\n", o.maxRounds)
		return nil
	}
	fmt.Printf("%s wins!\n", b.WinnerName())
	return nil
}

func team(reg *registry.Registry, species []string) ([]*game.Creature, error) {
	if len(species) == 0 || len(species) > constants.MaxTeamSize {
		return nil, fmt.Errorf("a team needs between 1 and %d creatures", constants.MaxTeamSize)
	}
	out := make([]*game.Creature, 0, len(species))
	for _, name := range species {
		c, err := reg.NewCreature(strings.TrimSpace(name), nil)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

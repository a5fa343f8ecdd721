package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/creature-arena/internal/api"
	"github.com/ericogr/creature-arena/internal/bootstrap"
	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/logging"
)

func main() {
	configDir := os.Getenv(constants.EnvConfigDir)
	if configDir == "" {
		configDir = "."
	}
	cfg := loadConfigOrExit(configDir)
	logging.Setup(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := loadRegistryOrExit(cfg.Catalog.Path)
	repo := createRepositoryOrExit(cfg)

	chart := engine.NewTypeChart()
	pipeline, err := bootstrap.Pipeline(ctx, cfg, reg, chart, nil)
	if err != nil {
		logging.Fatal("Failed to build decision pipeline", err, nil)
	}
	handler, err := api.NewBattleHandler(api.Options{
		Registry:          reg,
		Decider:           pipeline,
		Resolver:          bootstrap.Resolver(chart, nil),
		Repo:              repo,
		Difficulties:      bootstrap.DifficultyNames(cfg),
		DefaultDifficulty: cfg.Difficulty.Default,
		HistorySize:       cfg.History.Size,
	})
	if err != nil {
		logging.Fatal("Failed to create battle handler", err, nil)
	}

	// Background scanner: forfeit and drop battles nobody played for a while.
	handler.StartExpiryScanner(ctx, time.Minute, cfg.Session.IdleTimeout)

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	runServer(ctx, cfg.Server.Address, router)
}

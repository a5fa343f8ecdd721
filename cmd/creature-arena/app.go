package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ericogr/creature-arena/internal/config"
	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/logging"
	"github.com/ericogr/creature-arena/internal/registry"
	"github.com/ericogr/creature-arena/internal/storage"
)

func loadConfigOrExit(dir string) *config.Config {
	cfg, err := config.Load(dir)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{constants.LogFieldConfigDir: dir})
	}
	return cfg
}

func loadRegistryOrExit(path string) *registry.Registry {
	reg, err := registry.Load(path)
	if err != nil {
		logging.Fatal("Failed to load catalog", err, logging.Fields{"catalog_path": path})
	}
	logging.Info("catalog loaded", logging.Fields{"species": len(reg.SpeciesList())})
	return reg
}

func createRepositoryOrExit(cfg *config.Config) storage.Repository {
	dsn := cfg.Database.DSN
	if cfg.Database.Driver == constants.DriverSQLite {
		dsn = cfg.Database.Path
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			logging.Fatal("Failed to create database directory", err, nil)
		}
	}
	db, err := storage.Open(cfg.Database.Driver, dsn)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewRepository(db)
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, addr string, handler http.Handler) {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", err, nil)
		}
	}()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("server shutdown failed", err, nil)
	}
	logging.Info("Server stopped", nil)
}
